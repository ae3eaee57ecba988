package api

import (
	"context"
	"errors"

	"crm-console/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

type userEnvelope struct {
	User *domain.User `json:"user"`
}

// Login exchanges credentials for a bearer token and persists it.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	var resp loginResponse
	if err := c.post(ctx, "/auth/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" || resp.User == nil {
		return nil, errors.New("api: login response missing token or user")
	}
	if err := c.tokens.SetToken(resp.AccessToken); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout tells the backend, then clears the local token regardless of the
// outcome.
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/auth/logout", struct{}{}, nil)
	if clearErr := c.tokens.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	var resp userEnvelope
	if err := c.get(ctx, "/auth/me", &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("api: /auth/me returned no user")
	}
	return resp.User, nil
}
