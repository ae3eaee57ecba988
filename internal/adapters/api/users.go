package api

import (
	"context"
	"fmt"

	"crm-console/internal/domain"
)

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var resp struct {
		Users []domain.User `json:"users"`
	}
	if err := c.get(ctx, "/users", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// ListEmployees is the slim directory used by the chat and assignment
// pickers.
func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var resp struct {
		Employees []domain.Employee `json:"employees"`
	}
	if err := c.get(ctx, "/users/employees", &resp); err != nil {
		return nil, err
	}
	return resp.Employees, nil
}

type UserInput struct {
	Username string      `json:"username"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email,omitempty"`
	Role     domain.Role `json:"role"`
	Password string      `json:"password,omitempty"`
	IsActive bool        `json:"is_active"`
}

func (c *Client) CreateUser(ctx context.Context, in *UserInput) error {
	return c.post(ctx, "/users", in, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id domain.UserID, in *UserInput) error {
	return c.put(ctx, fmt.Sprintf("/users/%d", id), in, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id domain.UserID) error {
	return c.delete(ctx, fmt.Sprintf("/users/%d", id))
}
