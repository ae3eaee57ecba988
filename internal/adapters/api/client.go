// Package api is the REST transport for the CRM backend. It owns the
// authenticated request cycle: bearer token injection, the forced-logout
// handling of 401 responses, and the backend's error-body convention.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"crm-console/internal/domain"
	"crm-console/internal/observability"
)

// ErrUnauthorized is returned after a 401 has already been handled (token
// cleared, unauthorized hook fired). Callers treat it as "the session is
// gone", never as a per-request failure to recover from.
var ErrUnauthorized = errors.New("api: unauthorized")

// APIError carries a non-2xx response. Message is the backend-provided
// error string when the body had one, or an "HTTP <status>" fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsClientError reports whether the failure is a 4xx business/validation
// error whose message should be shown to the user verbatim.
func IsClientError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  domain.TokenStore

	// onUnauthorized is invoked once per 401 after the token is cleared.
	// The UI installs the forced-logout behavior here.
	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpc = hc }
}

func WithUnauthorizedHook(f func()) Option {
	return func(c *Client) { c.onUnauthorized = f }
}

// SetUnauthorizedHook installs the hook after construction; the UI is
// built after the client, so wiring happens in two steps.
func (c *Client) SetUnauthorizedHook(f func()) {
	c.onUnauthorized = f
}

func NewClient(baseURL string, tokens domain.TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpc:   http.DefaultClient,
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request performs one authenticated JSON call. On 2xx the body is decoded
// into out (out may be nil); 204 returns without touching out; 401 clears
// the token, fires the unauthorized hook and returns ErrUnauthorized.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	reqID := uuid.NewString()
	log := observability.WithFields(logrus.Fields{
		"request_id": reqID,
		"method":     method,
		"endpoint":   endpoint,
	})

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.WithError(err).Error("request failed")
		return fmt.Errorf("api: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		log.Warn("unauthorized, clearing session")
		if err := c.tokens.Clear(); err != nil {
			log.WithError(err).Error("clearing token failed")
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
		var errBody struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		}
		log.WithField("status", resp.StatusCode).Warn("backend error")
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, endpoint, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.Request(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.Request(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, nil)
}

// RequestRaw performs an authenticated call and returns the raw body, used
// for file downloads (CSV export).
func (c *Client) RequestRaw(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("api: build request: %w", err)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api: GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.Clear(); err != nil {
			observability.Logger().WithError(err).Error("clearing token failed")
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return io.ReadAll(resp.Body)
}

// listQuery builds the "?page=N&per_page=M&..." query for listing
// endpoints, skipping empty filter values.
func listQuery(page, perPage int, filters map[string]string) string {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	for k, v := range filters {
		if v != "" {
			params.Set(k, v)
		}
	}
	return "?" + params.Encode()
}
