package api

import (
	"context"

	"crm-console/internal/domain"
)

func (c *Client) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	var resp struct {
		Settings []domain.Setting `json:"settings"`
	}
	if err := c.get(ctx, "/settings", &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}

func (c *Client) GetSetting(ctx context.Context, key string) (*domain.Setting, error) {
	var setting domain.Setting
	if err := c.get(ctx, "/settings/"+key, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (c *Client) UpdateSetting(ctx context.Context, key, value, description string) error {
	body := struct {
		Value       string `json:"value"`
		Description string `json:"description,omitempty"`
	}{Value: value, Description: description}
	return c.put(ctx, "/settings/"+key, body, nil)
}
