package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"crm-console/internal/domain"
)

func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	params := url.Values{}
	if unreadOnly {
		params.Set("unread_only", "true")
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	endpoint := "/notifications"
	if q := params.Encode(); q != "" {
		endpoint += "?" + q
	}

	var notifications []domain.Notification
	if err := c.get(ctx, endpoint, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// UnreadNotificationCount is the backend-computed badge value; the client
// never derives it locally.
func (c *Client) UnreadNotificationCount(ctx context.Context) (int, error) {
	var resp struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/notifications/count", &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id domain.NotificationID) error {
	return c.put(ctx, fmt.Sprintf("/notifications/%d/read", id), struct{}{}, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.put(ctx, "/notifications/mark-all-read", struct{}{}, nil)
}

func (c *Client) DeleteReadNotifications(ctx context.Context) error {
	return c.delete(ctx, "/notifications/read")
}
