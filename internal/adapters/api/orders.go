package api

import (
	"context"
	"fmt"

	"crm-console/internal/domain"
)

type OrderPage struct {
	Orders      []domain.Order `json:"orders"`
	CurrentPage int            `json:"current_page"`
	Pages       int            `json:"pages"`
}

func (c *Client) ListOrders(ctx context.Context, page, perPage int, filters map[string]string) (*OrderPage, error) {
	var resp OrderPage
	if err := c.get(ctx, "/orders"+listQuery(page, perPage, filters), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOrder returns the full order including its items; the listing
// endpoint omits them.
func (c *Client) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	if err := c.get(ctx, fmt.Sprintf("/orders/%d", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) CreateOrder(ctx context.Context, order *domain.Order) error {
	return c.post(ctx, "/orders", order, nil)
}

func (c *Client) UpdateOrder(ctx context.Context, id int64, order *domain.Order) error {
	return c.put(ctx, fmt.Sprintf("/orders/%d", id), order, nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) error {
	body := struct {
		Status domain.OrderStatus `json:"status"`
	}{Status: status}
	return c.put(ctx, fmt.Sprintf("/orders/%d/status", id), body, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/orders/%d", id))
}
