package api

import (
	"context"
	"fmt"

	"crm-console/internal/domain"
)

type CustomerPage struct {
	Customers   []domain.Customer `json:"customers"`
	CurrentPage int               `json:"current_page"`
	Pages       int               `json:"pages"`
}

func (c *Client) ListCustomers(ctx context.Context, page, perPage int, filters map[string]string) (*CustomerPage, error) {
	var resp CustomerPage
	if err := c.get(ctx, "/customers"+listQuery(page, perPage, filters), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	var customer domain.Customer
	if err := c.get(ctx, fmt.Sprintf("/customers/%d", id), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (c *Client) CreateCustomer(ctx context.Context, customer *domain.Customer) error {
	return c.post(ctx, "/customers", customer, nil)
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, customer *domain.Customer) error {
	return c.put(ctx, fmt.Sprintf("/customers/%d", id), customer, nil)
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/customers/%d", id))
}

// CustomerOrders is the nested sub-resource backing the "orders" action on
// a customer row.
func (c *Client) CustomerOrders(ctx context.Context, id int64) ([]domain.Order, error) {
	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := c.get(ctx, fmt.Sprintf("/customers/%d/orders", id), &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// CustomerTasks backs the "tasks" action on a customer row.
func (c *Client) CustomerTasks(ctx context.Context, id int64) ([]domain.Task, error) {
	var resp struct {
		Tasks []domain.Task `json:"tasks"`
	}
	if err := c.get(ctx, fmt.Sprintf("/customers/%d/tasks", id), &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}
