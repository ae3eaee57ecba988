package api

import (
	"context"
	"fmt"

	"crm-console/internal/domain"
)

type ProductPage struct {
	Products    []domain.Product `json:"products"`
	CurrentPage int              `json:"current_page"`
	Pages       int              `json:"pages"`
}

func (c *Client) ListProducts(ctx context.Context, page, perPage int, filters map[string]string) (*ProductPage, error) {
	var resp ProductPage
	if err := c.get(ctx, "/products"+listQuery(page, perPage, filters), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateProduct(ctx context.Context, product *domain.Product) error {
	return c.post(ctx, "/products", product, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id int64, product *domain.Product) error {
	return c.put(ctx, fmt.Sprintf("/products/%d", id), product, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/products/%d", id))
}
