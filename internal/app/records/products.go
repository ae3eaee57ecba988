package records

import (
	"context"
	"strings"

	"crm-console/internal/adapters/api"
	"crm-console/internal/domain"
	"crm-console/internal/state"
)

const productsListing = "products"

type Products struct {
	api     *api.Client
	store   *state.Store
	perPage int
}

func NewProducts(client *api.Client, store *state.Store, perPage int) *Products {
	return &Products{api: client, store: store, perPage: perPage}
}

func (p *Products) Load(ctx context.Context) (*View[domain.Product], error) {
	page, err := p.api.ListProducts(ctx, p.store.Page(productsListing), p.perPage, p.store.Filters(productsListing))
	if err != nil {
		return nil, err
	}
	return &View[domain.Product]{
		Items: page.Products,
		Page:  domain.Page{Current: page.CurrentPage, Total: page.Pages, PerPage: p.perPage},
	}, nil
}

func (p *Products) Search(ctx context.Context, query string) (*View[domain.Product], error) {
	p.store.SetFilter(productsListing, "search", strings.TrimSpace(query))
	return p.Load(ctx)
}

func (p *Products) FilterActive(ctx context.Context, activeOnly bool) (*View[domain.Product], error) {
	value := ""
	if activeOnly {
		value = "true"
	}
	p.store.SetFilter(productsListing, "is_active", value)
	return p.Load(ctx)
}

func (p *Products) GoToPage(ctx context.Context, page int) (*View[domain.Product], error) {
	p.store.SetPage(productsListing, page)
	return p.Load(ctx)
}

func (p *Products) Save(ctx context.Context, product *domain.Product) (*View[domain.Product], error) {
	if strings.TrimSpace(product.Name) == "" {
		return nil, required("name")
	}
	if product.Price < 0 {
		return nil, required("price")
	}
	var err error
	if product.ID == 0 {
		err = p.api.CreateProduct(ctx, product)
	} else {
		err = p.api.UpdateProduct(ctx, product.ID, product)
	}
	if err != nil {
		return nil, err
	}
	return p.Load(ctx)
}

func (p *Products) Delete(ctx context.Context, id int64) (*View[domain.Product], error) {
	if err := p.api.DeleteProduct(ctx, id); err != nil {
		return nil, err
	}
	return p.Load(ctx)
}

// LowStock filters the loaded page for products at or under the
// threshold; used for the stock warning on the products page.
func LowStock(products []domain.Product, threshold int) []domain.Product {
	var low []domain.Product
	for _, p := range products {
		if p.IsActive && p.StockQuantity <= threshold {
			low = append(low, p)
		}
	}
	return low
}
