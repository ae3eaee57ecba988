package records

import (
	"context"
	"strings"

	"crm-console/internal/adapters/api"
	"crm-console/internal/domain"
	"crm-console/internal/state"
)

const customersListing = "customers"

type Customers struct {
	api     *api.Client
	store   *state.Store
	perPage int
}

func NewCustomers(client *api.Client, store *state.Store, perPage int) *Customers {
	return &Customers{api: client, store: store, perPage: perPage}
}

// Load fetches the current filtered page as remembered by the store.
func (c *Customers) Load(ctx context.Context) (*View[domain.Customer], error) {
	page, err := c.api.ListCustomers(ctx, c.store.Page(customersListing), c.perPage, c.store.Filters(customersListing))
	if err != nil {
		return nil, err
	}
	return &View[domain.Customer]{
		Items: page.Customers,
		Page:  domain.Page{Current: page.CurrentPage, Total: page.Pages, PerPage: c.perPage},
	}, nil
}

// Search updates the search filter (resetting to page 1) and reloads.
func (c *Customers) Search(ctx context.Context, query string) (*View[domain.Customer], error) {
	c.store.SetFilter(customersListing, "search", strings.TrimSpace(query))
	return c.Load(ctx)
}

func (c *Customers) ResetFilters(ctx context.Context) (*View[domain.Customer], error) {
	c.store.ResetFilters(customersListing)
	return c.Load(ctx)
}

func (c *Customers) GoToPage(ctx context.Context, page int) (*View[domain.Customer], error) {
	c.store.SetPage(customersListing, page)
	return c.Load(ctx)
}

// Save creates when ID is zero, updates otherwise, then reloads the
// current page.
func (c *Customers) Save(ctx context.Context, customer *domain.Customer) (*View[domain.Customer], error) {
	if strings.TrimSpace(customer.Name) == "" {
		return nil, required("name")
	}
	var err error
	if customer.ID == 0 {
		err = c.api.CreateCustomer(ctx, customer)
	} else {
		err = c.api.UpdateCustomer(ctx, customer.ID, customer)
	}
	if err != nil {
		return nil, err
	}
	return c.Load(ctx)
}

// Delete removes the customer and reloads. Confirmation is the UI's job.
func (c *Customers) Delete(ctx context.Context, id int64) (*View[domain.Customer], error) {
	if err := c.api.DeleteCustomer(ctx, id); err != nil {
		return nil, err
	}
	return c.Load(ctx)
}

func (c *Customers) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return c.api.GetCustomer(ctx, id)
}

func (c *Customers) Orders(ctx context.Context, id int64) ([]domain.Order, error) {
	return c.api.CustomerOrders(ctx, id)
}

func (c *Customers) Tasks(ctx context.Context, id int64) ([]domain.Task, error) {
	return c.api.CustomerTasks(ctx, id)
}
