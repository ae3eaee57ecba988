package records

import (
	"context"
	"fmt"

	"crm-console/internal/adapters/api"
	"crm-console/internal/domain"
	"crm-console/internal/state"
)

const ordersListing = "orders"

type Orders struct {
	api     *api.Client
	store   *state.Store
	perPage int
}

func NewOrders(client *api.Client, store *state.Store, perPage int) *Orders {
	return &Orders{api: client, store: store, perPage: perPage}
}

func (o *Orders) Load(ctx context.Context) (*View[domain.Order], error) {
	page, err := o.api.ListOrders(ctx, o.store.Page(ordersListing), o.perPage, o.store.Filters(ordersListing))
	if err != nil {
		return nil, err
	}
	return &View[domain.Order]{
		Items: page.Orders,
		Page:  domain.Page{Current: page.CurrentPage, Total: page.Pages, PerPage: o.perPage},
	}, nil
}

func (o *Orders) FilterStatus(ctx context.Context, status domain.OrderStatus) (*View[domain.Order], error) {
	o.store.SetFilter(ordersListing, "status", string(status))
	return o.Load(ctx)
}

func (o *Orders) GoToPage(ctx context.Context, page int) (*View[domain.Order], error) {
	o.store.SetPage(ordersListing, page)
	return o.Load(ctx)
}

// Get returns the order with its items for the edit form; the listing
// response omits them.
func (o *Orders) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return o.api.GetOrder(ctx, id)
}

func (o *Orders) Save(ctx context.Context, order *domain.Order) (*View[domain.Order], error) {
	if order.CustomerID == 0 {
		return nil, required("customer")
	}
	if len(order.Items) == 0 {
		return nil, required("at least one item")
	}
	for _, item := range order.Items {
		if item.ProductID == 0 {
			return nil, required("product")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
	}
	var err error
	if order.ID == 0 {
		err = o.api.CreateOrder(ctx, order)
	} else {
		err = o.api.UpdateOrder(ctx, order.ID, order)
	}
	if err != nil {
		return nil, err
	}
	return o.Load(ctx)
}

func (o *Orders) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*View[domain.Order], error) {
	if err := o.api.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return o.Load(ctx)
}

func (o *Orders) Delete(ctx context.Context, id int64) (*View[domain.Order], error) {
	if err := o.api.DeleteOrder(ctx, id); err != nil {
		return nil, err
	}
	return o.Load(ctx)
}

// Total sums the line totals of an order draft; shown live in the form.
func Total(items []domain.OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}
