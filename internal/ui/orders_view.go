package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"crm-console/internal/app/records"
	"crm-console/internal/domain"
	"crm-console/internal/render"
)

var orderStatuses = []domain.OrderStatus{
	domain.OrderPending, domain.OrderProcessing,
	domain.OrderCompleted, domain.OrderCancelled,
}

type ordersView struct {
	app *App

	root   *tview.Flex
	filter *tview.DropDown
	table  *tview.Table
	footer *tview.TextView

	items []domain.Order
	page  domain.Page
}

func newOrdersView(a *App) *ordersView {
	v := &ordersView{app: a}

	options := []string{"all"}
	for _, s := range orderStatuses {
		options = append(options, string(s))
	}
	v.filter = tview.NewDropDown().SetLabel("status: ").SetOptions(options, func(text string, _ int) {
		if text == "all" {
			text = ""
		}
		v.filterStatus(domain.OrderStatus(text))
	})

	v.table = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	v.table.SetBorder(true)
	v.table.SetTitle(" orders [n new, s status, x delete, enter detail, ←/→ page] ")

	v.footer = tview.NewTextView().SetDynamicColors(true)

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.filter, 1, 0, false).
		AddItem(v.table, 0, 1, true).
		AddItem(v.footer, 1, 0, false)

	v.table.SetSelectedFunc(func(row, _ int) {
		if o := v.selected(); o != nil {
			v.showDetail(o.ID)
		}
	})
	v.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'n':
			v.openForm()
			return nil
		case 's':
			if o := v.selected(); o != nil {
				v.openStatusPicker(o)
			}
			return nil
		case 'x':
			if o := v.selected(); o != nil {
				v.app.confirm(fmt.Sprintf("Delete order #%d?", o.ID), func() {
					v.doDelete(o.ID)
				})
			}
			return nil
		case 'f':
			v.app.app.SetFocus(v.filter)
			return nil
		}
		switch event.Key() {
		case tcell.KeyLeft:
			v.goToPage(v.page.Current - 1)
			return nil
		case tcell.KeyRight:
			v.goToPage(v.page.Current + 1)
			return nil
		}
		return event
	})
	return v
}

func (v *ordersView) load() {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Orders.Load(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.render(view) }, nil
	})
}

func (v *ordersView) filterStatus(status domain.OrderStatus) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Orders.FilterStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(view)
			v.app.app.SetFocus(v.table)
		}, nil
	})
}

func (v *ordersView) goToPage(page int) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Orders.GoToPage(ctx, page)
		if err != nil {
			return nil, err
		}
		return func() { v.render(view) }, nil
	})
}

func (v *ordersView) doDelete(id int64) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Orders.Delete(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(view)
			v.app.toast("order deleted")
		}, nil
	})
}

func (v *ordersView) selected() *domain.Order {
	row, _ := v.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(v.items) {
		return nil
	}
	o := v.items[idx]
	return &o
}

func (v *ordersView) render(view *records.View[domain.Order]) {
	v.items = view.Items
	v.page = view.Page
	v.table.Clear()

	headers := []string{"#", "customer", "date", "status", "total"}
	for col, h := range headers {
		v.table.SetCell(0, col, tview.NewTableCell("[::b]"+h).SetSelectable(false))
	}
	currency := v.app.svc.Settings.Preferences().Currency
	for i, o := range view.Items {
		row := i + 1
		v.table.SetCell(row, 0, tview.NewTableCell(strconv.FormatInt(o.ID, 10)))
		v.table.SetCell(row, 1, tview.NewTableCell(o.CustomerName))
		v.table.SetCell(row, 2, tview.NewTableCell(o.OrderDate.Format("2006-01-02")))
		v.table.SetCell(row, 3, tview.NewTableCell(
			fmt.Sprintf("[%s]%s[-]", render.OrderStatusColor(o.Status), o.Status)))
		v.table.SetCell(row, 4, tview.NewTableCell(render.Currency(o.TotalAmount, currency)))
	}
	if len(view.Items) > 0 {
		v.table.Select(1, 0)
	}
	v.footer.SetText("[gray]" + render.PaginationLabel(view.Page) + "[-]")
}

func (v *ordersView) openStatusPicker(o *domain.Order) {
	const name = "order-status"
	form := tview.NewForm()
	options := make([]string, len(orderStatuses))
	current := 0
	for i, s := range orderStatuses {
		options[i] = string(s)
		if s == o.Status {
			current = i
		}
	}
	picked := o.Status
	form.AddDropDown("Status", options, current, func(text string, _ int) {
		picked = domain.OrderStatus(text)
	})
	form.AddButton("Update", func() {
		v.app.async(func(ctx context.Context) (func(), error) {
			view, err := v.app.svc.Orders.UpdateStatus(ctx, o.ID, picked)
			if err != nil {
				return nil, err
			}
			return func() {
				v.app.pages.RemovePage(name)
				v.render(view)
				v.app.toast("order status updated")
			}, nil
		})
	})
	form.AddButton("Cancel", func() { v.app.pages.RemovePage(name) })
	form.SetBorder(true)
	form.SetTitle(fmt.Sprintf(" Order #%d ", o.ID))
	v.app.pages.AddPage(name, center(form, 40, 9), true, true)
}

func (v *ordersView) showDetail(id int64) {
	v.app.async(func(ctx context.Context) (func(), error) {
		order, err := v.app.svc.Orders.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() {
			currency := v.app.svc.Settings.Preferences().Currency
			text := fmt.Sprintf("%s · %s · %s\n\n",
				order.CustomerName, order.OrderDate.Format("2006-01-02"), order.Status)
			for _, item := range order.Items {
				text += fmt.Sprintf("%d × %s @ %s\n",
					item.Quantity, item.ProductName, render.Currency(item.UnitPrice, currency))
			}
			text += fmt.Sprintf("\ntotal %s", render.Currency(records.Total(order.Items), currency))
			if order.Notes != "" {
				text += "\n\n" + order.Notes
			}
			v.app.alert(fmt.Sprintf("Order #%d", order.ID), text)
		}, nil
	})
}

// openForm builds an order draft item by item; the running total updates
// as rows are added.
func (v *ordersView) openForm() {
	const name = "order-form"
	order := domain.Order{Status: domain.OrderPending}

	var qty, productID string
	form := tview.NewForm().
		AddInputField("Customer ID", "", 10, tview.InputFieldInteger, func(s string) {
			order.CustomerID, _ = strconv.ParseInt(s, 10, 64)
		}).
		AddInputField("Notes", "", 30, nil, func(s string) { order.Notes = s }).
		AddInputField("Product ID", "", 10, tview.InputFieldInteger, func(s string) { productID = s }).
		AddInputField("Qty", "1", 6, tview.InputFieldInteger, func(s string) { qty = s })

	itemsLabel := tview.NewTextView().SetDynamicColors(true).SetText("[gray]no items yet[-]")

	form.AddButton("Add item", func() {
		id, _ := strconv.ParseInt(productID, 10, 64)
		n, _ := strconv.Atoi(qty)
		if id == 0 || n <= 0 {
			v.app.toast("product id and a positive quantity are required")
			return
		}
		order.Items = append(order.Items, domain.OrderItem{ProductID: id, Quantity: n})
		itemsLabel.SetText(fmt.Sprintf("%d item(s) added", len(order.Items)))
	})
	form.AddButton("Save", func() {
		v.app.async(func(ctx context.Context) (func(), error) {
			view, err := v.app.svc.Orders.Save(ctx, &order)
			if err != nil {
				return nil, err
			}
			return func() {
				v.app.pages.RemovePage(name)
				v.render(view)
				v.app.toast("order created")
			}, nil
		})
	})
	form.AddButton("Cancel", func() { v.app.pages.RemovePage(name) })
	form.SetBorder(true)
	form.SetTitle(" New order ")

	box := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(itemsLabel, 1, 0, false)
	v.app.pages.AddPage(name, center(box, 50, 16), true, true)
}
