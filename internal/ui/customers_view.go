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

type customersView struct {
	app *App

	root   *tview.Flex
	search *tview.InputField
	table  *tview.Table
	footer *tview.TextView

	items    []domain.Customer
	page     domain.Page
	debounce *debouncer
}

func newCustomersView(a *App) *customersView {
	v := &customersView{app: a}

	v.debounce = newDebouncer(a.svc.Clock, a.svc.SearchDebounce)
	v.search = tview.NewInputField().SetLabel("search: ")
	v.search.SetChangedFunc(func(text string) {
		v.debounce.trigger(func() { v.doSearch(text, false) })
	})
	v.search.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			v.doSearch(v.search.GetText(), true)
		}
	})

	v.table = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	v.table.SetBorder(true)
	v.table.SetTitle(" customers [n new, e edit, x delete, o orders, ←/→ page] ")

	v.footer = tview.NewTextView().SetDynamicColors(true)

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.search, 1, 0, false).
		AddItem(v.table, 0, 1, true).
		AddItem(v.footer, 1, 0, false)

	v.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'n':
			v.openForm(nil)
			return nil
		case 'e':
			if c := v.selected(); c != nil {
				v.openForm(c)
			}
			return nil
		case 'x':
			if c := v.selected(); c != nil {
				v.app.confirm(fmt.Sprintf("Delete customer %q?", c.Name), func() {
					v.doDelete(c.ID)
				})
			}
			return nil
		case 'o':
			if c := v.selected(); c != nil {
				v.showOrders(c)
			}
			return nil
		case '/':
			v.app.app.SetFocus(v.search)
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

func (v *customersView) load() {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Customers.Load(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.render(view) }, nil
	})
}

func (v *customersView) doSearch(query string, focusTable bool) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Customers.Search(ctx, query)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(view)
			if focusTable {
				v.app.app.SetFocus(v.table)
			}
		}, nil
	})
}

func (v *customersView) goToPage(page int) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Customers.GoToPage(ctx, page)
		if err != nil {
			return nil, err
		}
		return func() { v.render(view) }, nil
	})
}

func (v *customersView) doDelete(id int64) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Customers.Delete(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(view)
			v.app.toast("customer deleted")
		}, nil
	})
}

func (v *customersView) selected() *domain.Customer {
	row, _ := v.table.GetSelection()
	idx := row - 1 // header row
	if idx < 0 || idx >= len(v.items) {
		return nil
	}
	c := v.items[idx]
	return &c
}

func (v *customersView) render(view *records.View[domain.Customer]) {
	v.items = view.Items
	v.page = view.Page
	v.table.Clear()

	headers := []string{"name", "company", "email", "phone", "orders", "total"}
	for col, h := range headers {
		v.table.SetCell(0, col, tview.NewTableCell("[::b]"+h).SetSelectable(false))
	}
	currency := v.app.svc.Settings.Preferences().Currency
	for i, c := range view.Items {
		row := i + 1
		v.table.SetCell(row, 0, tview.NewTableCell(c.Name))
		v.table.SetCell(row, 1, tview.NewTableCell(c.Company))
		v.table.SetCell(row, 2, tview.NewTableCell(c.Email))
		v.table.SetCell(row, 3, tview.NewTableCell(c.Phone))
		v.table.SetCell(row, 4, tview.NewTableCell(strconv.Itoa(c.TotalOrders)))
		v.table.SetCell(row, 5, tview.NewTableCell(render.Currency(c.TotalAmount, currency)))
	}
	if len(view.Items) > 0 {
		v.table.Select(1, 0)
	}
	v.footer.SetText("[gray]" + render.PaginationLabel(view.Page) + "[-]")
}

func (v *customersView) openForm(existing *domain.Customer) {
	const name = "customer-form"
	customer := domain.Customer{}
	title := " New customer "
	if existing != nil {
		customer = *existing
		title = " Edit customer "
	}

	form := tview.NewForm().
		AddInputField("Name", customer.Name, 30, nil, func(s string) { customer.Name = s }).
		AddInputField("Email", customer.Email, 30, nil, func(s string) { customer.Email = s }).
		AddInputField("Phone", customer.Phone, 30, nil, func(s string) { customer.Phone = s }).
		AddInputField("Company", customer.Company, 30, nil, func(s string) { customer.Company = s }).
		AddInputField("Address", customer.Address, 30, nil, func(s string) { customer.Address = s })
	form.AddButton("Save", func() {
		v.app.async(func(ctx context.Context) (func(), error) {
			view, err := v.app.svc.Customers.Save(ctx, &customer)
			if err != nil {
				return nil, err
			}
			return func() {
				v.app.pages.RemovePage(name)
				v.render(view)
				v.app.toast("customer saved")
			}, nil
		})
	})
	form.AddButton("Cancel", func() { v.app.pages.RemovePage(name) })
	form.SetBorder(true)
	form.SetTitle(title)

	v.app.pages.AddPage(name, center(form, 50, 15), true, true)
}

func (v *customersView) showOrders(c *domain.Customer) {
	v.app.async(func(ctx context.Context) (func(), error) {
		orders, err := v.app.svc.Customers.Orders(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		return func() {
			currency := v.app.svc.Settings.Preferences().Currency
			text := ""
			for _, o := range orders {
				text += fmt.Sprintf("#%d  %s  %s  %s\n",
					o.ID, o.OrderDate.Format("2006-01-02"), o.Status,
					render.Currency(o.TotalAmount, currency))
			}
			if text == "" {
				text = "no orders yet"
			}
			v.app.alert(fmt.Sprintf("Orders — %s", c.Name), text)
		}, nil
	})
}
