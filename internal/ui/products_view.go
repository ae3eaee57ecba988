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

type productsView struct {
	app *App

	root       *tview.Flex
	search     *tview.InputField
	table      *tview.Table
	footer     *tview.TextView
	activeOnly bool

	items    []domain.Product
	page     domain.Page
	debounce *debouncer
}

func newProductsView(a *App) *productsView {
	v := &productsView{app: a}

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
	v.table.SetTitle(" products [n new, e edit, x delete, a active-only, ←/→ page] ")

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
			if p := v.selected(); p != nil {
				v.openForm(p)
			}
			return nil
		case 'x':
			if p := v.selected(); p != nil {
				v.app.confirm(fmt.Sprintf("Delete product %q?", p.Name), func() {
					v.doDelete(p.ID)
				})
			}
			return nil
		case 'a':
			v.toggleActive()
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

func (v *productsView) load() {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Products.Load(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.render(view) }, nil
	})
}

func (v *productsView) doSearch(query string, focusTable bool) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Products.Search(ctx, query)
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

func (v *productsView) toggleActive() {
	v.activeOnly = !v.activeOnly
	active := v.activeOnly
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Products.FilterActive(ctx, active)
		if err != nil {
			return nil, err
		}
		return func() { v.render(view) }, nil
	})
}

func (v *productsView) goToPage(page int) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Products.GoToPage(ctx, page)
		if err != nil {
			return nil, err
		}
		return func() { v.render(view) }, nil
	})
}

func (v *productsView) doDelete(id int64) {
	v.app.async(func(ctx context.Context) (func(), error) {
		view, err := v.app.svc.Products.Delete(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(view)
			v.app.toast("product deleted")
		}, nil
	})
}

func (v *productsView) selected() *domain.Product {
	row, _ := v.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(v.items) {
		return nil
	}
	p := v.items[idx]
	return &p
}

func (v *productsView) render(view *records.View[domain.Product]) {
	v.items = view.Items
	v.page = view.Page
	v.table.Clear()

	headers := []string{"name", "category", "price", "stock", "active"}
	for col, h := range headers {
		v.table.SetCell(0, col, tview.NewTableCell("[::b]"+h).SetSelectable(false))
	}
	prefs := v.app.svc.Settings.Preferences()
	for i, p := range view.Items {
		row := i + 1
		v.table.SetCell(row, 0, tview.NewTableCell(p.Name))
		v.table.SetCell(row, 1, tview.NewTableCell(p.Category))
		v.table.SetCell(row, 2, tview.NewTableCell(render.Currency(p.Price, prefs.Currency)))

		stock := strconv.Itoa(p.StockQuantity)
		if p.StockQuantity <= prefs.LowStockThreshold {
			stock = "[red]" + stock + "[-]"
		}
		v.table.SetCell(row, 3, tview.NewTableCell(stock))

		active := "yes"
		if !p.IsActive {
			active = "[gray]no[-]"
		}
		v.table.SetCell(row, 4, tview.NewTableCell(active))
	}
	if len(view.Items) > 0 {
		v.table.Select(1, 0)
	}
	v.footer.SetText("[gray]" + render.PaginationLabel(view.Page) + "[-]")
}

func (v *productsView) openForm(existing *domain.Product) {
	const name = "product-form"
	product := domain.Product{IsActive: true}
	title := " New product "
	if existing != nil {
		product = *existing
		title = " Edit product "
	}

	form := tview.NewForm().
		AddInputField("Name", product.Name, 30, nil, func(s string) { product.Name = s }).
		AddInputField("Description", product.Description, 30, nil, func(s string) { product.Description = s }).
		AddInputField("Category", product.Category, 30, nil, func(s string) { product.Category = s }).
		AddInputField("Price", strconv.FormatFloat(product.Price, 'f', 2, 64), 12, tview.InputFieldFloat, func(s string) {
			product.Price, _ = strconv.ParseFloat(s, 64)
		}).
		AddInputField("Stock", strconv.Itoa(product.StockQuantity), 8, tview.InputFieldInteger, func(s string) {
			product.StockQuantity, _ = strconv.Atoi(s)
		}).
		AddCheckbox("Active", product.IsActive, func(on bool) { product.IsActive = on })
	form.AddButton("Save", func() {
		v.app.async(func(ctx context.Context) (func(), error) {
			view, err := v.app.svc.Products.Save(ctx, &product)
			if err != nil {
				return nil, err
			}
			return func() {
				v.app.pages.RemovePage(name)
				v.render(view)
				v.app.toast("product saved")
			}, nil
		})
	})
	form.AddButton("Cancel", func() { v.app.pages.RemovePage(name) })
	form.SetBorder(true)
	form.SetTitle(title)

	v.app.pages.AddPage(name, center(form, 50, 17), true, true)
}
