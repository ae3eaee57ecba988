package ui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rivo/tview"

	"crm-console/internal/app/dashboard"
	"crm-console/internal/render"
)

type dashboardView struct {
	app *App

	root   *tview.Flex
	stats  *tview.Table
	tasks  *tview.TextView
	orders *tview.TextView
}

func newDashboardView(a *App) *dashboardView {
	v := &dashboardView{app: a}

	v.stats = tview.NewTable()
	v.stats.SetBorder(true)
	v.stats.SetTitle(" overview ")

	v.tasks = tview.NewTextView().SetDynamicColors(true)
	v.tasks.SetBorder(true)
	v.tasks.SetTitle(" recent tasks ")

	v.orders = tview.NewTextView().SetDynamicColors(true)
	v.orders.SetBorder(true)
	v.orders.SetTitle(" recent orders ")

	bottom := tview.NewFlex().
		AddItem(v.tasks, 0, 1, false).
		AddItem(v.orders, 0, 1, false)

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.stats, 7, 0, true).
		AddItem(bottom, 0, 1, false)
	return v
}

// load fetches once and starts the background refresh; leaving the page
// stops it.
func (v *dashboardView) load() {
	v.app.async(func(ctx context.Context) (func(), error) {
		data, err := v.app.svc.Dashboard.Load(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(data)
			v.app.svc.Dashboard.StartRefresh()
		}, nil
	})
}

func (v *dashboardView) render(data *dashboard.Data) {
	currency := v.app.svc.Settings.Preferences().Currency

	v.stats.Clear()
	s := data.Stats
	cells := []struct{ label, value string }{
		{"customers", strconv.Itoa(s.TotalCustomers)},
		{"products", strconv.Itoa(s.TotalProducts)},
		{"orders", strconv.Itoa(s.TotalOrders)},
		{"revenue", render.Currency(s.TotalRevenue, currency)},
		{"tasks pending", strconv.Itoa(s.PendingTasks)},
		{"in progress", strconv.Itoa(s.InProgressTasks)},
		{"completed", strconv.Itoa(s.CompletedTasks)},
		{"tasks total", strconv.Itoa(s.TotalTasks)},
	}
	for i, cell := range cells {
		row, col := i/4, (i%4)*2
		v.stats.SetCell(row*2, col, tview.NewTableCell("[gray]"+cell.label).SetExpansion(1))
		v.stats.SetCell(row*2+1, col, tview.NewTableCell("[::b]"+cell.value))
	}

	taskText := ""
	for _, t := range data.RecentTasks {
		taskText += fmt.Sprintf("[%s]●[-] %s [gray]%s[-]\n",
			render.StatusColor(t.Status), t.Title, t.Status)
	}
	if taskText == "" {
		taskText = "[gray]no tasks[-]"
	}
	v.tasks.SetText(taskText)

	orderText := ""
	for _, o := range data.RecentOrders {
		orderText += fmt.Sprintf("#%d %s [%s]%s[-] %s\n",
			o.ID, o.CustomerName, render.OrderStatusColor(o.Status), o.Status,
			render.Currency(o.TotalAmount, currency))
	}
	if orderText == "" {
		orderText = "[gray]no orders[-]"
	}
	v.orders.SetText(orderText)
}

// DashboardRefresh is the background refresher's callback; ticks landing
// after the user left the page are dropped. Queued from a fresh goroutine
// so the refresh loop never blocks on the event loop (which may be inside
// StopRefresh).
func (a *App) DashboardRefresh(data *dashboard.Data) {
	go a.app.QueueUpdateDraw(func() {
		if a.currentPage != PageDashboard {
			return
		}
		a.dashboardView.render(data)
	})
}
