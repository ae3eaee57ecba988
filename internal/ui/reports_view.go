package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"crm-console/internal/domain"
	"crm-console/internal/render"
)

type reportsView struct {
	app *App

	root    *tview.Flex
	form    *tview.Form
	summary *tview.TextView

	startDate string
	endDate   string
}

func newReportsView(a *App) *reportsView {
	v := &reportsView{app: a}

	v.form = tview.NewForm().SetHorizontal(true).
		AddInputField("From (YYYY-MM-DD)", "", 12, nil, func(s string) { v.startDate = s }).
		AddInputField("To (YYYY-MM-DD)", "", 12, nil, func(s string) { v.endDate = s })
	v.form.AddButton("Run", func() { v.load() })
	v.form.AddButton("Export CSV", func() { v.export() })

	v.summary = tview.NewTextView().SetDynamicColors(true)
	v.summary.SetBorder(true)
	v.summary.SetTitle(" tasks summary ")

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.form, 3, 0, true).
		AddItem(v.summary, 0, 1, false)
	return v
}

func (v *reportsView) load() {
	start, end := v.startDate, v.endDate
	v.app.async(func(ctx context.Context) (func(), error) {
		summary, err := v.app.svc.Reports.Summary(ctx, start, end)
		if err != nil {
			return nil, err
		}
		return func() { v.render(summary) }, nil
	})
}

func (v *reportsView) export() {
	start, end := v.startDate, v.endDate
	v.app.async(func(ctx context.Context) (func(), error) {
		path, err := v.app.svc.Reports.ExportCSV(ctx, start, end)
		if err != nil {
			return nil, err
		}
		return func() {
			v.app.toast("report written to " + path)
		}, nil
	})
}

func (v *reportsView) render(s *domain.TasksSummary) {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%d tasks[::-]", s.Total)
	if s.Overdue > 0 {
		fmt.Fprintf(&b, "  [red]%d overdue[-]", s.Overdue)
	}
	b.WriteString("\n\nby status\n")
	for _, status := range taskStatuses {
		fmt.Fprintf(&b, "  [%s]%-12s[-] %d\n",
			render.StatusColor(status), status, s.ByStatus[status])
	}
	b.WriteString("\nby priority\n")
	for _, priority := range taskPriorities {
		fmt.Fprintf(&b, "  [%s]%-12s[-] %d\n",
			render.PriorityColor(priority), priority, s.ByPriority[priority])
	}
	v.summary.SetText(b.String())
}
