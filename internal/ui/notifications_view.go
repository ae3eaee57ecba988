package ui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"crm-console/internal/domain"
	"crm-console/internal/render"
)

type notificationsView struct {
	app *App

	root *tview.Flex
	list *tview.List

	items []domain.Notification
}

func newNotificationsView(a *App) *notificationsView {
	v := &notificationsView{app: a}

	v.list = tview.NewList().ShowSecondaryText(true)
	v.list.SetBorder(true)
	v.list.SetTitle(" notifications [enter mark read, a mark all, c clear read] ")
	v.list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if index >= 0 && index < len(v.items) && !v.items[index].IsRead {
			v.markRead(v.items[index].ID)
		}
	})

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.list, 0, 1, true)

	v.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'a':
			v.markAllRead()
			return nil
		case 'c':
			v.clearRead()
			return nil
		}
		return event
	})
	return v
}

func (v *notificationsView) load() {
	v.app.async(func(ctx context.Context) (func(), error) {
		items, err := v.app.svc.Notifications.Load(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.render(items) }, nil
	})
}

func (v *notificationsView) markRead(id domain.NotificationID) {
	v.app.async(func(ctx context.Context) (func(), error) {
		items, badge, err := v.app.svc.Notifications.MarkRead(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(items)
			v.app.SetBadge(badge)
		}, nil
	})
}

func (v *notificationsView) markAllRead() {
	v.app.async(func(ctx context.Context) (func(), error) {
		items, badge, err := v.app.svc.Notifications.MarkAllRead(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(items)
			v.app.SetBadge(badge)
		}, nil
	})
}

func (v *notificationsView) clearRead() {
	v.app.async(func(ctx context.Context) (func(), error) {
		items, err := v.app.svc.Notifications.ClearRead(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(items)
			v.app.toast("read notifications cleared")
		}, nil
	})
}

func (v *notificationsView) render(items []domain.Notification) {
	v.items = items
	selected := v.list.GetCurrentItem()
	v.list.Clear()
	now := time.Now()
	for _, n := range items {
		line := render.NotificationLine(n, now)
		main, secondary := splitLine(line)
		v.list.AddItem(main, secondary, 0, nil)
	}
	if selected < v.list.GetItemCount() {
		v.list.SetCurrentItem(selected)
	}
}
