package ui

import (
	"context"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"crm-console/internal/app/settings"
	"crm-console/internal/domain"
)

type settingsView struct {
	app *App

	root   *tview.Flex
	prefs  *tview.Form
	remote *tview.Table

	items []domain.Setting
}

func newSettingsView(a *App) *settingsView {
	v := &settingsView{app: a}

	v.prefs = tview.NewForm()
	v.prefs.SetBorder(true)
	v.prefs.SetTitle(" preferences (local) ")
	v.buildPrefsForm()

	v.remote = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	v.remote.SetBorder(true)
	v.remote.SetTitle(" system settings [e edit] ")
	v.remote.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Rune() == 'e' {
			if s := v.selected(); s != nil {
				v.openEdit(s)
			}
			return nil
		}
		return event
	})

	v.root = tview.NewFlex().
		AddItem(v.prefs, 0, 1, true).
		AddItem(v.remote, 0, 2, false)
	return v
}

func (v *settingsView) buildPrefsForm() {
	p := v.app.svc.Settings.Preferences()

	languages := []string{"en", "ar"}
	themes := []string{"dark", "light"}
	threshold := strconv.Itoa(p.LowStockThreshold)

	v.prefs.Clear(true)
	v.prefs.
		AddDropDown("Language", languages, indexOf(languages, p.Language), func(text string, _ int) {
			p.Language = text
		}).
		AddDropDown("Theme", themes, indexOf(themes, p.Theme), func(text string, _ int) {
			p.Theme = text
		}).
		AddInputField("Currency", p.Currency, 8, nil, func(s string) { p.Currency = s }).
		AddInputField("Low stock threshold", threshold, 6, tview.InputFieldInteger, func(s string) {
			threshold = s
		})
	v.prefs.AddButton("Save", func() {
		if n, err := strconv.Atoi(threshold); err == nil {
			p.LowStockThreshold = n
		}
		if err := v.app.svc.Settings.SavePreferences(p); err != nil {
			v.app.toast("could not save preferences")
			return
		}
		v.app.toast("preferences saved")
	})
}

// PreferencesChanged reloads the form after an external edit to the
// preferences file.
func (a *App) PreferencesChanged(settings.Preferences) {
	a.app.QueueUpdateDraw(func() {
		a.settingsView.buildPrefsForm()
	})
}

func (v *settingsView) load() {
	v.buildPrefsForm()
	v.app.async(func(ctx context.Context) (func(), error) {
		items, err := v.app.svc.Settings.Remote(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.render(items) }, nil
	})
}

func (v *settingsView) selected() *domain.Setting {
	row, _ := v.remote.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(v.items) {
		return nil
	}
	s := v.items[idx]
	return &s
}

func (v *settingsView) render(items []domain.Setting) {
	v.items = items
	v.remote.Clear()

	headers := []string{"key", "value", "description"}
	for col, h := range headers {
		v.remote.SetCell(0, col, tview.NewTableCell("[::b]"+h).SetSelectable(false))
	}
	for i, s := range items {
		row := i + 1
		v.remote.SetCell(row, 0, tview.NewTableCell(s.Key))
		v.remote.SetCell(row, 1, tview.NewTableCell(s.Value))
		v.remote.SetCell(row, 2, tview.NewTableCell("[gray]"+s.Description))
	}
	if len(items) > 0 {
		v.remote.Select(1, 0)
	}
}

func (v *settingsView) openEdit(s *domain.Setting) {
	const name = "setting-form"
	value := s.Value
	form := tview.NewForm().
		AddInputField("Value", value, 30, nil, func(text string) { value = text })
	form.AddButton("Save", func() {
		key, description := s.Key, s.Description
		v.app.async(func(ctx context.Context) (func(), error) {
			if err := v.app.svc.Settings.Update(ctx, key, value, description); err != nil {
				return nil, err
			}
			items, err := v.app.svc.Settings.Remote(ctx)
			if err != nil {
				return nil, err
			}
			return func() {
				v.app.pages.RemovePage(name)
				v.render(items)
				v.app.toast("setting updated")
			}, nil
		})
	})
	form.AddButton("Cancel", func() { v.app.pages.RemovePage(name) })
	form.SetBorder(true)
	form.SetTitle(" " + s.Key + " ")

	v.app.pages.AddPage(name, center(form, 50, 9), true, true)
}
