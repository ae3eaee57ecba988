package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"crm-console/internal/adapters/api"
	"crm-console/internal/domain"
)

var roles = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee}

// usersView is admin-only; the router refuses to open it otherwise.
type usersView struct {
	app *App

	root  *tview.Flex
	table *tview.Table

	items []domain.User
}

func newUsersView(a *App) *usersView {
	v := &usersView{app: a}

	v.table = tview.NewTable().SetSelectable(true, false).SetFixed(1, 0)
	v.table.SetBorder(true)
	v.table.SetTitle(" users [n new, e edit, x delete] ")

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, true)

	v.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Rune() {
		case 'n':
			v.openForm(nil)
			return nil
		case 'e':
			if u := v.selected(); u != nil {
				v.openForm(u)
			}
			return nil
		case 'x':
			if u := v.selected(); u != nil {
				if me := v.app.store.User(); me != nil && me.ID == u.ID {
					v.app.toast("you cannot delete your own account")
					return nil
				}
				v.app.confirm(fmt.Sprintf("Delete user %q?", u.Username), func() {
					v.doDelete(u.ID)
				})
			}
			return nil
		}
		return event
	})
	return v
}

func (v *usersView) load() {
	v.app.async(func(ctx context.Context) (func(), error) {
		users, err := v.app.svc.Users.Load(ctx)
		if err != nil {
			return nil, err
		}
		return func() { v.render(users) }, nil
	})
}

func (v *usersView) doDelete(id domain.UserID) {
	v.app.async(func(ctx context.Context) (func(), error) {
		users, err := v.app.svc.Users.Delete(ctx, id)
		if err != nil {
			return nil, err
		}
		return func() {
			v.render(users)
			v.app.toast("user deleted")
		}, nil
	})
}

func (v *usersView) selected() *domain.User {
	row, _ := v.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(v.items) {
		return nil
	}
	u := v.items[idx]
	return &u
}

func (v *usersView) render(users []domain.User) {
	v.items = users
	v.table.Clear()

	headers := []string{"username", "full name", "email", "role", "active"}
	for col, h := range headers {
		v.table.SetCell(0, col, tview.NewTableCell("[::b]"+h).SetSelectable(false))
	}
	for i, u := range users {
		row := i + 1
		v.table.SetCell(row, 0, tview.NewTableCell(u.Username))
		v.table.SetCell(row, 1, tview.NewTableCell(u.FullName))
		v.table.SetCell(row, 2, tview.NewTableCell(u.Email))
		v.table.SetCell(row, 3, tview.NewTableCell(string(u.Role)))
		active := "yes"
		if !u.IsActive {
			active = "[gray]no[-]"
		}
		v.table.SetCell(row, 4, tview.NewTableCell(active))
	}
	if len(users) > 0 {
		v.table.Select(1, 0)
	}
}

func (v *usersView) openForm(existing *domain.User) {
	const name = "user-form"
	var id domain.UserID
	in := api.UserInput{Role: domain.RoleEmployee, IsActive: true}
	title := " New user "
	if existing != nil {
		id = existing.ID
		in = api.UserInput{
			Username: existing.Username,
			FullName: existing.FullName,
			Email:    existing.Email,
			Role:     existing.Role,
			IsActive: existing.IsActive,
		}
		title = " Edit user "
	}

	roleOptions := make([]string, len(roles))
	roleIdx := 0
	for i, r := range roles {
		roleOptions[i] = string(r)
		if r == in.Role {
			roleIdx = i
		}
	}

	passwordLabel := "Password"
	if existing != nil {
		passwordLabel = "Password (blank keeps current)"
	}

	form := tview.NewForm().
		AddInputField("Username", in.Username, 30, nil, func(s string) { in.Username = s }).
		AddInputField("Full name", in.FullName, 30, nil, func(s string) { in.FullName = s }).
		AddInputField("Email", in.Email, 30, nil, func(s string) { in.Email = s }).
		AddDropDown("Role", roleOptions, roleIdx, func(text string, _ int) {
			in.Role = domain.Role(text)
		}).
		AddPasswordField(passwordLabel, "", 30, '*', func(s string) { in.Password = s }).
		AddCheckbox("Active", in.IsActive, func(on bool) { in.IsActive = on })
	form.AddButton("Save", func() {
		v.app.async(func(ctx context.Context) (func(), error) {
			users, err := v.app.svc.Users.Save(ctx, id, &in)
			if err != nil {
				return nil, err
			}
			return func() {
				v.app.pages.RemovePage(name)
				v.render(users)
				v.app.toast("user saved")
			}, nil
		})
	})
	form.AddButton("Cancel", func() { v.app.pages.RemovePage(name) })
	form.SetBorder(true)
	form.SetTitle(title)

	v.app.pages.AddPage(name, center(form, 54, 17), true, true)
}
