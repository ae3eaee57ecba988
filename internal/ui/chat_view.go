package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"crm-console/internal/app/chat"
	"crm-console/internal/domain"
	"crm-console/internal/render"
)

// chatView is the chat page: conversation sidebar, message pane, input.
// All chat state lives in the chat service and the store; this view only
// renders what it is handed.
type chatView struct {
	app *App

	root     *tview.Flex
	sidebar  *tview.List
	header   *tview.TextView
	messages *tview.TextView
	input    *tview.InputField

	tab   domain.ChatKind
	lists chat.Lists
}

func newChatView(a *App) *chatView {
	v := &chatView{app: a, tab: domain.ChatDirect}

	v.sidebar = tview.NewList().ShowSecondaryText(true)
	v.sidebar.SetBorder(true)
	v.sidebar.SetTitle(" direct [d/g to switch, n for new] ")
	v.sidebar.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		v.openByIndex(index)
	})

	v.header = tview.NewTextView().SetDynamicColors(true)
	v.header.SetText("[gray]select a conversation[-]")

	v.messages = tview.NewTextView().SetDynamicColors(true).SetWrap(true)
	v.messages.SetBorder(true)

	v.input = tview.NewInputField().SetLabel("> ")
	v.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			v.send()
		}
	})

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.header, 1, 0, false).
		AddItem(v.messages, 0, 1, false).
		AddItem(v.input, 1, 0, true)

	v.root = tview.NewFlex().
		AddItem(v.sidebar, 36, 0, true).
		AddItem(right, 0, 1, false)

	v.root.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if v.app.app.GetFocus() == v.input {
			return event
		}
		switch event.Rune() {
		case 'd':
			v.switchTab(domain.ChatDirect)
			return nil
		case 'g':
			v.switchTab(domain.ChatGroup)
			return nil
		case 'n':
			v.openNewChatModal()
			return nil
		case 'i':
			v.showGroupInfo()
			return nil
		}
		if event.Key() == tcell.KeyTab {
			if v.app.app.GetFocus() == v.sidebar {
				v.app.app.SetFocus(v.input)
			} else {
				v.app.app.SetFocus(v.sidebar)
			}
			return nil
		}
		return event
	})
	return v
}

// enter loads the sidebar, wires the poll listeners and starts the
// 5-second refresh. Leaving the page stops it (see App.stopPagePollers).
func (v *chatView) enter() {
	// Listener callbacks run on the poll goroutine; the draw is queued
	// from a fresh goroutine so a tick in flight can never block the
	// event loop's StopPolling, and ticks landing after a page switch
	// are dropped.
	v.app.svc.Chat.SetListeners(
		func(msgs []domain.Message) {
			go v.app.app.QueueUpdateDraw(func() {
				if v.app.currentPage != PageChat {
					return
				}
				v.renderMessages(msgs)
			})
		},
		func(lists chat.Lists) {
			go v.app.app.QueueUpdateDraw(func() {
				if v.app.currentPage != PageChat {
					return
				}
				v.lists = lists
				v.renderSidebar()
			})
		},
	)

	v.app.async(func(ctx context.Context) (func(), error) {
		lists, err := v.app.svc.Chat.Lists(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			v.lists = *lists
			v.renderSidebar()
			v.app.svc.Chat.StartPolling()
		}, nil
	})
}

func (v *chatView) visible() []domain.Conversation {
	if v.tab == domain.ChatGroup {
		return v.lists.Groups
	}
	return v.lists.Direct
}

func (v *chatView) switchTab(kind domain.ChatKind) {
	v.tab = kind
	v.sidebar.SetTitle(fmt.Sprintf(" %s [d/g to switch, n for new] ", kind))
	v.renderSidebar()
}

func (v *chatView) renderSidebar() {
	selected := v.sidebar.GetCurrentItem()
	v.sidebar.Clear()
	now := time.Now()
	for _, conv := range v.visible() {
		main, secondary := splitLine(render.ConversationLine(conv, now))
		v.sidebar.AddItem(main, secondary, 0, nil)
	}
	if selected < v.sidebar.GetItemCount() {
		v.sidebar.SetCurrentItem(selected)
	}
}

func (v *chatView) openByIndex(index int) {
	convs := v.visible()
	if index < 0 || index >= len(convs) {
		return
	}
	conv := convs[index]

	name := conv.Name
	if conv.Kind == domain.ChatDirect {
		name = conv.OtherUserName
	}
	sel := domain.ChatSelection{ID: conv.ID, Kind: conv.Kind, Name: name}

	v.app.async(func(ctx context.Context) (func(), error) {
		msgs, err := v.app.svc.Chat.OpenChat(ctx, sel)
		if err != nil {
			return nil, err
		}
		return func() {
			title := name
			if sel.Kind == domain.ChatGroup {
				title += " [gray](i for group info)[-]"
			}
			v.header.SetText("[::b]" + title)
			v.renderMessages(msgs)
			v.app.app.SetFocus(v.input)
		}, nil
	})
}

func (v *chatView) renderMessages(msgs []domain.Message) {
	sel := v.app.store.ActiveChat()
	lines := render.MessageLines(msgs, sel.Kind, time.Now())
	v.messages.SetText(strings.Join(lines, "\n"))
	v.messages.ScrollToEnd()
}

func (v *chatView) send() {
	content := v.input.GetText()
	v.app.async(func(ctx context.Context) (func(), error) {
		msgs, err := v.app.svc.Chat.SendMessage(ctx, content)
		if err != nil {
			return nil, err
		}
		return func() {
			v.input.SetText("")
			v.renderMessages(msgs)
		}, nil
	})
}

func (v *chatView) showGroupInfo() {
	v.app.async(func(ctx context.Context) (func(), error) {
		info, err := v.app.svc.Chat.GroupInfo(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			var b strings.Builder
			if info.Description != "" {
				fmt.Fprintf(&b, "%s\n\n", info.Description)
			}
			fmt.Fprintf(&b, "created %s\nmembers:\n", info.CreatedAt.Format("2006-01-02"))
			for _, m := range info.Members {
				fmt.Fprintf(&b, "  %s (%s)\n", m.FullName, m.Role)
			}
			v.app.alert(info.Name, b.String())
		}, nil
	})
}

// ── new chat modal ──

func (v *chatView) openNewChatModal() {
	v.app.async(func(ctx context.Context) (func(), error) {
		employees, err := v.app.svc.Users.Employees(ctx)
		if err != nil {
			return nil, err
		}
		return func() {
			v.showNewChatForms(employees)
		}, nil
	})
}

func (v *chatView) showNewChatForms(employees []domain.Employee) {
	const name = "new-chat"
	dismiss := func() { v.app.pages.RemovePage(name) }

	names := make([]string, len(employees))
	for i, e := range employees {
		names[i] = e.FullName
	}

	// Direct form: a single required peer.
	peerIdx := -1
	directForm := tview.NewForm().
		AddDropDown("User", names, -1, func(_ string, index int) {
			peerIdx = index
		})
	directForm.AddButton("Start", func() {
		var peer domain.UserID
		if peerIdx >= 0 {
			peer = employees[peerIdx].ID
		}
		v.startDirect(peer, dismiss)
	})
	directForm.AddButton("Cancel", func() { dismiss() })
	directForm.SetBorder(true)
	directForm.SetTitle(" New direct chat ")

	// Group form: name plus member checkboxes.
	checked := make([]bool, len(employees))
	groupForm := tview.NewForm().
		AddInputField("Name", "", 30, nil, nil).
		AddInputField("Description", "", 30, nil, nil)
	for i, e := range employees {
		groupForm.AddCheckbox(e.FullName, false, func(on bool) {
			checked[i] = on
		})
	}
	groupForm.AddButton("Create", func() {
		groupName := groupForm.GetFormItemByLabel("Name").(*tview.InputField).GetText()
		desc := groupForm.GetFormItemByLabel("Description").(*tview.InputField).GetText()
		var members []domain.UserID
		for i, on := range checked {
			if on {
				members = append(members, employees[i].ID)
			}
		}
		v.startGroup(groupName, desc, members, dismiss)
	})
	groupForm.AddButton("Cancel", func() { dismiss() })
	groupForm.SetBorder(true)
	groupForm.SetTitle(" New group chat ")

	form := directForm
	if v.tab == domain.ChatGroup {
		form = groupForm
	}
	v.app.pages.AddPage(name, center(form, 50, 20), true, true)
}

func (v *chatView) startDirect(peer domain.UserID, dismiss func()) {
	v.app.async(func(ctx context.Context) (func(), error) {
		lists, err := v.app.svc.Chat.StartDirect(ctx, peer)
		if err != nil {
			return nil, err
		}
		return func() {
			dismiss()
			v.lists = *lists
			v.renderSidebar()
			v.app.toast("conversation created")
		}, nil
	})
}

func (v *chatView) startGroup(name, desc string, members []domain.UserID, dismiss func()) {
	v.app.async(func(ctx context.Context) (func(), error) {
		lists, err := v.app.svc.Chat.StartGroup(ctx, name, desc, members)
		if err != nil {
			return nil, err
		}
		return func() {
			dismiss()
			v.lists = *lists
			v.renderSidebar()
			v.app.toast("group created")
		}, nil
	})
}
