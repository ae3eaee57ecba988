// Package ui is the tview front end: login and main pages, the navbar,
// toasts and the per-page view modules. It holds no business state; every
// view renders whatever the services hand it.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/rivo/tview"

	"crm-console/internal/adapters/api"
	"crm-console/internal/app/chat"
	"crm-console/internal/app/dashboard"
	"crm-console/internal/app/notifications"
	"crm-console/internal/app/records"
	"crm-console/internal/app/reports"
	"crm-console/internal/app/session"
	"crm-console/internal/app/settings"
	"crm-console/internal/domain"
	"crm-console/internal/observability"
	"crm-console/internal/state"
)

const (
	pageLogin = "login"
	pageMain  = "main"
)

// Page identifiers inside the main view, in navbar order.
const (
	PageDashboard     = "dashboard"
	PageCustomers     = "customers"
	PageProducts      = "products"
	PageOrders        = "orders"
	PageTasks         = "tasks"
	PageUsers         = "users"
	PageChat          = "chat"
	PageNotifications = "notifications"
	PageReports       = "reports"
	PageSettings      = "settings"
)

var navOrder = []string{
	PageDashboard, PageCustomers, PageProducts, PageOrders, PageTasks,
	PageUsers, PageChat, PageNotifications, PageReports, PageSettings,
}

// Services bundles everything the UI drives.
type Services struct {
	Session       *session.Service
	Chat          *chat.Service
	Notifications *notifications.Service
	Customers     *records.Customers
	Products      *records.Products
	Orders        *records.Orders
	Tasks         *records.Tasks
	Users         *records.Users
	Dashboard     *dashboard.Service
	Reports       *reports.Service
	Settings      *settings.Service

	// BadgeStart/BadgeStop control the navbar unread-count poller; owned
	// by the composition root so the UI cannot leak a second timer.
	BadgeStart func()
	BadgeStop  func()

	// Clock and SearchDebounce drive the typing debounce on the listing
	// search boxes.
	Clock          domain.Clock
	SearchDebounce time.Duration
}

// debouncer runs a callback only after input has been idle for the
// interval; each trigger resets the clock.
type debouncer struct {
	mu     sync.Mutex
	clk    domain.Clock
	d      time.Duration
	cancel func()
}

func newDebouncer(clk domain.Clock, d time.Duration) *debouncer {
	return &debouncer{clk: clk, d: d}
}

func (b *debouncer) trigger(f func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
	b.cancel = b.clk.AfterFunc(b.d, f)
}

type App struct {
	app   *tview.Application
	pages *tview.Pages
	store *state.Store
	svc   Services

	content     *tview.Pages
	currentPage string
	navBar      *tview.TextView
	statusBar   *tview.TextView

	badgeMu    sync.Mutex
	badgeCount int
	toastID    string

	chatView          *chatView
	customersView     *customersView
	productsView      *productsView
	ordersView        *ordersView
	tasksView         *tasksView
	usersView         *usersView
	notificationsView *notificationsView
	dashboardView     *dashboardView
	reportsView       *reportsView
	settingsView      *settingsView
}

func New(store *state.Store, svc Services) *App {
	a := &App{
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		store: store,
		svc:   svc,
	}
	a.build()
	return a
}

// UnauthorizedHook is installed on the api client: any 401 anywhere drops
// the session and lands back on the login page.
func (a *App) UnauthorizedHook() func() {
	return func() {
		a.svc.Session.ForceLogout()
		// Teardown on its own goroutine: the 401 may have surfaced inside
		// a poller tick, and stopping that poller from its own tick would
		// never return.
		go func() {
			// Both page pollers, unconditionally: stopping a stopped
			// runner is a no-op and currentPage belongs to the event
			// loop.
			a.svc.Chat.StopPolling()
			a.svc.Dashboard.StopRefresh()
			if a.svc.BadgeStop != nil {
				a.svc.BadgeStop()
			}
			a.app.QueueUpdateDraw(func() {
				a.pages.SwitchToPage(pageLogin)
			})
		}()
	}
}

// Run resumes any persisted session, then hands control to tview.
func (a *App) Run(ctx context.Context) error {
	ok, err := a.svc.Session.CheckAuth(ctx)
	if err != nil && !errors.Is(err, api.ErrUnauthorized) {
		observability.LoggerFromContext(ctx).WithError(err).Warn("auth check failed")
	}
	if ok {
		a.enterMain()
	} else {
		a.pages.SwitchToPage(pageLogin)
	}

	return a.app.SetRoot(a.pages, true).EnableMouse(true).Run()
}

func (a *App) Stop() {
	a.stopPagePollers(a.currentPage)
	if a.svc.BadgeStop != nil {
		a.svc.BadgeStop()
	}
	a.app.Stop()
}

func (a *App) build() {
	a.chatView = newChatView(a)
	a.customersView = newCustomersView(a)
	a.productsView = newProductsView(a)
	a.ordersView = newOrdersView(a)
	a.tasksView = newTasksView(a)
	a.usersView = newUsersView(a)
	a.notificationsView = newNotificationsView(a)
	a.dashboardView = newDashboardView(a)
	a.reportsView = newReportsView(a)
	a.settingsView = newSettingsView(a)

	a.pages.AddPage(pageLogin, a.buildLoginPage(), true, false)
	a.pages.AddPage(pageMain, a.buildMainView(), true, false)
}

// ── login ──

func (a *App) buildLoginPage() tview.Primitive {
	form := tview.NewForm().
		AddInputField("Username", "", 30, nil, nil).
		AddPasswordField("Password", "", 30, '*', nil)
	form.SetBorder(true).SetTitle(" CRM Console — Sign in ")

	form.AddButton("Sign in", func() {
		username := form.GetFormItemByLabel("Username").(*tview.InputField).GetText()
		password := form.GetFormItemByLabel("Password").(*tview.InputField).GetText()

		a.async(func(ctx context.Context) (func(), error) {
			_, err := a.svc.Session.Login(ctx, username, password)
			if err != nil {
				return nil, err
			}
			return func() {
				form.GetFormItemByLabel("Password").(*tview.InputField).SetText("")
				a.enterMain()
			}, nil
		})
	})
	form.AddButton("Quit", func() { a.Stop() })

	return center(form, 50, 11)
}

// enterMain shows the main view and loads the landing page; called after
// a successful login or resumed session.
func (a *App) enterMain() {
	if user := a.store.User(); user != nil {
		a.refreshNav()
	}
	a.pages.SwitchToPage(pageMain)
	if a.svc.BadgeStart != nil {
		a.svc.BadgeStart()
	}
	a.showPage(PageDashboard)
}

// ── main view ──

func (a *App) buildMainView() tview.Primitive {
	a.navBar = tview.NewTextView().SetDynamicColors(true).SetRegions(true)
	a.navBar.SetBorderPadding(0, 0, 1, 1)

	a.statusBar = tview.NewTextView().SetDynamicColors(true)
	a.statusBar.SetBorderPadding(0, 0, 1, 1)

	a.content = tview.NewPages()
	a.content.AddPage(PageDashboard, a.dashboardView.root, true, true)
	a.content.AddPage(PageCustomers, a.customersView.root, true, false)
	a.content.AddPage(PageProducts, a.productsView.root, true, false)
	a.content.AddPage(PageOrders, a.ordersView.root, true, false)
	a.content.AddPage(PageTasks, a.tasksView.root, true, false)
	a.content.AddPage(PageUsers, a.usersView.root, true, false)
	a.content.AddPage(PageChat, a.chatView.root, true, false)
	a.content.AddPage(PageNotifications, a.notificationsView.root, true, false)
	a.content.AddPage(PageReports, a.reportsView.root, true, false)
	a.content.AddPage(PageSettings, a.settingsView.root, true, false)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.navBar, 1, 0, false).
		AddItem(a.content, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	// F1..F10 jump between pages; Ctrl-L logs out.
	flex.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() >= tcell.KeyF1 && event.Key() <= tcell.KeyF10 {
			idx := int(event.Key() - tcell.KeyF1)
			if idx < len(navOrder) {
				a.showPage(navOrder[idx])
				return nil
			}
		}
		if event.Key() == tcell.KeyCtrlL {
			a.logout()
			return nil
		}
		return event
	})
	return flex
}

func (a *App) refreshNav() {
	a.badgeMu.Lock()
	badge := a.badgeCount
	a.badgeMu.Unlock()

	var out string
	for i, page := range navOrder {
		if page == PageUsers && !a.store.IsAdmin() {
			continue
		}
		label := page
		if page == PageNotifications && badge > 0 {
			label = fmt.Sprintf("%s[red](%d)[-]", page, badge)
		}
		if page == a.currentPage {
			out += fmt.Sprintf("[::b][yellow]F%d %s[-][::-]  ", i+1, label)
		} else {
			out += fmt.Sprintf("F%d %s  ", i+1, label)
		}
	}
	if user := a.store.User(); user != nil {
		out += fmt.Sprintf("[gray]| %s (Ctrl-L to sign out)[-]", user.FullName)
	}
	a.navBar.SetText(out)
}

// showPage is the router: it tears down the previous page's pollers,
// switches the visible region and triggers the new page's load.
func (a *App) showPage(page string) {
	if page == PageUsers && !a.store.IsAdmin() {
		a.toast("users page requires a manager account")
		return
	}
	a.stopPagePollers(a.currentPage)
	a.currentPage = page
	a.content.SwitchToPage(page)
	a.refreshNav()

	switch page {
	case PageDashboard:
		a.dashboardView.load()
	case PageCustomers:
		a.customersView.load()
	case PageProducts:
		a.productsView.load()
	case PageOrders:
		a.ordersView.load()
	case PageTasks:
		a.tasksView.load()
	case PageUsers:
		a.usersView.load()
	case PageChat:
		a.chatView.enter()
	case PageNotifications:
		a.notificationsView.load()
	case PageReports:
		a.reportsView.load()
	case PageSettings:
		a.settingsView.load()
	}
}

// stopPagePollers cancels the timers owned by the page being left; chat
// and dashboard are the only pages with background refresh.
func (a *App) stopPagePollers(page string) {
	switch page {
	case PageChat:
		a.svc.Chat.StopPolling()
	case PageDashboard:
		a.svc.Dashboard.StopRefresh()
	}
}

func (a *App) logout() {
	a.stopPagePollers(a.currentPage)
	if a.svc.BadgeStop != nil {
		a.svc.BadgeStop()
	}
	a.async(func(ctx context.Context) (func(), error) {
		a.svc.Session.Logout(ctx)
		return func() {
			a.pages.SwitchToPage(pageLogin)
		}, nil
	})
}

// SetBadge updates the navbar unread counter; called from the badge
// poller goroutine. The draw is queued from a fresh goroutine: poller
// callbacks must never block on the event loop, which may itself be
// blocked in the poller's Stop.
func (a *App) SetBadge(count int) {
	a.badgeMu.Lock()
	a.badgeCount = count
	a.badgeMu.Unlock()
	go a.app.QueueUpdateDraw(a.refreshNav)
}

// ── async + feedback plumbing ──

// async runs op off the UI goroutine and applies its result on it. The
// error path implements the app-wide taxonomy: 401 is already handled by
// the transport, 4xx messages surface verbatim, anything else becomes a
// generic toast.
func (a *App) async(op func(ctx context.Context) (func(), error)) {
	go func() {
		ctx := observability.WithRequestID(context.Background(), uuid.NewString())
		apply, err := op(ctx)
		if err != nil {
			a.reportError(ctx, err)
			return
		}
		if apply != nil {
			a.app.QueueUpdateDraw(apply)
		}
	}()
}

func (a *App) reportError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		// The unauthorized hook already moved us to the login page.
	case errors.Is(err, chat.ErrSuperseded):
		// A newer selection already landed; nothing to show.
	case api.IsClientError(err),
		errors.Is(err, records.ErrValidation),
		errors.Is(err, chat.ErrNoChatOpen),
		errors.Is(err, chat.ErrNotGroup),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrPeerRequired),
		errors.Is(err, chat.ErrGroupNameRequired),
		errors.Is(err, chat.ErrMembersRequired),
		errors.Is(err, session.ErrCredentialsRequired):
		a.toastAsync(err.Error())
	default:
		observability.LoggerFromContext(ctx).WithError(err).Error("operation failed")
		a.toastAsync("something went wrong, please try again")
	}
}

// toast shows a transient status-bar message; must run on the UI
// goroutine.
func (a *App) toast(msg string) {
	id := uuid.NewString()
	a.badgeMu.Lock()
	a.toastID = id
	a.badgeMu.Unlock()

	a.statusBar.SetText("[yellow]" + tview.Escape(msg) + "[-]")
	time.AfterFunc(5*time.Second, func() {
		a.badgeMu.Lock()
		stale := a.toastID != id
		a.badgeMu.Unlock()
		if stale {
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.statusBar.SetText("")
		})
	})
}

// toastAsync is toast for goroutines off the UI loop.
func (a *App) toastAsync(msg string) {
	a.app.QueueUpdateDraw(func() {
		a.toast(msg)
	})
}

// confirm shows a yes/no modal and runs onYes when accepted.
func (a *App) confirm(text string, onYes func()) {
	const name = "confirm"
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Yes", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			a.pages.RemovePage(name)
			if label == "Yes" {
				onYes()
			}
		})
	a.pages.AddPage(name, modal, true, true)
}

// alert shows a dismissable message box.
func (a *App) alert(title, text string) {
	const name = "alert"
	modal := tview.NewModal().
		SetText(title + "\n\n" + text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) {
			a.pages.RemovePage(name)
		})
	a.pages.AddPage(name, modal, true, true)
}

// splitLine breaks a rendered row into a list item's main and secondary
// text.
func splitLine(line string) (main, secondary string) {
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		return line[:i], strings.TrimSpace(line[i+1:])
	}
	return line, ""
}

// center wraps p in spacer flexes so it floats mid-screen.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
