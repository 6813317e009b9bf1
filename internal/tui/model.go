// Package tui is the interactive console: a bubbletea program whose
// views mirror the admin console's pages (login, dashboard, jobs,
// sources, users, grant editor, unauthorized).
//
// Every navigation passes through the access gate, and every view
// fetch is tied to a per-view context that is cancelled on navigation,
// so a stale response can never paint a live view.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/avermeer/jobdeck/internal/api"
	"github.com/avermeer/jobdeck/internal/gate"
	"github.com/avermeer/jobdeck/internal/grants"
	"github.com/avermeer/jobdeck/internal/session"
)

// ViewType represents the current view being displayed
type ViewType int

// View type constants
const (
	// ViewLogin is the credential prompt
	ViewLogin ViewType = iota
	// ViewDashboard is the main authenticated view
	ViewDashboard
	// ViewJobs lists jobs
	ViewJobs
	// ViewSources lists sources
	ViewSources
	// ViewUsers lists users
	ViewUsers
	// ViewGrants is the grant editor for one user
	ViewGrants
	// ViewUnauthorized is shown when a capability check fails
	ViewUnauthorized
)

// viewRequirements maps views to the capabilities they require.
// Views absent from the map only require a session.
var viewRequirements = map[ViewType][]string{
	ViewUsers:  {"admin"},
	ViewGrants: {"admin"},
}

// routeViews maps session routes to console views
var routeViews = map[session.Route]ViewType{
	session.RouteLogin:        ViewLogin,
	session.RouteDashboard:    ViewDashboard,
	session.RouteUnauthorized: ViewUnauthorized,
}

// Messages produced by asynchronous commands. Each carries the view
// generation it was issued for; responses from a superseded view are
// dropped in Update.
type (
	loginDoneMsg struct {
		route session.Route
		err   error
	}
	logoutDoneMsg struct {
		route session.Route
	}
	jobsLoadedMsg struct {
		gen  int
		jobs []api.Job
		err  error
	}
	sourcesLoadedMsg struct {
		gen     int
		sources []api.Source
		err     error
	}
	usersLoadedMsg struct {
		gen   int
		users []api.User
		err   error
	}
	grantsLoadedMsg struct {
		gen int
		ws  *grants.WorkingSet
		err error
	}
	applyDoneMsg struct {
		gen    int
		result *grants.ApplyResult
	}
)

// Model represents the console state
type Model struct {
	client *api.Client
	store  *session.Store
	ctrl   *session.Controller

	// View state
	view     ViewType
	prevView ViewType
	width    int
	height   int
	ready    bool
	quitting bool

	// gen increments on every navigation; in-flight responses tagged
	// with an older generation are discarded.
	gen        int
	viewCtx    context.Context
	cancelView context.CancelFunc

	// Login form
	usernameInput textinput.Model
	passwordInput textinput.Model
	loginFocus    int
	loggingIn     bool

	// List views
	jobsTable    table.Model
	sourcesTable table.Model
	usersTable   table.Model
	users        []api.User
	loading      bool
	spinner      spinner.Model

	// Grant editor
	workingSet *grants.WorkingSet
	grantIndex int
	saving     bool
	saveNotice string

	// Error state
	lastError string

	styles Styles
}

// NewModel creates the console model
func NewModel(client *api.Client, ctrl *session.Controller) Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		client:        client,
		store:         ctrl.Store(),
		ctrl:          ctrl,
		usernameInput: username,
		passwordInput: password,
		spinner:       sp,
		styles:        DefaultStyles(),
	}

	m.viewCtx, m.cancelView = context.WithCancel(context.Background())

	// Land on the dashboard when a restored session allows it.
	m.view = m.gatedView(ViewDashboard)
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// gatedView runs the access gate for a target view and returns the
// view actually shown: the target, the login view, or the
// unauthorized view.
func (m Model) gatedView(target ViewType) ViewType {
	decision := gate.Check(m.store.Snapshot(), viewRequirements[target]...)
	if route, redirected := gate.Route(decision); redirected {
		return routeViews[route]
	}
	return target
}

// navigate switches views through the access gate, cancelling whatever
// the previous view still had in flight.
func (m Model) navigate(target ViewType) (Model, tea.Cmd) {
	m.cancelView()
	m.gen++
	m.viewCtx, m.cancelView = context.WithCancel(context.Background())

	m.prevView = m.view
	m.view = m.gatedView(target)
	m.lastError = ""
	m.saveNotice = ""

	if m.view != target {
		return m, nil
	}

	switch target {
	case ViewJobs:
		m.loading = true
		return m, tea.Batch(m.loadJobs(), m.spinner.Tick)
	case ViewSources:
		m.loading = true
		return m, tea.Batch(m.loadSources(), m.spinner.Tick)
	case ViewUsers:
		m.loading = true
		return m, tea.Batch(m.loadUsers(), m.spinner.Tick)
	}
	return m, nil
}

// openGrantEditor navigates to the grant editor for one user
func (m Model) openGrantEditor(userID int64) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m, cmd = m.navigate(ViewGrants)
	if m.view != ViewGrants {
		return m, cmd
	}

	m.loading = true
	m.workingSet = nil
	m.grantIndex = 0
	return m, tea.Batch(m.loadGrants(userID), m.spinner.Tick)
}

// Commands

func (m Model) login() tea.Cmd {
	username := m.usernameInput.Value()
	password := m.passwordInput.Value()
	ctx := m.viewCtx

	return func() tea.Msg {
		var target session.Route
		nav := session.NavigatorFunc(func(route session.Route) {
			target = route
		})

		// The controller owns all session mutation; the console only
		// relays where it said to go.
		err := m.ctrl.WithNavigator(nav).Login(ctx, username, password)
		return loginDoneMsg{route: target, err: err}
	}
}

func (m Model) logout() tea.Cmd {
	return func() tea.Msg {
		var target session.Route
		nav := session.NavigatorFunc(func(route session.Route) {
			target = route
		})
		_ = m.ctrl.WithNavigator(nav).Logout()
		return logoutDoneMsg{route: target}
	}
}

func (m Model) loadJobs() tea.Cmd {
	gen, ctx := m.gen, m.viewCtx
	return func() tea.Msg {
		jobs, err := m.client.Jobs(ctx, 0, 50)
		return jobsLoadedMsg{gen: gen, jobs: jobs, err: err}
	}
}

func (m Model) loadSources() tea.Cmd {
	gen, ctx := m.gen, m.viewCtx
	return func() tea.Msg {
		sources, err := m.client.Sources(ctx, 1, 50)
		return sourcesLoadedMsg{gen: gen, sources: sources, err: err}
	}
}

func (m Model) loadUsers() tea.Cmd {
	gen, ctx := m.gen, m.viewCtx
	return func() tea.Msg {
		users, err := m.client.Users(ctx)
		return usersLoadedMsg{gen: gen, users: users, err: err}
	}
}

func (m Model) loadGrants(userID int64) tea.Cmd {
	gen, ctx := m.gen, m.viewCtx
	return func() tea.Msg {
		ws, err := grants.NewWorkingSet(ctx, m.client, userID)
		return grantsLoadedMsg{gen: gen, ws: ws, err: err}
	}
}

func (m Model) applyGrants() tea.Cmd {
	gen, ctx, ws := m.gen, m.viewCtx, m.workingSet
	return func() tea.Msg {
		return applyDoneMsg{gen: gen, result: ws.Apply(ctx)}
	}
}
