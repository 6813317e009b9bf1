package session

// Route identifies a console view
type Route string

// Console routes targeted by session transitions
const (
	// RouteLogin is the login view
	RouteLogin Route = "login"
	// RouteDashboard is the main authenticated view
	RouteDashboard Route = "dashboard"
	// RouteUnauthorized is shown when a capability check fails
	RouteUnauthorized Route = "unauthorized"
)

// Navigator receives navigation requests triggered by session state
// transitions. The TUI switches views; plain CLI commands use NopNavigator.
type Navigator interface {
	NavigateTo(route Route)
}

// NopNavigator ignores navigation requests
type NopNavigator struct{}

// NavigateTo implements Navigator
func (NopNavigator) NavigateTo(Route) {}

// NavigatorFunc adapts a function to the Navigator interface
type NavigatorFunc func(route Route)

// NavigateTo implements Navigator
func (f NavigatorFunc) NavigateTo(route Route) {
	f(route)
}
