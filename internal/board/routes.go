package board

// Routes of the client. The board only ever navigates to RouteLogin and
// RouteTasks; the rest belong to the surrounding shell.
const (
	RouteRoot   = "/"
	RouteLogin  = "/login"
	RouteSignup = "/signup"
	RouteTasks  = "/tasks"
)

// Resolve maps a requested route to the route that is shown.
// The root redirects to the task list; unknown routes are returned as is.
func Resolve(route string) string {
	if route == RouteRoot || route == "" {
		return RouteTasks
	}
	return route
}

// Navigator changes the current route.
type Navigator interface {
	Navigate(route string)
}

// Recorder is a Navigator that remembers the last route.
type Recorder struct {
	route string
}

// Navigate implements Navigator.
func (r *Recorder) Navigate(route string) { r.route = route }

// Route returns the last route navigated to, or "" if none.
func (r *Recorder) Route() string { return r.route }
