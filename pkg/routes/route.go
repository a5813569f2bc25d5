package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// pattern returns the ServeMux pattern for the route under prefix.
// An empty route pattern under an empty prefix matches only the root path.
func (r Route) pattern(prefix string) string {
	path := prefix + r.Pattern
	if path == "" || path == "/" {
		path = "/{$}"
	}
	return r.Method + " " + path
}
