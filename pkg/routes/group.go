// Package routes declares HTTP routes as data and registers them on a ServeMux.
package routes

import "net/http"

// Group organizes routes under a common prefix. Middleware wraps every route
// in the group and its children, outermost first.
type Group struct {
	Prefix     string
	Routes     []Route
	Children   []Group
	Middleware []func(http.Handler) http.Handler
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", nil, group)
	}
}

// Patterns returns the ServeMux patterns the groups would register, in order.
func Patterns(groups ...Group) []string {
	var out []string
	var walk func(prefix string, g Group)
	walk = func(prefix string, g Group) {
		full := prefix + g.Prefix
		for _, r := range g.Routes {
			out = append(out, r.pattern(full))
		}
		for _, child := range g.Children {
			walk(full, child)
		}
	}
	for _, g := range groups {
		walk("", g)
	}
	return out
}

func registerGroup(
	mux *http.ServeMux,
	parentPrefix string,
	parentMw []func(http.Handler) http.Handler,
	group Group,
) {
	fullPrefix := parentPrefix + group.Prefix
	mw := append(append([]func(http.Handler) http.Handler{}, parentMw...), group.Middleware...)

	for _, route := range group.Routes {
		mux.Handle(route.pattern(fullPrefix), wrap(route.Handler, mw))
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, mw, child)
	}
}

func wrap(h http.Handler, mw []func(http.Handler) http.Handler) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}
