package routes

import "net/http"

// Group organizes routes under a common prefix. A group may have no prefix
// and only children, letting one handler contribute several top-level paths.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Walk calls fn for every route in groups with its full path, parents first.
func Walk(groups []Group, fn func(path string, route Route)) {
	for _, group := range groups {
		walk("", group, fn)
	}
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	Walk(groups, func(path string, route Route) {
		mux.HandleFunc(route.Method+" "+path, route.Handler)
	})
}

func walk(parent string, group Group, fn func(string, Route)) {
	prefix := parent + group.Prefix
	for _, route := range group.Routes {
		fn(prefix+route.Pattern, route)
	}
	for _, child := range group.Children {
		walk(prefix, child, fn)
	}
}
