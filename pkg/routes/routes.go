// Package routes provides route grouping and HTTP multiplexer construction.
package routes

import "net/http"

// Route represents an HTTP route with method, pattern, and handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group represents a collection of routes under a common URL prefix.
type Group struct {
	Prefix      string
	Description string
	Routes      []Route
}

// Build constructs an http.Handler from standalone routes and route groups.
func Build(routes []Route, groups []Group) http.Handler {
	mux := http.NewServeMux()

	for _, route := range routes {
		mux.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}

	for _, group := range groups {
		for _, route := range group.Routes {
			mux.HandleFunc(route.Method+" "+group.Prefix+route.Pattern, route.Handler)
		}
	}

	return mux
}
