package middleware

import "net/http"

// SetChain wraps a handler with the given middlewares. The first middleware in
// the list becomes the outermost wrapper.
func SetChain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}

// SetRouteChain wraps a single route's handler func with per-route middlewares.
func SetRouteChain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}
