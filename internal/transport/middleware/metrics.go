package middleware

import (
	"net/http"
	"time"
)

type requestRecorder interface {
	RequestServed(method, route string, status int, d time.Duration)
}

// Metrics records each request under the ServeMux pattern that matched it.
// It must wrap the mux directly: the mux sets Request.Pattern on the
// request it receives.
func Metrics(rec requestRecorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			rec.RequestServed(r.Method, route, sw.status, time.Since(start))
		})
	}
}
