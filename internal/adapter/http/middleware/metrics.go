package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// unmatchedRoute labels requests no route matched.
const unmatchedRoute = "unmatched"

// RequestRecorder receives per-request measurements.
type RequestRecorder interface {
	RequestStarted()
	RequestFinished(method, route string, status int, took time.Duration)
}

// Metrics returns middleware that records HTTP metrics labeled by chi
// route pattern, so IDs in paths do not create new series.
func Metrics(recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder.RequestStarted()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			recorder.RequestFinished(r.Method, routePattern(r), responseStatus(ww), time.Since(start))
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}

	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}

	return unmatchedRoute
}
