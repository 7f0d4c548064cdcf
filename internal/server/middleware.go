package server

import (
	"net/http"
	"time"

	"loja-backend/internal/metrics"

	"github.com/gorilla/mux"
)

// statusRecorder keeps the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// unmatchedRoute labels requests no route accepts (404, 405, CORS preflights)
// so stray paths do not grow the label set.
const unmatchedRoute = "unmatched"

// routeTemplate labels a request by its route ("/produtos/{id}") rather than
// the raw path. It runs outside the router, so the route is looked up again.
func routeTemplate(router *mux.Router, r *http.Request) string {
	var match mux.RouteMatch
	if router.Match(r, &match) && match.Route != nil {
		if tpl, err := match.Route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return unmatchedRoute
}

func recordMetrics(router *mux.Router, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		metrics.RecordRequest(r.Method, routeTemplate(router, r), rw.status, time.Since(start))
	})
}

// logRequests logs one line per request. Query strings are left out since the
// webhook carries its secret there.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.Infof("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}
