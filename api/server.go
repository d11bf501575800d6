package api

import (
	"net/http"

	"parenteye/handlers"
	"parenteye/utils"
)

// NewHandler assembles the public HTTP surface. rl may be nil to disable rate limiting.
func NewHandler(h *handlers.EventsHandler, m *Metrics, rl *IPRateLimiter) http.Handler {
	r := utils.NewRouter()
	r.Use(m.Middleware)

	r.HandleFunc("/", h.Root)

	var nearby http.Handler = http.HandlerFunc(h.NearbyLatestEvents)
	if rl != nil {
		nearby = RateLimitHandler(rl, nearby)
	}
	r.Handle("/getNearbyLatestEvents", nearby)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	// mux skips route middleware for unmatched paths and methods.
	notFound := utils.CORS(m.Middleware(http.HandlerFunc(h.NotFound)))
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	return RequestID(Recover(r))
}
