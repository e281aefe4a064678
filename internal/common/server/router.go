// internal/common/server/router.go
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "committee-matcher/internal/common/errors"
	"committee-matcher/internal/common/logger"
)

// MatchPath is the primary mount point of the match handler. It is also
// served at "/".
const MatchPath = "/api/match"

type RouterOptions struct {
	Match  http.Handler
	Logger logger.Logger

	// Ready reports why the service cannot serve matches. nil means ready.
	Ready func() error

	MetricsEnabled bool
	MetricsPath    string
	Gatherer       prometheus.Gatherer
}

func NewRouter(opts RouterOptions) *mux.Router {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	r := mux.NewRouter()
	r.Use(RequestID(), AccessLog(log), Recover(log))

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ready", readyHandler(opts.Ready)).Methods(http.MethodGet)

	if opts.MetricsEnabled {
		gatherer := opts.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// The match handler does its own method dispatch.
	r.Handle(MatchPath, opts.Match)
	r.Handle("/", opts.Match)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})
	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func readyHandler(ready func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(); err != nil {
				apperrors.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "not ready",
					"reason": err.Error(),
				})
				return
			}
		}
		apperrors.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
