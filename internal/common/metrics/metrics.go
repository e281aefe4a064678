// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for MatchRequests.
const (
	OutcomeSuccess   = "success"
	OutcomeClientErr = "client_error"
	OutcomeConfigErr = "config_error"
	OutcomeUpstream  = "upstream_error"
	OutcomePreflight = "preflight"
	OutcomeInternal  = "internal_error"
)

var (
	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "committee_match_requests_total",
			Help: "Total number of match requests by outcome",
		},
		[]string{"outcome", "error_code"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "committee_match_completion_duration_seconds",
			Help:    "Duration of completion service calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"status"},
	)

	SchemaViolations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "committee_match_schema_violations_total",
			Help: "Completion replies that did not conform to the output schema",
		},
	)

	RequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "committee_match_requests_in_flight",
			Help: "Number of match requests currently being served",
		},
	)
)
