package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arai_generations_total",
			Help: "Total number of strategy generations by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arai_llm_request_duration_seconds",
			Help:    "Duration of text generation calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 9),
		},
		[]string{"prompt"},
	)

	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arai_exports_total",
			Help: "Total number of exported documents by format",
		},
		[]string{"format"},
	)

	Shares = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arai_shares_total",
			Help: "Total number of shared reports by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	DBOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arai_db_operations_total",
			Help: "Total number of report store operations",
		},
		[]string{"operation", "status"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// Outcome maps an error to the success/failure label value
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
