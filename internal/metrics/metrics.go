package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Analysis results.
const (
	ResultSuccess           = "success"
	ResultTransportFailure  = "transport_failure"
	ResultMalformedResponse = "malformed_response"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_doctor_analyses_total",
			Help: "Total number of log analyses by result",
		},
		[]string{"result"},
	)

	AnalysisDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "log_doctor_analysis_duration_seconds",
			Help:    "Time spent building, sending and validating an analysis request",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		},
	)

	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_doctor_provider_requests_total",
			Help: "Total model provider requests by provider and result",
		},
		[]string{"provider", "result"},
	)

	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "log_doctor_provider_tokens_total",
			Help: "Tokens consumed by model provider requests",
		},
		[]string{"provider", "kind"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			AnalysisDurationSeconds,
			ProviderRequestsTotal,
			ProviderTokensTotal,
		)
	})
}
