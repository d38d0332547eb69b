package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	responsesStartedTotal  prometheus.Counter
	responsesSubmitted     prometheus.Counter
	scoringDurationSeconds prometheus.Histogram
	uploadRequestsTotal    *prometheus.CounterVec
	uploadRejectedTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "talentflow_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		responsesStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_responses_started_total",
			Help: "Number of assessment responses started by candidates.",
		})

		responsesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "talentflow_responses_submitted_total",
			Help: "Number of assessment responses submitted for scoring.",
		})

		scoringDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "talentflow_scoring_duration_seconds",
			Help:    "Duration of scoring runs at submission time.",
			Buckets: prometheus.DefBuckets,
		})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_upload_requests_total",
			Help: "Number of accepted file-upload answers by MIME type.",
		}, []string{"mime"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentflow_upload_rejected_total",
			Help: "Number of rejected file-upload answers by reason.",
		}, []string{"reason"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			responsesStartedTotal,
			responsesSubmitted,
			scoringDurationSeconds,
			uploadRequestsTotal,
			uploadRejectedTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ResponsesStarted exposes the counter for started responses.
func ResponsesStarted() prometheus.Counter {
	RegisterMetrics()
	return responsesStartedTotal
}

// ResponsesSubmitted exposes the counter for submitted responses.
func ResponsesSubmitted() prometheus.Counter {
	RegisterMetrics()
	return responsesSubmitted
}

// ScoringDuration exposes the histogram for scoring runs.
func ScoringDuration() prometheus.Histogram {
	RegisterMetrics()
	return scoringDurationSeconds
}

// UploadRequests exposes the counter for accepted uploads.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected exposes the counter for rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}
