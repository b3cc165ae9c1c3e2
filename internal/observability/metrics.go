package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	schedulerEvaluations  *prometheus.CounterVec
	moderationTransitions *prometheus.CounterVec
	publisherFailures     prometheus.Counter
	dashboardRequests     *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the
// pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoseo_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "autoseo_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoseo_api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		schedulerEvaluations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoseo_scheduler_evaluations_total",
			Help: "Scheduler evaluation outcomes per site, by result.",
		}, []string{"outcome"})

		moderationTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoseo_moderation_transitions_total",
			Help: "Successful content lifecycle transitions, by action.",
		}, []string{"action"})

		publisherFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "autoseo_publisher_failures_total",
			Help: "Remote publisher calls that failed after the local status flip.",
		})

		dashboardRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "autoseo_dashboard_requests_total",
			Help: "Dashboard stat lookups, by cache result.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal, apiLatencySeconds, apiErrorsTotal,
			schedulerEvaluations, moderationTransitions, publisherFailures,
			dashboardRequests,
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

// SchedulerEvaluations exposes the scheduler outcome counter.
func SchedulerEvaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return schedulerEvaluations
}

// ModerationTransitions exposes the lifecycle transition counter.
func ModerationTransitions() *prometheus.CounterVec {
	RegisterMetrics()
	return moderationTransitions
}

// PublisherFailures exposes the remote publish failure counter.
func PublisherFailures() prometheus.Counter {
	RegisterMetrics()
	return publisherFailures
}

// DashboardRequests exposes the dashboard cache result counter.
func DashboardRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardRequests
}
