package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec

	evaluationsTotal        *prometheus.CounterVec
	evaluationScore         prometheus.Histogram
	recommendationsTotal    *prometheus.CounterVec
	recommendationLatency   *prometheus.HistogramVec
	eventsPublishedTotal    *prometheus.CounterVec
	eventsReceivedTotal     *prometheus.CounterVec
	catalogImportItemsTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors exposed on /metrics.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathfinder_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		evaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_assessment_evaluations_total",
			Help: "Assessment submissions grouped by outcome.",
		}, []string{"category", "outcome"})

		evaluationScore = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathfinder_assessment_score_percent",
			Help:    "Distribution of overall percentages for completed assessments.",
			Buckets: []float64{20, 40, 60, 80, 100},
		})

		recommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_recommendations_total",
			Help: "Recommendation requests grouped by kind and cache result.",
		}, []string{"kind", "cache"})

		recommendationLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathfinder_recommendation_latency_seconds",
			Help:    "Time spent computing recommendations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"})

		eventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_events_published_total",
			Help: "Progress events published per transport.",
		}, []string{"transport", "type"})

		eventsReceivedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_events_received_total",
			Help: "Progress events received from other nodes per transport.",
		}, []string{"transport", "type"})

		catalogImportItemsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_catalog_import_items_total",
			Help: "Catalog entries upserted by seeding and imports.",
		}, []string{"kind"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			evaluationsTotal,
			evaluationScore,
			recommendationsTotal,
			recommendationLatency,
			eventsPublishedTotal,
			eventsReceivedTotal,
			catalogImportItemsTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AssessmentEvaluations counts submissions by category and outcome.
func AssessmentEvaluations() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationsTotal
}

// AssessmentScores observes overall percentages of completed attempts.
func AssessmentScores() prometheus.Histogram {
	RegisterMetrics()
	return evaluationScore
}

// RecommendationRequests counts recommendation requests by kind and cache result.
func RecommendationRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return recommendationsTotal
}

// RecommendationLatency observes recommendation computation time.
func RecommendationLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return recommendationLatency
}

// EventsPublished counts published progress events.
func EventsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsPublishedTotal
}

// EventsReceived counts progress events consumed from other nodes.
func EventsReceived() *prometheus.CounterVec {
	RegisterMetrics()
	return eventsReceivedTotal
}

// CatalogImportItems counts upserted catalog entries.
func CatalogImportItems() *prometheus.CounterVec {
	RegisterMetrics()
	return catalogImportItemsTotal
}
