package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	DocstoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_operations_total",
			Help: "Total number of document store operations",
		},
		[]string{"collection", "operation", "result"},
	)

	DocstoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docstore_operation_duration_seconds",
			Help:    "Document store operation latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"collection", "operation"},
	)

	AuthEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Total number of auth state changes",
		},
		[]string{"type"},
	)

	MenuSavesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "menu_saves_total",
			Help: "Total number of full menu saves",
		},
	)
)

// ObserveDocstore records one store operation.
func ObserveDocstore(collection, operation string, seconds float64, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	DocstoreOperationsTotal.WithLabelValues(collection, operation, result).Inc()
	DocstoreOperationDuration.WithLabelValues(collection, operation).Observe(seconds)
}
