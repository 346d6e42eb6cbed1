package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prompt assistant API metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prompt_assistant",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prompt_assistant",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Store file operations
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prompt_assistant",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Provider store file operations",
		},
		[]string{"operation", "status"},
	)

	CustomProviders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "prompt_assistant",
			Subsystem: "registry",
			Name:      "custom_providers",
			Help:      "Number of custom providers in the last persisted document",
		},
	)

	// Model cache lookups
	ModelCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prompt_assistant",
			Subsystem: "model_cache",
			Name:      "lookups_total",
			Help:      "Model cache lookups by result (hit, miss, stale)",
		},
		[]string{"result"},
	)

	ModelCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "prompt_assistant",
			Subsystem: "model_cache",
			Name:      "entries",
			Help:      "Providers currently holding a cached model list",
		},
	)

	// Upstream model listing
	UpstreamFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "prompt_assistant",
			Subsystem: "upstream",
			Name:      "model_fetches_total",
			Help:      "Upstream model list fetches",
		},
		[]string{"provider", "status"},
	)

	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "prompt_assistant",
			Subsystem: "upstream",
			Name:      "model_fetch_duration_seconds",
			Help:      "Upstream model list fetch duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"provider"},
	)
)

// RecordRequest records an HTTP request with all relevant labels
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordStoreOperation records a store read/write/init outcome
func RecordStoreOperation(operation string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
}

func SetCustomProviders(count int) {
	CustomProviders.Set(float64(count))
}

// RecordCacheLookup records a cache lookup; result is hit, miss or stale
func RecordCacheLookup(result string) {
	if strings.TrimSpace(result) == "" {
		result = "unknown"
	}
	ModelCacheLookupsTotal.WithLabelValues(result).Inc()
}

func SetCacheEntries(count int) {
	ModelCacheEntries.Set(float64(count))
}

// RecordUpstreamFetch records an upstream model listing call
func RecordUpstreamFetch(provider string, err error, durationSec float64) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	UpstreamFetchesTotal.WithLabelValues(provider, status).Inc()
	UpstreamFetchDuration.WithLabelValues(provider).Observe(durationSec)
}
