package observability

import (
	"time"

	"quill/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every collector of the application.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// StoreOperations counts entity store operations by entity, operation and result code.
	StoreOperations = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_store_operations_total",
		Help: "Total entity store operations by entity, operation and result",
	}, []string{"entity", "operation", "result"})

	// StoreLatency records store operation latency in seconds.
	StoreLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quill_store_operation_seconds",
		Help:    "Entity store operation latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"entity", "operation"})

	// CacheLookups counts cache-aside lookups by outcome (hit, miss, error).
	CacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_cache_lookups_total",
		Help: "Cache lookups by outcome",
	}, []string{"outcome"})

	// CacheErrors counts failed Redis commands by command name.
	CacheErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_cache_errors_total",
		Help: "Failed Redis commands by command",
	}, []string{"command"})

	// SearchIndexErrors counts failed search index calls by operation.
	SearchIndexErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_search_index_errors_total",
		Help: "Failed search index calls by operation",
	}, []string{"operation"})
)

// ResultLabel turns an error into the result label of StoreOperations:
// "ok", the AppError code, or "error" for anything else.
func ResultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := models.ErrorCode(err); code != "" {
		return code
	}
	return "error"
}

// TrackStoreOp starts timing an operation. The returned func records latency
// and the result; pass it the operation's final error.
func TrackStoreOp(entity, operation string) func(error) {
	start := time.Now()
	return func(err error) {
		StoreLatency.WithLabelValues(entity, operation).Observe(time.Since(start).Seconds())
		StoreOperations.WithLabelValues(entity, operation, ResultLabel(err)).Inc()
	}
}
