package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	historyStoreRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "history_store",
		Name:      "operations_total",
		Help:      "Count of history store operations.",
	}, []string{"operation", "backend", "status"})
	historyStoreRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "history_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of history store operations.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30},
	}, []string{"operation", "backend", "status"})
)

// HistoryStore tracks metrics for history store operations of one backend.
type HistoryStore struct {
	backend string
}

// NewHistoryStore creates a HistoryStore metrics collector.
func NewHistoryStore(backend string) *HistoryStore {
	if backend == "" {
		backend = "unknown"
	}
	return &HistoryStore{backend: backend}
}

// Observe records duration and status of a store operation.
func (m HistoryStore) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	historyStoreRequestsTotal.WithLabelValues(operation, m.backend, status).Inc()
	historyStoreRequestDuration.WithLabelValues(operation, m.backend, status).Observe(time.Since(started).Seconds())
}
