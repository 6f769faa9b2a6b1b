package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

var (
	explorerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "explorer_client",
		Name:      "operations_total",
		Help:      "Count of explorer API operations.",
	}, []string{"operation", "chain", "status"})
	explorerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "explorer_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of explorer API operations, retries included.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"operation", "chain", "status"})
)

// ExplorerClient tracks metrics for explorer API calls.
type ExplorerClient struct {
	chain string
}

// NewExplorerClient constructs a metrics collector for explorer calls on one chain.
func NewExplorerClient(chain string) *ExplorerClient {
	if chain == "" {
		chain = "unknown"
	}
	return &ExplorerClient{chain: chain}
}

// Observe records a single explorer call outcome and duration.
func (m ExplorerClient) Observe(operation string, err error, started time.Time) {
	status := requestStatus(err)

	explorerRequestsTotal.WithLabelValues(operation, m.chain, status).Inc()
	explorerRequestDuration.WithLabelValues(operation, m.chain, status).Observe(time.Since(started).Seconds())
}

func requestStatus(err error) string {
	var rateErr *model.RateLimitExceededError
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &rateErr):
		return "rate_limited"
	default:
		return "error"
	}
}
