package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	historyFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "history_fetcher",
		Name:      "fetch_total",
		Help:      "Count of address history fetches by outcome.",
	}, []string{"chain", "outcome", "status"})

	historyFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "history_fetcher",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of an address history fetch.",
		Buckets:   []float64{.01, .1, .5, 1, 5, 10, 30, 60, 300, 900},
	}, []string{"chain", "outcome", "status"})

	historyFetchPages = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "blockinsight7000",
		Subsystem: "history_fetcher",
		Name:      "fetch_pages",
		Help:      "Number of explorer pages requested per fetch.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"chain"})

	historyFetchRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blockinsight7000",
		Subsystem: "history_fetcher",
		Name:      "records_total",
		Help:      "Count of new transactions merged into the history store.",
	}, []string{"chain"})
)

// HistoryFetcher tracks metrics for address history fetches.
type HistoryFetcher struct {
	chain string
}

// NewHistoryFetcher constructs a metrics collector for history fetches on one chain.
func NewHistoryFetcher(chain string) *HistoryFetcher {
	if chain == "" {
		chain = "unknown"
	}
	return &HistoryFetcher{chain: chain}
}

// ObserveFetch records one fetch. Outcome is one of the fetcher's outcome labels
// (cached, skipped, updated).
func (m HistoryFetcher) ObserveFetch(outcome string, err error, pages, records int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	historyFetchTotal.WithLabelValues(m.chain, outcome, status).Inc()
	historyFetchDuration.WithLabelValues(m.chain, outcome, status).
		Observe(time.Since(started).Seconds())
	if pages > 0 {
		historyFetchPages.WithLabelValues(m.chain).Observe(float64(pages))
	}
	if err == nil && records > 0 {
		historyFetchRecordsTotal.WithLabelValues(m.chain).Add(float64(records))
	}
}
