package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/cache"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/etherscan"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/service"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/metrics"
)

// History is the fetcher together with the resources it owns.
type History struct {
	fetcher *service.HistoryFetcher
	close   func() error
}

// NewHistory builds the store, explorer client and fetcher described by opts.
func NewHistory(opts HistoryOptions, logger *zap.Logger) (*History, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	store, closeStore, err := newStore(opts, logger)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewUnlimited()
	if opts.RPS > 0 {
		limiter = ratelimit.New(opts.RPS)
	}
	client, err := etherscan.NewClient(
		etherscan.Config{
			BaseURL:    opts.APIURL,
			APIKey:     opts.APIKey,
			ChainID:    opts.ChainID,
			MaxRetries: opts.MaxRetries,
		},
		&http.Client{Timeout: opts.HTTPTimeout},
		limiter,
		metrics.NewExplorerClient(strconv.FormatUint(opts.ChainID, 10)),
		logger,
	)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("init explorer client: %w", err)
	}

	fetcher, err := service.NewHistoryFetcher(
		store,
		client,
		metrics.NewHistoryFetcher(strconv.FormatUint(opts.ChainID, 10)),
		service.HistoryFetcherConfig{
			PageSize:         opts.PageSize,
			PageDelay:        opts.PageDelay,
			UpdateActiveDays: opts.UpdateActive,
			Workers:          opts.Workers,
		},
		logger,
	)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("init history fetcher: %w", err)
	}

	return &History{fetcher: fetcher, close: closeStore}, nil
}

func newStore(opts HistoryOptions, logger *zap.Logger) (service.HistoryStore, func() error, error) {
	switch opts.Store {
	case StoreClickhouse:
		repo, err := clickhouse.NewRepository(opts.ClickhouseDSN, opts.NoUpdate, metrics.NewHistoryStore(StoreClickhouse))
		if err != nil {
			return nil, nil, fmt.Errorf("init clickhouse store: %w", err)
		}
		return repo, repo.Close, nil
	default:
		fc, err := cache.Open(opts.CachePath, opts.NoUpdate, metrics.NewHistoryStore(StoreFile), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("init file store: %w", err)
		}
		return fc, func() error { return nil }, nil
	}
}

// FetchMany returns the histories of addresses restricted to window, in input order.
func (h *History) FetchMany(ctx context.Context, addresses []string, window model.DateWindow) ([]model.AddressHistory, error) {
	return h.fetcher.FetchMany(ctx, addresses, window)
}

// Close releases the store.
func (h *History) Close() error {
	return h.close()
}
