// Package service implements incremental retrieval of contract transaction histories.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
	"github.com/goodnatureofminers/blockinsight7000-footprint/pkg/safe"
	"github.com/goodnatureofminers/blockinsight7000-footprint/pkg/workerpool"
)

// Fetch outcomes reported to metrics.
const (
	OutcomeCached  = "cached"
	OutcomeSkipped = "skipped"
	OutcomeUpdated = "updated"
)

const defaultPageSize = 10000

// HistoryFetcherConfig tunes paging behaviour.
type HistoryFetcherConfig struct {
	// PageSize is the explorer offset per request.
	PageSize int
	// PageDelay is an optional pause between consecutive pages of one address.
	PageDelay time.Duration
	// UpdateActiveDays, when positive, skips paging for synced addresses whose latest remote
	// transaction is older than this many days.
	UpdateActiveDays int
	// Workers bounds FetchMany concurrency.
	Workers int
}

// HistoryFetcher returns complete, de-duplicated histories, extending the store from the
// explorer when updates are allowed.
type HistoryFetcher struct {
	store    HistoryStore
	explorer Explorer
	metrics  HistoryFetcherMetrics
	cfg      HistoryFetcherConfig
	logger   *zap.Logger

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
	locks sync.Map
}

// NewHistoryFetcher builds a HistoryFetcher with the given dependencies.
func NewHistoryFetcher(
	store HistoryStore,
	explorer Explorer,
	metrics HistoryFetcherMetrics,
	cfg HistoryFetcherConfig,
	logger *zap.Logger,
) (*HistoryFetcher, error) {
	if store == nil {
		return nil, errors.New("history store is required")
	}
	if explorer == nil {
		return nil, errors.New("explorer is required")
	}
	if metrics == nil {
		return nil, errors.New("history fetcher metrics is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.UpdateActiveDays < 0 {
		return nil, fmt.Errorf("update active days must not be negative, got %d", cfg.UpdateActiveDays)
	}
	return &HistoryFetcher{
		store:    store,
		explorer: explorer,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger.Named("historyFetcher"),
		now:      time.Now,
		sleep:    clock.Pause,
	}, nil
}

// FetchMany fetches each address with up to cfg.Workers concurrent fetches and returns the
// histories in input order. The first failure cancels the remaining fetches.
func (f *HistoryFetcher) FetchMany(ctx context.Context, addresses []string, window model.DateWindow) ([]model.AddressHistory, error) {
	return workerpool.Map(ctx, f.cfg.Workers, addresses, func(ctx context.Context, address string) (model.AddressHistory, error) {
		return f.Fetch(ctx, address, window)
	})
}

// Fetch returns the history of address restricted to window.
func (f *HistoryFetcher) Fetch(ctx context.Context, address string, window model.DateWindow) (history model.AddressHistory, err error) {
	started := time.Now()
	outcome := OutcomeCached
	var pages, added int
	defer func() {
		f.metrics.ObserveFetch(outcome, err, pages, added, started)
	}()

	unlock := f.lock(address)
	defer unlock()

	logger := f.logger.With(zap.String("address", address))

	cached, err := f.store.Load(ctx, address)
	if err != nil {
		return model.AddressHistory{}, fmt.Errorf("load history of %s: %w", address, err)
	}
	if f.store.ReadOnly() {
		logger.Debug("store is read-only; using cached history", zap.Int("transactions", cached.Len()))
		return cached.Filter(window), nil
	}

	if f.cfg.UpdateActiveDays > 0 {
		skip, err := f.inactive(ctx, cached)
		if err != nil {
			return model.AddressHistory{}, err
		}
		if skip {
			outcome = OutcomeSkipped
			logger.Debug("no recent remote activity; skipping update", zap.Uint64("watermark", cached.Watermark))
			return cached.Filter(window), nil
		}
	}

	outcome = OutcomeUpdated
	fetched, watermark, pages, err := f.page(ctx, cached, logger)
	if err != nil {
		return model.AddressHistory{}, err
	}
	if len(fetched) == 0 {
		logger.Debug("history is up to date", zap.Int("pages", pages))
		return cached.Filter(window), nil
	}

	if err = f.store.Merge(ctx, address, fetched, watermark); err != nil {
		return model.AddressHistory{}, fmt.Errorf("merge history of %s: %w", address, err)
	}
	if err = f.store.Persist(ctx); err != nil {
		return model.AddressHistory{}, fmt.Errorf("persist history of %s: %w", address, err)
	}

	merged, added := cached.Merge(fetched, watermark)
	logger.Info("history updated",
		zap.Int("pages", pages),
		zap.Int("added", added),
		zap.Int("transactions", merged.Len()),
		zap.Uint64("watermark", merged.Watermark))
	return merged.Filter(window), nil
}

// inactive runs the single latest-transaction lookup. Addresses that were never synced are only
// skipped when the remote has nothing for them.
func (f *HistoryFetcher) inactive(ctx context.Context, cached model.AddressHistory) (bool, error) {
	latest, found, err := f.explorer.LatestTransaction(ctx, cached.Address)
	if err != nil {
		return false, fmt.Errorf("look up latest transaction of %s: %w", cached.Address, err)
	}
	if !found {
		return true, nil
	}
	if !cached.HasWatermark {
		return false, nil
	}
	if latest.BlockNumber <= cached.Watermark {
		return true, nil
	}
	cutoff := f.now().UTC().Add(-time.Duration(f.cfg.UpdateActiveDays) * 24 * time.Hour)
	if !latest.Timestamp.Before(cutoff) {
		return false, nil
	}
	f.logger.Warn("skipping inactive address with transactions above its watermark",
		zap.String("address", cached.Address),
		zap.Uint64("watermark", cached.Watermark),
		zap.Uint64("latest_block", latest.BlockNumber),
		zap.Time("latest_timestamp", latest.Timestamp),
		zap.Int("update_active_days", f.cfg.UpdateActiveDays))
	return true, nil
}

// page walks the explorer from just above the watermark. A full page moves the cursor to the
// block of its last entry, which is requested again so that blocks split across pages are
// read whole; repeated hashes are dropped.
func (f *HistoryFetcher) page(ctx context.Context, cached model.AddressHistory, logger *zap.Logger) ([]model.Transaction, uint64, int, error) {
	address := cached.Address
	var cursor uint64
	if cached.HasWatermark {
		next, err := safe.AddUint64(cached.Watermark, 1)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("advance cursor of %s: %w", address, err)
		}
		cursor = next
	}

	var (
		fetched   []model.Transaction
		watermark = cached.Watermark
		pages     int
		seen      = make(map[string]struct{})
	)
	for {
		if pages > 0 && f.cfg.PageDelay > 0 {
			if err := f.sleep(ctx, f.cfg.PageDelay); err != nil {
				return nil, 0, pages, err
			}
		}

		page, err := f.explorer.TransactionsPage(ctx, address, cursor, f.cfg.PageSize)
		pages++
		if err != nil {
			return nil, 0, pages, fmt.Errorf("fetch page of %s from block %d: %w", address, cursor, err)
		}
		logger.Debug("fetched page", zap.Uint64("start_block", cursor), zap.Int("entries", len(page)))

		for _, tx := range page {
			if tx.BlockNumber < cursor {
				return nil, 0, pages, &model.MalformedRecordError{
					Hash:  tx.Hash,
					Field: "blockNumber",
					Err:   fmt.Errorf("block %d below requested start block %d", tx.BlockNumber, cursor),
				}
			}
			if _, ok := seen[tx.Hash]; ok {
				continue
			}
			seen[tx.Hash] = struct{}{}
			fetched = append(fetched, tx)
			watermark = max(watermark, tx.BlockNumber)
		}

		if len(page) < f.cfg.PageSize {
			return fetched, watermark, pages, nil
		}
		last := page[len(page)-1].BlockNumber
		if last <= cursor {
			return nil, 0, pages, fmt.Errorf("address %s block %d: %w", address, cursor, model.ErrCursorStalled)
		}
		cursor = last
	}
}

func (f *HistoryFetcher) lock(address string) func() {
	v, _ := f.locks.LoadOrStore(address, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
