package service

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// HistoryStore keeps address histories between runs.
	HistoryStore interface {
		Load(ctx context.Context, address string) (model.AddressHistory, error)
		Merge(ctx context.Context, address string, records []model.Transaction, watermark uint64) error
		Persist(ctx context.Context) error
		ReadOnly() bool
	}
	// Explorer reads transaction pages from the remote explorer.
	Explorer interface {
		TransactionsPage(ctx context.Context, address string, startBlock uint64, pageSize int) ([]model.Transaction, error)
		LatestTransaction(ctx context.Context, address string) (model.Transaction, bool, error)
	}
	HistoryFetcherMetrics interface {
		ObserveFetch(outcome string, err error, pages, records int, started time.Time)
	}
)
