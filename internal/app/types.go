package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// HistorySource returns address histories in input order.
	HistorySource interface {
		FetchMany(ctx context.Context, addresses []string, window model.DateWindow) ([]model.AddressHistory, error)
	}
	// Estimator converts transactions to an unrounded kgCO2 footprint.
	Estimator interface {
		KgCO2(txs []model.Transaction) (decimal.Decimal, error)
	}
)
