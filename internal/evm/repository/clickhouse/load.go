package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

const loadTransactionsQuery = `
SELECT
	hash,
	block_number,
	timestamp,
	from_address,
	to_address,
	gas_used,
	toString(gas_price) AS gas_price,
	is_error
FROM evm_address_transactions FINAL
WHERE address = ?
ORDER BY timestamp, block_number, hash`

const loadWatermarkQuery = `
SELECT count() AS rows, max(watermark) AS watermark
FROM evm_address_watermarks
WHERE address = ?`

// Load returns the stored history of address, or an empty history without a watermark.
func (r *Repository) Load(ctx context.Context, address string) (h model.AddressHistory, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("load", err, start)
	}()

	h = model.AddressHistory{Address: address}
	if h.Watermark, h.HasWatermark, err = r.watermark(ctx, address); err != nil {
		return model.AddressHistory{}, err
	}
	if h.Transactions, err = r.transactions(ctx, address); err != nil {
		return model.AddressHistory{}, err
	}
	if err = h.Validate(); err != nil {
		return model.AddressHistory{}, &model.CacheCorruptionError{Path: "clickhouse:evm_address_transactions", Err: err}
	}
	return h, nil
}

func (r *Repository) transactions(ctx context.Context, address string) (txs []model.Transaction, err error) {
	rows, err := r.conn.Query(ctx, loadTransactionsQuery, address)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	for rows.Next() {
		var (
			tx       model.Transaction
			gasPrice string
		)
		if err = rows.Scan(
			&tx.Hash,
			&tx.BlockNumber,
			&tx.Timestamp,
			&tx.From,
			&tx.To,
			&tx.GasUsed,
			&gasPrice,
			&tx.IsError,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		var price uint256.Int
		if err = price.SetFromDecimal(gasPrice); err != nil {
			return nil, fmt.Errorf("parse gas price of %s: %w", tx.Hash, err)
		}
		tx.Address = address
		tx.Timestamp = tx.Timestamp.UTC()
		tx.GasPrice = price
		txs = append(txs, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (r *Repository) watermark(ctx context.Context, address string) (watermark uint64, ok bool, err error) {
	rows, err := r.conn.Query(ctx, loadWatermarkQuery, address)
	if err != nil {
		return 0, false, fmt.Errorf("query watermark: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, false, fmt.Errorf("watermark row not found")
	}
	var count uint64
	if err = rows.Scan(&count, &watermark); err != nil {
		return 0, false, fmt.Errorf("scan watermark: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate watermark: %w", err)
	}
	return watermark, count > 0, nil
}
