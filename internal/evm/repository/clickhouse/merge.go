package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

const existingHashesQuery = `
SELECT hash
FROM evm_address_transactions
WHERE address = ?`

const insertTransactionsQuery = `
INSERT INTO evm_address_transactions (
	address,
	hash,
	block_number,
	timestamp,
	from_address,
	to_address,
	gas_used,
	gas_price,
	is_error
) VALUES`

const insertWatermarkQuery = `
INSERT INTO evm_address_watermarks (
	address,
	watermark
) VALUES`

// Merge inserts the records whose hash is not stored yet and raises the watermark.
func (r *Repository) Merge(ctx context.Context, address string, records []model.Transaction, watermark uint64) (err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("merge", err, start)
	}()

	if r.readOnly {
		return model.ErrCacheReadOnly
	}

	seen, err := r.existingHashes(ctx, address)
	if err != nil {
		return err
	}
	fresh := make([]model.Transaction, 0, len(records))
	for _, tx := range records {
		if _, ok := seen[tx.Hash]; ok {
			continue
		}
		seen[tx.Hash] = struct{}{}
		fresh = append(fresh, tx)
	}

	if err = r.insertTransactions(ctx, address, fresh); err != nil {
		return err
	}

	current, ok, err := r.watermark(ctx, address)
	if err != nil {
		return err
	}
	if ok && current >= watermark {
		return nil
	}
	return r.insertWatermark(ctx, address, watermark)
}

func (r *Repository) existingHashes(ctx context.Context, address string) (seen map[string]struct{}, err error) {
	rows, err := r.conn.Query(ctx, existingHashesQuery, address)
	if err != nil {
		return nil, fmt.Errorf("query existing hashes: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	seen = make(map[string]struct{})
	for rows.Next() {
		var hash string
		if err = rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("scan hash: %w", err)
		}
		seen[hash] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hashes: %w", err)
	}
	return seen, nil
}

func (r *Repository) insertTransactions(ctx context.Context, address string, txs []model.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertTransactionsQuery)
	if err != nil {
		return fmt.Errorf("prepare transactions batch: %w", err)
	}

	for _, tx := range txs {
		if err = batch.Append(
			address,
			tx.Hash,
			tx.BlockNumber,
			tx.Timestamp,
			tx.From,
			tx.To,
			tx.GasUsed,
			tx.GasPrice.ToBig(),
			tx.IsError,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append transaction: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}
	return nil
}

func (r *Repository) insertWatermark(ctx context.Context, address string, watermark uint64) error {
	batch, err := r.conn.PrepareBatch(ctx, insertWatermarkQuery)
	if err != nil {
		return fmt.Errorf("prepare watermark batch: %w", err)
	}
	if err = batch.Append(address, watermark); err != nil {
		_ = batch.Abort()
		return fmt.Errorf("append watermark: %w", err)
	}
	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert watermark: %w", err)
	}
	return nil
}
