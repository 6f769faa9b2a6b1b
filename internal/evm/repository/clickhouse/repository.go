// Package clickhouse stores address histories in ClickHouse.
package clickhouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

// Repository is a history store backed by the evm_address_transactions and
// evm_address_watermarks tables. Inserts are durable on return, so Persist has nothing to do.
type Repository struct {
	conn     Conn
	metrics  Metrics
	readOnly bool
}

func NewRepository(dsn string, readOnly bool, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}
	if metrics == nil {
		return nil, errors.New("clickhouse repository metrics is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	return &Repository{conn: conn, metrics: metrics, readOnly: readOnly}, nil
}

// ReadOnly reports whether updates are disabled.
func (r *Repository) ReadOnly() bool {
	return r.readOnly
}

// Persist has nothing to flush since Merge writes through.
func (r *Repository) Persist(context.Context) error {
	if r.readOnly {
		return model.ErrCacheReadOnly
	}
	return nil
}

// Close releases the connection.
func (r *Repository) Close() error {
	return r.conn.Close()
}
