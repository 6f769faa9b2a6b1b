// Package app wires command-line options into the history fetching stack shared by the
// report commands.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/etherscan"
)

// Store backends.
const (
	StoreFile       = "file"
	StoreClickhouse = "clickhouse"
)

// HistoryOptions configures explorer access and the history store.
type HistoryOptions struct {
	APIKey        string        `long:"api-key" env:"ETHERSCAN_API_KEY" description:"Explorer API key"`
	APIURL        string        `long:"api-url" env:"ETHERSCAN_API_URL" description:"Explorer API base URL" default:"https://api.etherscan.io/v2/api"`
	ChainID       uint64        `long:"chain-id" env:"ETHERSCAN_CHAIN_ID" description:"Chain id sent to the explorer" default:"1"`
	Store         string        `long:"store" env:"FOOTPRINT_STORE" description:"History store backend" choice:"file" choice:"clickhouse" default:"file"`
	CachePath     string        `long:"cache-path" env:"FOOTPRINT_CACHE_PATH" description:"History cache file for the file store" default:"cache/transactions.json"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"FOOTPRINT_CLICKHOUSE_DSN" description:"ClickHouse DSN for the clickhouse store"`
	PageSize      int           `long:"page-size" env:"FOOTPRINT_PAGE_SIZE" description:"Transactions requested per page" default:"10000"`
	RPS           int           `long:"rps" env:"FOOTPRINT_RPS" description:"Explorer requests per second, 0 disables limiting" default:"5"`
	PageDelay     time.Duration `long:"page-delay" env:"FOOTPRINT_PAGE_DELAY" description:"Pause between pages of one address"`
	MaxRetries    uint64        `long:"max-retries" env:"FOOTPRINT_MAX_RETRIES" description:"Retries per explorer request" default:"5"`
	HTTPTimeout   time.Duration `long:"http-timeout" env:"FOOTPRINT_HTTP_TIMEOUT" description:"HTTP timeout per explorer request" default:"30s"`
	Workers       int           `long:"workers" env:"FOOTPRINT_WORKERS" description:"Addresses fetched concurrently" default:"1"`
	NoUpdate      bool          `long:"no-update" description:"Read the store only, never call the explorer"`
	UpdateActive  int           `long:"update-active" description:"Only page addresses with remote activity in the last N days"`
	MetricsAddr   string        `long:"metrics-addr" env:"FOOTPRINT_METRICS_ADDR" description:"Address for the metrics server, empty disables it"`
	JSONLogs      bool          `long:"json-logs" env:"FOOTPRINT_JSON_LOGS" description:"Emit production JSON logs"`
	Verbose       bool          `short:"v" long:"verbose" description:"Verbose mode"`
}

// Validate checks option combinations go-flags cannot express.
func (o HistoryOptions) Validate() error {
	switch o.Store {
	case StoreFile:
		if o.CachePath == "" {
			return errors.New("cache path is required for the file store")
		}
	case StoreClickhouse:
		if o.ClickhouseDSN == "" {
			return errors.New("clickhouse dsn is required for the clickhouse store")
		}
	default:
		return fmt.Errorf("unknown store %q", o.Store)
	}
	if !o.NoUpdate && o.APIKey == "" {
		return errors.New("explorer api key is required unless --no-update is set")
	}
	if o.PageSize <= 0 || o.PageSize > etherscan.MaxPageSize {
		return fmt.Errorf("page size must be in [1, %d], got %d", etherscan.MaxPageSize, o.PageSize)
	}
	if o.RPS < 0 {
		return fmt.Errorf("rps must not be negative, got %d", o.RPS)
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", o.Workers)
	}
	if o.UpdateActive < 0 {
		return fmt.Errorf("update active days must not be negative, got %d", o.UpdateActive)
	}
	return nil
}
