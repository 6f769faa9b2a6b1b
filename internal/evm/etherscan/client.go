// Package etherscan is a client for the account transaction list of an Etherscan-compatible
// explorer API.
package etherscan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

const (
	// DefaultBaseURL is the multichain v2 endpoint.
	DefaultBaseURL = "https://api.etherscan.io/v2/api"
	// MaxPageSize is the largest offset the txlist action accepts.
	MaxPageSize = 10000

	endBlock = "99999999"

	statusOK        = "1"
	noTransactions  = "no transactions found"
	rateLimitMarker = "rate limit"
)

// Config holds explorer connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	// ChainID is sent as chainid when non-zero.
	ChainID        uint64
	MaxRetries     uint64
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client fetches normalized transactions from the explorer. All requests pass through a
// shared limiter, so one Client may serve many concurrent fetches.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter ratelimit.Limiter
	metrics Metrics
	logger  *zap.Logger
}

// NewClient constructs an explorer client.
func NewClient(cfg Config, httpClient *http.Client, limiter ratelimit.Limiter, metrics Metrics, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse explorer url: %w", err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if limiter == nil {
		return nil, errors.New("explorer rate limiter is required")
	}
	if metrics == nil {
		return nil, errors.New("explorer metrics is required")
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    httpClient,
		limiter: limiter,
		metrics: metrics,
		logger:  logger.Named("etherscan"),
	}, nil
}

// TransactionsPage returns up to pageSize transactions of address starting at startBlock,
// in ascending block order.
func (c *Client) TransactionsPage(ctx context.Context, address string, startBlock uint64, pageSize int) (txs []model.Transaction, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("txlist", err, started)
	}()

	if pageSize <= 0 || pageSize > MaxPageSize {
		return nil, fmt.Errorf("page size %d outside 1..%d", pageSize, MaxPageSize)
	}
	entries, err := c.txlist(ctx, "txlist", address, startBlock, pageSize, "asc")
	if err != nil {
		return nil, err
	}

	txs = make([]model.Transaction, 0, len(entries))
	for _, e := range entries {
		tx, err := toTransaction(address, e)
		if err != nil {
			return nil, err
		}
		if n := len(txs); n > 0 && tx.BlockNumber < txs[n-1].BlockNumber {
			return nil, malformed(tx.Hash, "blockNumber",
				fmt.Errorf("block %d after block %d in ascending page", tx.BlockNumber, txs[n-1].BlockNumber))
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// LatestTransaction returns the most recent transaction of address. The boolean is false
// when the address has no transactions at all.
func (c *Client) LatestTransaction(ctx context.Context, address string) (tx model.Transaction, found bool, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("txlist_latest", err, started)
	}()

	entries, err := c.txlist(ctx, "txlist_latest", address, 0, 1, "desc")
	if err != nil {
		return model.Transaction{}, false, err
	}
	if len(entries) == 0 {
		return model.Transaction{}, false, nil
	}
	tx, err = toTransaction(address, entries[0])
	if err != nil {
		return model.Transaction{}, false, err
	}
	return tx, true, nil
}

func (c *Client) txlist(ctx context.Context, operation, address string, startBlock uint64, offset int, sort string) ([]txEntry, error) {
	params := url.Values{}
	if c.cfg.ChainID != 0 {
		params.Set("chainid", strconv.FormatUint(c.cfg.ChainID, 10))
	}
	params.Set("module", "account")
	params.Set("action", "txlist")
	params.Set("address", address)
	params.Set("startblock", strconv.FormatUint(startBlock, 10))
	params.Set("endblock", endBlock)
	params.Set("page", "1")
	params.Set("offset", strconv.Itoa(offset))
	params.Set("sort", sort)
	if c.cfg.APIKey != "" {
		params.Set("apikey", c.cfg.APIKey)
	}

	var (
		entries  []txEntry
		attempts int
	)
	operationFn := func() error {
		attempts++
		c.limiter.Take()

		res, err := c.get(ctx, params)
		if err != nil {
			return err
		}
		entries, err = decodeEntries(res)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialBackoff
	b.MaxInterval = c.cfg.MaxBackoff
	b.MaxElapsedTime = 0

	notify := func(err error, next time.Duration) {
		c.logger.Warn("explorer request failed, retrying",
			zap.String("operation", operation),
			zap.String("address", address),
			zap.Int("attempt", attempts),
			zap.Duration("backoff", next),
			zap.Error(err))
	}
	err := backoff.RetryNotify(operationFn, backoff.WithContext(backoff.WithMaxRetries(b, c.cfg.MaxRetries), ctx), notify)
	if err == nil {
		return entries, nil
	}

	var (
		rateErr      *model.RateLimitExceededError
		malformedErr *model.MalformedRecordError
	)
	switch {
	case errors.As(err, &rateErr), errors.As(err, &malformedErr):
		return nil, err
	case ctx.Err() != nil:
		return nil, fmt.Errorf("%s %s: %w", operation, address, ctx.Err())
	default:
		return nil, &model.RemoteUnavailableError{Operation: operation, Attempts: attempts, Err: err}
	}
}

// get performs one HTTP attempt. Errors wrapped in backoff.Permanent are not retried.
func (c *Client) get(ctx context.Context, params url.Values) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return response{}, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return response{}, backoff.Permanent(ctx.Err())
		}
		return response{}, fmt.Errorf("perform request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("failed to close response body", zap.Error(err))
		}
	}()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return response{}, backoff.Permanent(rateLimitError(resp.Header, resp.Status))
	case resp.StatusCode >= http.StatusInternalServerError:
		return response{}, fmt.Errorf("unexpected status %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return response{}, backoff.Permanent(fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body))))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read response body: %w", err)
	}
	var res response
	if err := json.Unmarshal(body, &res); err != nil {
		// Proxies and overloaded gateways answer 200 with HTML; treat it like a 5xx.
		return response{}, fmt.Errorf("decode response: %w", err)
	}
	if res.Status != statusOK {
		if err := resultError(res, resp.Header); err != nil {
			return response{}, err
		}
	}
	return res, nil
}

// resultError classifies a status-0 envelope. A nil return means an empty history.
func resultError(res response, header http.Header) error {
	var text string
	if err := json.Unmarshal(res.Result, &text); err != nil {
		var entries []txEntry
		if err := json.Unmarshal(res.Result, &entries); err == nil && len(entries) == 0 &&
			strings.HasPrefix(strings.ToLower(res.Message), noTransactions) {
			return nil
		}
		return backoff.Permanent(fmt.Errorf("explorer error: %s", res.Message))
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, rateLimitMarker):
		return backoff.Permanent(rateLimitError(header, text))
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"):
		return fmt.Errorf("explorer error: %s: %s", res.Message, text)
	default:
		return backoff.Permanent(fmt.Errorf("explorer error: %s: %s", res.Message, text))
	}
}

var errResultNotArray = errors.New("result is not an array")

// decodeEntries requires result to be a JSON array. An empty history is only ever an empty
// array, so a null or absent result is malformed rather than the end of paging.
func decodeEntries(res response) ([]txEntry, error) {
	raw := bytes.TrimSpace(res.Result)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, backoff.Permanent(malformed("", "result", errResultNotArray))
	}
	var entries []txEntry
	if err := json.Unmarshal(res.Result, &entries); err != nil {
		return nil, backoff.Permanent(malformed("", "result", err))
	}
	return entries, nil
}

func rateLimitError(header http.Header, message string) *model.RateLimitExceededError {
	e := &model.RateLimitExceededError{Message: message, Remaining: -1}
	if v := header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		} else if at, err := http.ParseTime(v); err == nil {
			e.RetryAfter = max(time.Until(at), 0)
		}
	}
	if v := header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			e.Remaining = n
		}
	}
	return e
}
