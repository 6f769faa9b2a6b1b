// Package cache persists address histories in a single versioned JSON file.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

// FileCache keeps every tracked address history in memory and writes the whole set back to
// one JSON file on Persist. The file is read lazily on first access.
type FileCache struct {
	path     string
	readOnly bool
	metrics  Metrics
	logger   *zap.Logger

	mu        sync.Mutex
	loaded    bool
	loadErr   error
	histories map[string]model.AddressHistory
	dirty     bool
}

// Open returns a cache bound to path. A missing file is an empty cache.
func Open(path string, readOnly bool, metrics Metrics, logger *zap.Logger) (*FileCache, error) {
	if path == "" {
		return nil, errors.New("cache path is required")
	}
	if metrics == nil {
		return nil, errors.New("cache metrics is required")
	}
	return &FileCache{
		path:     path,
		readOnly: readOnly,
		metrics:  metrics,
		logger:   logger.Named("fileCache").With(zap.String("path", path)),
	}, nil
}

// ReadOnly reports whether updates are disabled.
func (c *FileCache) ReadOnly() bool {
	return c.readOnly
}

// Load returns the stored history of address, or an empty history without a watermark.
func (c *FileCache) Load(_ context.Context, address string) (h model.AddressHistory, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("load", err, started)
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err = c.ensureLoaded(); err != nil {
		return model.AddressHistory{}, err
	}
	if h, ok := c.histories[address]; ok {
		return h, nil
	}
	return model.AddressHistory{Address: address}, nil
}

// Merge appends records not yet stored for address and advances its watermark.
func (c *FileCache) Merge(_ context.Context, address string, records []model.Transaction, watermark uint64) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("merge", err, started)
	}()

	if c.readOnly {
		return model.ErrCacheReadOnly
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err = c.ensureLoaded(); err != nil {
		return err
	}
	current, ok := c.histories[address]
	if !ok {
		current = model.AddressHistory{Address: address}
	}
	merged, added := current.Merge(records, watermark)
	if added == 0 && current.HasWatermark && merged.Watermark == current.Watermark {
		return nil
	}
	c.histories[address] = merged
	c.dirty = true
	c.logger.Debug("merged history",
		zap.String("address", address),
		zap.Int("added", added),
		zap.Uint64("watermark", merged.Watermark))
	return nil
}

// Persist atomically replaces the cache file when anything changed since the last write.
func (c *FileCache) Persist(_ context.Context) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("persist", err, started)
	}()

	if c.readOnly {
		return model.ErrCacheReadOnly
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	data, err := json.Marshal(encodeHistories(c.histories))
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if err = writeFileAtomic(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	c.dirty = false
	c.logger.Debug("persisted cache", zap.Int("addresses", len(c.histories)), zap.Int("bytes", len(data)))
	return nil
}

// ensureLoaded reads the file once. A failed read is remembered so that a corrupt cache is
// never mistaken for an empty one later. Callers hold c.mu.
func (c *FileCache) ensureLoaded() error {
	if c.loaded {
		return c.loadErr
	}
	c.loaded = true
	c.histories, c.loadErr = c.read()
	if c.loadErr != nil {
		c.histories = nil
		c.logger.Error("cache is unreadable", zap.Error(c.loadErr))
	}
	return c.loadErr
}

func (c *FileCache) read() (map[string]model.AddressHistory, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]model.AddressHistory), nil
	}
	if err != nil {
		return nil, c.corrupt(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, c.corrupt(errors.New("empty file"))
	}

	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, c.corrupt(fmt.Errorf("decode: %w", err))
	}
	if dec.More() {
		return nil, c.corrupt(errors.New("trailing data after document"))
	}
	if err := upgrade(&doc); err != nil {
		return nil, c.corrupt(err)
	}
	histories, err := decodeHistories(doc)
	if err != nil {
		return nil, c.corrupt(err)
	}
	return histories, nil
}

func (c *FileCache) corrupt(err error) error {
	return &model.CacheCorruptionError{Path: c.path, Err: err}
}
