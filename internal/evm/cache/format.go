package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
	"github.com/goodnatureofminers/blockinsight7000-footprint/pkg/safe"
)

// formatVersion is the schema version written by this package.
const formatVersion = 1

type document struct {
	Version   int                    `json:"version"`
	Addresses map[string]addressBody `json:"addresses"`
}

type addressBody struct {
	Watermark    *uint64  `json:"watermark,omitempty"`
	Transactions []record `json:"transactions"`
}

type record struct {
	Hash      string `json:"hash"`
	Block     uint64 `json:"block"`
	Timestamp int64  `json:"ts"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	GasUsed   uint64 `json:"gas_used"`
	GasPrice  string `json:"gas_price"`
	IsError   bool   `json:"is_error,omitempty"`
}

// upgrade brings an older document to formatVersion in memory.
func upgrade(doc *document) error {
	switch {
	case doc.Version <= 0:
		return errors.New("missing format version")
	case doc.Version > formatVersion:
		return fmt.Errorf("format version %d is newer than supported version %d", doc.Version, formatVersion)
	}
	if doc.Addresses == nil {
		doc.Addresses = make(map[string]addressBody)
	}
	return nil
}

func decodeHistories(doc document) (map[string]model.AddressHistory, error) {
	out := make(map[string]model.AddressHistory, len(doc.Addresses))
	for key, body := range doc.Addresses {
		address, err := model.NormalizeAddress(key)
		if err != nil {
			return nil, err
		}
		if _, dup := out[address]; dup {
			return nil, fmt.Errorf("address %s stored twice", address)
		}

		h := model.AddressHistory{
			Address:      address,
			Transactions: make([]model.Transaction, 0, len(body.Transactions)),
		}
		if body.Watermark != nil {
			h.Watermark = *body.Watermark
			h.HasWatermark = true
		}
		for _, r := range body.Transactions {
			tx, err := r.transaction(address)
			if err != nil {
				return nil, fmt.Errorf("address %s: %w", address, err)
			}
			h.Transactions = append(h.Transactions, tx)
		}
		if err := h.Validate(); err != nil {
			return nil, fmt.Errorf("address %s: %w", address, err)
		}
		out[address] = h
	}
	return out, nil
}

func encodeHistories(histories map[string]model.AddressHistory) document {
	doc := document{Version: formatVersion, Addresses: make(map[string]addressBody, len(histories))}
	for address, h := range histories {
		body := addressBody{Transactions: make([]record, 0, len(h.Transactions))}
		if h.HasWatermark {
			wm := h.Watermark
			body.Watermark = &wm
		}
		for _, tx := range h.Transactions {
			body.Transactions = append(body.Transactions, newRecord(tx))
		}
		doc.Addresses[address] = body
	}
	return doc
}

func newRecord(tx model.Transaction) record {
	return record{
		Hash:      tx.Hash,
		Block:     tx.BlockNumber,
		Timestamp: tx.Timestamp.Unix(),
		From:      tx.From,
		To:        tx.To,
		GasUsed:   tx.GasUsed,
		GasPrice:  tx.GasPrice.Dec(),
		IsError:   tx.IsError,
	}
}

func (r record) transaction(address string) (model.Transaction, error) {
	if r.Hash == "" {
		return model.Transaction{}, errors.New("record without hash")
	}
	if _, err := safe.Uint64(r.Timestamp); err != nil {
		return model.Transaction{}, fmt.Errorf("record %s timestamp: %w", r.Hash, err)
	}
	var price uint256.Int
	if err := price.SetFromDecimal(r.GasPrice); err != nil {
		return model.Transaction{}, fmt.Errorf("record %s gas price: %w", r.Hash, err)
	}
	return model.Transaction{
		Address:     address,
		Hash:        r.Hash,
		BlockNumber: r.Block,
		Timestamp:   time.Unix(r.Timestamp, 0).UTC(),
		From:        r.From,
		To:          r.To,
		GasUsed:     r.GasUsed,
		GasPrice:    price,
		IsError:     r.IsError,
	}, nil
}
