package model

import (
	"fmt"
	"slices"
)

// AddressHistory is the ordered, de-duplicated transaction history of one address.
type AddressHistory struct {
	Address      string
	Transactions []Transaction
	// Watermark is the last block number up to which the history is known to be complete.
	Watermark    uint64
	HasWatermark bool
}

// Len returns the number of transactions in the history.
func (h AddressHistory) Len() int {
	return len(h.Transactions)
}

// Merge returns a copy of the history extended with records whose hash is not yet present,
// together with the number of records added. Existing records are never replaced and the
// watermark only moves forward, so merging the same batch twice is a no-op.
func (h AddressHistory) Merge(records []Transaction, watermark uint64) (AddressHistory, int) {
	seen := make(map[string]struct{}, len(h.Transactions)+len(records))
	merged := make([]Transaction, 0, len(h.Transactions)+len(records))
	for _, tx := range h.Transactions {
		seen[tx.Hash] = struct{}{}
		merged = append(merged, tx)
	}

	added := 0
	for _, tx := range records {
		if _, ok := seen[tx.Hash]; ok {
			continue
		}
		seen[tx.Hash] = struct{}{}
		merged = append(merged, tx)
		added++
	}
	if added > 0 {
		slices.SortStableFunc(merged, compareTransactions)
	}

	out := AddressHistory{
		Address:      h.Address,
		Transactions: merged,
		Watermark:    h.Watermark,
		HasWatermark: true,
	}
	if !h.HasWatermark || watermark > h.Watermark {
		out.Watermark = watermark
	}
	return out, added
}

// Filter returns the transactions that fall inside the date window.
// The cached history itself is never filtered; this is applied on the way out.
func (h AddressHistory) Filter(w DateWindow) AddressHistory {
	out := h
	if w.IsZero() {
		out.Transactions = slices.Clone(h.Transactions)
		return out
	}
	out.Transactions = make([]Transaction, 0, len(h.Transactions))
	for _, tx := range h.Transactions {
		if w.Contains(tx.Timestamp) {
			out.Transactions = append(out.Transactions, tx)
		}
	}
	return out
}

// Validate checks that a history is sorted and free of duplicate hashes.
func (h AddressHistory) Validate() error {
	seen := make(map[string]struct{}, len(h.Transactions))
	for i, tx := range h.Transactions {
		if tx.Hash == "" {
			return fmt.Errorf("transaction %d has no hash", i)
		}
		if tx.Address != h.Address {
			return fmt.Errorf("transaction %s belongs to %s, not %s", tx.Hash, tx.Address, h.Address)
		}
		if _, ok := seen[tx.Hash]; ok {
			return fmt.Errorf("duplicate transaction %s", tx.Hash)
		}
		seen[tx.Hash] = struct{}{}
		if i > 0 && before(tx, h.Transactions[i-1]) {
			return fmt.Errorf("transaction %s out of order", tx.Hash)
		}
	}
	return nil
}

func compareTransactions(a, b Transaction) int {
	switch {
	case before(a, b):
		return -1
	case before(b, a):
		return 1
	default:
		return 0
	}
}
