// Package model defines domain models for EVM contract transaction history.
package model

import (
	"time"

	"github.com/holiman/uint256"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/clock"
)

// Transaction is one normalized on-chain transaction touching a tracked address.
// Values are immutable once fetched.
type Transaction struct {
	// Address is the tracked address the history was requested for, lower-case hex.
	Address     string
	Hash        string
	BlockNumber uint64
	Timestamp   time.Time
	From        string
	To          string
	GasUsed     uint64
	// GasPrice is the effective price paid per unit of gas, in wei.
	GasPrice uint256.Int
	IsError  bool
}

// Date returns the UTC calendar day of the block timestamp.
func (t Transaction) Date() time.Time {
	return clock.Day(t.Timestamp)
}

// Fee returns gas used multiplied by gas price in wei.
// The product saturates at the maximum 256-bit value instead of wrapping.
func (t Transaction) Fee() uint256.Int {
	var fee uint256.Int
	if _, overflow := fee.MulOverflow(uint256.NewInt(t.GasUsed), &t.GasPrice); overflow {
		fee.SetAllOne()
	}
	return fee
}

// before orders transactions by timestamp, then block, then hash.
func before(a, b Transaction) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	if a.BlockNumber != b.BlockNumber {
		return a.BlockNumber < b.BlockNumber
	}
	return a.Hash < b.Hash
}
