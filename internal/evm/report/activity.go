// Package report aggregates fetched histories into activity tables, footprint summaries and
// percentages of network-wide activity.
package report

import (
	"slices"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

// Kind names one activity measure.
type Kind string

const (
	KindTxCount Kind = "tx-count"
	KindGas     Kind = "gas"
	KindFees    Kind = "fees"
)

// Kinds lists every measure in output order.
var Kinds = []Kind{KindTxCount, KindGas, KindFees}

// Column is the header used for the kind in the compiled percentages table.
func (k Kind) Column() string {
	switch k {
	case KindTxCount:
		return "Transactions"
	case KindGas:
		return "Gas"
	case KindFees:
		return "Fees"
	default:
		return string(k)
	}
}

const weiDecimals = 18

// WeiToETH converts an amount in wei to ETH without rounding.
func WeiToETH(wei *uint256.Int) decimal.Decimal {
	return decimal.NewFromBigInt(wei.ToBig(), -weiDecimals)
}

// Totals is the sum of a set of transactions.
type Totals struct {
	Transactions uint64
	Gas          uint256.Int
	Fees         uint256.Int
}

func (t *Totals) add(tx model.Transaction) {
	t.Transactions++
	t.Gas.Add(&t.Gas, uint256.NewInt(tx.GasUsed))
	fee := tx.Fee()
	t.Fees.Add(&t.Fees, &fee)
}

func (t *Totals) merge(o Totals) {
	t.Transactions += o.Transactions
	t.Gas.Add(&t.Gas, &o.Gas)
	t.Fees.Add(&t.Fees, &o.Fees)
}

// FeesETH returns the fee total in ETH.
func (t Totals) FeesETH() decimal.Decimal {
	return WeiToETH(&t.Fees)
}

// Value returns the measure selected by kind. Fees are in ETH.
func (t Totals) Value(kind Kind) decimal.Decimal {
	switch kind {
	case KindTxCount:
		return decimal.NewFromUint64(t.Transactions)
	case KindGas:
		return decimal.NewFromBigInt(t.Gas.ToBig(), 0)
	case KindFees:
		return t.FeesETH()
	default:
		return decimal.Zero
	}
}

// Activity accumulates per-name, per-day totals.
type Activity struct {
	byName map[string]map[time.Time]*Totals
	total  Totals
}

func NewActivity() *Activity {
	return &Activity{byName: make(map[string]map[time.Time]*Totals)}
}

// Add folds txs into the bucket for name and returns their totals.
func (a *Activity) Add(name string, txs []model.Transaction) Totals {
	days, ok := a.byName[name]
	if !ok {
		days = make(map[time.Time]*Totals)
		a.byName[name] = days
	}

	var added Totals
	for _, tx := range txs {
		day := tx.Date()
		cell, ok := days[day]
		if !ok {
			cell = &Totals{}
			days[day] = cell
		}
		cell.add(tx)
		added.add(tx)
	}
	a.total.merge(added)
	return added
}

// Total returns the totals across every name.
func (a *Activity) Total() Totals {
	return a.total
}

// Names returns the names seen so far in lexical order.
func (a *Activity) Names() []string {
	names := make([]string, 0, len(a.byName))
	for name := range a.byName {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)
	return names
}

// Dates returns every day with activity in ascending order.
func (a *Activity) Dates() []time.Time {
	seen := make(map[time.Time]struct{})
	for _, days := range a.byName {
		for day := range days {
			seen[day] = struct{}{}
		}
	}
	dates := make([]time.Time, 0, len(seen))
	for day := range seen {
		dates = append(dates, day)
	}
	sortDays(dates)
	return dates
}

func sortDays(days []time.Time) {
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
}

// Table renders one measure as a date by name table. Missing cells are zero.
func (a *Activity) Table(kind Kind) *Table {
	names := a.Names()
	table := &Table{Columns: names}
	for _, day := range a.Dates() {
		row := Row{Date: day, Values: make([]decimal.Decimal, len(names))}
		for i, name := range names {
			if cell, ok := a.byName[name][day]; ok {
				row.Values[i] = cell.Value(kind)
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
