package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/clock"
)

// ShareScale is the number of decimal places kept in share-of-network values.
const ShareScale = 18

// Shares divides every cell of t by the baseline value for its day. Rows on or after today
// are dropped before any baseline lookup.
func Shares(t *Table, baseline Baseline, today time.Time) (*Table, error) {
	cutoff := clock.Day(today)
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		if !clock.Day(row.Date).Before(cutoff) {
			continue
		}
		base, err := baseline.At(row.Date)
		if err != nil {
			return nil, err
		}
		shares := make([]decimal.Decimal, len(row.Values))
		for i, v := range row.Values {
			shares[i] = v.DivRound(base, ShareScale)
		}
		out.Rows = append(out.Rows, Row{Date: row.Date, Values: shares})
	}
	return out, nil
}

// Input pairs one activity table with its network-wide baseline.
type Input struct {
	Kind     Kind
	Table    *Table
	Baseline Baseline
}

// CompiledShares builds one column per input holding the row total divided by the baseline.
// Dates missing from an input are zero in its column.
func CompiledShares(inputs []Input, today time.Time) (*Table, error) {
	cutoff := clock.Day(today)
	columns := make([]string, len(inputs))
	byDay := make(map[time.Time][]decimal.Decimal)
	var days []time.Time

	for i, in := range inputs {
		columns[i] = in.Kind.Column()
		for _, row := range in.Table.Rows {
			day := clock.Day(row.Date)
			if !day.Before(cutoff) {
				continue
			}
			base, err := in.Baseline.At(day)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", in.Kind, err)
			}
			values, ok := byDay[day]
			if !ok {
				values = make([]decimal.Decimal, len(inputs))
				byDay[day] = values
				days = append(days, day)
			}
			values[i] = row.Total().DivRound(base, ShareScale)
		}
	}

	sortDays(days)
	out := &Table{Columns: columns}
	for _, day := range days {
		out.Rows = append(out.Rows, Row{Date: day, Values: byDay[day]})
	}
	return out, nil
}

// SharesPath returns the per-kind output path. An empty kind names the compiled table.
func SharesPath(dir, prefix string, kind Kind) string {
	if kind == "" {
		return TablePath(dir, prefix, "percentages")
	}
	return TablePath(dir, prefix, kind+"-percentages")
}
