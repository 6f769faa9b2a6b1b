package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/evm/model"
)

// FootprintRow is one line of a footprint report. Kind and Address are only set when
// contracts are reported separately.
type FootprintRow struct {
	Name         string
	Kind         string
	Address      string
	Fees         decimal.Decimal
	Transactions uint64
	KgCO2        decimal.Decimal
}

// FootprintSummary collects per-contract footprints and reports them per contract or per
// name.
type FootprintSummary struct {
	separate bool
	entries  []FootprintRow
}

func NewFootprintSummary(separate bool) *FootprintSummary {
	return &FootprintSummary{separate: separate}
}

// Add records the transactions of one contract together with their unrounded kgCO2.
func (s *FootprintSummary) Add(name, kind, address string, txs []model.Transaction, kgco2 decimal.Decimal) FootprintRow {
	var totals Totals
	for _, tx := range txs {
		totals.add(tx)
	}
	row := FootprintRow{
		Name:         name,
		Kind:         kind,
		Address:      address,
		Fees:         totals.FeesETH(),
		Transactions: totals.Transactions,
		KgCO2:        kgco2,
	}
	s.entries = append(s.entries, row)
	return row
}

// Rows returns the report lines with kgCO2 floored to whole kilograms. Separate mode keeps
// insertion order. Combined mode sums exact values per name before flooring and sorts by name.
func (s *FootprintSummary) Rows() []FootprintRow {
	if s.separate {
		out := make([]FootprintRow, len(s.entries))
		for i, e := range s.entries {
			e.KgCO2 = e.KgCO2.Floor()
			out[i] = e
		}
		return out
	}

	byName := make(map[string]*FootprintRow)
	for _, e := range s.entries {
		acc, ok := byName[e.Name]
		if !ok {
			acc = &FootprintRow{Name: e.Name}
			byName[e.Name] = acc
		}
		acc.Fees = acc.Fees.Add(e.Fees)
		acc.Transactions += e.Transactions
		acc.KgCO2 = acc.KgCO2.Add(e.KgCO2)
	}
	out := make([]FootprintRow, 0, len(byName))
	for _, acc := range byName {
		acc.KgCO2 = acc.KgCO2.Floor()
		out = append(out, *acc)
	}
	slices.SortFunc(out, func(a, b FootprintRow) int { return strings.Compare(a.Name, b.Name) })
	return out
}

type separateJSON struct {
	Name         string      `json:"name"`
	Kind         string      `json:"kind"`
	Address      string      `json:"address"`
	Fees         json.Number `json:"fees"`
	Transactions uint64      `json:"transactions"`
	KgCO2        json.Number `json:"kgco2"`
}

type combinedJSON struct {
	Name         string      `json:"name"`
	Fees         json.Number `json:"fees"`
	Transactions uint64      `json:"transactions"`
	KgCO2        json.Number `json:"kgco2"`
}

// WriteJSON writes {"data": [...]} with numbers left unquoted.
func (s *FootprintSummary) WriteJSON(w io.Writer) error {
	rows := s.Rows()
	data := make([]any, 0, len(rows))
	for _, r := range rows {
		if s.separate {
			data = append(data, separateJSON{
				Name:         r.Name,
				Kind:         r.Kind,
				Address:      r.Address,
				Fees:         json.Number(r.Fees.String()),
				Transactions: r.Transactions,
				KgCO2:        json.Number(r.KgCO2.String()),
			})
			continue
		}
		data = append(data, combinedJSON{
			Name:         r.Name,
			Fees:         json.Number(r.Fees.String()),
			Transactions: r.Transactions,
			KgCO2:        json.Number(r.KgCO2.String()),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"data": data}); err != nil {
		return fmt.Errorf("encode footprint: %w", err)
	}
	return nil
}

// WriteTSV writes a header line followed by one tab-separated line per row.
func (s *FootprintSummary) WriteTSV(w io.Writer) error {
	header := []string{"name", "fees", "transactions", "kgco2"}
	if s.separate {
		header = []string{"name", "kind", "address", "fees", "transactions", "kgco2"}
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, "\t"))
	b.WriteByte('\n')
	for _, r := range s.Rows() {
		fields := []string{r.Name}
		if s.separate {
			fields = append(fields, r.Kind, r.Address)
		}
		fields = append(fields, r.Fees.String(), strconv.FormatUint(r.Transactions, 10), r.KgCO2.String())
		b.WriteString(strings.Join(fields, "\t"))
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write footprint: %w", err)
	}
	return nil
}
