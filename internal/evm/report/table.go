package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/clock"
)

// DateColumn is the header of the first column of every table.
const DateColumn = "Date"

// Table is a set of dated rows with one value per column.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row holds one value per table column. The zero decimal is a valid zero.
type Row struct {
	Date   time.Time
	Values []decimal.Decimal
}

// Total sums the row.
func (r Row) Total() decimal.Decimal {
	return decimal.Sum(decimal.Zero, r.Values...)
}

// WriteCSV writes a header of Date plus the columns, then one line per row.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{DateColumn}, t.Columns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(t.Columns)+1)
	for _, row := range t.Rows {
		if len(row.Values) != len(t.Columns) {
			return fmt.Errorf("row %s has %d values for %d columns", clock.FormatDay(row.Date), len(row.Values), len(t.Columns))
		}
		record[0] = clock.FormatDay(row.Date)
		for i, v := range row.Values {
			record[i+1] = v.String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table as CSV to path, creating parent directories.
func (t *Table) WriteFile(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return t.WriteCSV(f)
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 || header[0] != DateColumn {
		return nil, fmt.Errorf("first column must be %q", DateColumn)
	}

	table := &Table{Columns: header[1:]}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		day, err := clock.ParseDay(record[0])
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", record[0], err)
		}
		row := Row{Date: day, Values: make([]decimal.Decimal, len(table.Columns))}
		for i, cell := range record[1:] {
			if cell == "" {
				continue
			}
			v, err := decimal.NewFromString(cell)
			if err != nil {
				return nil, fmt.Errorf("parse %s on %s: %w", table.Columns[i], record[0], err)
			}
			row.Values[i] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// LoadTableFile reads a CSV table from path.
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	t, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// TablePath returns the activity table path for prefix and kind.
func TablePath(dir, prefix string, kind Kind) string {
	return filepath.Join(dir, fmt.Sprintf("%s-%s.csv", prefix, kind))
}
