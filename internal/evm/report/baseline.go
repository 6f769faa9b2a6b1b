package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/clock"
)

const (
	chartDateColumn      = "Date(UTC)"
	chartTimestampColumn = "UnixTimeStamp"
	chartValuePrefix     = "Value"
	chartDateLayout      = "1/2/2006"
)

// ErrBaselineMissing is returned when a day has no network-wide value.
var ErrBaselineMissing = errors.New("baseline value missing")

// Baseline is a daily network-wide series, keyed by UTC day.
type Baseline map[time.Time]decimal.Decimal

// At returns the value for the day of t. Missing and zero values are errors.
func (b Baseline) At(t time.Time) (decimal.Decimal, error) {
	day := clock.Day(t)
	v, ok := b[day]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w for %s", ErrBaselineMissing, clock.FormatDay(day))
	}
	if v.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("baseline value for %s is zero", clock.FormatDay(day))
	}
	return v, nil
}

// LoadBaselineFile reads an explorer daily chart export from path.
func LoadBaselineFile(path string) (Baseline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open baseline %s: %w", path, err)
	}
	defer f.Close()
	b, err := ReadBaselineCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load baseline %s: %w", path, err)
	}
	return b, nil
}

// ReadBaselineCSV parses an explorer daily chart export with Date(UTC), UnixTimeStamp and
// Value columns. The date column wins when both date columns are present.
func ReadBaselineCSV(r io.Reader) (Baseline, error) {
	br := bufio.NewReader(r)
	if first, _, err := br.ReadRune(); err == nil && first != '\ufeff' {
		_ = br.UnreadRune()
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateCol, tsCol, valueCol := -1, -1, -1
	for i, name := range header {
		name = strings.TrimSpace(name)
		switch {
		case name == chartDateColumn:
			dateCol = i
		case name == chartTimestampColumn:
			tsCol = i
		case strings.HasPrefix(name, chartValuePrefix) && valueCol < 0:
			valueCol = i
		}
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("missing %s column", chartValuePrefix)
	}
	if dateCol < 0 && tsCol < 0 {
		return nil, fmt.Errorf("missing %s or %s column", chartDateColumn, chartTimestampColumn)
	}

	out := make(Baseline)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) <= max(dateCol, tsCol, valueCol) {
			return nil, fmt.Errorf("line %d: too few fields", line)
		}

		var day time.Time
		if dateCol >= 0 {
			day, err = time.ParseInLocation(chartDateLayout, strings.TrimSpace(record[dateCol]), time.UTC)
		} else {
			var sec int64
			sec, err = strconv.ParseInt(strings.TrimSpace(record[tsCol]), 10, 64)
			day = clock.Day(time.Unix(sec, 0))
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: parse date: %w", line, err)
		}

		v, err := decimal.NewFromString(strings.TrimSpace(record[valueCol]))
		if err != nil {
			return nil, fmt.Errorf("line %d: parse value: %w", line, err)
		}
		if v.IsNegative() {
			return nil, fmt.Errorf("line %d: negative value %s", line, v)
		}
		if _, dup := out[day]; dup {
			return nil, fmt.Errorf("line %d: duplicate date %s", line, clock.FormatDay(day))
		}
		out[day] = v
	}
	if len(out) == 0 {
		return nil, errors.New("baseline has no rows")
	}
	return out, nil
}
