// Package emissions estimates the carbon footprint of transactions from a dated
// kgCO2-per-gas intensity series.
package emissions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/clock"
)

// ErrIntensityOutOfRange is returned for dates before the first or after the last known point.
var ErrIntensityOutOfRange = errors.New("date outside intensity series range")

// interpolationPlaces bounds the scale of interpolated factors.
const interpolationPlaces = 30

// Point is one dated intensity value in kgCO2 per unit of gas.
type Point struct {
	Day   time.Time
	Value decimal.Decimal
}

// IntensitySeries answers per-day intensity lookups. Known days return their value, days
// between two known points are linearly interpolated, and anything outside fails with
// ErrIntensityOutOfRange.
type IntensitySeries struct {
	points []Point
}

// NewIntensitySeries builds a series from points in any order. Days are truncated to UTC.
func NewIntensitySeries(points []Point) (*IntensitySeries, error) {
	if len(points) == 0 {
		return nil, errors.New("intensity series is empty")
	}
	sorted := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Value.IsNegative() {
			return nil, fmt.Errorf("negative intensity %s on %s", p.Value, clock.FormatDay(p.Day))
		}
		sorted = append(sorted, Point{Day: clock.Day(p.Day), Value: p.Value})
	}
	slices.SortFunc(sorted, func(a, b Point) int {
		return a.Day.Compare(b.Day)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Day.Equal(sorted[i-1].Day) {
			return nil, fmt.Errorf("duplicate intensity for %s", clock.FormatDay(sorted[i].Day))
		}
	}
	return &IntensitySeries{points: sorted}, nil
}

// LoadIntensityFile reads a Date,KgCO2PerGas CSV file.
func LoadIntensityFile(path string) (*IntensitySeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open intensity series: %w", err)
	}
	defer f.Close()

	s, err := ReadIntensityCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read intensity series %s: %w", path, err)
	}
	return s, nil
}

// ReadIntensityCSV parses a CSV with a Date,KgCO2PerGas header and ISO dates.
func ReadIntensityCSV(r io.Reader) (*IntensitySeries, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, valueCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case "Date":
			dateCol = i
		case "KgCO2PerGas":
			valueCol = i
		}
	}
	if dateCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("header %v must contain Date and KgCO2PerGas", header)
	}

	var points []Point
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		day, err := clock.ParseDay(strings.TrimSpace(rec[dateCol]))
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", rec[dateCol], err)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(rec[valueCol]))
		if err != nil {
			return nil, fmt.Errorf("parse intensity on %s: %w", rec[dateCol], err)
		}
		points = append(points, Point{Day: day, Value: value})
	}
	return NewIntensitySeries(points)
}

// Range returns the first and last known days.
func (s *IntensitySeries) Range() (time.Time, time.Time) {
	return s.points[0].Day, s.points[len(s.points)-1].Day
}

// At returns the intensity for the UTC calendar day of t.
func (s *IntensitySeries) At(t time.Time) (decimal.Decimal, error) {
	day := clock.Day(t)
	i, found := slices.BinarySearchFunc(s.points, day, func(p Point, d time.Time) int {
		return p.Day.Compare(d)
	})
	if found {
		return s.points[i].Value, nil
	}
	if i == 0 || i == len(s.points) {
		first, last := s.Range()
		return decimal.Decimal{}, fmt.Errorf("%s not in [%s, %s]: %w",
			clock.FormatDay(day), clock.FormatDay(first), clock.FormatDay(last), ErrIntensityOutOfRange)
	}

	lo, hi := s.points[i-1], s.points[i]
	span := decimal.NewFromInt(int64(hi.Day.Sub(lo.Day) / (24 * time.Hour)))
	elapsed := decimal.NewFromInt(int64(day.Sub(lo.Day) / (24 * time.Hour)))
	delta := hi.Value.Sub(lo.Value).Mul(elapsed).DivRound(span, interpolationPlaces)
	return lo.Value.Add(delta), nil
}
