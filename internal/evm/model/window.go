package model

import (
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-footprint/internal/clock"
)

// DateWindow selects transactions by UTC calendar day. Both ends are inclusive and a zero
// end leaves that side unbounded.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// ParseDateWindow builds a window from optional ISO dates.
func ParseDateWindow(start, end string) (DateWindow, error) {
	var w DateWindow
	if start != "" {
		d, err := clock.ParseDay(start)
		if err != nil {
			return DateWindow{}, fmt.Errorf("parse start date: %w", err)
		}
		w.Start = d
	}
	if end != "" {
		d, err := clock.ParseDay(end)
		if err != nil {
			return DateWindow{}, fmt.Errorf("parse end date: %w", err)
		}
		w.End = d
	}
	if !w.Start.IsZero() && !w.End.IsZero() && w.End.Before(w.Start) {
		return DateWindow{}, fmt.Errorf("end date %s precedes start date %s", end, start)
	}
	return w, nil
}

// IsZero reports whether the window is unbounded on both sides.
func (w DateWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains reports whether the calendar day of t lies inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	day := clock.Day(t)
	if !w.Start.IsZero() && day.Before(clock.Day(w.Start)) {
		return false
	}
	if !w.End.IsZero() && day.After(clock.Day(w.End)) {
		return false
	}
	return true
}
