package clock

import "time"

// DateLayout is the ISO calendar date layout used for CLI input and CSV output.
const DateLayout = "2006-01-02"

// Day truncates t to midnight of its calendar day in UTC.
// All date bucketing uses UTC so that results do not depend on the host time zone.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses an ISO calendar date as a UTC day.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDay renders a day using DateLayout.
func FormatDay(t time.Time) string {
	return Day(t).Format(DateLayout)
}
