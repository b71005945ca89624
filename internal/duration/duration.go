// Package duration parses human-readable duration strings such as "24h",
// "30d" or "6mo".
package duration

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// Parse converts strings like "90m", "24h", "1w", "30d" or "6mo" into a
// time.Duration. Months are 30 days and years 365 days.
func Parse(s string) (time.Duration, error) {
	var n int
	var unit string

	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return 0, fmt.Errorf("invalid duration format: %s (use e.g., 24h, 7d, 1w)", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("duration must not be negative: %s", s)
	}

	var d time.Duration
	switch unit {
	case "m", "min", "mins":
		d = time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		d = time.Hour
	case "d", "day", "days":
		d = day
	case "w", "wk", "wks", "week", "weeks":
		d = 7 * day
	case "mo", "month", "months":
		d = 30 * day
	case "y", "yr", "yrs", "year", "years":
		d = 365 * day
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}

	return time.Duration(n) * d, nil
}

// Ago returns the instant that lies the parsed duration before now.
func Ago(s string, now time.Time) (time.Time, error) {
	d, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return now.Add(-d), nil
}
