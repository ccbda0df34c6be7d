package utils

import (
	"math"
	"time"
)

// Round2 rounds a non-negative value to 2 decimal places, half-up.
// Derived irrigation quantities (hours, cubic meters) are stored with this
// precision so that re-syncing the same data always produces identical rows.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DurationHours returns the elapsed hours between start and end, rounded to
// 2 decimal places. It returns 0 when end is nil or not after start; a
// still-running irrigation has no measurable duration yet.
func DurationHours(start time.Time, end *time.Time) float64 {
	if end == nil || !end.After(start) {
		return 0
	}
	return Round2(end.Sub(start).Hours())
}
