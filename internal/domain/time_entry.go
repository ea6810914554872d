package domain

import (
	"math"
	"time"
)

// clockLayout is the time-of-day format accepted for entry bounds.
const clockLayout = "15:04"

// TimeEntry is a single recorded span of worked time by one instructor.
// Once BillingRunID is set the entry is claimed and its date, duration and
// department must never change again.
type TimeEntry struct {
	ID           string
	Date         time.Time
	StartTime    string
	EndTime      string
	Hours        float64
	Course       *string
	DepartmentID string
	CreatedBy    string
	BillingRunID *string
	CreatedAt    time.Time
}

// Claimed reports whether the entry already belongs to a billing run.
func (e *TimeEntry) Claimed() bool {
	return e.BillingRunID != nil
}

// DurationHours derives decimal hours from two same-day clock times.
// The end must be strictly after the start; multi-day spans are rejected
// rather than wrapped.
func DurationHours(start, end string) (float64, error) {
	from, err := time.Parse(clockLayout, start)
	if err != nil {
		return 0, ErrInvalidRange
	}
	to, err := time.Parse(clockLayout, end)
	if err != nil {
		return 0, ErrInvalidRange
	}
	if !to.After(from) {
		return 0, ErrInvalidRange
	}
	return to.Sub(from).Minutes() / 60, nil
}

// RoundHours rounds a decimal-hours value to two places for display.
// Stored values keep full precision.
func RoundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}

// TotalHours sums the duration of the given entries.
func TotalHours(entries []TimeEntry) float64 {
	var total float64
	for _, entry := range entries {
		total += entry.Hours
	}
	return total
}
