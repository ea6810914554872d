package domain

import "time"

// BillingRun is an immutable aggregate of time entries submitted together
// for approval and eventual payout. Period bounds are derived from the
// member entries at creation time and are never edited afterwards; all
// later state lives in the run's status log.
type BillingRun struct {
	ID           string
	PeriodStart  time.Time
	PeriodEnd    time.Time
	DepartmentID string
	CreatedBy    string
	CreatedAt    time.Time
}
