package dto

import (
	"time"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// CreateTimeEntryRequest payload.
type CreateTimeEntryRequest struct {
	Date         string  `json:"date"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Course       *string `json:"course"`
	DepartmentID string  `json:"department_id"`
}

// TimeEntryResponse represents one entry.
type TimeEntryResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Hours        float64   `json:"hours"`
	Course       *string   `json:"course"`
	DepartmentID string    `json:"department_id"`
	BillingRunID *string   `json:"billing_run_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// StatusLogResponse represents one immutable history row.
type StatusLogResponse struct {
	Seq        int64         `json:"seq"`
	Status     domain.Status `json:"status"`
	StatusName string        `json:"status_name"`
	ModifiedBy string        `json:"modified_by"`
	ModifiedAt time.Time     `json:"modified_at"`
	Comment    *string       `json:"comment"`
}
