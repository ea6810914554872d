package events

import (
	"time"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTimeEntryCreated       EventType = "time_entry_created"
	EventBillingRunCreated      EventType = "billing_run_created"
	EventBillingRunStatusChange EventType = "billing_run_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TimeEntryCreatedPayload payload.
type TimeEntryCreatedPayload struct {
	DepartmentID string  `json:"department_id"`
	Date         string  `json:"date"`
	Hours        float64 `json:"hours"`
}

// BillingRunCreatedPayload payload.
type BillingRunCreatedPayload struct {
	DepartmentID string  `json:"department_id"`
	PeriodStart  string  `json:"period_start"`
	PeriodEnd    string  `json:"period_end"`
	EntryCount   int     `json:"entry_count"`
	TotalHours   float64 `json:"total_hours"`
}

// BillingRunStatusChangedPayload payload.
type BillingRunStatusChangedPayload struct {
	NewStatus domain.Status `json:"new_status"`
	Comment   string        `json:"comment,omitempty"`
}
