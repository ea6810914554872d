package dto

import "time"

// CreateBillingRunRequest payload.
type CreateBillingRunRequest struct {
	EntryIDs []string `json:"entry_ids"`
}

// BillingRunSummaryResponse is the creator-facing list row.
type BillingRunSummaryResponse struct {
	ID          string  `json:"id"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	Status      string  `json:"status"`
	StatusName  string  `json:"status_name"`
	TotalHours  float64 `json:"total_hours"`
	CreatedAt   string  `json:"created_at"`
}

// BillingRunDetailResponse extends the summary with members and history.
type BillingRunDetailResponse struct {
	BillingRunSummaryResponse
	Entries []TimeEntryResponse `json:"entries"`
	Log     []StatusLogResponse `json:"log"`
}

// ApproveBillingRunRequest payload for the department-head stage.
type ApproveBillingRunRequest struct {
	Comment string `json:"comment"`
}

// BackofficeRunResponse is one row of the back-office approval queue.
type BackofficeRunResponse struct {
	RunID        string              `json:"run_id"`
	CreatorName  string              `json:"creator_name"`
	DepartmentID string              `json:"department_id"`
	PeriodStart  string              `json:"period_start"`
	PeriodEnd    string              `json:"period_end"`
	TotalHours   float64             `json:"total_hours"`
	ApprovedBy   string              `json:"approved_by"`
	ApprovedAt   time.Time           `json:"approved_at"`
	Entries      []TimeEntryResponse `json:"entries"`
}

// HistoryRunResponse is one row of the quarter/year reporting view.
type HistoryRunResponse struct {
	RunID       string  `json:"run_id"`
	CreatorName string  `json:"creator_name"`
	PeriodStart string  `json:"period_start"`
	PeriodEnd   string  `json:"period_end"`
	TotalHours  float64 `json:"total_hours"`
	StatusName  string  `json:"status_name"`
}
