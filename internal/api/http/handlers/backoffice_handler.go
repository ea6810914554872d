package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/dto"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/service"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// BackofficeHandler serves the back-office approval queue, final release
// and the historical reporting view.
type BackofficeHandler struct {
	approval *service.ApprovalService
}

// NewBackofficeHandler constructs handler.
func NewBackofficeHandler(approval *service.ApprovalService) *BackofficeHandler {
	return &BackofficeHandler{approval: approval}
}

// Queue GET /backoffice/billing-runs.
func (h *BackofficeHandler) Queue(c *fiber.Ctx) error {
	views, err := h.approval.ApprovedQueue(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.BackofficeRunResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.BackofficeRunResponse{
			RunID:        view.RunID,
			CreatorName:  view.CreatorName,
			DepartmentID: view.DepartmentID,
			PeriodStart:  view.PeriodStart.Format("2006-01-02"),
			PeriodEnd:    view.PeriodEnd.Format("2006-01-02"),
			TotalHours:   view.TotalHours,
			ApprovedBy:   view.ApprovedBy,
			ApprovedAt:   view.ApprovedAt,
			Entries:      timeEntryResponses(view.Entries),
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Finalize POST /backoffice/billing-runs/:id/finalize.
func (h *BackofficeHandler) Finalize(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	row, err := h.approval.Finalize(c.Context(), c.Params("id"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"status":      row.Status,
		"status_name": row.Status.DisplayName(),
		"modified_at": row.ModifiedAt,
	}})
}

// History GET /backoffice/billing-runs/history?year=&quarter=.
func (h *BackofficeHandler) History(c *fiber.Ctx) error {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return apperrors.NewValidationError("year must be numeric", nil)
		}
		year = parsed
	}
	quarter := c.Query("quarter")
	switch quarter {
	case "", "Q1", "Q2", "Q3", "Q4":
	default:
		return apperrors.NewValidationError("quarter must be one of Q1..Q4", nil)
	}

	views, err := h.approval.History(c.Context(), year, quarter)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryRunResponse, 0, len(views))
	for _, view := range views {
		items = append(items, dto.HistoryRunResponse{
			RunID:       view.RunID,
			CreatorName: view.CreatorName,
			PeriodStart: view.PeriodStart.Format("2006-01-02"),
			PeriodEnd:   view.PeriodEnd.Format("2006-01-02"),
			TotalHours:  view.TotalHours,
			StatusName:  view.StatusName,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
