package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/dto"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/service"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// BillingRunsHandler manages creator-facing billing-run endpoints.
type BillingRunsHandler struct {
	billing  *service.BillingService
	approval *service.ApprovalService
}

// NewBillingRunsHandler constructs handler.
func NewBillingRunsHandler(billing *service.BillingService, approval *service.ApprovalService) *BillingRunsHandler {
	return &BillingRunsHandler{billing: billing, approval: approval}
}

// Create POST /billing-runs.
func (h *BillingRunsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateBillingRunRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	run, err := h.billing.CreateBillingRun(c.Context(), principal.User.ID, req.EntryIDs)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":           run.ID,
			"period_start": run.PeriodStart.Format("2006-01-02"),
			"period_end":   run.PeriodEnd.Format("2006-01-02"),
			"entry_count":  len(req.EntryIDs),
		},
	})
}

// Mine GET /billing-runs/mine.
func (h *BillingRunsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	summaries, err := h.billing.MyBillingRuns(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.BillingRunSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, billingRunSummaryResponse(summary))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /billing-runs/:id.
func (h *BillingRunsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	detail, err := h.billing.GetRunForUser(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.BillingRunDetailResponse{
		BillingRunSummaryResponse: billingRunSummaryResponse(detail.Summary),
		Entries:                   timeEntryResponses(detail.Entries),
		Log:                       statusLogResponses(detail.Log),
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Approve POST /billing-runs/:id/approve.
func (h *BillingRunsHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ApproveBillingRunRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	row, err := h.approval.ApproveByDepartmentHead(c.Context(), c.Params("id"), principal.User.ID, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"status":      row.Status,
		"status_name": row.Status.DisplayName(),
		"modified_at": row.ModifiedAt,
	}})
}

func billingRunSummaryResponse(summary service.BillingRunSummary) dto.BillingRunSummaryResponse {
	return dto.BillingRunSummaryResponse{
		ID:          summary.ID,
		PeriodStart: summary.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   summary.PeriodEnd.Format("2006-01-02"),
		Status:      string(summary.Status),
		StatusName:  summary.StatusName,
		TotalHours:  summary.TotalHours,
		CreatedAt:   summary.CreatedAt.Format("2006-01-02"),
	}
}
