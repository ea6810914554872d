package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/timesheet-service/internal/api/dto"
	"github.com/spec-kit/timesheet-service/internal/auth"
	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/service"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// TimeEntriesHandler manages instructor time-entry endpoints.
type TimeEntriesHandler struct {
	service *service.TimeEntryService
}

// NewTimeEntriesHandler constructs handler.
func NewTimeEntriesHandler(entryService *service.TimeEntryService) *TimeEntriesHandler {
	return &TimeEntriesHandler{service: entryService}
}

// Create POST /time-entries.
func (h *TimeEntriesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTimeEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Date == "" || req.StartTime == "" || req.EndTime == "" || req.DepartmentID == "" {
		return apperrors.NewValidationError("date, start_time, end_time, department_id required", nil)
	}

	entry, err := h.service.CreateEntry(c.Context(), principal.User.ID, service.TimeEntryCreateInput{
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Course:       req.Course,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": timeEntryResponse(entry)})
}

// List GET /time-entries.
func (h *TimeEntriesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	unclaimedOnly := c.QueryBool("unclaimed", false)
	entries, err := h.service.ListEntries(c.Context(), principal.User.ID, unclaimedOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": timeEntryResponses(entries)})
}

// History GET /time-entries/:id/history.
func (h *TimeEntriesHandler) History(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	log, err := h.service.EntryHistory(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statusLogResponses(log)})
}

func timeEntryResponse(entry *domain.TimeEntry) dto.TimeEntryResponse {
	return dto.TimeEntryResponse{
		ID:           entry.ID,
		Date:         entry.Date.Format("2006-01-02"),
		StartTime:    entry.StartTime,
		EndTime:      entry.EndTime,
		Hours:        domain.RoundHours(entry.Hours),
		Course:       entry.Course,
		DepartmentID: entry.DepartmentID,
		BillingRunID: entry.BillingRunID,
		CreatedAt:    entry.CreatedAt,
	}
}

func timeEntryResponses(entries []domain.TimeEntry) []dto.TimeEntryResponse {
	items := make([]dto.TimeEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, timeEntryResponse(&entries[i]))
	}
	return items
}

func statusLogResponses(log []domain.StatusLogEntry) []dto.StatusLogResponse {
	items := make([]dto.StatusLogResponse, 0, len(log))
	for _, row := range log {
		items = append(items, dto.StatusLogResponse{
			Seq:        row.Seq,
			Status:     row.Status,
			StatusName: row.Status.DisplayName(),
			ModifiedBy: row.ModifiedBy,
			ModifiedAt: row.ModifiedAt,
			Comment:    row.Comment,
		})
	}
	return items
}
