package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/events"
	"github.com/spec-kit/timesheet-service/internal/repository"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

const dateLayout = "2006-01-02"

// TimeEntryService coordinates time-entry workflows.
type TimeEntryService struct {
	entries     repository.TimeEntryRepository
	departments repository.DepartmentRepository
	logs        repository.StatusLogRepository
	dispatcher  events.Dispatcher
}

// TimeEntryDependencies bundles repositories for the service.
type TimeEntryDependencies struct {
	EntryRepo      repository.TimeEntryRepository
	DepartmentRepo repository.DepartmentRepository
	LogRepo        repository.StatusLogRepository
	Dispatcher     events.Dispatcher
}

// TimeEntryCreateInput describes entry creation payload.
type TimeEntryCreateInput struct {
	Date         string
	StartTime    string
	EndTime      string
	Course       *string
	DepartmentID string
}

// NewTimeEntryService constructs the service.
func NewTimeEntryService(deps TimeEntryDependencies) *TimeEntryService {
	return &TimeEntryService{
		entries:     deps.EntryRepo,
		departments: deps.DepartmentRepo,
		logs:        deps.LogRepo,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateEntry validates the time span, derives the decimal-hours duration
// and persists the entry together with its seeding status-log row.
func (s *TimeEntryService) CreateEntry(ctx context.Context, ownerID string, input TimeEntryCreateInput) (*domain.TimeEntry, error) {
	date, err := time.Parse(dateLayout, input.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be formatted as YYYY-MM-DD", nil)
	}

	hours, err := domain.DurationHours(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	dept, err := s.departments.GetByID(ctx, input.DepartmentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("department", map[string]any{"department_id": input.DepartmentID})
		}
		return nil, err
	}
	if !dept.IsActive {
		return nil, apperrors.NewValidationError("department inactive", nil)
	}

	entry := &domain.TimeEntry{
		Date:         date,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Hours:        hours,
		Course:       input.Course,
		DepartmentID: dept.ID,
		CreatedBy:    ownerID,
	}
	if err := s.entries.Create(ctx, entry, ownerID, "Entry created."); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTimeEntryCreated,
		SubjectID: entry.ID,
		ActorID:   ownerID,
		Payload: events.TimeEntryCreatedPayload{
			DepartmentID: entry.DepartmentID,
			Date:         entry.Date.Format(dateLayout),
			Hours:        entry.Hours,
		},
	})
	return entry, nil
}

// ListEntries returns the owner's entries, optionally only unclaimed ones.
func (s *TimeEntryService) ListEntries(ctx context.Context, ownerID string, unclaimedOnly bool) ([]domain.TimeEntry, error) {
	return s.entries.ListByOwner(ctx, ownerID, unclaimedOnly)
}

// EntryHistory returns the full status log of one of the owner's entries.
func (s *TimeEntryService) EntryHistory(ctx context.Context, ownerID, entryID string) ([]domain.StatusLogEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("time entry", nil)
		}
		return nil, err
	}
	if entry.CreatedBy != ownerID {
		return nil, apperrors.NewForbidden("not your entry")
	}
	return s.logs.ListByEntry(ctx, entryID)
}

func (s *TimeEntryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
