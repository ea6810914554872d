package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/events"
	"github.com/spec-kit/timesheet-service/internal/repository"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

// BillingService is the aggregation engine: it turns a set of unclaimed
// time entries into an immutable billing run and serves the creator-facing
// run projections.
type BillingService struct {
	runs       repository.BillingRunRepository
	entries    repository.TimeEntryRepository
	logs       repository.StatusLogRepository
	dispatcher events.Dispatcher
	cache      *Cache
}

// BillingDependencies bundles repositories for the billing service.
type BillingDependencies struct {
	RunRepo    repository.BillingRunRepository
	EntryRepo  repository.TimeEntryRepository
	LogRepo    repository.StatusLogRepository
	Dispatcher events.Dispatcher
	Cache      *Cache
}

// BillingRunSummary is the creator-facing projection of one run.
type BillingRunSummary struct {
	ID          string        `json:"id"`
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	Status      domain.Status `json:"status"`
	StatusName  string        `json:"status_name"`
	TotalHours  float64       `json:"total_hours"`
	CreatedAt   time.Time     `json:"created_at"`
}

// BillingRunDetail extends the summary with members and full history.
type BillingRunDetail struct {
	Summary BillingRunSummary
	Entries []domain.TimeEntry
	Log     []domain.StatusLogEntry
}

// NewBillingService constructs the service.
func NewBillingService(deps BillingDependencies) *BillingService {
	return &BillingService{
		runs:       deps.RunRepo,
		entries:    deps.EntryRepo,
		logs:       deps.LogRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
	}
}

// CreateBillingRun atomically claims the given entries into a new run.
// All-or-nothing: ids that are missing, foreign, or already claimed fail
// the whole batch, and a mixed-department selection is rejected before any
// write happens.
func (s *BillingService) CreateBillingRun(ctx context.Context, ownerID string, entryIDs []string) (*domain.BillingRun, error) {
	if len(entryIDs) == 0 {
		return nil, apperrors.NewValidationError("entry_ids required", nil)
	}
	seen := make(map[string]struct{}, len(entryIDs))
	for _, id := range entryIDs {
		if _, dup := seen[id]; dup {
			return nil, apperrors.NewValidationError("duplicate entry ids", map[string]any{"entry_id": id})
		}
		seen[id] = struct{}{}
	}

	loaded, err := s.entries.FindUnclaimed(ctx, entryIDs, ownerID)
	if err != nil {
		return nil, err
	}
	if len(loaded) != len(entryIDs) {
		return nil, domain.ErrInvalidSelection
	}

	departmentID := loaded[0].DepartmentID
	periodStart, periodEnd := loaded[0].Date, loaded[0].Date
	for _, entry := range loaded[1:] {
		if entry.DepartmentID != departmentID {
			return nil, domain.ErrInconsistentDepartment
		}
		if entry.Date.Before(periodStart) {
			periodStart = entry.Date
		}
		if entry.Date.After(periodEnd) {
			periodEnd = entry.Date
		}
	}

	run := &domain.BillingRun{
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		DepartmentID: departmentID,
		CreatedBy:    ownerID,
	}
	err = s.runs.Create(ctx, repository.AggregateInput{
		Run:        run,
		EntryIDs:   entryIDs,
		OwnerID:    ownerID,
		ActorID:    ownerID,
		RunComment: "Billing run created.",
		EntryComment: func(runID string) string {
			return fmt.Sprintf("Added to billing run %s.", runID)
		},
	})
	if err != nil {
		// A concurrent aggregation won the race for at least one entry.
		if errors.Is(err, domain.ErrInvalidSelection) {
			return nil, err
		}
		return nil, apperrors.NewAggregationFailed(err)
	}

	s.cache.Delete(ctx, runSummaryCacheKey(ownerID))
	s.publish(ctx, events.Event{
		Type:      events.EventBillingRunCreated,
		SubjectID: run.ID,
		ActorID:   ownerID,
		Payload: events.BillingRunCreatedPayload{
			DepartmentID: run.DepartmentID,
			PeriodStart:  run.PeriodStart.Format(dateLayout),
			PeriodEnd:    run.PeriodEnd.Format(dateLayout),
			EntryCount:   len(entryIDs),
			TotalHours:   domain.RoundHours(domain.TotalHours(loaded)),
		},
	})
	return run, nil
}

// MyBillingRuns lists the caller's runs with derived current status and
// total claimed hours, newest first.
func (s *BillingService) MyBillingRuns(ctx context.Context, ownerID string) ([]BillingRunSummary, error) {
	cacheKey := runSummaryCacheKey(ownerID)
	var cached []BillingRunSummary
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	runs, err := s.runs.ListByCreator(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	summaries := make([]BillingRunSummary, 0, len(runs))
	for i := range runs {
		summary, err := s.summarize(ctx, &runs[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	s.cache.Set(ctx, cacheKey, summaries)
	return summaries, nil
}

// GetRunForUser returns a run owned by the caller with members and history.
func (s *BillingService) GetRunForUser(ctx context.Context, ownerID, runID string) (*BillingRunDetail, error) {
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("billing run", nil)
		}
		return nil, err
	}
	if run.CreatedBy != ownerID {
		return nil, apperrors.NewForbidden("not your billing run")
	}
	return s.detail(ctx, run)
}

func (s *BillingService) detail(ctx context.Context, run *domain.BillingRun) (*BillingRunDetail, error) {
	summary, err := s.summarize(ctx, run)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.ListByBillingRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	log, err := s.logs.ListByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	return &BillingRunDetail{Summary: summary, Entries: entries, Log: log}, nil
}

func (s *BillingService) summarize(ctx context.Context, run *domain.BillingRun) (BillingRunSummary, error) {
	log, err := s.logs.ListByRun(ctx, run.ID)
	if err != nil {
		return BillingRunSummary{}, err
	}
	entries, err := s.entries.ListByBillingRun(ctx, run.ID)
	if err != nil {
		return BillingRunSummary{}, err
	}

	summary := BillingRunSummary{
		ID:          run.ID,
		PeriodStart: run.PeriodStart,
		PeriodEnd:   run.PeriodEnd,
		TotalHours:  domain.RoundHours(domain.TotalHours(entries)),
		CreatedAt:   run.CreatedAt,
	}
	if current, ok := domain.CurrentStatus(log); ok {
		summary.Status = current.Status
		summary.StatusName = current.Status.DisplayName()
	}
	return summary, nil
}

func (s *BillingService) publish(ctx context.Context, event events.Event) {
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

func runSummaryCacheKey(ownerID string) string {
	return "billing:runs:" + ownerID
}
