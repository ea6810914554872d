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

// ApprovalService advances billing runs through the ordered approval
// pipeline and serves the back-office views.
type ApprovalService struct {
	runs       repository.BillingRunRepository
	entries    repository.TimeEntryRepository
	logs       repository.StatusLogRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	cache      *Cache
	strict     bool
}

// ApprovalDependencies bundles repositories for the approval service.
type ApprovalDependencies struct {
	RunRepo    repository.BillingRunRepository
	EntryRepo  repository.TimeEntryRepository
	LogRepo    repository.StatusLogRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Cache      *Cache
	Strict     bool
}

// BackofficeRunView is one row of the back-office approval queue.
type BackofficeRunView struct {
	RunID        string             `json:"run_id"`
	CreatorName  string             `json:"creator_name"`
	DepartmentID string             `json:"department_id"`
	PeriodStart  time.Time          `json:"period_start"`
	PeriodEnd    time.Time          `json:"period_end"`
	TotalHours   float64            `json:"total_hours"`
	ApprovedBy   string             `json:"approved_by"`
	ApprovedAt   time.Time          `json:"approved_at"`
	Entries      []domain.TimeEntry `json:"entries"`
}

// HistoryRunView is one row of the historical reporting view.
type HistoryRunView struct {
	RunID       string    `json:"run_id"`
	CreatorName string    `json:"creator_name"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	TotalHours  float64   `json:"total_hours"`
	StatusName  string    `json:"status_name"`
}

// NewApprovalService constructs the service.
func NewApprovalService(deps ApprovalDependencies) *ApprovalService {
	return &ApprovalService{
		runs:       deps.RunRepo,
		entries:    deps.EntryRepo,
		logs:       deps.LogRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		strict:     deps.Strict,
	}
}

// pipelineOrder defines the recognized forward transitions. Anything else
// is rejected in strict mode.
var pipelineOrder = map[domain.Status][]domain.Status{
	domain.StatusRunSubmitted:    {domain.StatusRunApprovedByDH},
	domain.StatusRunApprovedByDH: {domain.StatusRunFinalized},
	domain.StatusRunFinalized:    {},
}

// ApproveByDepartmentHead records the department-head approval stage.
func (s *ApprovalService) ApproveByDepartmentHead(ctx context.Context, runID, actorID, comment string) (*domain.StatusLogEntry, error) {
	if comment == "" {
		comment = "Approved by department head."
	}
	return s.transition(ctx, runID, actorID, domain.StatusRunApprovedByDH, comment)
}

// Finalize records the terminal payout-release stage.
func (s *ApprovalService) Finalize(ctx context.Context, runID, actorID string) (*domain.StatusLogEntry, error) {
	return s.transition(ctx, runID, actorID, domain.StatusRunFinalized, "Final release by back office.")
}

func (s *ApprovalService) transition(ctx context.Context, runID, actorID string, target domain.Status, comment string) (*domain.StatusLogEntry, error) {
	run, err := s.runs.GetByID(ctx, runID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("billing run", nil)
		}
		return nil, err
	}

	if s.strict {
		log, err := s.logs.ListByRun(ctx, runID)
		if err != nil {
			return nil, err
		}
		current, ok := domain.CurrentStatus(log)
		if !ok || !transitionAllowed(current.Status, target) {
			return nil, domain.ErrInvalidTransition
		}
	}

	row := &domain.StatusLogEntry{
		SubjectID:  runID,
		Status:     target,
		ModifiedBy: actorID,
		Comment:    &comment,
	}
	if err := s.logs.AppendRunLog(ctx, row); err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, runSummaryCacheKey(run.CreatedBy))
	s.publish(ctx, events.Event{
		Type:      events.EventBillingRunStatusChange,
		SubjectID: runID,
		ActorID:   actorID,
		Payload: events.BillingRunStatusChangedPayload{
			NewStatus: target,
			Comment:   comment,
		},
	})
	return row, nil
}

func transitionAllowed(current, next domain.Status) bool {
	for _, candidate := range pipelineOrder[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ApprovedQueue lists runs whose current status is the department-head
// approval, with approver identity and member entries.
func (s *ApprovalService) ApprovedQueue(ctx context.Context) ([]BackofficeRunView, error) {
	runs, err := s.runs.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]BackofficeRunView, 0, len(runs))
	for i := range runs {
		run := &runs[i]
		log, err := s.logs.ListByRun(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		current, ok := domain.CurrentStatus(log)
		if !ok || current.Status != domain.StatusRunApprovedByDH {
			continue
		}
		approval, _ := domain.StatusAt(log, domain.StatusRunApprovedByDH)

		entries, err := s.entries.ListByBillingRun(ctx, run.ID)
		if err != nil {
			return nil, err
		}

		view := BackofficeRunView{
			RunID:        run.ID,
			CreatorName:  s.userName(ctx, run.CreatedBy),
			DepartmentID: run.DepartmentID,
			PeriodStart:  run.PeriodStart,
			PeriodEnd:    run.PeriodEnd,
			TotalHours:   domain.RoundHours(domain.TotalHours(entries)),
			ApprovedBy:   s.userName(ctx, approval.ModifiedBy),
			ApprovedAt:   approval.ModifiedAt,
			Entries:      entries,
		}
		views = append(views, view)
	}
	return views, nil
}

// History lists runs whose period intersects the given year, optionally
// narrowed to one quarter (Q1..Q4), with their current status.
func (s *ApprovalService) History(ctx context.Context, year int, quarter string) ([]HistoryRunView, error) {
	from, to := quarterWindow(year, quarter)
	runs, err := s.runs.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, err
	}

	views := make([]HistoryRunView, 0, len(runs))
	for i := range runs {
		run := &runs[i]
		log, err := s.logs.ListByRun(ctx, run.ID)
		if err != nil {
			return nil, err
		}
		entries, err := s.entries.ListByBillingRun(ctx, run.ID)
		if err != nil {
			return nil, err
		}

		view := HistoryRunView{
			RunID:       run.ID,
			CreatorName: s.userName(ctx, run.CreatedBy),
			PeriodStart: run.PeriodStart,
			PeriodEnd:   run.PeriodEnd,
			TotalHours:  domain.RoundHours(domain.TotalHours(entries)),
		}
		if current, ok := domain.CurrentStatus(log); ok {
			view.StatusName = current.Status.DisplayName()
		}
		views = append(views, view)
	}
	return views, nil
}

func quarterWindow(year int, quarter string) (time.Time, time.Time) {
	switch quarter {
	case "Q1":
		return date(year, 1, 1), date(year, 3, 31)
	case "Q2":
		return date(year, 4, 1), date(year, 6, 30)
	case "Q3":
		return date(year, 7, 1), date(year, 9, 30)
	case "Q4":
		return date(year, 10, 1), date(year, 12, 31)
	default:
		return date(year, 1, 1), date(year, 12, 31)
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (s *ApprovalService) userName(ctx context.Context, userID string) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "Unknown"
	}
	return user.FullName()
}

func (s *ApprovalService) publish(ctx context.Context, event events.Event) {
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
