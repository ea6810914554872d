package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/timesheet-service/internal/domain"
	"github.com/spec-kit/timesheet-service/internal/repository"
)

// fakeStore backs the in-memory repository fakes used by the service
// tests. It mirrors the transactional guarantees of the real
// repositories, in particular the all-or-nothing claim on aggregation.
type fakeStore struct {
	entries   map[string]*domain.TimeEntry
	runs      map[string]*domain.BillingRun
	entryLogs map[string][]domain.StatusLogEntry
	runLogs   map[string][]domain.StatusLogEntry

	seq     int64
	nextID  int
	nowStep time.Duration
	now     time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		entries:   map[string]*domain.TimeEntry{},
		runs:      map[string]*domain.BillingRun{},
		entryLogs: map[string][]domain.StatusLogEntry{},
		runLogs:   map[string][]domain.StatusLogEntry{},
		nowStep:   time.Second,
		now:       time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing clock so log ordering is
// deterministic without sleeping.
func (s *fakeStore) tick() time.Time {
	s.now = s.now.Add(s.nowStep)
	return s.now
}

func (s *fakeStore) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *fakeStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

// seedEntry inserts an unclaimed entry with its creation log row, the
// same shape the real repository produces.
func (s *fakeStore) seedEntry(owner, deptID, day string, hours float64) *domain.TimeEntry {
	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		panic(err)
	}
	entry := &domain.TimeEntry{
		ID:           s.id("entry"),
		Date:         date,
		StartTime:    "09:00",
		EndTime:      "10:00",
		Hours:        hours,
		DepartmentID: deptID,
		CreatedBy:    owner,
		CreatedAt:    s.tick(),
	}
	s.entries[entry.ID] = entry
	s.appendEntryLog(entry.ID, domain.StatusEntryCreated, owner, "Entry created.")
	return entry
}

func (s *fakeStore) appendEntryLog(entryID string, status domain.Status, actorID, comment string) {
	s.entryLogs[entryID] = append(s.entryLogs[entryID], domain.StatusLogEntry{
		Seq:        s.nextSeq(),
		SubjectID:  entryID,
		Status:     status,
		ModifiedBy: actorID,
		ModifiedAt: s.tick(),
		Comment:    &comment,
	})
}

func (s *fakeStore) appendRunLog(runID string, status domain.Status, actorID, comment string) domain.StatusLogEntry {
	row := domain.StatusLogEntry{
		Seq:        s.nextSeq(),
		SubjectID:  runID,
		Status:     status,
		ModifiedBy: actorID,
		ModifiedAt: s.tick(),
		Comment:    &comment,
	}
	s.runLogs[runID] = append(s.runLogs[runID], row)
	return row
}

type fakeEntryRepo struct{ store *fakeStore }

var _ repository.TimeEntryRepository = (*fakeEntryRepo)(nil)

func (r *fakeEntryRepo) Create(_ context.Context, entry *domain.TimeEntry, actorID, comment string) error {
	entry.ID = r.store.id("entry")
	entry.CreatedAt = r.store.tick()
	stored := *entry
	r.store.entries[entry.ID] = &stored
	r.store.appendEntryLog(entry.ID, domain.StatusEntryCreated, actorID, comment)
	return nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id string) (*domain.TimeEntry, error) {
	entry, ok := r.store.entries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeEntryRepo) FindUnclaimed(_ context.Context, ids []string, ownerID string) ([]domain.TimeEntry, error) {
	var found []domain.TimeEntry
	for _, id := range ids {
		entry, ok := r.store.entries[id]
		if !ok || entry.CreatedBy != ownerID || entry.Claimed() {
			continue
		}
		found = append(found, *entry)
	}
	return found, nil
}

func (r *fakeEntryRepo) ListByOwner(_ context.Context, ownerID string, unclaimedOnly bool) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	for _, entry := range r.store.entries {
		if entry.CreatedBy != ownerID {
			continue
		}
		if unclaimedOnly && entry.Claimed() {
			continue
		}
		out = append(out, *entry)
	}
	return out, nil
}

func (r *fakeEntryRepo) ListByBillingRun(_ context.Context, runID string) ([]domain.TimeEntry, error) {
	var out []domain.TimeEntry
	for _, entry := range r.store.entries {
		if entry.BillingRunID != nil && *entry.BillingRunID == runID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

type fakeRunRepo struct{ store *fakeStore }

var _ repository.BillingRunRepository = (*fakeRunRepo)(nil)

func (r *fakeRunRepo) Create(_ context.Context, input repository.AggregateInput) error {
	// The claim is all-or-nothing: any id that is missing, foreign or
	// already claimed fails the whole batch with no writes, like the
	// transactional compare-and-set in the real repository.
	for _, id := range input.EntryIDs {
		entry, ok := r.store.entries[id]
		if !ok || entry.CreatedBy != input.OwnerID || entry.Claimed() {
			return domain.ErrInvalidSelection
		}
	}

	input.Run.ID = r.store.id("run")
	input.Run.CreatedAt = r.store.tick()
	stored := *input.Run
	r.store.runs[stored.ID] = &stored

	r.store.appendRunLog(stored.ID, domain.StatusRunSubmitted, input.ActorID, input.RunComment)
	for _, id := range input.EntryIDs {
		runID := stored.ID
		r.store.entries[id].BillingRunID = &runID
		r.store.appendEntryLog(id, domain.StatusEntryBilled, input.ActorID, input.EntryComment(runID))
	}
	return nil
}

func (r *fakeRunRepo) GetByID(_ context.Context, id string) (*domain.BillingRun, error) {
	run, ok := r.store.runs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *run
	return &copied, nil
}

func (r *fakeRunRepo) ListByCreator(_ context.Context, creatorID string) ([]domain.BillingRun, error) {
	var out []domain.BillingRun
	for _, run := range r.store.runs {
		if run.CreatedBy == creatorID {
			out = append(out, *run)
		}
	}
	return out, nil
}

func (r *fakeRunRepo) ListAll(_ context.Context) ([]domain.BillingRun, error) {
	var out []domain.BillingRun
	for _, run := range r.store.runs {
		out = append(out, *run)
	}
	return out, nil
}

func (r *fakeRunRepo) ListOverlapping(_ context.Context, from, to time.Time) ([]domain.BillingRun, error) {
	var out []domain.BillingRun
	for _, run := range r.store.runs {
		if !run.PeriodEnd.Before(from) && !run.PeriodStart.After(to) {
			out = append(out, *run)
		}
	}
	return out, nil
}

type fakeLogRepo struct{ store *fakeStore }

var _ repository.StatusLogRepository = (*fakeLogRepo)(nil)

func (r *fakeLogRepo) AppendRunLog(_ context.Context, log *domain.StatusLogEntry) error {
	comment := ""
	if log.Comment != nil {
		comment = *log.Comment
	}
	row := r.store.appendRunLog(log.SubjectID, log.Status, log.ModifiedBy, comment)
	log.Seq = row.Seq
	log.ModifiedAt = row.ModifiedAt
	return nil
}

func (r *fakeLogRepo) ListByRun(_ context.Context, runID string) ([]domain.StatusLogEntry, error) {
	return append([]domain.StatusLogEntry(nil), r.store.runLogs[runID]...), nil
}

func (r *fakeLogRepo) ListByEntry(_ context.Context, entryID string) ([]domain.StatusLogEntry, error) {
	return append([]domain.StatusLogEntry(nil), r.store.entryLogs[entryID]...), nil
}

type fakeUserRepo struct{ users map[string]*domain.User }

var _ repository.UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.users == nil {
		r.users = map[string]*domain.User{}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListRoleAssignments(_ context.Context, _ string) ([]domain.RoleAssignment, error) {
	return nil, nil
}

type fakeDeptRepo struct{ depts map[string]*domain.Department }

var _ repository.DepartmentRepository = (*fakeDeptRepo)(nil)

func (r *fakeDeptRepo) Create(_ context.Context, dept *domain.Department) error {
	if r.depts == nil {
		r.depts = map[string]*domain.Department{}
	}
	r.depts[dept.ID] = dept
	return nil
}

func (r *fakeDeptRepo) GetByID(_ context.Context, id string) (*domain.Department, error) {
	dept, ok := r.depts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dept, nil
}

func (r *fakeDeptRepo) ListActive(_ context.Context) ([]domain.Department, error) {
	var out []domain.Department
	for _, dept := range r.depts {
		if dept.IsActive {
			out = append(out, *dept)
		}
	}
	return out, nil
}

func (r *fakeDeptRepo) ListForUser(_ context.Context, _ string) ([]domain.Department, error) {
	return r.ListActive(context.Background())
}
