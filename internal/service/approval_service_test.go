package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/timesheet-service/internal/domain"
	apperrors "github.com/spec-kit/timesheet-service/pkg/util"
)

func newApprovalService(store *fakeStore, users *fakeUserRepo, strict bool) *ApprovalService {
	return NewApprovalService(ApprovalDependencies{
		RunRepo:   &fakeRunRepo{store: store},
		EntryRepo: &fakeEntryRepo{store: store},
		LogRepo:   &fakeLogRepo{store: store},
		UserRepo:  users,
		Strict:    strict,
	})
}

func seedRun(t *testing.T, store *fakeStore, owner string, days ...string) *domain.BillingRun {
	t.Helper()
	svc := newBillingService(store)
	ids := make([]string, 0, len(days))
	for _, day := range days {
		ids = append(ids, store.seedEntry(owner, "dept-1", day, 1.5).ID)
	}
	run, err := svc.CreateBillingRun(context.Background(), owner, ids)
	require.NoError(t, err)
	return run
}

func seedUsers() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{
		"alice":      {ID: "alice", FirstName: "Alice", LastName: "Becker"},
		"head":       {ID: "head", FirstName: "Hanna", LastName: "Vogt"},
		"backoffice": {ID: "backoffice", FirstName: "Boris", LastName: "Krause"},
	}}
}

func TestApprovalPipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("submitted runs advance through approval to finalized", func(t *testing.T) {
		store := newFakeStore()
		svc := newApprovalService(store, seedUsers(), true)
		run := seedRun(t, store, "alice", "2026-01-05")

		approval, err := svc.ApproveByDepartmentHead(ctx, run.ID, "head", "")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRunApprovedByDH, approval.Status)
		require.NotNil(t, approval.Comment)
		assert.Equal(t, "Approved by department head.", *approval.Comment)

		final, err := svc.Finalize(ctx, run.ID, "backoffice")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRunFinalized, final.Status)

		log := store.runLogs[run.ID]
		require.Len(t, log, 3)
		current, ok := domain.CurrentStatus(log)
		require.True(t, ok)
		assert.Equal(t, domain.StatusRunFinalized, current.Status)
	})

	t.Run("strict mode rejects finalize before approval", func(t *testing.T) {
		store := newFakeStore()
		svc := newApprovalService(store, seedUsers(), true)
		run := seedRun(t, store, "alice", "2026-01-05")

		_, err := svc.Finalize(ctx, run.ID, "backoffice")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Len(t, store.runLogs[run.ID], 1)
	})

	t.Run("strict mode rejects repeated approval", func(t *testing.T) {
		store := newFakeStore()
		svc := newApprovalService(store, seedUsers(), true)
		run := seedRun(t, store, "alice", "2026-01-05")

		_, err := svc.ApproveByDepartmentHead(ctx, run.ID, "head", "")
		require.NoError(t, err)
		_, err = svc.ApproveByDepartmentHead(ctx, run.ID, "head", "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("strict mode rejects transitions on finalized runs", func(t *testing.T) {
		store := newFakeStore()
		svc := newApprovalService(store, seedUsers(), true)
		run := seedRun(t, store, "alice", "2026-01-05")

		_, err := svc.ApproveByDepartmentHead(ctx, run.ID, "head", "")
		require.NoError(t, err)
		_, err = svc.Finalize(ctx, run.ID, "backoffice")
		require.NoError(t, err)

		_, err = svc.ApproveByDepartmentHead(ctx, run.ID, "head", "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("lenient mode appends out-of-order stages", func(t *testing.T) {
		store := newFakeStore()
		svc := newApprovalService(store, seedUsers(), false)
		run := seedRun(t, store, "alice", "2026-01-05")

		_, err := svc.Finalize(ctx, run.ID, "backoffice")
		require.NoError(t, err)
		assert.Len(t, store.runLogs[run.ID], 2)
	})

	t.Run("unknown runs report not found", func(t *testing.T) {
		svc := newApprovalService(newFakeStore(), seedUsers(), true)

		_, err := svc.ApproveByDepartmentHead(ctx, "missing", "head", "")
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestApprovedQueue(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	users := seedUsers()
	svc := newApprovalService(store, users, true)

	submitted := seedRun(t, store, "alice", "2026-01-05")
	approved := seedRun(t, store, "alice", "2026-01-12", "2026-01-19")
	finalized := seedRun(t, store, "alice", "2026-01-26")

	_, err := svc.ApproveByDepartmentHead(ctx, approved.ID, "head", "Looks complete.")
	require.NoError(t, err)
	_, err = svc.ApproveByDepartmentHead(ctx, finalized.ID, "head", "")
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, finalized.ID, "backoffice")
	require.NoError(t, err)

	queue, err := svc.ApprovedQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)

	view := queue[0]
	assert.Equal(t, approved.ID, view.RunID)
	assert.Equal(t, "Alice Becker", view.CreatorName)
	assert.Equal(t, "Hanna Vogt", view.ApprovedBy)
	assert.Equal(t, 3.0, view.TotalHours)
	assert.Len(t, view.Entries, 2)
	assert.NotContains(t, []string{submitted.ID, finalized.ID}, view.RunID)
}

func TestApprovalIdentitySurvivesFinalize(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newApprovalService(store, seedUsers(), true)
	run := seedRun(t, store, "alice", "2026-01-05")

	approval, err := svc.ApproveByDepartmentHead(ctx, run.ID, "head", "")
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, run.ID, "backoffice")
	require.NoError(t, err)

	log := store.runLogs[run.ID]
	recovered, ok := domain.StatusAt(log, domain.StatusRunApprovedByDH)
	require.True(t, ok)
	assert.Equal(t, "head", recovered.ModifiedBy)
	assert.Equal(t, approval.ModifiedAt, recovered.ModifiedAt)
	assert.Equal(t, approval.Seq, recovered.Seq)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	svc := newApprovalService(store, seedUsers(), true)

	q1 := seedRun(t, store, "alice", "2026-01-05", "2026-02-10")
	q3 := seedRun(t, store, "alice", "2026-07-14")
	_, err := svc.ApproveByDepartmentHead(ctx, q1.ID, "head", "")
	require.NoError(t, err)

	t.Run("a quarter narrows the window", func(t *testing.T) {
		views, err := svc.History(ctx, 2026, "Q1")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, q1.ID, views[0].RunID)
		assert.Equal(t, "Approved by department head", views[0].StatusName)
		assert.Equal(t, 3.0, views[0].TotalHours)
	})

	t.Run("no quarter covers the whole year", func(t *testing.T) {
		views, err := svc.History(ctx, 2026, "")
		require.NoError(t, err)
		assert.Len(t, views, 2)
	})

	t.Run("later quarters pick up later runs", func(t *testing.T) {
		views, err := svc.History(ctx, 2026, "Q3")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, q3.ID, views[0].RunID)
	})

	t.Run("a quarter without runs is empty", func(t *testing.T) {
		views, err := svc.History(ctx, 2026, "Q4")
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}
