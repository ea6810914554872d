package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// TimeEntryRepository encapsulates time-entry persistence. Claimed entries
// (billing_run_id set) are only ever written by the billing-run aggregate
// transaction, never through this interface.
type TimeEntryRepository interface {
	// Create inserts the entry and its seeding status-log row in one
	// transaction.
	Create(ctx context.Context, entry *domain.TimeEntry, actorID string, comment string) error
	GetByID(ctx context.Context, id string) (*domain.TimeEntry, error)
	// FindUnclaimed returns only entries among ids that are unclaimed and
	// created by ownerID. Callers treat any missing id as invalid.
	FindUnclaimed(ctx context.Context, ids []string, ownerID string) ([]domain.TimeEntry, error)
	ListByOwner(ctx context.Context, ownerID string, unclaimedOnly bool) ([]domain.TimeEntry, error)
	ListByBillingRun(ctx context.Context, runID string) ([]domain.TimeEntry, error)
}

type timeEntryRepository struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository instantiates repository.
func NewTimeEntryRepository(pool *pgxpool.Pool) TimeEntryRepository {
	return &timeEntryRepository{pool: pool}
}

func (r *timeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry, actorID string, comment string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertEntry = `
        INSERT INTO time_entries (entry_date, start_time, end_time, hours, course, department_id, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertEntry,
		entry.Date,
		entry.StartTime,
		entry.EndTime,
		entry.Hours,
		entry.Course,
		entry.DepartmentID,
		entry.CreatedBy,
	).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return err
	}

	const insertLog = `
        INSERT INTO time_entry_status_log (entry_id, status, modified_by, comment)
        VALUES ($1,$2,$3,$4)`
	if _, err := tx.Exec(ctx, insertLog, entry.ID, domain.StatusEntryCreated, actorID, comment); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (*domain.TimeEntry, error) {
	const query = `
        SELECT id, entry_date, start_time, end_time, hours, course, department_id, created_by, billing_run_id, created_at
        FROM time_entries WHERE id=$1`
	var entry domain.TimeEntry
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.Date,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Hours,
		&entry.Course,
		&entry.DepartmentID,
		&entry.CreatedBy,
		&entry.BillingRunID,
		&entry.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) FindUnclaimed(ctx context.Context, ids []string, ownerID string) ([]domain.TimeEntry, error) {
	const query = `
        SELECT id, entry_date, start_time, end_time, hours, course, department_id, created_by, billing_run_id, created_at
        FROM time_entries
        WHERE id = ANY($1) AND created_by=$2 AND billing_run_id IS NULL`
	rows, err := r.pool.Query(ctx, query, ids, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeEntries(rows)
}

func (r *timeEntryRepository) ListByOwner(ctx context.Context, ownerID string, unclaimedOnly bool) ([]domain.TimeEntry, error) {
	query := `
        SELECT id, entry_date, start_time, end_time, hours, course, department_id, created_by, billing_run_id, created_at
        FROM time_entries WHERE created_by=$1`
	if unclaimedOnly {
		query += ` AND billing_run_id IS NULL`
	}
	query += ` ORDER BY entry_date DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeEntries(rows)
}

func (r *timeEntryRepository) ListByBillingRun(ctx context.Context, runID string) ([]domain.TimeEntry, error) {
	const query = `
        SELECT id, entry_date, start_time, end_time, hours, course, department_id, created_by, billing_run_id, created_at
        FROM time_entries WHERE billing_run_id=$1 ORDER BY entry_date`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTimeEntries(rows)
}

func scanTimeEntries(rows pgx.Rows) ([]domain.TimeEntry, error) {
	var result []domain.TimeEntry
	for rows.Next() {
		var entry domain.TimeEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Date,
			&entry.StartTime,
			&entry.EndTime,
			&entry.Hours,
			&entry.Course,
			&entry.DepartmentID,
			&entry.CreatedBy,
			&entry.BillingRunID,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
