package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// AggregateInput carries everything the atomic billing-run creation needs.
// EntryComment is called with the new run id once it exists, so the entry
// log rows can reference it.
type AggregateInput struct {
	Run          *domain.BillingRun
	EntryIDs     []string
	OwnerID      string
	ActorID      string
	RunComment   string
	EntryComment func(runID string) string
}

// BillingRunRepository owns billing-run rows. Runs are created only through
// Create, which performs the whole aggregation unit of work in a single
// transaction: run insert, submitted log row, entry claims, entry log rows.
type BillingRunRepository interface {
	Create(ctx context.Context, input AggregateInput) error
	GetByID(ctx context.Context, id string) (*domain.BillingRun, error)
	ListByCreator(ctx context.Context, creatorID string) ([]domain.BillingRun, error)
	ListAll(ctx context.Context) ([]domain.BillingRun, error)
	// ListOverlapping returns runs whose period intersects [from, to].
	ListOverlapping(ctx context.Context, from, to time.Time) ([]domain.BillingRun, error)
}

type billingRunRepository struct {
	pool *pgxpool.Pool
}

// NewBillingRunRepository instantiates repository.
func NewBillingRunRepository(pool *pgxpool.Pool) BillingRunRepository {
	return &billingRunRepository{pool: pool}
}

func (r *billingRunRepository) Create(ctx context.Context, input AggregateInput) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	run := input.Run
	const insertRun = `
        INSERT INTO billing_runs (period_start, period_end, department_id, created_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertRun,
		run.PeriodStart,
		run.PeriodEnd,
		run.DepartmentID,
		run.CreatedBy,
	).Scan(&run.ID, &run.CreatedAt); err != nil {
		return err
	}

	const insertRunLog = `
        INSERT INTO billing_run_status_log (run_id, status, modified_by, comment)
        VALUES ($1,$2,$3,$4)`
	if _, err := tx.Exec(ctx, insertRunLog,
		run.ID, domain.StatusRunSubmitted, input.ActorID, input.RunComment); err != nil {
		return err
	}

	// Compare-and-set claim. A concurrent aggregation that already took any
	// of these entries reduces the affected count; the whole transaction
	// rolls back and the caller sees InvalidSelection.
	const claim = `
        UPDATE time_entries SET billing_run_id=$1
        WHERE id = ANY($2) AND created_by=$3 AND billing_run_id IS NULL`
	cmd, err := tx.Exec(ctx, claim, run.ID, input.EntryIDs, input.OwnerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() != int64(len(input.EntryIDs)) {
		return domain.ErrInvalidSelection
	}

	const insertEntryLog = `
        INSERT INTO time_entry_status_log (entry_id, status, modified_by, comment)
        VALUES ($1,$2,$3,$4)`
	for _, entryID := range input.EntryIDs {
		if _, err := tx.Exec(ctx, insertEntryLog,
			entryID, domain.StatusEntryBilled, input.ActorID, input.EntryComment(run.ID)); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *billingRunRepository) GetByID(ctx context.Context, id string) (*domain.BillingRun, error) {
	const query = `
        SELECT id, period_start, period_end, department_id, created_by, created_at
        FROM billing_runs WHERE id=$1`
	var run domain.BillingRun
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.PeriodStart,
		&run.PeriodEnd,
		&run.DepartmentID,
		&run.CreatedBy,
		&run.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *billingRunRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.BillingRun, error) {
	const query = `
        SELECT id, period_start, period_end, department_id, created_by, created_at
        FROM billing_runs WHERE created_by=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillingRuns(rows)
}

func (r *billingRunRepository) ListAll(ctx context.Context) ([]domain.BillingRun, error) {
	const query = `
        SELECT id, period_start, period_end, department_id, created_by, created_at
        FROM billing_runs ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillingRuns(rows)
}

func (r *billingRunRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]domain.BillingRun, error) {
	const query = `
        SELECT id, period_start, period_end, department_id, created_by, created_at
        FROM billing_runs
        WHERE period_start <= $2 AND period_end >= $1
        ORDER BY period_start`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBillingRuns(rows)
}

func scanBillingRuns(rows pgx.Rows) ([]domain.BillingRun, error) {
	var result []domain.BillingRun
	for rows.Next() {
		var run domain.BillingRun
		if err := rows.Scan(
			&run.ID,
			&run.PeriodStart,
			&run.PeriodEnd,
			&run.DepartmentID,
			&run.CreatedBy,
			&run.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, run)
	}
	return result, rows.Err()
}
