package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// StatusLogRepository reads and appends the two append-only status
// histories. Rows are never updated or deleted.
type StatusLogRepository interface {
	AppendRunLog(ctx context.Context, log *domain.StatusLogEntry) error
	ListByRun(ctx context.Context, runID string) ([]domain.StatusLogEntry, error)
	ListByEntry(ctx context.Context, entryID string) ([]domain.StatusLogEntry, error)
}

type statusLogRepository struct {
	pool *pgxpool.Pool
}

// NewStatusLogRepository builds repository.
func NewStatusLogRepository(pool *pgxpool.Pool) StatusLogRepository {
	return &statusLogRepository{pool: pool}
}

func (r *statusLogRepository) AppendRunLog(ctx context.Context, log *domain.StatusLogEntry) error {
	const query = `
        INSERT INTO billing_run_status_log (run_id, status, modified_by, comment)
        VALUES ($1,$2,$3,$4)
        RETURNING seq, modified_at`
	return r.pool.QueryRow(ctx, query,
		log.SubjectID,
		log.Status,
		log.ModifiedBy,
		log.Comment,
	).Scan(&log.Seq, &log.ModifiedAt)
}

func (r *statusLogRepository) ListByRun(ctx context.Context, runID string) ([]domain.StatusLogEntry, error) {
	const query = `
        SELECT seq, run_id, status, modified_by, modified_at, comment
        FROM billing_run_status_log WHERE run_id=$1 ORDER BY seq`
	return r.list(ctx, query, runID)
}

func (r *statusLogRepository) ListByEntry(ctx context.Context, entryID string) ([]domain.StatusLogEntry, error) {
	const query = `
        SELECT seq, entry_id, status, modified_by, modified_at, comment
        FROM time_entry_status_log WHERE entry_id=$1 ORDER BY seq`
	return r.list(ctx, query, entryID)
}

func (r *statusLogRepository) list(ctx context.Context, query, subjectID string) ([]domain.StatusLogEntry, error) {
	rows, err := r.pool.Query(ctx, query, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStatusLog(rows)
}

func scanStatusLog(rows pgx.Rows) ([]domain.StatusLogEntry, error) {
	var result []domain.StatusLogEntry
	for rows.Next() {
		var row domain.StatusLogEntry
		if err := rows.Scan(
			&row.Seq,
			&row.SubjectID,
			&row.Status,
			&row.ModifiedBy,
			&row.ModifiedAt,
			&row.Comment,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
