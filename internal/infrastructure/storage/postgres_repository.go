package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"redditdigest/internal/domain"
	"redditdigest/internal/ports"
)

// PostgresRepository records run outcomes in Postgres. A nil db makes every
// operation a no-op so the pipeline works without run history configured.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun inserts the run snapshot, assigning an id when absent.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.RunRecord) error {
	if r.db == nil {
		return nil
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	query, args, err := r.builder.
		Insert("digest_runs").
		Columns("id", "subreddits", "keywords", "item_count", "report_path", "status").
		Values(run.ID, pq.StringArray(run.Subreddits), pq.StringArray(run.Keywords), run.ItemCount, run.ReportPath, string(run.Status)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// RecentRuns returns the latest run snapshots, newest first.
func (r *PostgresRepository) RecentRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if r.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	query, args, err := r.builder.
		Select("id", "subreddits", "keywords", "item_count", "report_path", "status", "created_at").
		From("digest_runs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	var runs []domain.RunRecord
	for rows.Next() {
		var (
			run        domain.RunRecord
			subreddits pq.StringArray
			keywords   pq.StringArray
			status     string
		)
		if err := rows.Scan(&run.ID, &subreddits, &keywords, &run.ItemCount, &run.ReportPath, &status, &run.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Subreddits = subreddits
		run.Keywords = keywords
		run.Status = domain.RunStatus(status)
		runs = append(runs, run)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return runs, nil
}
