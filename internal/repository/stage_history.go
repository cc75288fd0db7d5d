package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/bodyshop/internal/domain"
)

var historyColumns = []string{"id", "task_id", "stage", "handler", "started_at", "ended_at"}

// StageHistoryRepository handles database operations for the append-only
// stage history log. Entries are appended and closed, never removed.
type StageHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStageHistoryRepository creates a new StageHistoryRepository.
func NewStageHistoryRepository(pool *pgxpool.Pool) *StageHistoryRepository {
	return &StageHistoryRepository{pool: pool}
}

// Append inserts a new open history entry within a transaction.
func (r *StageHistoryRepository) Append(ctx context.Context, tx pgx.Tx, entry *domain.StageEntry) error {
	query, args, err := psql.
		Insert("stage_history").
		Columns("task_id", "stage", "handler", "started_at", "ended_at").
		Values(entry.TaskID, entry.Stage, entry.Handler, entry.StartedAt, entry.EndedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Append query: %w", err)
	}

	if err := tx.QueryRow(ctx, query, args...).Scan(&entry.ID); err != nil {
		return fmt.Errorf("append stage entry: %w", err)
	}

	return nil
}

// CloseOpen sets the end time of the task's single open entry.
func (r *StageHistoryRepository) CloseOpen(ctx context.Context, tx pgx.Tx, taskID string, endedAt time.Time) error {
	query, args, err := psql.
		Update("stage_history").
		Set("ended_at", endedAt).
		Where(sq.Eq{"task_id": taskID}).
		Where("ended_at IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build CloseOpen query for task %s: %w", taskID, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("close stage entry: %w", err)
	}

	return nil
}

// ListByTaskID retrieves the ordered history of one task.
func (r *StageHistoryRepository) ListByTaskID(ctx context.Context, taskID string) ([]domain.StageEntry, error) {
	query, args, err := psql.
		Select(historyColumns...).
		From("stage_history").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("started_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByTaskID query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stage history: %w", err)
	}

	return scanEntries(rows)
}

// GetForTasks retrieves the histories of many tasks at once, keyed by task id.
func (r *StageHistoryRepository) GetForTasks(ctx context.Context, taskIDs []string) (map[string][]domain.StageEntry, error) {
	if len(taskIDs) == 0 {
		return map[string][]domain.StageEntry{}, nil
	}

	query, args, err := psql.
		Select(historyColumns...).
		From("stage_history").
		Where(sq.Eq{"task_id": taskIDs}).
		OrderBy("started_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetForTasks query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stage history: %w", err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}

	byTask := make(map[string][]domain.StageEntry)
	for _, entry := range entries {
		byTask[entry.TaskID] = append(byTask[entry.TaskID], entry)
	}
	return byTask, nil
}

func scanEntries(rows pgx.Rows) ([]domain.StageEntry, error) {
	defer rows.Close()

	var entries []domain.StageEntry
	for rows.Next() {
		var entry domain.StageEntry
		err := rows.Scan(
			&entry.ID,
			&entry.TaskID,
			&entry.Stage,
			&entry.Handler,
			&entry.StartedAt,
			&entry.EndedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan stage entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return entries, nil
}
