package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/bodyshop/internal/domain"
)

// TaskListFilters holds all supported filters for task listing.
type TaskListFilters struct {
	ShopID string       // Optional: empty means all shops (HQ view)
	Search string       // Optional: substring over plate and contact person
	Stage  domain.Stage // Optional: filter by current stage
	Limit  int          // Required: page size
	Offset int          // Required: page offset
}

// List retrieves tasks with filters and pagination. History is not loaded;
// the list view only needs the task rows.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]*domain.RepairTask, int, error) {
	qb := psql.Select(taskColumns...).From("repair_tasks")
	countQB := psql.Select("COUNT(*)").From("repair_tasks")

	apply := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filters.ShopID != "" {
			b = b.Where(sq.Eq{"shop_id": filters.ShopID})
		}
		if filters.Stage != "" {
			b = b.Where(sq.Eq{"current_stage": filters.Stage})
		}
		if filters.Search != "" {
			pattern := "%" + filters.Search + "%"
			b = b.Where(sq.Or{
				sq.ILike{"license_plate": pattern},
				sq.ILike{"contact_person": pattern},
			})
		}
		return b
	}
	qb = apply(qb)
	countQB = apply(countQB)

	countQuery, countArgs, err := countQB.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	qb = qb.OrderBy("created_at DESC")
	if filters.Limit > 0 {
		qb = qb.Limit(uint64(filters.Limit)).Offset(uint64(filters.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListWithHistory retrieves all tasks for a shop (or every shop when shopID
// is empty) with their stage history attached. The SLA engine runs over
// this snapshot.
func (r *TaskRepository) ListWithHistory(ctx context.Context, histories *StageHistoryRepository, shopID string) ([]*domain.RepairTask, error) {
	qb := psql.Select(taskColumns...).From("repair_tasks").OrderBy("created_at DESC")
	if shopID != "" {
		qb = qb.Where(sq.Eq{"shop_id": shopID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListWithHistory query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	taskIDs := make([]string, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
	}

	byTask, err := histories.GetForTasks(ctx, taskIDs)
	if err != nil {
		return nil, err
	}
	for _, task := range tasks {
		task.History = byTask[task.ID]
	}

	return tasks, nil
}
