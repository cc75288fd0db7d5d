package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/bodyshop/internal/domain"
)

// taskColumns is the shared list of columns for repair task queries.
var taskColumns = []string{
	"id", "shop_id", "license_plate", "contact_person", "insurance_company",
	"assessment_amount", "expected_delivery_at", "current_stage",
	"spare_parts_ready", "remarks", "created_at", "updated_at",
}

// TaskRepository handles database operations for repair tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a RepairTask struct.
func scanTask(row pgx.Row) (*domain.RepairTask, error) {
	var task domain.RepairTask
	err := row.Scan(
		&task.ID,
		&task.ShopID,
		&task.LicensePlate,
		&task.ContactPerson,
		&task.InsuranceCompany,
		&task.AssessmentAmount,
		&task.ExpectedDeliveryAt,
		&task.CurrentStage,
		&task.SparePartsReady,
		&task.Remarks,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of RepairTask structs.
func scanTasks(rows pgx.Rows) ([]*domain.RepairTask, error) {
	defer rows.Close()

	var tasks []*domain.RepairTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID, without history.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.RepairTask, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("repair_tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within
// transaction). Mutations take this lock to serialize per task id.
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.RepairTask, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("repair_tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// Create inserts a new task within a transaction and populates ID,
// CreatedAt and UpdatedAt.
func (r *TaskRepository) Create(ctx context.Context, tx pgx.Tx, task *domain.RepairTask) (*domain.RepairTask, error) {
	query, args, err := psql.
		Insert("repair_tasks").
		Columns(
			"shop_id", "license_plate", "contact_person", "insurance_company",
			"assessment_amount", "expected_delivery_at", "current_stage",
			"spare_parts_ready", "remarks",
		).
		Values(
			task.ShopID,
			task.LicensePlate,
			task.ContactPerson,
			task.InsuranceCompany,
			task.AssessmentAmount,
			task.ExpectedDeliveryAt,
			task.CurrentStage,
			task.SparePartsReady,
			task.Remarks,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = tx.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// UpdateStage advances the stage with optimistic locking on the old stage.
// Returns ErrStageConflict if the task was advanced concurrently.
func (r *TaskRepository) UpdateStage(
	ctx context.Context,
	tx pgx.Tx,
	taskID string,
	oldStage domain.Stage,
	newStage domain.Stage,
) error {
	query, args, err := psql.
		Update("repair_tasks").
		Set("current_stage", newStage).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":            taskID,
			"current_stage": oldStage,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateStage query for task %s: %w", taskID, err)
	}

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task stage: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrStageConflict
	}

	return nil
}

// UpdateSpareParts sets the spare-parts-ready flag.
func (r *TaskRepository) UpdateSpareParts(ctx context.Context, taskID string, ready bool) error {
	return r.updateField(ctx, taskID, "spare_parts_ready", ready)
}

// UpdateRemarks replaces the free-text remarks.
func (r *TaskRepository) UpdateRemarks(ctx context.Context, taskID string, remarks string) error {
	return r.updateField(ctx, taskID, "remarks", remarks)
}

func (r *TaskRepository) updateField(ctx context.Context, taskID, column string, value any) error {
	query, args, err := psql.
		Update("repair_tasks").
		Set(column, value).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task %s: %w", column, err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}
