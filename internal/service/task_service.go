package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/bodyshop/internal/domain"
	"github.com/mtlprog/bodyshop/internal/repository"
)

// TaskService coordinates repair task operations and stage transitions.
type TaskService struct {
	pool        *pgxpool.Pool
	taskRepo    *repository.TaskRepository
	historyRepo *repository.StageHistoryRepository
	staffRepo   *repository.StaffRepository
	shopRepo    *repository.ShopRepository
	validator   *Validator

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	historyRepo *repository.StageHistoryRepository,
	staffRepo *repository.StaffRepository,
	shopRepo *repository.ShopRepository,
) *TaskService {
	return &TaskService{
		pool:        pool,
		taskRepo:    taskRepo,
		historyRepo: historyRepo,
		staffRepo:   staffRepo,
		shopRepo:    shopRepo,
		validator:   NewValidator(),
		now:         time.Now,
	}
}

// SetClock overrides the service clock, for tests.
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateTaskParams holds caller-supplied fields for task registration.
type CreateTaskParams struct {
	LicensePlate       string
	ContactPerson      string
	InsuranceCompany   string
	AssessmentAmount   int64
	ExpectedDeliveryAt time.Time
	Remarks            string
}

// getActiveStaff fetches a staff member by ID and verifies they are active.
func (s *TaskService) getActiveStaff(ctx context.Context, staffID string) (*domain.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return nil, domain.ErrStaffInactive
	}
	return staff, nil
}

func (s *TaskService) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

// CreateTask registers a new accident vehicle: the task starts in the
// ASSESSMENT stage with one open history entry handled by the registrant.
func (s *TaskService) CreateTask(ctx context.Context, staffID string, params CreateTaskParams) (*domain.RepairTask, error) {
	staff, err := s.getActiveStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateCreate(staff, params); err != nil {
		return nil, err
	}

	if _, err := s.shopRepo.GetByID(ctx, staff.ShopID); err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}

	now := s.now()
	task := domain.NewRepairTask(
		staff.ShopID,
		params.LicensePlate,
		params.ContactPerson,
		params.InsuranceCompany,
		params.AssessmentAmount,
		params.ExpectedDeliveryAt,
		params.Remarks,
		staff.Name,
		now,
	)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	if _, err := s.taskRepo.Create(ctx, tx, task); err != nil {
		return nil, err
	}

	entry := &task.History[0]
	entry.TaskID = task.ID
	if err := s.historyRepo.Append(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task registered",
		"task_id", task.ID,
		"shop_id", task.ShopID,
		"license_plate", task.LicensePlate,
		"amount", task.AssessmentAmount,
	)

	return task, nil
}

// AdvanceStage closes the task's current stage and opens the next one.
// Exactly one transition happens per call; the FOR UPDATE lock serializes
// concurrent advances on the same task.
func (s *TaskService) AdvanceStage(ctx context.Context, taskID, staffID string) (*domain.RepairTask, error) {
	staff, err := s.getActiveStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer s.rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanAdvance(task, staff); err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ListByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.History = history

	oldStage := task.CurrentStage
	now := s.now()
	if err := task.Advance(staff.Role, staff.Name, now); err != nil {
		return nil, err
	}

	if err := s.historyRepo.CloseOpen(ctx, tx, taskID, now); err != nil {
		return nil, err
	}

	if !task.CurrentStage.IsTerminal() {
		opened := &task.History[len(task.History)-1]
		if err := s.historyRepo.Append(ctx, tx, opened); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.UpdateStage(ctx, tx, taskID, oldStage, task.CurrentStage); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task stage advanced",
		"task_id", taskID,
		"staff_id", staffID,
		"old_stage", oldStage,
		"new_stage", task.CurrentStage,
	)

	return task, nil
}

// SetSparePartsReady flips the spare-parts flag. History is untouched.
func (s *TaskService) SetSparePartsReady(ctx context.Context, taskID, staffID string, ready bool) (*domain.RepairTask, error) {
	staff, err := s.getActiveStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanToggleSpareParts(task, staff); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateSpareParts(ctx, taskID, ready); err != nil {
		return nil, err
	}

	task.SparePartsReady = ready

	slog.Info("spare parts flag updated",
		"task_id", taskID,
		"staff_id", staffID,
		"ready", ready,
	)

	return task, nil
}

// SetRemarks replaces the task's free-text remarks. History is untouched.
func (s *TaskService) SetRemarks(ctx context.Context, taskID, staffID, remarks string) (*domain.RepairTask, error) {
	staff, err := s.getActiveStaff(ctx, staffID)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.CanEditRemarks(task, staff); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateRemarks(ctx, taskID, remarks); err != nil {
		return nil, err
	}

	task.Remarks = remarks

	slog.Info("task remarks updated",
		"task_id", taskID,
		"staff_id", staffID,
	)

	return task, nil
}

// GetTask retrieves a task with its full stage history.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*domain.RepairTask, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ListByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.History = history

	return task, nil
}

// Dashboard snapshots the staff member's visible tasks and computes the SLA
// report over them. HQ operators see every shop.
func (s *TaskService) Dashboard(ctx context.Context, staff *domain.Staff) (Report, error) {
	shopID := staff.ShopID
	if staff.Role == domain.RoleHQOperator {
		shopID = ""
	}

	tasks, err := s.taskRepo.ListWithHistory(ctx, s.historyRepo, shopID)
	if err != nil {
		return Report{}, fmt.Errorf("load tasks: %w", err)
	}

	return ComputeReport(tasks, s.now()), nil
}

// ReportOverdue logs every currently overdue task across all shops and
// returns the count. Run from the check-overdue CLI command.
func (s *TaskService) ReportOverdue(ctx context.Context) (int, error) {
	tasks, err := s.taskRepo.ListWithHistory(ctx, s.historyRepo, "")
	if err != nil {
		return 0, fmt.Errorf("load tasks: %w", err)
	}

	now := s.now()
	count := 0
	for _, task := range tasks {
		if !IsOverdue(task, now) {
			continue
		}
		count++
		slog.Warn("task overdue",
			"task_id", task.ID,
			"shop_id", task.ShopID,
			"license_plate", task.LicensePlate,
			"stage", task.CurrentStage,
			"expected_delivery_at", task.ExpectedDeliveryAt,
		)
	}

	slog.Info("overdue check completed", "total", len(tasks), "overdue", count)
	return count, nil
}
