package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mtlprog/bodyshop/internal/domain"
	"github.com/mtlprog/bodyshop/internal/handler/dto"
	"github.com/mtlprog/bodyshop/internal/middleware"
	"github.com/mtlprog/bodyshop/internal/repository"
	"github.com/mtlprog/bodyshop/internal/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// handleCreateTask registers a new repair task.
// @Summary Register an accident vehicle
// @Description Creates a repair task in the ASSESSMENT stage with one open history entry.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body dto.CreateTaskRequest true "Task registration request"
// @Success 201 {object} dto.TaskDetailResponse
// @Failure 422 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staff, err := middleware.GetStaffFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	var req dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if req.ExpectedDeliveryAt.IsZero() {
		respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "expected_delivery_at is required")
		return
	}

	task, err := h.taskService.CreateTask(ctx, staff.ID, service.CreateTaskParams{
		LicensePlate:       req.LicensePlate,
		ContactPerson:      req.ContactPerson,
		InsuranceCompany:   req.InsuranceCompany,
		AssessmentAmount:   req.AssessmentAmount,
		ExpectedDeliveryAt: req.ExpectedDeliveryAt,
		Remarks:            req.Remarks,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskDetailResponse(task, service.IsOverdue(task, time.Now())))
}

// handleListTasks lists the staff member's visible tasks.
// @Summary List repair tasks
// @Description List tasks with search over plate/contact, stage filter and pagination
// @Tags tasks
// @Produce json
// @Param search query string false "Substring over license plate and contact person"
// @Param stage query string false "Filter by current stage"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.TasksListResponse
// @Security BearerAuth
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staff, err := middleware.GetStaffFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	query := r.URL.Query()

	filters := repository.TaskListFilters{
		ShopID: staff.ShopID,
		Search: query.Get("search"),
		Limit:  defaultListLimit,
	}
	if staff.Role == domain.RoleHQOperator {
		filters.ShopID = ""
	}

	if stage := query.Get("stage"); stage != "" {
		s := domain.Stage(stage)
		if !s.IsValid() {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid stage")
			return
		}
		filters.Stage = s
	}

	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > maxListLimit {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be between 1 and 200")
			return
		}
		filters.Limit = n
	}
	if offset := query.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "offset must not be negative")
			return
		}
		filters.Offset = n
	}

	tasks, total, err := h.taskRepo.List(ctx, filters)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch tasks")
		return
	}

	now := time.Now()
	response := dto.TasksListResponse{
		Tasks:  make([]dto.TaskResponse, len(tasks)),
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}
	for i, task := range tasks {
		response.Tasks[i] = dto.ToTaskResponse(task, service.IsOverdue(task, now))
	}

	respondJSON(w, http.StatusOK, response)
}

// handleGetTask retrieves task details with stage history.
// @Summary Get task details
// @Description Get full task details including the stage history log
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskDetailResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staff, err := middleware.GetStaffFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(ctx, taskID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	if !staff.CanAccessShop(task.ShopID) {
		respondError(w, http.StatusForbidden, "INSUFFICIENT_ACCESS", "Task not found")
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskDetailResponse(task, service.IsOverdue(task, time.Now())))
}

// handleAdvanceStage advances the task to the next workflow stage.
// @Summary Advance task stage
// @Description Close the current stage and open the next one, gated by the stage permission table
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskDetailResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{id}/advance [post]
func (h *Handler) handleAdvanceStage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staff, err := middleware.GetStaffFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.AdvanceStage(ctx, taskID, staff.ID)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskDetailResponse(task, service.IsOverdue(task, time.Now())))
}

// handleSetSpareParts sets the spare-parts-ready flag.
// @Summary Set spare parts flag
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.SetSparePartsRequest true "Spare parts request"
// @Success 200 {object} dto.TaskResponse
// @Security BearerAuth
// @Router /tasks/{id}/spare-parts [patch]
func (h *Handler) handleSetSpareParts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staff, err := middleware.GetStaffFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.SetSparePartsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.taskService.SetSparePartsReady(ctx, taskID, staff.ID, req.Ready)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task, service.IsOverdue(task, time.Now())))
}

// handleSetRemarks replaces the task's remarks.
// @Summary Set task remarks
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.SetRemarksRequest true "Remarks request"
// @Success 200 {object} dto.TaskResponse
// @Security BearerAuth
// @Router /tasks/{id}/remarks [patch]
func (h *Handler) handleSetRemarks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staff, err := middleware.GetStaffFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Authentication required")
		return
	}

	taskID, ok := extractTaskID(w, r)
	if !ok {
		return
	}

	var req dto.SetRemarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	task, err := h.taskService.SetRemarks(ctx, taskID, staff.ID, req.Remarks)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task, service.IsOverdue(task, time.Now())))
}
