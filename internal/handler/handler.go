package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/bodyshop/internal/handler/dto"
	"github.com/mtlprog/bodyshop/internal/middleware"
	"github.com/mtlprog/bodyshop/internal/repository"
	"github.com/mtlprog/bodyshop/internal/service"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool           *pgxpool.Pool
	taskService    *service.TaskService
	taskRepo       *repository.TaskRepository
	historyRepo    *repository.StageHistoryRepository
	staffRepo      *repository.StaffRepository
	shopRepo       *repository.ShopRepository
	authMiddleware *middleware.AuthMiddleware
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool) *Handler {
	// Create repositories
	taskRepo := repository.NewTaskRepository(pool)
	historyRepo := repository.NewStageHistoryRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	shopRepo := repository.NewShopRepository(pool)

	// Create services
	taskService := service.NewTaskService(pool, taskRepo, historyRepo, staffRepo, shopRepo)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(staffRepo)

	return &Handler{
		pool:           pool,
		taskService:    taskService,
		taskRepo:       taskRepo,
		historyRepo:    historyRepo,
		staffRepo:      staffRepo,
		shopRepo:       shopRepo,
		authMiddleware: authMiddleware,
	}
}

// TaskService exposes the underlying service (used for testing).
func (h *Handler) TaskService() *service.TaskService {
	return h.taskService
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// API v1 routes with authentication
	mux.Handle("GET /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleListTasks)))
	mux.Handle("POST /api/v1/tasks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleCreateTask)))
	mux.Handle("GET /api/v1/tasks/{id}", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleGetTask)))
	mux.Handle("POST /api/v1/tasks/{id}/advance", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleAdvanceStage)))
	mux.Handle("PATCH /api/v1/tasks/{id}/spare-parts", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleSetSpareParts)))
	mux.Handle("PATCH /api/v1/tasks/{id}/remarks", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleSetRemarks)))
	mux.Handle("GET /api/v1/dashboard", h.authMiddleware.Authenticate(http.HandlerFunc(h.handleDashboard)))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractTaskID extracts and validates the task ID path parameter.
// Returns (taskID, true) if valid, ("", false) if invalid (error already sent to client).
func extractTaskID(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.PathValue("id")
	if taskID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id is required")
		return "", false
	}

	if _, err := uuid.Parse(taskID); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "task id must be a valid UUID")
		return "", false
	}

	return taskID, true
}
