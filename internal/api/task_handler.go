package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/service"
)

// TaskHandler handles task-related HTTP requests under /task. Every
// operation is scoped to the authenticated owner.
type TaskHandler struct {
	tasks  *service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks *service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_handler")),
	}
}

// requireOwner extracts the authenticated user ID, writing a 401 when the
// context carries none.
func (h *TaskHandler) requireOwner(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := shared.UserID(r.Context())
	if !ok {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return 0, false
	}
	return userID, true
}

// pathTaskID extracts and parses the {id} path parameter.
func pathTaskID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /task/create.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid date: expected YYYY-MM-DD")
		return
	}

	task, err := h.tasks.Create(r.Context(), ownerID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Interval:    req.Interval,
		Sequence:    req.Sequence,
		Emergency:   req.Emergency,
		Status:      domain.TaskStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// ListAll handles GET /task/listAll?filter=&order=. Listing triggers the
// recurrence reset pass for the caller before the query runs.
func (h *TaskHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = string(service.FilterAll)
	}
	order := r.URL.Query().Get("order")
	if order == "" {
		order = string(service.OrderAsc)
	}

	tasks, err := h.tasks.ListAll(r.Context(), ownerID, filter, order)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// GetByID handles GET /task/{id}.
func (h *TaskHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetByID(r.Context(), id, ownerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PUT /task/{id}, a partial update.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Interval:    req.Interval,
		Sequence:    req.Sequence,
		Emergency:   req.Emergency,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid date: expected YYYY-MM-DD")
			return
		}
		input.Date = &date
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}

	task, err := h.tasks.Update(r.Context(), id, ownerID, input)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Complete handles PATCH /task/{id}/complete, the completion toggle.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Complete(r.Context(), id, ownerID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle task completion")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Delete handles DELETE /task/{id}. Deleting an absent or foreign task is
// a success.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	id, ok := pathTaskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), id, ownerID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
