package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskforge/taskforge-api/internal/model"
	"github.com/taskforge/taskforge-api/internal/repository"
	"github.com/taskforge/taskforge-api/internal/service"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{service: svc}
}

// HandleCreate handles POST /api/tasks requests.
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	var req model.TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.service.Create(r.Context(), id.UserID, req)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// HandleList handles GET /api/tasks requests with optional filter criteria.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	filter := model.TaskFilter{
		StatusID:   intQuery(r, "status_id"),
		PriorityID: intQuery(r, "priority_id"),
		CategoryID: intQuery(r, "category_id"),
		Search:     r.URL.Query().Get("search"),
	}
	if p := intQuery(r, "page"); p != nil {
		filter.Page = *p
	}
	if ps := intQuery(r, "page_size"); ps != nil {
		filter.PageSize = *ps
	}

	page, err := h.service.List(r.Context(), id.UserID, filter)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleGet handles GET /api/tasks/{task_id} requests.
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), id.UserID, taskID)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleUpdate handles PUT /api/tasks/{task_id} requests.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req model.TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.service.Update(r.Context(), id.UserID, taskID, req)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleDelete handles DELETE /api/tasks/{task_id} requests.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id.UserID, taskID); err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

// HandleAssign handles PUT /api/tasks/{task_id}/assign requests.
func (h *TaskHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	var req model.AssignTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AssigneeID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("assignee_id is required"))
		return
	}

	task, err := h.service.Assign(r.Context(), id.UserID, taskID, req.AssigneeID)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// HandleDueRange handles GET /api/tasks/filter/date-range requests.
func (h *TaskHandler) HandleDueRange(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("start_date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("start_date must be RFC 3339"))
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("end_date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("end_date must be RFC 3339"))
		return
	}

	tasks, err := h.service.DueBetween(r.Context(), id.UserID, from, to)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// HandleUpcoming handles GET /api/tasks/upcoming requests.
func (h *TaskHandler) HandleUpcoming(w http.ResponseWriter, r *http.Request) {
	h.listSpecial(w, r, h.service.Upcoming)
}

// HandleOverdue handles GET /api/tasks/overdue requests.
func (h *TaskHandler) HandleOverdue(w http.ResponseWriter, r *http.Request) {
	h.listSpecial(w, r, h.service.Overdue)
}

// HandleRecent handles GET /api/tasks/recent requests.
func (h *TaskHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	limit := 0
	if l := intQuery(r, "limit"); l != nil {
		limit = *l
	}

	tasks, err := h.service.Recent(r.Context(), id.UserID, limit)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) listSpecial(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID uuid.UUID) ([]model.TaskResponse, error)) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	tasks, err := fn(r.Context(), id.UserID)
	if err != nil {
		writeTaskError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func writeTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTitleRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPriority),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidAssignee),
		errors.Is(err, service.ErrInvalidDateRange):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrTaskForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, repository.ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	default:
		slog.Error("task operation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func taskIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(chi.URLParam(r, "task_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid task id"))
		return uuid.Nil, false
	}
	return taskID, true
}

func intQuery(r *http.Request, key string) *int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
