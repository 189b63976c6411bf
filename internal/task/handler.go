package task

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/taskapi/internal/auth"
	"github.com/redmonkez12/taskapi/internal/httputil"
	"github.com/redmonkez12/taskapi/internal/logging"
)

// Handler contains HTTP handlers for task endpoints. All routes sit behind
// auth.Middleware.RequireAuth.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListResponse is the body of GET /tasks
type ListResponse struct {
	Tasks []Task `json:"tasks"`
}

// TaskResponse wraps a single task
type TaskResponse struct {
	Task *Task `json:"task"`
}

// List returns the caller's tasks
// @Summary      List tasks
// @Description  Returns the caller's tasks, newest first.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} ListResponse
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to list tasks", "error", err.Error())
		httputil.RespondInternalError(w)
		return
	}

	httputil.RespondJSON(w, ListResponse{Tasks: tasks}, http.StatusOK)
}

// Create adds a task for the caller
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTaskRequest true "Task"
// @Success      201 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid create task body", "error", err.Error())
		httputil.RespondValidationError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.RespondValidationError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), identity.UserID, req.Title)
	if err != nil {
		logging.GetLoggerFromContext(r.Context()).Error("failed to create task", "error", err.Error())
		httputil.RespondInternalError(w)
		return
	}

	httputil.RespondJSON(w, TaskResponse{Task: created}, http.StatusCreated)
}

// Update changes the title and/or done flag of a task
// @Summary      Update task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        request body UpdateTaskRequest true "Fields to change"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} httputil.ErrorResponse "Invalid body"
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		logging.GetLoggerFromContext(r.Context()).Warn("invalid update task body", "error", err.Error())
		httputil.RespondValidationError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.RespondValidationError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), identity.UserID, taskID, req.Patch())
	if err != nil {
		h.respondError(w, r, "failed to update task", err)
		return
	}

	httputil.RespondJSON(w, TaskResponse{Task: updated}, http.StatusOK)
}

// Delete removes a task
// @Summary      Delete task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      204
// @Failure      401 {object} httputil.ErrorResponse "Unauthorized"
// @Failure      404 {object} httputil.ErrorResponse "Task not found"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	taskID, ok := parseTaskID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, taskID); err != nil {
		h.respondError(w, r, "failed to delete task", err)
		return
	}

	httputil.RespondNoContent(w)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respondNotFound(w)
	case errors.Is(err, ErrEmptyPatch):
		httputil.RespondValidationError(w, err)
	default:
		logging.GetLoggerFromContext(r.Context()).Error(msg, "error", err.Error())
		httputil.RespondInternalError(w)
	}
}

func requireIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "Authentication required", httputil.CodeAuthRequired, http.StatusUnauthorized)
	}
	return identity, ok
}

// parseTaskID treats an unparseable id like any other unknown task.
func parseTaskID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondNotFound(w)
		return uuid.Nil, false
	}
	return id, true
}

func respondNotFound(w http.ResponseWriter) {
	httputil.RespondErrorWithCode(w, "Task not found", httputil.CodeTaskNotFound, http.StatusNotFound)
}
