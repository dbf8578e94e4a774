package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/api/middleware"
	"github.com/stringerc/syncscript-backend/internal/api/shared"
	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/service"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// CreateTaskRequest is the payload for POST /tasks. Priority and energy
// requirement are optional; omitted values fall back to the engine
// defaults. Out-of-range values are accepted and degrade at scoring time.
type CreateTaskRequest struct {
	Title             string     `json:"title"              validate:"required,max=500"`
	Description       string     `json:"description"        validate:"max=5000"`
	ProjectID         *uuid.UUID `json:"project_id"`
	Priority          *int       `json:"priority"`
	EnergyRequirement *int       `json:"energy_requirement"`
	DueDate           *time.Time `json:"due_date"`
	EstimatedDuration *int       `json:"estimated_duration" validate:"omitempty,gte=1"`
}

// UpdateTaskRequest is the payload for PATCH /tasks/{id}. All fields are
// optional; an explicit JSON null on project_id or due_date clears the field.
type UpdateTaskRequest struct {
	Title             *string    `json:"title"              validate:"omitempty,max=500"`
	Description       *string    `json:"description"        validate:"omitempty,max=5000"`
	ProjectID         *uuid.UUID `json:"project_id"`
	Priority          *int       `json:"priority"`
	EnergyRequirement *int       `json:"energy_requirement"`
	DueDate           *time.Time `json:"due_date"`
	EstimatedDuration *int       `json:"estimated_duration" validate:"omitempty,gte=1"`
}

// CompleteTaskRequest is the payload for POST /tasks/{id}/complete. Both
// fields are optional: a missing current level simply forfeits the bonus.
type CompleteTaskRequest struct {
	CurrentEnergyLevel *int `json:"current_energy_level" validate:"omitempty,gte=1,lte=5"`
	ActualDuration     *int `json:"actual_duration"      validate:"omitempty,gte=1"`
}

// TaskHandler handles task-related API requests.
type TaskHandler struct {
	tasks     *service.TaskService
	validator *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks:     tasks,
		validator: validator.New(),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.tasks.Create(r.Context(), userID, service.CreateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		ProjectID:         req.ProjectID,
		Priority:          req.Priority,
		EnergyRequirement: req.EnergyRequirement,
		DueDate:           req.DueDate,
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	task, err := h.tasks.Get(r.Context(), id, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// List handles GET /tasks with optional status, project_id, and priority
// query filters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	filter := store.TaskFilter{}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if status != domain.TaskStatusPending && status != domain.TaskStatusCompleted {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	if raw := r.URL.Query().Get("project_id"); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project_id filter")
			return
		}
		filter.ProjectID = &projectID
	}

	if raw := r.URL.Query().Get("priority"); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid priority filter")
			return
		}
		filter.Priority = &priority
	}

	tasks, err := h.tasks.List(r.Context(), userID, filter)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Update handles PATCH /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	var req UpdateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	nulls := explicitNullKeys(body)

	task, err := h.tasks.Update(r.Context(), id, userID, service.UpdateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		ProjectID:         req.ProjectID,
		ClearProjectID:    nulls["project_id"],
		Priority:          req.Priority,
		EnergyRequirement: req.EnergyRequirement,
		DueDate:           req.DueDate,
		ClearDueDate:      nulls["due_date"],
		EstimatedDuration: req.EstimatedDuration,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Complete handles POST /tasks/{id}/complete.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	// An empty body is allowed; both request fields are optional.
	var req CompleteTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.tasks.Complete(r.Context(), id, userID, req.CurrentEnergyLevel, req.ActualDuration)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.tasks.Delete(r.Context(), id, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Suggestions handles GET /tasks/suggestions?energy_level=N, returning the
// user's pending tasks scored and ranked against the reported level.
func (h *TaskHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	raw := r.URL.Query().Get("energy_level")
	if raw == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "energy_level query parameter is required")
		return
	}

	level, err := strconv.Atoi(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "energy_level must be an integer")
		return
	}

	matches, err := h.tasks.Suggestions(r.Context(), userID, level)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, matches)
}

// explicitNullKeys reports which top-level keys in the JSON body were set
// to an explicit null, distinguishing "clear this field" from "leave it".
func explicitNullKeys(body []byte) map[string]bool {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	nulls := make(map[string]bool, len(raw))
	for key, value := range raw {
		if string(value) == "null" {
			nulls[key] = true
		}
	}
	return nulls
}
