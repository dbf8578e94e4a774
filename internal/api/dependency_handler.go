package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/api/middleware"
	"github.com/stringerc/syncscript-backend/internal/api/shared"
	"github.com/stringerc/syncscript-backend/internal/service"
)

// CreateDependencyRequest is the payload for POST /tasks/{id}/dependencies.
type CreateDependencyRequest struct {
	DependsOnID uuid.UUID `json:"depends_on_id" validate:"required"`
}

// DependencyHandler handles task dependency API requests.
type DependencyHandler struct {
	deps      *service.DependencyService
	validator *validator.Validate
}

// NewDependencyHandler creates a new DependencyHandler with the given dependencies.
func NewDependencyHandler(deps *service.DependencyService) *DependencyHandler {
	return &DependencyHandler{
		deps:      deps,
		validator: validator.New(),
	}
}

// Create handles POST /tasks/{id}/dependencies.
func (h *DependencyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req CreateDependencyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	dep, err := h.deps.Create(r.Context(), userID, taskID, req.DependsOnID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, dep)
}

// List handles GET /tasks/{id}/dependencies.
func (h *DependencyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	deps, err := h.deps.List(r.Context(), userID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deps)
}

// Delete handles DELETE /tasks/{id}/dependencies/{dependsOnID}.
func (h *DependencyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	dependsOnID, err := uuid.Parse(chi.URLParam(r, "dependsOnID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid dependency ID")
		return
	}

	if err := h.deps.Delete(r.Context(), userID, taskID, dependsOnID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
