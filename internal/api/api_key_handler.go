package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/api/middleware"
	"github.com/stringerc/syncscript-backend/internal/api/shared"
	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/service/auth"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// CreateAPIKeyRequest is the payload for POST /keys.
type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateAPIKeyResponse carries the one-time plaintext key alongside the
// stored record. The plaintext is never retrievable again.
type CreateAPIKeyResponse struct {
	Key    *domain.APIKey `json:"key"`
	Secret string         `json:"secret"`
}

// APIKeyHandler handles device API key management requests.
type APIKeyHandler struct {
	keys      store.APIKeyStore
	validator *validator.Validate
}

// NewAPIKeyHandler creates a new APIKeyHandler with the given dependencies.
func NewAPIKeyHandler(keys store.APIKeyStore) *APIKeyHandler {
	return &APIKeyHandler{
		keys:      keys,
		validator: validator.New(),
	}
}

// Create handles POST /keys.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateAPIKeyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	generated, err := auth.GenerateAPIKey()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate API key", err)
		return
	}

	key, err := domain.NewAPIKey(userID, req.Name, generated.Prefix, generated.HashedKey)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create API key", err)
		return
	}

	if err := h.keys.Create(r.Context(), key); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateAPIKeyResponse{
		Key:    key,
		Secret: generated.Plaintext,
	})
}

// List handles GET /keys.
func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	keys, err := h.keys.ListByUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, keys)
}

// Delete handles DELETE /keys/{id}.
func (h *APIKeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid API key ID")
		return
	}

	if err := h.keys.Delete(r.Context(), id, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
