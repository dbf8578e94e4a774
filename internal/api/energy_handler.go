package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/stringerc/syncscript-backend/internal/api/middleware"
	"github.com/stringerc/syncscript-backend/internal/api/shared"
	"github.com/stringerc/syncscript-backend/internal/service"
)

// Energy log listing defaults.
const (
	defaultEnergyLogLimit = 50
	maxEnergyLogLimit     = 200
)

// LogEnergyRequest is the payload for POST /energy. LoggedAt defaults to
// the server's current time; devices that batch readings may backdate it.
type LogEnergyRequest struct {
	EnergyLevel int        `json:"energy_level" validate:"required,gte=1,lte=5"`
	MoodTags    []string   `json:"mood_tags"    validate:"omitempty,max=10,dive,max=50"`
	Notes       string     `json:"notes"        validate:"max=2000"`
	LoggedAt    *time.Time `json:"logged_at"`
}

// SummaryResponse wraps the generated narrative summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
}

// EnergyHandler handles energy log API requests.
type EnergyHandler struct {
	energy    *service.EnergyService
	validator *validator.Validate
}

// NewEnergyHandler creates a new EnergyHandler with the given dependencies.
func NewEnergyHandler(energy *service.EnergyService) *EnergyHandler {
	return &EnergyHandler{
		energy:    energy,
		validator: validator.New(),
	}
}

// Log handles POST /energy. The same handler serves browser sessions and
// API-key authenticated devices; the middleware chain decides who the
// user is.
func (h *EnergyHandler) Log(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req LogEnergyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	entry, err := h.energy.Log(r.Context(), userID, service.LogEnergyInput{
		EnergyLevel: req.EnergyLevel,
		MoodTags:    req.MoodTags,
		Notes:       req.Notes,
		LoggedAt:    req.LoggedAt,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}

// List handles GET /energy with optional limit and offset query parameters.
func (h *EnergyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := defaultEnergyLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		if parsed > maxEnergyLogLimit {
			parsed = maxEnergyLogLimit
		}
		limit = parsed
	}

	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid offset")
			return
		}
		offset = parsed
	}

	logs, err := h.energy.List(r.Context(), userID, limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, logs)
}

// Pattern handles GET /energy/pattern.
func (h *EnergyHandler) Pattern(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	pattern, err := h.energy.Pattern(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, pattern)
}

// Insights handles GET /energy/insights.
func (h *EnergyHandler) Insights(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	insights, err := h.energy.Insights(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, insights)
}

// Summary handles GET /energy/summary. Returns 503 when no summary
// generator is configured for this deployment.
func (h *EnergyHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	summary, err := h.energy.Summary(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrSummaryUnavailable) {
			shared.RespondWithError(w, r, http.StatusServiceUnavailable,
				"Energy summaries are not available")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate summary", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SummaryResponse{Summary: summary})
}
