package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/api/shared"
	"github.com/stringerc/syncscript-backend/internal/redact"
	"github.com/stringerc/syncscript-backend/internal/service/auth"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates JWT tokens from the Authorization header and
// adds the user ID to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// APIKeyMiddleware authenticates device integrations via X-API-Key. It
// resolves the key's owner and places the user ID in the context exactly
// like the JWT path, so handlers behind it are agnostic to the scheme.
type APIKeyMiddleware struct {
	keys store.APIKeyStore
	now  func() time.Time
}

// NewAPIKeyMiddleware creates a new APIKeyMiddleware.
func NewAPIKeyMiddleware(keys store.APIKeyStore) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		keys: keys,
		now:  time.Now,
	}
}

// Authenticate validates the X-API-Key header against stored key hashes.
func (m *APIKeyMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		presented := r.Header.Get("X-API-Key")
		if presented == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "API key required")
			return
		}

		prefix, secret, err := auth.SplitAPIKey(presented)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		key, err := m.keys.GetByPrefix(r.Context(), prefix)
		if err != nil {
			if errors.Is(err, store.ErrAPIKeyNotFound) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
				return
			}
			slog.Error("failed to look up api key", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		if err := auth.VerifyAPIKey(key.HashedKey, secret); err != nil {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid API key")
			return
		}

		// Last-used tracking is advisory; a failure must not block the request.
		if err := m.keys.TouchLastUsed(r.Context(), key.ID, m.now().UTC()); err != nil {
			slog.Warn("failed to record api key use", "error", redact.Error(err))
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, key.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
