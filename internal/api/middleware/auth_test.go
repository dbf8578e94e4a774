package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/service/auth"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// stubJWTService accepts a single known token.
type stubJWTService struct {
	token  string
	userID uuid.UUID
	err    error
}

func (s *stubJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return s.token, nil
}

func (s *stubJWTService) ValidateToken(_ context.Context, tokenString string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	if tokenString != s.token {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: s.userID, TokenType: "access"}, nil
}

func (s *stubJWTService) GenerateRefreshToken(_ context.Context, _ uuid.UUID) (string, error) {
	return "", nil
}

func (s *stubJWTService) ValidateRefreshToken(_ context.Context, _ string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidRefreshToken
}

// stubAPIKeyStore holds a single key record.
type stubAPIKeyStore struct {
	key       *domain.APIKey
	lastUsed  *time.Time
	touchFail error
}

func (s *stubAPIKeyStore) Create(_ context.Context, _ *domain.APIKey) error { return nil }

func (s *stubAPIKeyStore) GetByPrefix(_ context.Context, prefix string) (*domain.APIKey, error) {
	if s.key == nil || s.key.Prefix != prefix {
		return nil, store.ErrAPIKeyNotFound
	}
	copied := *s.key
	return &copied, nil
}

func (s *stubAPIKeyStore) ListByUser(_ context.Context, _ uuid.UUID) ([]*domain.APIKey, error) {
	return nil, nil
}

func (s *stubAPIKeyStore) TouchLastUsed(_ context.Context, _ uuid.UUID, usedAt time.Time) error {
	if s.touchFail != nil {
		return s.touchFail
	}
	s.lastUsed = &usedAt
	return nil
}

func (s *stubAPIKeyStore) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

// echoUserID is a terminal handler that records the authenticated user.
func echoUserID(captured *uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := GetUserID(r); ok {
			*captured = userID
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		svcErr     error
		wantStatus int
		wantUser   bool
	}{
		{name: "valid token", header: "Bearer good-token", wantStatus: http.StatusOK, wantUser: true},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "malformed header", header: "good-token", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good-token", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad-token", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer good-token", svcErr: auth.ErrExpiredToken, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwt := &stubJWTService{token: "good-token", userID: userID, err: tt.svcErr}
			middleware := NewAuthMiddleware(jwt)

			var captured uuid.UUID
			handler := middleware.Authenticate(echoUserID(&captured))

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantUser {
				assert.Equal(t, userID, captured)
			} else {
				assert.Equal(t, uuid.Nil, captured)
			}
		})
	}
}

func TestAPIKeyMiddleware(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	generated, err := auth.GenerateAPIKey()
	require.NoError(t, err)

	key, err := domain.NewAPIKey(userID, "wearable", generated.Prefix, generated.HashedKey)
	require.NoError(t, err)

	t.Run("valid key authenticates and records use", func(t *testing.T) {
		t.Parallel()

		keys := &stubAPIKeyStore{key: key}
		middleware := NewAPIKeyMiddleware(keys)

		var captured uuid.UUID
		handler := middleware.Authenticate(echoUserID(&captured))

		req := httptest.NewRequest(http.MethodPost, "/api/device/energy", nil)
		req.Header.Set("X-API-Key", generated.Plaintext)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, userID, captured)
		assert.NotNil(t, keys.lastUsed)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		middleware := NewAPIKeyMiddleware(&stubAPIKeyStore{key: key})
		var captured uuid.UUID
		handler := middleware.Authenticate(echoUserID(&captured))

		req := httptest.NewRequest(http.MethodPost, "/api/device/energy", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		t.Parallel()

		middleware := NewAPIKeyMiddleware(&stubAPIKeyStore{})
		var captured uuid.UUID
		handler := middleware.Authenticate(echoUserID(&captured))

		req := httptest.NewRequest(http.MethodPost, "/api/device/energy", nil)
		req.Header.Set("X-API-Key", generated.Plaintext)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		middleware := NewAPIKeyMiddleware(&stubAPIKeyStore{key: key})
		var captured uuid.UUID
		handler := middleware.Authenticate(echoUserID(&captured))

		req := httptest.NewRequest(http.MethodPost, "/api/device/energy", nil)
		req.Header.Set("X-API-Key", generated.Prefix+".wrongsecret")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, uuid.Nil, captured)
	})

	t.Run("touch failure does not block", func(t *testing.T) {
		t.Parallel()

		keys := &stubAPIKeyStore{key: key, touchFail: assert.AnError}
		middleware := NewAPIKeyMiddleware(keys)

		var captured uuid.UUID
		handler := middleware.Authenticate(echoUserID(&captured))

		req := httptest.NewRequest(http.MethodPost, "/api/device/energy", nil)
		req.Header.Set("X-API-Key", generated.Plaintext)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, userID, captured)
	})
}
