package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/service/auth"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// fakeUserStore is an in-memory store.UserStore for handler tests.
type fakeUserStore struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (s *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	if _, exists := s.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	copied := *user
	s.byID[user.ID] = &copied
	s.byEmail[user.Email] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	if _, ok := s.byID[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	copied := *user
	s.byID[user.ID] = &copied
	s.byEmail[user.Email] = &copied
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id uuid.UUID) error {
	user, ok := s.byID[id]
	if !ok {
		return store.ErrUserNotFound
	}
	delete(s.byEmail, user.Email)
	delete(s.byID, id)
	return nil
}

// fakeJWTService issues predictable tokens and validates only the refresh
// tokens it issued itself.
type fakeJWTService struct {
	refreshTokens map[string]uuid.UUID
}

func newFakeJWTService() *fakeJWTService {
	return &fakeJWTService{refreshTokens: make(map[string]uuid.UUID)}
}

func (s *fakeJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	return "access-" + userID.String(), nil
}

func (s *fakeJWTService) ValidateToken(_ context.Context, tokenString string) (*auth.Claims, error) {
	return nil, auth.ErrInvalidToken
}

func (s *fakeJWTService) GenerateRefreshToken(_ context.Context, userID uuid.UUID) (string, error) {
	token := "refresh-" + uuid.NewString()
	s.refreshTokens[token] = userID
	return token, nil
}

func (s *fakeJWTService) ValidateRefreshToken(_ context.Context, tokenString string) (*auth.Claims, error) {
	userID, ok := s.refreshTokens[tokenString]
	if !ok {
		return nil, auth.ErrInvalidRefreshToken
	}
	return &auth.Claims{UserID: userID, TokenType: "refresh"}, nil
}

// fakePasswordVerifier hashes by prefixing and compares accordingly.
type fakePasswordVerifier struct{}

func (fakePasswordVerifier) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func newAuthHandlerForTest() (*AuthHandler, *fakeUserStore, *fakeJWTService) {
	users := newFakeUserStore()
	jwt := newFakeJWTService()
	verifier := fakePasswordVerifier{}
	return NewAuthHandler(users, jwt, verifier, verifier), users, jwt
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestRegister(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantToken  bool
	}{
		{
			name: "valid registration",
			payload: map[string]any{
				"email":        "test@example.com",
				"display_name": "Test User",
				"password":     "password1234567",
			},
			wantStatus: http.StatusCreated,
			wantToken:  true,
		},
		{
			name: "invalid email",
			payload: map[string]any{
				"email":        "invalid-email",
				"display_name": "Test User",
				"password":     "password1234567",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: map[string]any{
				"email":        "test2@example.com",
				"display_name": "Test User",
				"password":     "short",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing display name",
			payload: map[string]any{
				"email":    "test3@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler, _, _ := newAuthHandlerForTest()
			recorder := postJSON(t, handler.Register, "/api/auth/register", tt.payload)

			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken {
				var resp AuthResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.NotEqual(t, uuid.Nil, resp.UserID)
				assert.NotEmpty(t, resp.Token)
				assert.NotEmpty(t, resp.RefreshToken)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	handler, _, _ := newAuthHandlerForTest()
	payload := map[string]any{
		"email":        "dupe@example.com",
		"display_name": "First",
		"password":     "password1234567",
	}

	first := postJSON(t, handler.Register, "/api/auth/register", payload)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postJSON(t, handler.Register, "/api/auth/register", payload)
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	handler, users, _ := newAuthHandlerForTest()
	recorder := postJSON(t, handler.Register, "/api/auth/register", map[string]any{
		"email":        "secure@example.com",
		"display_name": "Secure",
		"password":     "password1234567",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	stored, err := users.GetByEmail(context.Background(), "secure@example.com")
	require.NoError(t, err)
	assert.Empty(t, stored.Password)
	assert.Equal(t, "hashed:password1234567", stored.HashedPassword)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	handler, _, _ := newAuthHandlerForTest()
	registered := postJSON(t, handler.Register, "/api/auth/register", map[string]any{
		"email":        "login@example.com",
		"display_name": "Login User",
		"password":     "password1234567",
	})
	require.Equal(t, http.StatusCreated, registered.Code)

	tests := []struct {
		name       string
		payload    map[string]any
		wantStatus int
	}{
		{
			name: "valid login",
			payload: map[string]any{
				"email":    "login@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			payload: map[string]any{
				"email":    "login@example.com",
				"password": "wrongpassword12",
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown email",
			payload: map[string]any{
				"email":    "nobody@example.com",
				"password": "password1234567",
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := postJSON(t, handler.Login, "/api/auth/login", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestLoginDoesNotRevealWhichFieldFailed(t *testing.T) {
	t.Parallel()

	handler, _, _ := newAuthHandlerForTest()
	registered := postJSON(t, handler.Register, "/api/auth/register", map[string]any{
		"email":        "oracle@example.com",
		"display_name": "Oracle",
		"password":     "password1234567",
	})
	require.Equal(t, http.StatusCreated, registered.Code)

	wrongPassword := postJSON(t, handler.Login, "/api/auth/login", map[string]any{
		"email":    "oracle@example.com",
		"password": "notthepassword1",
	})
	unknownEmail := postJSON(t, handler.Login, "/api/auth/login", map[string]any{
		"email":    "ghost@example.com",
		"password": "password1234567",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	handler, users, _ := newAuthHandlerForTest()
	registered := postJSON(t, handler.Register, "/api/auth/register", map[string]any{
		"email":        "refresh@example.com",
		"display_name": "Refresh User",
		"password":     "password1234567",
	})
	require.Equal(t, http.StatusCreated, registered.Code)

	var resp AuthResponse
	require.NoError(t, json.NewDecoder(registered.Body).Decode(&resp))

	t.Run("valid refresh token", func(t *testing.T) {
		recorder := postJSON(t, handler.Refresh, "/api/auth/refresh", map[string]any{
			"refresh_token": resp.RefreshToken,
		})
		require.Equal(t, http.StatusOK, recorder.Code)

		var refreshed AuthResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&refreshed))
		assert.Equal(t, resp.UserID, refreshed.UserID)
		assert.NotEmpty(t, refreshed.Token)
		assert.NotEmpty(t, refreshed.RefreshToken)
	})

	t.Run("garbage refresh token", func(t *testing.T) {
		recorder := postJSON(t, handler.Refresh, "/api/auth/refresh", map[string]any{
			"refresh_token": "not-a-real-token",
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("deleted user", func(t *testing.T) {
		require.NoError(t, users.Delete(context.Background(), resp.UserID))

		recorder := postJSON(t, handler.Refresh, "/api/auth/refresh", map[string]any{
			"refresh_token": resp.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
