package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/domain/energy"
	"github.com/stringerc/syncscript-backend/internal/service"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// fakeEnergyLogStore is an in-memory store.EnergyLogStore for handler tests.
type fakeEnergyLogStore struct {
	logs []*domain.EnergyLog
}

func (s *fakeEnergyLogStore) Create(_ context.Context, log *domain.EnergyLog) error {
	copied := *log
	s.logs = append(s.logs, &copied)
	return nil
}

func (s *fakeEnergyLogStore) GetLatest(_ context.Context, userID uuid.UUID) (*domain.EnergyLog, error) {
	var latest *domain.EnergyLog
	for _, log := range s.logs {
		if log.UserID != userID {
			continue
		}
		if latest == nil || log.LoggedAt.After(latest.LoggedAt) {
			latest = log
		}
	}
	if latest == nil {
		return nil, store.ErrEnergyLogNotFound
	}
	copied := *latest
	return &copied, nil
}

func (s *fakeEnergyLogStore) ListSince(_ context.Context, userID uuid.UUID, since time.Time) ([]*domain.EnergyLog, error) {
	var result []*domain.EnergyLog
	for _, log := range s.logs {
		if log.UserID == userID && !log.LoggedAt.Before(since) {
			copied := *log
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LoggedAt.Before(result[j].LoggedAt) })
	return result, nil
}

func (s *fakeEnergyLogStore) List(_ context.Context, userID uuid.UUID, limit, offset int) ([]*domain.EnergyLog, error) {
	var result []*domain.EnergyLog
	for _, log := range s.logs {
		if log.UserID == userID {
			copied := *log
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].LoggedAt.After(result[j].LoggedAt) })
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *fakeEnergyLogStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []*domain.EnergyLog
	var removed int64
	for _, log := range s.logs {
		if log.LoggedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, log)
	}
	s.logs = kept
	return removed, nil
}

func newEnergyHandlerForTest(summaries service.SummaryGenerator) *EnergyHandler {
	svc := service.NewEnergyService(
		&fakeEnergyLogStore{},
		energy.NewDefaultService(),
		summaries,
		30,
		365,
		nil,
	)
	return NewEnergyHandler(svc)
}

func energyRequest(t *testing.T, method, path string, body any, userID uuid.UUID) *http.Request {
	t.Helper()
	return authedRequest(t, method, path, body, userID, "")
}

func TestLogEnergy(t *testing.T) {
	t.Parallel()

	handler := newEnergyHandlerForTest(nil)
	userID := uuid.New()

	req := energyRequest(t, http.MethodPost, "/api/energy", map[string]any{
		"energy_level": 4,
		"mood_tags":    []string{"focused", "rested"},
		"notes":        "slept well",
	}, userID)
	recorder := httptest.NewRecorder()
	handler.Log(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	var entry domain.EnergyLog
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&entry))
	assert.Equal(t, 4, entry.EnergyLevel)
	assert.Equal(t, []string{"focused", "rested"}, entry.MoodTags)
	assert.False(t, entry.LoggedAt.IsZero())
}

func TestLogEnergyValidation(t *testing.T) {
	t.Parallel()

	handler := newEnergyHandlerForTest(nil)
	userID := uuid.New()

	tests := []struct {
		name    string
		payload map[string]any
	}{
		{name: "level zero", payload: map[string]any{"energy_level": 0}},
		{name: "level six", payload: map[string]any{"energy_level": 6}},
		{name: "missing level", payload: map[string]any{"notes": "no level"}},
		{name: "too many mood tags", payload: map[string]any{
			"energy_level": 3,
			"mood_tags":    []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := energyRequest(t, http.MethodPost, "/api/energy", tt.payload, userID)
			recorder := httptest.NewRecorder()
			handler.Log(recorder, req)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestListEnergyPagination(t *testing.T) {
	t.Parallel()

	handler := newEnergyHandlerForTest(nil)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		loggedAt := time.Now().UTC().Add(time.Duration(-i) * time.Hour).Format(time.RFC3339)
		req := energyRequest(t, http.MethodPost, "/api/energy", map[string]any{
			"energy_level": 3,
			"logged_at":    loggedAt,
		}, userID)
		recorder := httptest.NewRecorder()
		handler.Log(recorder, req)
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	t.Run("limit applies", func(t *testing.T) {
		req := energyRequest(t, http.MethodGet, "/api/energy?limit=2", nil, userID)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		var logs []*domain.EnergyLog
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&logs))
		assert.Len(t, logs, 2)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := energyRequest(t, http.MethodGet, "/api/energy?limit=zero", nil, userID)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("negative offset", func(t *testing.T) {
		req := energyRequest(t, http.MethodGet, "/api/energy?offset=-1", nil, userID)
		recorder := httptest.NewRecorder()
		handler.List(recorder, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestEnergyPatternEndpoint(t *testing.T) {
	t.Parallel()

	handler := newEnergyHandlerForTest(nil)
	userID := uuid.New()

	req := energyRequest(t, http.MethodGet, "/api/energy/pattern", nil, userID)
	recorder := httptest.NewRecorder()
	handler.Pattern(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var pattern energy.Pattern
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&pattern))
	assert.Equal(t, 3.0, pattern.AverageEnergy)
}

func TestEnergySummaryUnavailable(t *testing.T) {
	t.Parallel()

	handler := newEnergyHandlerForTest(nil)
	userID := uuid.New()

	req := energyRequest(t, http.MethodGet, "/api/energy/summary", nil, userID)
	recorder := httptest.NewRecorder()
	handler.Summary(recorder, req)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

// stubSummaryGenerator returns a fixed summary string.
type stubSummaryGenerator struct{ text string }

func (g stubSummaryGenerator) GenerateSummary(_ context.Context, _ []*domain.EnergyLog) (string, error) {
	return g.text, nil
}

func TestEnergySummaryConfigured(t *testing.T) {
	t.Parallel()

	handler := newEnergyHandlerForTest(stubSummaryGenerator{text: "You peak in the mornings."})
	userID := uuid.New()

	logReq := energyRequest(t, http.MethodPost, "/api/energy", map[string]any{"energy_level": 4}, userID)
	recorder := httptest.NewRecorder()
	handler.Log(recorder, logReq)
	require.Equal(t, http.StatusCreated, recorder.Code)

	req := energyRequest(t, http.MethodGet, "/api/energy/summary", nil, userID)
	recorder = httptest.NewRecorder()
	handler.Summary(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp SummaryResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "You peak in the mornings.", resp.Summary)
}
