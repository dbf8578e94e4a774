package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stringerc/syncscript-backend/internal/domain"
	"github.com/stringerc/syncscript-backend/internal/domain/energy"
	"github.com/stringerc/syncscript-backend/internal/platform/logger"
	"github.com/stringerc/syncscript-backend/internal/store"
)

// ErrSummaryUnavailable indicates no summary generator is configured.
var ErrSummaryUnavailable = errors.New("energy summary generation is not configured")

// SummaryGenerator produces a short narrative summary of recent energy
// logs. Implemented by the Gemini-backed generator; optional at runtime.
type SummaryGenerator interface {
	GenerateSummary(ctx context.Context, logs []*domain.EnergyLog) (string, error)
}

// LogEnergyInput carries the caller-supplied fields for energy logging.
// A nil LoggedAt means "now".
type LogEnergyInput struct {
	EnergyLevel int
	MoodTags    []string
	Notes       string
	LoggedAt    *time.Time
}

// EnergyService orchestrates energy logging, pattern derivation, insight
// generation, and retention cleanup.
type EnergyService struct {
	logs          store.EnergyLogStore
	engine        energy.Service
	summaries     SummaryGenerator // nil when not configured
	windowDays    int
	retentionDays int
	logger        *slog.Logger
	now           func() time.Time
}

// NewEnergyService creates an EnergyService. summaries may be nil, in
// which case Summary returns ErrSummaryUnavailable.
func NewEnergyService(
	logs store.EnergyLogStore,
	engine energy.Service,
	summaries SummaryGenerator,
	windowDays, retentionDays int,
	log *slog.Logger,
) *EnergyService {
	if logs == nil {
		panic("energy log store cannot be nil")
	}
	if engine == nil {
		panic("energy engine cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	if windowDays <= 0 {
		windowDays = energy.NewDefaultParams().WindowDays
	}

	return &EnergyService{
		logs:          logs,
		engine:        engine,
		summaries:     summaries,
		windowDays:    windowDays,
		retentionDays: retentionDays,
		logger:        log.With(slog.String("component", "energy_service")),
		now:           time.Now,
	}
}

// Log records a new energy reading for the user.
func (s *EnergyService) Log(ctx context.Context, userID uuid.UUID, input LogEnergyInput) (*domain.EnergyLog, error) {
	loggedAt := s.now().UTC()
	if input.LoggedAt != nil {
		loggedAt = input.LoggedAt.UTC()
	}

	entry, err := domain.NewEnergyLog(userID, input.EnergyLevel, input.MoodTags, input.Notes, loggedAt)
	if err != nil {
		return nil, err
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("energy level logged",
		slog.String("user_id", userID.String()),
		slog.Int("energy_level", entry.EnergyLevel))
	return entry, nil
}

// List retrieves the user's logs newest first, paginated.
func (s *EnergyService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.EnergyLog, error) {
	return s.logs.List(ctx, userID, limit, offset)
}

// Pattern derives the user's hourly energy pattern over the trailing window.
func (s *EnergyService) Pattern(ctx context.Context, userID uuid.UUID) (energy.Pattern, error) {
	now := s.now().UTC()
	since := now.AddDate(0, 0, -s.windowDays)

	logs, err := s.logs.ListSince(ctx, userID, since)
	if err != nil {
		return energy.Pattern{}, err
	}

	return s.engine.CalculatePattern(logs, now), nil
}

// Insights derives observations from the user's pattern and latest log.
// A user with no logs still gets insights from the default pattern.
func (s *EnergyService) Insights(ctx context.Context, userID uuid.UUID) ([]energy.Insight, error) {
	pattern, err := s.Pattern(ctx, userID)
	if err != nil {
		return nil, err
	}

	latest, err := s.logs.GetLatest(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrEnergyLogNotFound) {
			return nil, err
		}
		latest = nil
	}

	return s.engine.Insights(pattern, latest, s.now().UTC()), nil
}

// Summary produces a narrative summary of the user's last week of logs.
// Returns ErrSummaryUnavailable when no generator is configured.
func (s *EnergyService) Summary(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.summaries == nil {
		return "", ErrSummaryUnavailable
	}

	since := s.now().UTC().AddDate(0, 0, -7)
	logs, err := s.logs.ListSince(ctx, userID, since)
	if err != nil {
		return "", err
	}

	return s.summaries.GenerateSummary(ctx, logs)
}

// Sweep deletes logs older than the configured retention age. A
// non-positive retention disables cleanup.
func (s *EnergyService) Sweep(ctx context.Context) (int64, error) {
	if s.retentionDays <= 0 {
		return 0, nil
	}

	cutoff := s.now().UTC().AddDate(0, 0, -s.retentionDays)
	return s.logs.DeleteOlderThan(ctx, cutoff)
}

// RunRetentionSweeper runs Sweep on the given interval until the context
// is canceled. Intended to be started as a goroutine from the application
// and stopped via context cancellation during shutdown.
func (s *EnergyService) RunRetentionSweeper(ctx context.Context, interval time.Duration) {
	log := s.logger

	if s.retentionDays <= 0 || interval <= 0 {
		log.Info("energy log retention sweeper disabled")
		return
	}

	log.Info("energy log retention sweeper started",
		slog.Int("retention_days", s.retentionDays),
		slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("energy log retention sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("retention sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}
