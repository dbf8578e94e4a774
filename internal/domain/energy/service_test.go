package energy

import (
	"errors"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestServiceCompletionBonus(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	task := newTestTask(t, 3, 3, nil) // 40 points

	testCases := []struct {
		name         string
		currentLevel *int
		wantBonus    int
		wantErr      error
	}{
		{
			name:         "matching level awards quarter of points",
			currentLevel: intPtr(3),
			wantBonus:    10,
		},
		{
			name:         "non-matching level awards nothing",
			currentLevel: intPtr(4),
			wantBonus:    0,
		},
		{
			name:         "omitted level awards nothing",
			currentLevel: nil,
			wantBonus:    0,
		},
		{
			name:         "out of range level is rejected",
			currentLevel: intPtr(7),
			wantErr:      ErrInvalidEnergyLevel,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			bonus, err := svc.CompletionBonus(task, tc.currentLevel)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if bonus != tc.wantBonus {
				t.Errorf("Expected bonus %d, got %d", tc.wantBonus, bonus)
			}
		})
	}
}

func TestServiceCompletionBonusNilTask(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	if _, err := svc.CompletionBonus(nil, intPtr(3)); !errors.Is(err, ErrNilTask) {
		t.Errorf("Expected ErrNilTask, got %v", err)
	}
}

func TestServiceRankTasksRejectsInvalidLevel(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	if _, err := svc.RankTasks(nil, 0); !errors.Is(err, ErrInvalidEnergyLevel) {
		t.Errorf("Expected ErrInvalidEnergyLevel, got %v", err)
	}
	if _, err := svc.RankTasks(nil, 6); !errors.Is(err, ErrInvalidEnergyLevel) {
		t.Errorf("Expected ErrInvalidEnergyLevel, got %v", err)
	}
}

func TestServiceScoreTask(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	task := newTestTask(t, 5, 4, nil) // 188 points

	match, err := svc.ScoreTask(task, 4)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !match.Match || match.MatchScore != 1.0 {
		t.Errorf("Expected exact match, got match=%v score=%v", match.Match, match.MatchScore)
	}
	if match.BonusPoints != 47 { // round(188 * 0.25)
		t.Errorf("Expected 47 bonus points, got %d", match.BonusPoints)
	}
}

func TestServiceCustomParams(t *testing.T) {
	t.Parallel()

	svc := NewServiceWithParams(NewParams(ParamsConfig{BonusRate: 0.5}))
	task := newTestTask(t, 3, 3, nil) // 40 points

	bonus, err := svc.CompletionBonus(task, intPtr(3))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if bonus != 20 {
		t.Errorf("Expected bonus 20 with 50%% rate, got %d", bonus)
	}
}

func TestServicePatternAndInsightsRoundTrip(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

	pattern := svc.CalculatePattern(nil, now)
	insights := svc.Insights(pattern, nil, now)

	if pattern.AverageEnergy != 3.0 {
		t.Errorf("Expected default average, got %v", pattern.AverageEnergy)
	}
	if len(insights) != 0 {
		t.Errorf("Expected no insights for default pattern, got %d", len(insights))
	}
}
