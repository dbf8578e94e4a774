package energy

import (
	"fmt"
	"strings"
	"time"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// Insight types emitted by generateInsights.
const (
	InsightTypePeakHours      = "peak_hours"
	InsightTypeEnergyMismatch = "energy_mismatch"
	InsightTypeLowAverage     = "low_average"
)

// Insight is a single derived observation about a user's energy pattern,
// with a fixed confidence per rule.
type Insight struct {
	Type       string  `json:"type"`
	Message    string  `json:"message"`
	Confidence float64 `json:"confidence"`
}

// generateInsights evaluates each insight rule independently against the
// pattern and the user's latest log; every rule whose condition holds
// contributes one insight, in rule order. No early exit: a user can
// receive all three at once.
func generateInsights(pattern Pattern, latest *domain.EnergyLog, now time.Time) []Insight {
	insights := []Insight{}

	if len(pattern.PeakHours) > 0 {
		insights = append(insights, Insight{
			Type: InsightTypePeakHours,
			Message: fmt.Sprintf("Your energy tends to peak around %s. Schedule demanding tasks then.",
				formatHours(pattern.PeakHours)),
			Confidence: 0.85,
		})
	}

	if latest != nil && hourIn(now.UTC().Hour(), pattern.PeakHours) && latest.EnergyLevel < 4 {
		insights = append(insights, Insight{
			Type:       InsightTypeEnergyMismatch,
			Message:    "This is usually one of your peak hours, but your latest log is below par. A short break might help you recover.",
			Confidence: 0.75,
		})
	}

	if pattern.AverageEnergy < 3 {
		insights = append(insights, Insight{
			Type:       InsightTypeLowAverage,
			Message:    "Your average energy has been low lately. Consider lighter tasks and more rest.",
			Confidence: 0.80,
		})
	}

	return insights
}

func hourIn(hour int, hours []int) bool {
	for _, h := range hours {
		if h == hour {
			return true
		}
	}
	return false
}

func formatHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%02d:00", h)
	}
	return strings.Join(parts, ", ")
}
