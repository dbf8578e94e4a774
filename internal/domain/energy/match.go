package energy

import (
	"sort"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// TaskMatch augments a task with how well its energy requirement fits a
// queried current energy level. It is a computed view, never persisted.
type TaskMatch struct {
	Task        *domain.Task `json:"task"`
	Match       bool         `json:"energy_match"`
	MatchScore  float64      `json:"energy_match_score"`
	BonusPoints int          `json:"bonus_points"`
}

// scoreMatch scores how closely a task's energy requirement fits the
// queried current level: 1.0 for an exact match, 0.5 when off by one,
// 0.0 otherwise. The boolean is true only on the exact match.
func scoreMatch(requirement, currentLevel int) (bool, float64) {
	diff := requirement - currentLevel
	if diff < 0 {
		diff = -diff
	}

	switch diff {
	case 0:
		return true, 1.0
	case 1:
		return false, 0.5
	default:
		return false, 0.0
	}
}

// buildMatch scores a single task against the current energy level. Bonus
// points are advertised only on an exact match.
func buildMatch(task *domain.Task, currentLevel int, params *Params) TaskMatch {
	match, score := scoreMatch(task.EnergyRequirement, currentLevel)

	bonus := 0
	if match {
		bonus = calculateBonusPoints(task.Points, params)
	}

	return TaskMatch{
		Task:        task,
		Match:       match,
		MatchScore:  score,
		BonusPoints: bonus,
	}
}

// rankMatches orders scored tasks for suggestion: match score descending,
// then priority descending, then due date ascending with undated tasks
// sorted last. The sort is stable so equally-ranked tasks keep their
// incoming order. The same ordering must hold whether candidates are
// ranked here or by the store's ORDER BY clause.
func rankMatches(matches []TaskMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]

		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}

		if a.Task.Priority != b.Task.Priority {
			return a.Task.Priority > b.Task.Priority
		}

		// Due date ascending, nulls last.
		switch {
		case a.Task.DueDate == nil && b.Task.DueDate == nil:
			return false
		case a.Task.DueDate == nil:
			return false
		case b.Task.DueDate == nil:
			return true
		default:
			return a.Task.DueDate.Before(*b.Task.DueDate)
		}
	})
}
