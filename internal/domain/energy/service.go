package energy

import (
	"errors"
	"time"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

// Common errors
var (
	ErrNilTask            = errors.New("task cannot be nil")
	ErrInvalidEnergyLevel = errors.New("energy level must be between 1 and 5")
)

// Service defines the interface for energy scoring operations. All methods
// are pure: callers supply the current time where it matters, so results
// are reproducible in tests.
type Service interface {
	// CalculateBasePoints derives a task's point value from priority and
	// energy requirement using the multiplier tables. Out-of-range inputs
	// degrade to defaults rather than erroring.
	CalculateBasePoints(priority, energyRequirement int) int

	// ScoreTask scores one task against a queried current energy level.
	ScoreTask(task *domain.Task, currentLevel int) (TaskMatch, error)

	// RankTasks scores and orders candidate tasks for suggestion:
	// match score desc, priority desc, due date asc with nulls last.
	RankTasks(tasks []*domain.Task, currentLevel int) ([]TaskMatch, error)

	// CompletionBonus returns the bonus awarded for completing the task at
	// the given current energy level. A nil level means the caller did not
	// report one and always yields zero bonus.
	CompletionBonus(task *domain.Task, currentLevel *int) (int, error)

	// CalculatePattern aggregates energy logs into a 30-day hourly pattern.
	CalculatePattern(logs []*domain.EnergyLog, now time.Time) Pattern

	// Insights derives user-facing observations from a pattern and the
	// latest energy log.
	Insights(pattern Pattern, latest *domain.EnergyLog, now time.Time) []Insight
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scoring service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scoring service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateBasePoints implements the Service interface.
func (s *defaultService) CalculateBasePoints(priority, energyRequirement int) int {
	return calculateBasePoints(priority, energyRequirement, s.params)
}

// ScoreTask implements the Service interface.
func (s *defaultService) ScoreTask(task *domain.Task, currentLevel int) (TaskMatch, error) {
	if task == nil {
		return TaskMatch{}, ErrNilTask
	}

	if !isValidLevel(currentLevel) {
		return TaskMatch{}, ErrInvalidEnergyLevel
	}

	return buildMatch(task, currentLevel, s.params), nil
}

// RankTasks implements the Service interface.
func (s *defaultService) RankTasks(tasks []*domain.Task, currentLevel int) ([]TaskMatch, error) {
	if !isValidLevel(currentLevel) {
		return nil, ErrInvalidEnergyLevel
	}

	matches := make([]TaskMatch, 0, len(tasks))
	for _, task := range tasks {
		if task == nil {
			return nil, ErrNilTask
		}
		matches = append(matches, buildMatch(task, currentLevel, s.params))
	}

	rankMatches(matches)
	return matches, nil
}

// CompletionBonus implements the Service interface.
func (s *defaultService) CompletionBonus(task *domain.Task, currentLevel *int) (int, error) {
	if task == nil {
		return 0, ErrNilTask
	}

	if currentLevel == nil {
		return 0, nil
	}

	if !isValidLevel(*currentLevel) {
		return 0, ErrInvalidEnergyLevel
	}

	if *currentLevel != task.EnergyRequirement {
		return 0, nil
	}

	return calculateBonusPoints(task.Points, s.params), nil
}

// CalculatePattern implements the Service interface.
func (s *defaultService) CalculatePattern(logs []*domain.EnergyLog, now time.Time) Pattern {
	return calculatePattern(logs, now, s.params)
}

// Insights implements the Service interface.
func (s *defaultService) Insights(pattern Pattern, latest *domain.EnergyLog, now time.Time) []Insight {
	return generateInsights(pattern, latest, now)
}

// ValidLevel reports whether the given energy level is on the 1-5 scale.
// Callers that must reject a level before doing any other work (such as
// touching a store) can check it up front with this.
func ValidLevel(level int) bool {
	return level >= 1 && level <= 5
}

func isValidLevel(level int) bool {
	return ValidLevel(level)
}
