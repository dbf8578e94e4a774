package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EnergyLog-specific validation errors
var (
	ErrEnergyLogIDEmpty     = errors.New("energy log ID cannot be empty")
	ErrEnergyLogUserIDEmpty = errors.New("energy log user ID cannot be empty")
)

// EnergyLog records a user's self-reported energy level at a point in time.
// Logs are immutable once created; the only lifecycle event after creation
// is age-based retention deletion.
type EnergyLog struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	EnergyLevel int       `json:"energy_level"` // ordinal 1-5, 1=low, 5=peak
	MoodTags    []string  `json:"mood_tags,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	LoggedAt    time.Time `json:"logged_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEnergyLog creates an EnergyLog for the given user. loggedAt is stored
// in UTC so that hour-of-day pattern derivation is consistent across the
// write and read paths.
func NewEnergyLog(userID uuid.UUID, energyLevel int, moodTags []string, notes string, loggedAt time.Time) (*EnergyLog, error) {
	log := &EnergyLog{
		ID:          uuid.New(),
		UserID:      userID,
		EnergyLevel: energyLevel,
		MoodTags:    moodTags,
		Notes:       notes,
		LoggedAt:    loggedAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the EnergyLog has valid data. Unlike task priority,
// an out-of-range energy level here is a hard error: logs feed statistical
// aggregation and a bad level would poison every derived pattern.
func (l *EnergyLog) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEnergyLogIDEmpty
	}

	if l.UserID == uuid.Nil {
		return ErrEnergyLogUserIDEmpty
	}

	if l.EnergyLevel < 1 || l.EnergyLevel > 5 {
		return ErrInvalidEnergyLevel
	}

	return nil
}
