package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// APIKey-specific validation errors
var (
	ErrAPIKeyIDEmpty     = errors.New("api key ID cannot be empty")
	ErrAPIKeyUserEmpty   = errors.New("api key user ID cannot be empty")
	ErrAPIKeyNameEmpty   = errors.New("api key name cannot be empty")
	ErrAPIKeyHashEmpty   = errors.New("api key hash cannot be empty")
	ErrAPIKeyPrefixEmpty = errors.New("api key prefix cannot be empty")
)

// APIKey lets a device integration (e.g. a wearable) post energy logs on a
// user's behalf without a browser session. Only the bcrypt hash of the
// secret is stored; the prefix is the public lookup handle.
type APIKey struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	HashedKey  string     `json:"-"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewAPIKey creates an APIKey record. The caller generates the secret,
// hashes it, and passes the hash and its public prefix here.
func NewAPIKey(userID uuid.UUID, name, prefix, hashedKey string) (*APIKey, error) {
	key := &APIKey{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Prefix:    prefix,
		HashedKey: hashedKey,
		CreatedAt: time.Now().UTC(),
	}

	if err := key.Validate(); err != nil {
		return nil, err
	}

	return key, nil
}

// Validate checks if the APIKey has valid data.
func (k *APIKey) Validate() error {
	if k.ID == uuid.Nil {
		return ErrAPIKeyIDEmpty
	}

	if k.UserID == uuid.Nil {
		return ErrAPIKeyUserEmpty
	}

	if k.Name == "" {
		return ErrAPIKeyNameEmpty
	}

	if k.Prefix == "" {
		return ErrAPIKeyPrefixEmpty
	}

	if k.HashedKey == "" {
		return ErrAPIKeyHashEmpty
	}

	return nil
}
