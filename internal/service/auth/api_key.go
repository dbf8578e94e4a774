package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Device API key format: "<prefix>.<secret>" where the prefix is an 8-byte
// hex handle stored in plaintext for lookup, and the secret is a 24-byte
// hex value of which only the bcrypt hash is stored.
const (
	apiKeyPrefixBytes = 8
	apiKeySecretBytes = 24
	apiKeySeparator   = "."
)

// GeneratedAPIKey carries the parts of a freshly minted device key. The
// Plaintext form is shown to the user exactly once at creation time.
type GeneratedAPIKey struct {
	Prefix    string
	HashedKey string
	Plaintext string
}

// GenerateAPIKey mints a new device API key. The returned hash is safe to
// store; the plaintext must be handed to the caller and then discarded.
func GenerateAPIKey() (*GeneratedAPIKey, error) {
	prefix, err := randomHex(apiKeyPrefixBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key prefix: %w", err)
	}

	secret, err := randomHex(apiKeySecretBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate api key secret: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash api key secret: %w", err)
	}

	return &GeneratedAPIKey{
		Prefix:    prefix,
		HashedKey: string(hash),
		Plaintext: prefix + apiKeySeparator + secret,
	}, nil
}

// SplitAPIKey separates a presented key into its prefix and secret parts.
// Returns ErrInvalidAPIKey if the key does not have the expected shape.
func SplitAPIKey(presented string) (prefix, secret string, err error) {
	parts := strings.SplitN(presented, apiKeySeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidAPIKey
	}
	return parts[0], parts[1], nil
}

// VerifyAPIKey checks a presented secret against the stored hash.
// Returns ErrInvalidAPIKey on mismatch.
func VerifyAPIKey(hashedKey, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(secret)); err != nil {
		return ErrInvalidAPIKey
	}
	return nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
