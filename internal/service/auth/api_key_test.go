package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	t.Parallel()

	key, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.Len(t, key.Prefix, apiKeyPrefixBytes*2)
	assert.NotEmpty(t, key.HashedKey)
	assert.Contains(t, key.Plaintext, apiKeySeparator)

	prefix, secret, err := SplitAPIKey(key.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, key.Prefix, prefix)

	assert.NoError(t, VerifyAPIKey(key.HashedKey, secret))
}

func TestVerifyAPIKey_Mismatch(t *testing.T) {
	t.Parallel()

	key, err := GenerateAPIKey()
	require.NoError(t, err)

	err = VerifyAPIKey(key.HashedKey, "wrong-secret")
	assert.ErrorIs(t, err, ErrInvalidAPIKey)
}

func TestSplitAPIKey_Malformed(t *testing.T) {
	t.Parallel()

	cases := []string{"", "noseparator", ".secretonly", "prefixonly."}
	for _, presented := range cases {
		_, _, err := SplitAPIKey(presented)
		assert.ErrorIs(t, err, ErrInvalidAPIKey, "input %q", presented)
	}
}

func TestBcryptVerifier_HashAndCompare(t *testing.T) {
	t.Parallel()

	v := NewBcryptVerifier()

	hash, err := v.Hash("a-long-enough-password")
	require.NoError(t, err)
	assert.NotEqual(t, "a-long-enough-password", hash)

	assert.NoError(t, v.Compare(hash, "a-long-enough-password"))
	assert.Error(t, v.Compare(hash, "a-different-password"))
}
