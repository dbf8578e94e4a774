package gemini

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stringerc/syncscript-backend/internal/domain"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	loggedAt := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	entry, err := domain.NewEnergyLog(uuid.New(), 4, []string{"focused", "rested"}, "slept well", loggedAt)
	require.NoError(t, err)

	prompt := buildPrompt([]*domain.EnergyLog{entry})

	assert.Contains(t, prompt, "level=4")
	assert.Contains(t, prompt, "Mon 09:30")
	assert.Contains(t, prompt, "focused,rested")
	assert.Contains(t, prompt, `"slept well"`)
}
