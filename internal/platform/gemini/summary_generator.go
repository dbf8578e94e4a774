// Package gemini provides an optional Gemini-backed narrative generator
// for weekly energy summaries.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/stringerc/syncscript-backend/internal/config"
	"github.com/stringerc/syncscript-backend/internal/domain"
)

// Generation errors
var (
	ErrInvalidConfig   = errors.New("invalid generator configuration")
	ErrNoLogs          = errors.New("no energy logs to summarize")
	ErrInvalidResponse = errors.New("invalid response from model")
)

// SummaryGenerator produces short natural-language summaries of a user's
// recent energy logs using the Gemini API.
type SummaryGenerator struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

// NewSummaryGenerator creates a SummaryGenerator. An empty API key is a
// configuration error; callers that want the feature disabled should not
// construct a generator at all.
func NewSummaryGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*SummaryGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", ErrInvalidConfig, err)
	}

	return &SummaryGenerator{
		logger: logger.With(slog.String("component", "summary_generator")),
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// GenerateSummary produces a short narrative describing the given logs.
func (g *SummaryGenerator) GenerateSummary(ctx context.Context, logs []*domain.EnergyLog) (string, error) {
	if len(logs) == 0 {
		return "", ErrNoLogs
	}

	prompt := buildPrompt(logs)

	g.logger.DebugContext(ctx, "requesting energy summary",
		slog.Int("log_count", len(logs)),
		slog.String("model", g.model))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		g.logger.ErrorContext(ctx, "gemini API call failed", slog.Any("error", err))
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: empty summary text", ErrInvalidResponse)
	}

	return text, nil
}

// buildPrompt renders the logs into a compact textual digest the model can
// narrate. Raw notes are included; they are the user's own words.
func buildPrompt(logs []*domain.EnergyLog) string {
	var b strings.Builder
	b.WriteString("Summarize this week of energy logs for the user in two or three ")
	b.WriteString("encouraging sentences. Mention the overall trend and the best time of day. ")
	b.WriteString("Logs (UTC, level 1-5):\n")

	for _, entry := range logs {
		fmt.Fprintf(&b, "- %s level=%d", entry.LoggedAt.Format("Mon 15:04"), entry.EnergyLevel)
		if len(entry.MoodTags) > 0 {
			fmt.Fprintf(&b, " tags=%s", strings.Join(entry.MoodTags, ","))
		}
		if entry.Notes != "" {
			fmt.Fprintf(&b, " notes=%q", entry.Notes)
		}
		b.WriteString("\n")
	}

	return b.String()
}
