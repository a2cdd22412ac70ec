package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/macrolog-ai/macrolog/internal/domain"
)

const (
	// DefaultModel is the chat model used for food normalization.
	DefaultModel = "gpt-4o-mini"

	maxCompletionTokens = 256
	temperature         = 0.1
)

// ErrNoAPIKey is returned when the OpenAI API key is not set
var ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")

const systemPrompt = `You are a strict assistant that helps find out calories and macronutrients of the food items in a user's message.

Given a user's message describing what they ate, you MUST output ONLY a single JSON ARRAY of food items with their calories and macronutrients (no other text).

The JSON array should look like this:
[
  {"item": "egg", "quantity": 2, "unit": "piece","total_kcal": 155, "protein": 13.0, "carbs": 1.1, "fat": 11.0},
  {"item": "cooked rice", "quantity": 1, "unit": "cup", "total_kcal": 130, "protein": 2.7, "carbs": 28.0, "fat": 0.3},
]

Rules:
1. Output MUST be valid JSON and nothing else.
2. If multiple foods, output multiple objects.
3. If unsure about quantity/grams, make a reasonable guess.
4. Use lowercase for item names.
5. Prefer 'piece' for generic items like fruit; 'cup'/'bowl' for volume.`

// ChatAPI defines the interface for chat completion calls
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config holds the normalizer client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Normalizer converts free-text meal descriptions into structured food
// records via a chat completion call.
type Normalizer struct {
	api    ChatAPI
	model  string
	logger *zap.Logger
}

// NewNormalizer creates a new Normalizer with explicit configuration.
func NewNormalizer(cfg Config, logger *zap.Logger) *Normalizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Normalizer{
		api:    openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}
}

// NewNormalizerFromEnv creates a Normalizer using the OPENAI_API_KEY
// environment variable.
func NewNormalizerFromEnv(logger *zap.Logger) (*Normalizer, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewNormalizer(Config{APIKey: apiKey}, logger), nil
}

// NewNormalizerWithAPI creates a Normalizer with an explicit chat API,
// used by tests.
func NewNormalizerWithAPI(api ChatAPI, model string, logger *zap.Logger) *Normalizer {
	if model == "" {
		model = DefaultModel
	}
	return &Normalizer{api: api, model: model, logger: logger}
}

// NormalizeFood converts the meal text into structured food records.
// The knowledge context, when non-empty, is attached to the request so the
// model prefers the user's own nutrition notes over generic estimates.
// Malformed model output yields an empty slice, not an error; only the call
// itself failing is an error.
func (n *Normalizer) NormalizeFood(ctx context.Context, text, knowledgeContext string) ([]domain.FoodItem, error) {
	userPrompt := fmt.Sprintf("Generate macronutrients and calories breakdown for the following food items:\n%s\n\n Return ONLY a JSON array as described.", text)
	if knowledgeContext != "" {
		userPrompt = fmt.Sprintf("Known nutrition facts for this user's foods (prefer these over generic estimates when the item matches):\n%s\n\n%s", knowledgeContext, userPrompt)
	}

	resp, err := n.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       n.model,
		MaxTokens:   maxCompletionTokens,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		n.logger.Warn("normalizer returned no choices")
		return nil, nil
	}

	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	n.logger.Debug("raw normalizer output", zap.String("output", truncate(raw, 1000)))

	items := parseItems(raw)
	if items == nil {
		n.logger.Warn("normalizer output was not a parseable JSON array",
			zap.String("output", truncate(raw, 2000)))
		return nil, nil
	}
	return items, nil
}

// parseItems parses the model output as a JSON array, falling back to the
// outermost bracketed substring when the model wrapped the array in prose
// or a code fence. Returns nil when nothing parses.
func parseItems(raw string) []domain.FoodItem {
	var items []domain.FoodItem
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &items); err != nil {
		return nil
	}
	return items
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
