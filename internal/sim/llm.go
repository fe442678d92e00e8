package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Preet37/Loomin/internal/model"
	"github.com/Preet37/Loomin/pkg/anthropic"
)

const extractSystemPrompt = `You are a physics engine API. Extract variables from the user's notes.
RULES:
1. Output pure JSON. NO MATH. Calculate values yourself.
2. Detect topic: one of "wind_turbine", "robot_arm", "motherboard", "circuit", "mechanical", "solar", "engine", "electronics", "generic".
3. Standardize units: "10 cm" -> 0.1, "100 mph" -> 45 (approx m/s), "50 lbs" -> 22.7 (kg), "12 V" -> 12.
EXAMPLE: { "topic": "wind_turbine", "vars": { "wind_speed": 45, "blade_count": 5 } }`

const explainUserPrompt = `Explain physics failure: %s, vars: %s. Reason: %s. Write 1 dramatic sentence.`

// LLMExtractor extracts canonical variables via a text-completion call.
// It is best-effort: every failure degrades to a default extraction so the
// pipeline always has something to evaluate.
type LLMExtractor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
}

// NewLLMExtractor builds an extractor. rps <= 0 disables rate limiting.
func NewLLMExtractor(client anthropic.Client, modelID string, maxTokens int64, rps float64, burst int) *LLMExtractor {
	var limiter *rate.Limiter
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return &LLMExtractor{
		client:    client,
		model:     modelID,
		maxTokens: maxTokens,
		limiter:   limiter,
	}
}

// defaultExtraction is what the LLM path degrades to on any failure.
// The topic is generic, not wind_turbine as in earlier revisions: rendering
// a turbine scene for unrelated notes was worse than rendering nothing.
func defaultExtraction() model.Extraction {
	return model.Extraction{Topic: model.TopicGeneric, Vars: model.Variables{}}
}

// Extract sends one completion request and parses the JSON payload into the
// same canonical shape the direct extractor produces. Single attempt, no
// retry; the caller gets a default extraction on any failure.
func (e *LLMExtractor) Extract(ctx context.Context, notes string) model.Extraction {
	if err := e.wait(ctx); err != nil {
		zap.L().Warn("llm extract: rate limiter interrupted", zap.Error(err))
		return defaultExtraction()
	}

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System:    extractSystemPrompt,
		Messages: []anthropic.Message{
			{Role: "user", Content: notes},
		},
	})
	if err != nil {
		zap.L().Warn("llm extract: completion failed", zap.Error(err))
		return defaultExtraction()
	}
	resp.Usage.LogCost(e.model, "extract")

	return parseExtraction(resp.Text())
}

// Explain asks for a one-sentence failure narrative. Failures are silently
// absorbed: the verdict's status is already settled and an empty string is
// an acceptable explanation.
func (e *LLMExtractor) Explain(ctx context.Context, topic model.Topic, vars model.Variables, reason string) string {
	if err := e.wait(ctx); err != nil {
		return ""
	}

	varsJSON, err := json.Marshal(vars)
	if err != nil {
		return ""
	}

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 256,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(explainUserPrompt, topic, varsJSON, reason)},
		},
	})
	if err != nil {
		zap.L().Warn("llm explain: completion failed", zap.Error(err))
		return ""
	}
	resp.Usage.LogCost(e.model, "explain")

	return strings.TrimSpace(resp.Text())
}

func (e *LLMExtractor) wait(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

// parseExtraction decodes the model's JSON payload, tolerating markdown
// fences and stray prose, and validates the topic against the closed set.
func parseExtraction(text string) model.Extraction {
	var payload struct {
		Topic string             `json:"topic"`
		Vars  map[string]float64 `json:"vars"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &payload); err != nil {
		zap.L().Warn("llm extract: malformed response", zap.String("text", truncate(text, 200)), zap.Error(err))
		return defaultExtraction()
	}

	topic := model.Topic(strings.ToLower(payload.Topic))
	if !model.ValidTopic(topic) {
		topic = model.TopicGeneric
	}

	vars := model.Variables{}
	for k, v := range payload.Vars {
		vars[k] = v
	}
	return model.Extraction{Topic: topic, Vars: vars}
}

// cleanJSON extracts a JSON object from text that may contain markdown code
// fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
