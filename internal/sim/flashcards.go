package sim

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/Preet37/Loomin/internal/model"
	"github.com/Preet37/Loomin/pkg/anthropic"
)

const flashcardSystemPrompt = `You are an automated Study Assistant.
Create exactly %d flashcards based on the user's physics notes.
Output format must be valid JSON:
{ "cards": [{ "front": "Question?", "back": "Answer" }] }`

// DefaultFlashcardCount is used when the caller does not specify one.
const DefaultFlashcardCount = 5

var flashcardErrorFallback = []model.Flashcard{
	{Front: "Error", Back: "Could not generate cards."},
}

// GenerateFlashcards asks the model for study cards over the given notes.
// Any failure returns the single error card rather than propagating.
func GenerateFlashcards(ctx context.Context, client anthropic.Client, modelID string, notes string, count int) []model.Flashcard {
	if count <= 0 {
		count = DefaultFlashcardCount
	}

	resp, err := client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     modelID,
		MaxTokens: 2048,
		System:    fmt.Sprintf(flashcardSystemPrompt, count),
		Messages: []anthropic.Message{
			{Role: "user", Content: notes},
		},
	})
	if err != nil {
		zap.L().Warn("flashcards: completion failed", zap.Error(err))
		return flashcardErrorFallback
	}
	resp.Usage.LogCost(modelID, "flashcards")

	var payload struct {
		Cards []model.Flashcard `json:"cards"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(resp.Text())), &payload); err != nil {
		zap.L().Warn("flashcards: malformed response", zap.Error(err))
		return flashcardErrorFallback
	}
	if len(payload.Cards) == 0 {
		return flashcardErrorFallback
	}
	return payload.Cards
}
