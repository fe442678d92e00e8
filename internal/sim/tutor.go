package sim

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Preet37/Loomin/pkg/anthropic"
)

const tutorSystemPrompt = `You are Loomin, an expert AI tutor and simulation engineer.
The user is learning through interactive 3D simulations. When they ask about a topic:

1. Generate clear, educational notes in Markdown format
2. Explain the concepts, principles, formulas, and real-world applications
3. ALWAYS end your response with simulation parameters that control the 3D visualization

IMPORTANT: You MUST include simulation parameters at the END of your response in this exact format:
---
### Simulation Parameters
Variable_Name = value

The available simulations are:
- Wind Turbine (Scene_Mode = 0): Wind_Speed, Blade_Count, Blade_Pitch, Yaw
- Robot Arm (Scene_Mode = 1): Arm_Base_Yaw, Arm_Shoulder_Pitch, Arm_Elbow_Pitch, Arm_Wrist_Pitch, Gripper_Open, Finger_Curl
- Generic Visualizations (Scene_Mode = 2): for motherboards, circuits, mechanical systems, solar panels, engines, and other topics

For the detected topic %q, use Scene_Mode = %d.

Always include realistic starting values that demonstrate the concept being explained.
Be educational and explain WHY each parameter matters.`

const tutorErrorNote = "## Error\nFailed to generate response. Please try again.\n\n---\n### Simulation Parameters\nScene_Mode = -1\n"

// Tutor generates study notes with trailing simulation parameters.
type Tutor struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewTutor builds a Tutor over the given completion client.
func NewTutor(client anthropic.Client, modelID string, maxTokens int64) *Tutor {
	return &Tutor{client: client, model: modelID, maxTokens: maxTokens}
}

// Ask produces markdown notes for a prompt, seeded with the detected topic's
// scene mode. The model is told to end with a simulation-parameters block;
// if it forgets, the topic preset is appended so the scene always has
// something to render. On failure the caller gets the error note with
// Scene_Mode = -1, matching what the editor expects.
func (t *Tutor) Ask(ctx context.Context, prompt, noteContext string) string {
	topic := DetectTopic(prompt, nil)
	preset := PresetFor(topic)

	resp, err := t.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     t.model,
		MaxTokens: t.maxTokens,
		System:    fmt.Sprintf(tutorSystemPrompt, topic, preset.Mode),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf("User Request: %s\n\nExisting Notes Context: %s", prompt, noteContext)},
		},
	})
	if err != nil {
		zap.L().Warn("tutor: completion failed", zap.Error(err))
		return tutorErrorNote
	}
	resp.Usage.LogCost(t.model, "tutor")

	result := resp.Text()
	if !strings.Contains(result, "Scene_Mode") {
		result += "\n\n---\n### Simulation Parameters\n" + preset.ParamsBlock() + "\n"
	}
	return result
}
