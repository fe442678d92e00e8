package sim

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Preet37/Loomin/pkg/anthropic"
)

func TestTutorAsk(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		// The system prompt is seeded with the topic detected from the user
		// prompt, wind_turbine here, and its scene mode.
		return strings.Contains(req.System, `"wind_turbine"`) && strings.Contains(req.System, "Scene_Mode = 0")
	})).Return(textResponse("# Wind Turbines\n\nNotes.\n\n---\n### Simulation Parameters\nScene_Mode = 0\nWind_Speed = 25\n"), nil).Once()

	tutor := NewTutor(client, "test-model", 4096)
	got := tutor.Ask(context.Background(), "teach me about wind turbines", "")

	assert.Contains(t, got, "# Wind Turbines")
	// The model already included parameters, so nothing is appended.
	assert.Equal(t, 1, strings.Count(got, "Scene_Mode"))
	client.AssertExpectations(t)
}

func TestTutorAskAppendsPresetWhenModelForgets(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("# Robot Arms\n\nJust prose, no parameters."), nil).Once()

	tutor := NewTutor(client, "test-model", 4096)
	got := tutor.Ask(context.Background(), "explain robot arm kinematics", "")

	assert.Contains(t, got, "### Simulation Parameters")
	assert.Contains(t, got, "Scene_Mode = 1")
	client.AssertExpectations(t)
}

func TestTutorAskErrorNote(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("api down")).Once()

	tutor := NewTutor(client, "test-model", 4096)
	got := tutor.Ask(context.Background(), "anything", "")

	assert.Contains(t, got, "Scene_Mode = -1")
	assert.Contains(t, got, "## Error")
	client.AssertExpectations(t)
}
