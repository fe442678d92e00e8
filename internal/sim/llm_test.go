package sim

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Preet37/Loomin/internal/model"
	"github.com/Preet37/Loomin/pkg/anthropic"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"topic":"generic"}`, `{"topic":"generic"}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading prose", `Here you go: {"a":1}`, `{"a":1}`},
		{"trailing prose", `{"a":1} hope that helps`, `{"a":1}`},
		{"no object at all", "sorry, I cannot", "sorry, I cannot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}

func TestParseExtraction(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantTopic model.Topic
		wantVars  model.Variables
	}{
		{
			name:      "valid payload",
			text:      `{"topic": "wind_turbine", "vars": {"wind_speed": 45, "blade_count": 5}}`,
			wantTopic: model.TopicWindTurbine,
			wantVars:  model.Variables{"wind_speed": 45, "blade_count": 5},
		},
		{
			name:      "fenced payload",
			text:      "```json\n{\"topic\": \"robot_arm\", \"vars\": {\"payload\": 22.7}}\n```",
			wantTopic: model.TopicRobotArm,
			wantVars:  model.Variables{"payload": 22.7},
		},
		{
			name:      "uppercase topic is normalized",
			text:      `{"topic": "SOLAR", "vars": {}}`,
			wantTopic: model.TopicSolar,
			wantVars:  model.Variables{},
		},
		{
			name:      "unknown topic degrades to generic",
			text:      `{"topic": "quantum_realm", "vars": {"q": 1}}`,
			wantTopic: model.TopicGeneric,
			wantVars:  model.Variables{"q": 1},
		},
		{
			name:      "malformed json degrades to default",
			text:      `not even close`,
			wantTopic: model.TopicGeneric,
			wantVars:  model.Variables{},
		},
		{
			name:      "missing vars yields empty map",
			text:      `{"topic": "engine"}`,
			wantTopic: model.TopicEngine,
			wantVars:  model.Variables{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseExtraction(tt.text)
			assert.Equal(t, tt.wantTopic, got.Topic)
			assert.Equal(t, tt.wantVars, got.Vars)
			assert.NotNil(t, got.Vars)
		})
	}
}

func TestLLMExtractorExtract(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.System == extractSystemPrompt && len(req.Messages) == 1
	})).Return(textResponse(`{"topic": "wind_turbine", "vars": {"wind_speed": 45}}`), nil).Once()

	e := NewLLMExtractor(client, "test-model", 1024, 0, 0)
	got := e.Extract(context.Background(), "turbine notes")

	assert.Equal(t, model.TopicWindTurbine, got.Topic)
	assert.Equal(t, 45.0, got.Vars["wind_speed"])
	client.AssertExpectations(t)
}

func TestLLMExtractorExtractDegradesOnError(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("api down")).Once()

	e := NewLLMExtractor(client, "test-model", 1024, 0, 0)
	got := e.Extract(context.Background(), "anything")

	assert.Equal(t, model.TopicGeneric, got.Topic)
	assert.Empty(t, got.Vars)
	client.AssertExpectations(t)
}

func TestLLMExtractorExplain(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("  The blades shatter spectacularly.  "), nil).Once()

	e := NewLLMExtractor(client, "test-model", 1024, 0, 0)
	got := e.Explain(context.Background(), model.TopicWindTurbine, model.Variables{"wind_speed": 90}, "over limit")

	assert.Equal(t, "The blades shatter spectacularly.", got)
	client.AssertExpectations(t)
}

func TestLLMExtractorExplainAbsorbsError(t *testing.T) {
	client := &mockClient{}
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("api down")).Once()

	e := NewLLMExtractor(client, "test-model", 1024, 0, 0)
	got := e.Explain(context.Background(), model.TopicRobotArm, nil, "torque")

	assert.Equal(t, "", got)
	client.AssertExpectations(t)
}

func TestLLMExtractorRateLimiterCancellation(t *testing.T) {
	client := &mockClient{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Limited to well under one request and already cancelled: the extractor
	// must degrade without ever reaching the client.
	e := NewLLMExtractor(client, "test-model", 1024, 0.001, 1)
	e.limiter.Allow() // consume the burst token

	got := e.Extract(ctx, "anything")
	assert.Equal(t, model.TopicGeneric, got.Topic)
	client.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}
