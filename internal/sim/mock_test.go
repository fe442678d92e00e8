package sim

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Preet37/Loomin/internal/model"
	"github.com/Preet37/Loomin/pkg/anthropic"
)

// --- Completion client mock ---

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 20},
	}
}

// --- Extractor mock ---

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, notes string) model.Extraction {
	args := m.Called(ctx, notes)
	return args.Get(0).(model.Extraction)
}

func (m *mockExtractor) Explain(ctx context.Context, topic model.Topic, vars model.Variables, reason string) string {
	args := m.Called(ctx, topic, vars, reason)
	return args.String(0)
}

// --- Store mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindSimulation(ctx context.Context, key string) (*model.PipelineResult, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PipelineResult), args.Error(1)
}

func (m *mockStore) SaveSimulation(ctx context.Context, key string, result *model.PipelineResult) error {
	args := m.Called(ctx, key, result)
	return args.Error(0)
}

func (m *mockStore) ListSimulations(ctx context.Context, limit int) ([]model.CacheEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CacheEntry), args.Error(1)
}

func (m *mockStore) ListNotes(ctx context.Context) ([]model.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Note), args.Error(1)
}

func (m *mockStore) GetNote(ctx context.Context, id string) (*model.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *mockStore) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	args := m.Called(ctx, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *mockStore) UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error) {
	args := m.Called(ctx, id, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Note), args.Error(1)
}

func (m *mockStore) DeleteNote(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockStore) TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}

func (m *mockStore) SaveScore(ctx context.Context, topic string, score float64, config model.Variables) (*model.LeaderboardEntry, error) {
	args := m.Called(ctx, topic, score, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeaderboardEntry), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
