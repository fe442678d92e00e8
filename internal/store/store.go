// Package store defines the persistence interface for the simulation
// service and its SQLite and Postgres implementations.
package store

import (
	"context"

	"github.com/Preet37/Loomin/internal/model"
)

// Store is the persistence interface injected into the pipeline and the
// HTTP layer. The simulation cache is keyed by the exact trimmed note text:
// one row per unique key, written once, never expired (any edit changes the
// key, so stale entries are unreachable rather than invalid).
type Store interface {
	// Simulation cache
	FindSimulation(ctx context.Context, key string) (*model.PipelineResult, error)
	SaveSimulation(ctx context.Context, key string, result *model.PipelineResult) error
	ListSimulations(ctx context.Context, limit int) ([]model.CacheEntry, error)

	// Notes
	ListNotes(ctx context.Context) ([]model.Note, error)
	GetNote(ctx context.Context, id string) (*model.Note, error)
	CreateNote(ctx context.Context, title, content string) (*model.Note, error)
	UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error)
	DeleteNote(ctx context.Context, id string) error

	// Leaderboard
	TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	SaveScore(ctx context.Context, topic string, score float64, config model.Variables) (*model.LeaderboardEntry, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
