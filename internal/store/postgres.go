package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Preet37/Loomin/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it,
// which keeps the postgres tests hermetic.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS simulation_cache (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	prompt     TEXT NOT NULL UNIQUE,
	result     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leaderboard (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	topic      TEXT NOT NULL,
	score      DOUBLE PRECISION NOT NULL,
	config     JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at);
CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard(score);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) FindSimulation(ctx context.Context, key string) (*model.PipelineResult, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT result FROM simulation_cache WHERE prompt = $1`, key,
	)

	var resultJSON []byte
	err := row.Scan(&resultJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: find simulation")
	}

	var result model.PipelineResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal cached simulation")
	}
	return &result, nil
}

func (s *PostgresStore) SaveSimulation(ctx context.Context, key string, result *model.PipelineResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal simulation")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO simulation_cache (id, prompt, result, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (prompt) DO NOTHING`,
		uuid.New().String(), key, resultJSON, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save simulation")
}

func (s *PostgresStore) ListSimulations(ctx context.Context, limit int) ([]model.CacheEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx,
		`SELECT prompt, result, created_at FROM simulation_cache ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list simulations")
	}
	defer rows.Close()

	var entries []model.CacheEntry
	for rows.Next() {
		var e model.CacheEntry
		var resultJSON []byte
		if err := rows.Scan(&e.Prompt, &resultJSON, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan cache entry")
		}
		e.Result = string(resultJSON)
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list simulations iterate")
}

func (s *PostgresStore) ListNotes(ctx context.Context) ([]model.Note, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list notes")
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan note")
		}
		notes = append(notes, n)
	}
	return notes, eris.Wrap(rows.Err(), "postgres: list notes iterate")
}

func (s *PostgresStore) GetNote(ctx context.Context, id string) (*model.Note, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes WHERE id = $1`, id,
	)

	var n model.Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("note not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get note")
	}
	return &n, nil
}

func (s *PostgresStore) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO notes (id, title, content, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, title, content, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert note")
	}

	return &model.Note{ID: id, Title: title, Content: content, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *PostgresStore) UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error) {
	now := time.Now().UTC()

	tag, err := s.pool.Exec(ctx,
		`UPDATE notes SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		title, content, now, id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: update note %s", id)
	}
	if tag.RowsAffected() == 0 {
		return nil, eris.Errorf("note not found: %s", id)
	}
	return s.GetNote(ctx, id)
}

func (s *PostgresStore) DeleteNote(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete note %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("note not found: %s", id)
	}
	return nil
}

func (s *PostgresStore) TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, topic, score, config FROM leaderboard ORDER BY score DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: top scores")
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		var configJSON []byte
		if err := rows.Scan(&e.ID, &e.Topic, &e.Score, &configJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan leaderboard entry")
		}
		if err := json.Unmarshal(configJSON, &e.Config); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal score config")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: top scores iterate")
}

func (s *PostgresStore) SaveScore(ctx context.Context, topic string, score float64, config model.Variables) (*model.LeaderboardEntry, error) {
	id := uuid.New().String()
	if config == nil {
		config = model.Variables{}
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal score config")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leaderboard (id, topic, score, config, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, topic, score, configJSON, time.Now().UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert score")
	}

	return &model.LeaderboardEntry{ID: id, Topic: topic, Score: score, Config: config}, nil
}
