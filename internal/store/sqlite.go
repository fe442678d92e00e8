package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Preet37/Loomin/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS simulation_cache (
	id         TEXT PRIMARY KEY,
	prompt     TEXT NOT NULL UNIQUE,
	result     TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS leaderboard (
	id         TEXT PRIMARY KEY,
	topic      TEXT NOT NULL,
	score      REAL NOT NULL,
	config     TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_notes_updated_at ON notes(updated_at);
CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard(score);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) FindSimulation(ctx context.Context, key string) (*model.PipelineResult, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT result FROM simulation_cache WHERE prompt = ?`, key,
	)

	var resultJSON string
	err := row.Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: find simulation")
	}

	var result model.PipelineResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal cached simulation")
	}
	return &result, nil
}

func (s *SQLiteStore) SaveSimulation(ctx context.Context, key string, result *model.PipelineResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal simulation")
	}

	// Concurrent misses for the same unseen text may both reach this insert;
	// the first write wins and the rest are no-ops.
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO simulation_cache (id, prompt, result, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(prompt) DO NOTHING`,
		uuid.New().String(), key, string(resultJSON), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save simulation")
}

func (s *SQLiteStore) ListSimulations(ctx context.Context, limit int) ([]model.CacheEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt, result, created_at FROM simulation_cache ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list simulations")
	}
	defer rows.Close()

	var entries []model.CacheEntry
	for rows.Next() {
		var e model.CacheEntry
		if err := rows.Scan(&e.Prompt, &e.Result, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan cache entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list simulations iterate")
}

func (s *SQLiteStore) ListNotes(ctx context.Context) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list notes")
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan note")
		}
		notes = append(notes, n)
	}
	return notes, eris.Wrap(rows.Err(), "sqlite: list notes iterate")
}

func (s *SQLiteStore) GetNote(ctx context.Context, id string) (*model.Note, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, created_at, updated_at FROM notes WHERE id = ?`, id,
	)

	var n model.Note
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("note not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get note")
	}
	return &n, nil
}

func (s *SQLiteStore) CreateNote(ctx context.Context, title, content string) (*model.Note, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, title, content, now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert note")
	}

	return &model.Note{ID: id, Title: title, Content: content, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *SQLiteStore) UpdateNote(ctx context.Context, id, title, content string) (*model.Note, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		title, content, now, id,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: update note %s", id)
	}
	if err := checkRowsAffected(res, "note", id); err != nil {
		return nil, err
	}
	return s.GetNote(ctx, id)
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete note %s", id)
	}
	return checkRowsAffected(res, "note", id)
}

func (s *SQLiteStore) TopScores(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, score, config FROM leaderboard ORDER BY score DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: top scores")
	}
	defer rows.Close()

	var entries []model.LeaderboardEntry
	for rows.Next() {
		e, err := scanLeaderboardEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: top scores iterate")
}

func (s *SQLiteStore) SaveScore(ctx context.Context, topic string, score float64, config model.Variables) (*model.LeaderboardEntry, error) {
	id := uuid.New().String()
	if config == nil {
		config = model.Variables{}
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal score config")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leaderboard (id, topic, score, config, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, topic, score, string(configJSON), time.Now().UTC(),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert score")
	}

	return &model.LeaderboardEntry{ID: id, Topic: topic, Score: score, Config: config}, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLeaderboardEntry(row scannable) (*model.LeaderboardEntry, error) {
	var e model.LeaderboardEntry
	var configJSON string
	if err := row.Scan(&e.ID, &e.Topic, &e.Score, &configJSON); err != nil {
		return nil, eris.Wrap(err, "scan leaderboard entry")
	}
	if err := json.Unmarshal([]byte(configJSON), &e.Config); err != nil {
		return nil, eris.Wrap(err, "unmarshal score config")
	}
	return &e, nil
}
