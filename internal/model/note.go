package model

import "time"

// Note is a persisted study note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Flashcard is a single generated study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// LeaderboardEntry is a saved simulation score.
type LeaderboardEntry struct {
	ID     string    `json:"id"`
	Topic  string    `json:"topic"`
	Score  float64   `json:"score"`
	Config Variables `json:"config"`
}

// CacheEntry is one row of the simulation cache: the trimmed note text and
// the serialized pipeline result it produced.
type CacheEntry struct {
	Prompt    string    `json:"prompt"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"createdAt"`
}
