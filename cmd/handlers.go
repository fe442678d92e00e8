package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/Preet37/Loomin/internal/model"
	"github.com/Preet37/Loomin/internal/sim"
	"github.com/Preet37/Loomin/internal/store"
	anthropicpkg "github.com/Preet37/Loomin/pkg/anthropic"
)

// evaluator and asker are the surfaces the handlers need from the pipeline
// and tutor, kept narrow so tests can stub them.
type evaluator interface {
	Evaluate(ctx context.Context, notes string) (*model.PipelineResult, error)
}

type asker interface {
	Ask(ctx context.Context, prompt, noteContext string) string
}

type server struct {
	pipeline   evaluator
	tutor      asker
	store      store.Store
	llm        anthropicpkg.Client
	flashModel string
}

func (s *server) router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/extract", s.handleExtract)
	r.Get("/api/notes", s.handleListNotes)
	r.Post("/api/notes", s.handleSaveNote)
	r.Delete("/api/notes", s.handleDeleteNote)
	r.Get("/api/notes/{id}/html", s.handleNoteHTML)
	r.Post("/api/ask", s.handleAsk)
	r.Post("/api/flashcards", s.handleFlashcards)
	r.Get("/api/leaderboard", s.handleLeaderboard)
	r.Post("/api/leaderboard", s.handleSaveScore)

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.pipeline.Evaluate(r.Context(), req.Notes)
	if err != nil {
		if errors.Is(err, sim.ErrEmptyNote) {
			writeError(w, http.StatusBadRequest, "notes is required")
			return
		}
		zap.L().Error("extract failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListNotes(r.Context())
	if err != nil {
		zap.L().Error("list notes failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

func (s *server) handleSaveNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var note *model.Note
	var err error
	if req.ID != "" {
		title := req.Title
		if title == "" {
			title = "Untitled Note"
		}
		note, err = s.store.UpdateNote(r.Context(), req.ID, title, req.Content)
	} else {
		title := req.Title
		if title == "" {
			title = "New Physics Note"
		}
		note, err = s.store.CreateNote(r.Context(), title, req.Content)
	}
	if err != nil {
		zap.L().Error("save note failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save note")
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (s *server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := s.store.DeleteNote(r.Context(), req.ID); err != nil {
		zap.L().Error("delete note failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *server) handleNoteHTML(w http.ResponseWriter, r *http.Request) {
	note, err := s.store.GetNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(note.Content), &buf); err != nil {
		zap.L().Error("render note failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render note")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (s *server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt  string `json:"prompt"`
		Context string `json:"context"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	result := s.tutor.Ask(r.Context(), req.Prompt, req.Context)
	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

func (s *server) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Notes == "" {
		writeError(w, http.StatusBadRequest, "notes is required")
		return
	}

	cards := sim.GenerateFlashcards(r.Context(), s.llm, s.flashModel, req.Notes, req.Count)
	writeJSON(w, http.StatusOK, map[string][]model.Flashcard{"cards": cards})
}

func (s *server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.TopScores(r.Context(), 10)
	if err != nil {
		zap.L().Error("leaderboard failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch leaderboard")
		return
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *server) handleSaveScore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic  string          `json:"topic"`
		Score  float64         `json:"score"`
		Config model.Variables `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	entry, err := s.store.SaveScore(r.Context(), req.Topic, req.Score, req.Config)
	if err != nil {
		zap.L().Error("save score failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save score")
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
