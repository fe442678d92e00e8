package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Preet37/Loomin/internal/sim"
	"github.com/Preet37/Loomin/internal/store"
	anthropicpkg "github.com/Preet37/Loomin/pkg/anthropic"
)

// env holds the initialized store, clients, and pipeline shared by the
// serve/evaluate/batch commands.
type env struct {
	Store    store.Store
	Pipeline *sim.Pipeline
	Tutor    *sim.Tutor
	LLM      anthropicpkg.Client
}

// Close releases resources held by the environment.
func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initStore selects a backend from config.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}
}

// initEnv sets up the store, the completion client, and the pipeline.
// Callers should defer e.Close().
func initEnv(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	llmClient := anthropicpkg.NewClient(cfg.LLM.Key)
	extractor := sim.NewLLMExtractor(llmClient, cfg.LLM.Model, cfg.LLM.MaxTokens, cfg.LLM.RequestsPerSecond, cfg.LLM.Burst)
	tutor := sim.NewTutor(llmClient, cfg.LLM.TutorModel, cfg.LLM.TutorMaxTokens)

	zap.L().Info("environment initialized",
		zap.String("store_driver", cfg.Store.Driver),
		zap.String("llm_model", cfg.LLM.Model),
	)

	return &env{
		Store:    st,
		Pipeline: sim.New(st, extractor),
		Tutor:    tutor,
		LLM:      llmClient,
	}, nil
}
