package sim

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Preet37/Loomin/internal/model"
	"github.com/Preet37/Loomin/internal/store"
)

// ErrEmptyNote is returned when the note text is missing or whitespace-only.
// There is no sensible default to evaluate, so this surfaces to the caller.
var ErrEmptyNote = eris.New("sim: note text is empty")

// Extractor is the LLM-backed extraction surface the pipeline depends on.
type Extractor interface {
	Extract(ctx context.Context, notes string) model.Extraction
	Explain(ctx context.Context, topic model.Topic, vars model.Variables, reason string) string
}

// Pipeline sequences extraction, classification, evaluation, and caching.
// It is stateless per invocation; the only shared state is the injected
// store, and its cache writes are idempotent.
type Pipeline struct {
	store store.Store
	llm   Extractor
}

// New creates a Pipeline with its dependencies injected. The store is built
// once per process and reused across invocations.
func New(st store.Store, llm Extractor) *Pipeline {
	return &Pipeline{store: st, llm: llm}
}

// Evaluate runs one note through the pipeline.
//
// Fast path: when the direct pattern extractor finds any variable, the note
// is classified and evaluated immediately, skipping the cache and the LLM.
// Otherwise the cache is consulted on the trimmed full text; on a miss the
// LLM extracts, physics evaluates, a failure narrative is fetched
// best-effort, and the result is persisted.
func (p *Pipeline) Evaluate(ctx context.Context, notes string) (*model.PipelineResult, error) {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return nil, ErrEmptyNote
	}

	if direct := ExtractDirect(notes); len(direct) > 0 {
		return p.evaluateDirect(notes, direct), nil
	}

	// The cache key is the full trimmed text, never truncated: truncating
	// conflates distinct notes that share a long common prefix.
	cached, err := p.store.FindSimulation(ctx, trimmed)
	if err != nil {
		zap.L().Warn("pipeline: cache lookup failed, proceeding without cache", zap.Error(err))
	} else if cached != nil {
		zap.L().Debug("pipeline: cache hit", zap.Int("key_len", len(trimmed)))
		return cached, nil
	}

	result := p.evaluateLLM(ctx, notes)

	if err := p.store.SaveSimulation(ctx, trimmed, result); err != nil {
		// Best-effort: a failed cache write must not fail the request.
		zap.L().Warn("pipeline: cache write failed", zap.Error(err))
	}

	return result, nil
}

func (p *Pipeline) evaluateDirect(notes string, vars model.Variables) *model.PipelineResult {
	topic := DetectTopic(notes, vars)
	ensureSceneMode(vars, topic)

	verdict := Evaluate(topic, vars)
	if verdict.Status == model.StatusCriticalFailure {
		verdict.AIExplanation = staticExplanation(topic, vars)
	}

	return &model.PipelineResult{
		Extraction: model.Extraction{Topic: topic, Vars: vars},
		Simulation: verdict,
	}
}

func (p *Pipeline) evaluateLLM(ctx context.Context, notes string) *model.PipelineResult {
	extraction := p.llm.Extract(ctx, notes)
	if extraction.Vars == nil {
		extraction.Vars = model.Variables{}
	}
	ensureSceneMode(extraction.Vars, extraction.Topic)

	verdict := Evaluate(extraction.Topic, extraction.Vars)
	if verdict.Status == model.StatusCriticalFailure {
		verdict.AIExplanation = p.llm.Explain(ctx, extraction.Topic, extraction.Vars, verdict.Message)
	}

	return &model.PipelineResult{
		Extraction: extraction,
		Simulation: verdict,
	}
}
