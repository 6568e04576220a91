package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/factcheck/internal/config"
	"github.com/agenthands/factcheck/internal/core/citation"
	"github.com/agenthands/factcheck/internal/core/evidence"
	"github.com/agenthands/factcheck/internal/core/localize"
	"github.com/agenthands/factcheck/internal/core/model"
	"github.com/agenthands/factcheck/internal/core/prompt"
	"github.com/agenthands/factcheck/internal/core/synthesis"
	"github.com/agenthands/factcheck/internal/llm"
	"github.com/agenthands/factcheck/internal/metrics"
	"github.com/agenthands/factcheck/internal/wiki"
)

var (
	// ErrEmptyClaim is returned for a blank claim before any upstream call.
	ErrEmptyClaim      = errors.New("no claim provided")
	// ErrInvalidLanguage is returned for a language code that is not lowercase letters.
	ErrInvalidLanguage = errors.New("invalid language")
)

// Verifier runs the claim pipeline: search, assemble, synthesize, localize,
// map citations. It holds no per-request state.
type Verifier struct {
	Retriever   wiki.Retriever
	Assembler   *evidence.Assembler
	Synthesizer *synthesis.Synthesizer
	Localizer   *localize.Localizer
	Prompts     *prompt.Catalog
	SearchLimit int

	Metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewVerifier wires the pipeline stages. verifierLLM serves the forced tool
// call and translatorLLM the explanation translation.
func NewVerifier(retriever wiki.Retriever, verifierLLM, translatorLLM llm.LLMClient, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*Verifier, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := prompt.NewCatalog(cfg.Pipeline.DefaultLanguage, cfg.Prompts)
	if err != nil {
		return nil, err
	}

	return &Verifier{
		Retriever:   retriever,
		Assembler:   evidence.NewAssembler(retriever, cfg.Pipeline.ContentMaxChars, logger),
		Synthesizer: synthesis.NewSynthesizer(verifierLLM, catalog, logger),
		Localizer:   localize.NewLocalizer(translatorLLM, catalog, logger),
		Prompts:     catalog,
		SearchLimit: cfg.Pipeline.SearchLimit,
		Metrics:     m,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Verify checks claim against encyclopedia evidence. An empty language selects
// the default. Errors wrap model.ErrRetrieval, model.ErrSynthesis or
// model.ErrMapping; translation failures are absorbed.
func (v *Verifier) Verify(ctx context.Context, claim model.Claim) (*model.VerificationResult, error) {
	if strings.TrimSpace(claim.Text) == "" {
		return nil, ErrEmptyClaim
	}
	language := claim.Language
	if language == "" {
		language = v.Prompts.DefaultLanguage()
	}
	if !model.ValidLanguage(language) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}

	log := v.logger.With(zap.String("language", language))
	log.Info("verifying claim", zap.String("claim", claim.Text))

	start := v.now()
	hits, err := v.Retriever.Search(ctx, claim.Text, language, v.SearchLimit)
	v.Metrics.ObserveStage(metrics.StageSearch, v.now().Sub(start))
	if err != nil {
		log.Error("search failed", zap.Error(err))
		return nil, fmt.Errorf("search: %w", err)
	}
	log.Info("search complete", zap.Int("hits", len(hits)))

	start = v.now()
	items := v.Assembler.Assemble(ctx, hits, language, v.SearchLimit)
	v.Metrics.ObserveStage(metrics.StageAssemble, v.now().Sub(start))
	v.Metrics.ObserveEvidence(len(items))
	log.Debug("evidence assembled", zap.Int("items", len(items)))

	start = v.now()
	payload, err := v.Synthesizer.Synthesize(ctx, claim.Text, items, language)
	v.Metrics.ObserveStage(metrics.StageSynthesize, v.now().Sub(start))
	if err != nil {
		log.Error("synthesis failed", zap.Error(err))
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	if v.Localizer.Applies(language) {
		start = v.now()
		var fellBack bool
		payload, fellBack = v.Localizer.Localize(ctx, payload, language)
		v.Metrics.ObserveStage(metrics.StageLocalize, v.now().Sub(start))
		if fellBack {
			v.Metrics.CountTranslationFallback(language)
		}
	}

	start = v.now()
	citations, err := citation.Map(payload, items)
	v.Metrics.ObserveStage(metrics.StageMap, v.now().Sub(start))
	if err != nil {
		log.Error("citation mapping failed",
			zap.Ints("relevant_citations", payload.RelevantCitations),
			zap.Int("evidence", len(items)),
			zap.Error(err))
		return nil, err
	}

	v.Metrics.CountVerdict(string(payload.Verdict), language)
	return &model.VerificationResult{
		Transcript:  claim.Text,
		Verdict:     payload.Verdict,
		Explanation: payload.Explanation,
		Confidence:  payload.Confidence,
		Citations:   citations,
	}, nil
}
