package localize

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/factcheck/internal/core/model"
	"github.com/agenthands/factcheck/internal/core/prompt"
	"github.com/agenthands/factcheck/internal/llm"
)

// Translation is the outcome of one translation attempt. Err is nil only
// when Text holds a usable translation.
type Translation struct {
	Text string
	Err  error
}

func (t Translation) OK() bool { return t.Err == nil }

// Or returns the translated text, or fallback when the attempt failed.
func (t Translation) Or(fallback string) string {
	if t.OK() {
		return t.Text
	}
	return fallback
}

type Localizer struct {
	LLM     llm.LLMClient
	Prompts *prompt.Catalog
	logger  *zap.Logger
}

func NewLocalizer(llmClient llm.LLMClient, prompts *prompt.Catalog, logger *zap.Logger) *Localizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Localizer{
		LLM:     llmClient,
		Prompts: prompts,
		logger:  logger,
	}
}

// Applies reports whether explanations in language get translated.
func (l *Localizer) Applies(language string) bool {
	_, ok := l.Prompts.TranslationPrompt(language)
	return ok
}

// Localize replaces the explanation with its translation into language. Any
// translation failure keeps the original explanation and is reported through
// the second return value, never as an error.
func (l *Localizer) Localize(ctx context.Context, payload model.VerdictPayload, language string) (model.VerdictPayload, bool) {
	system, ok := l.Prompts.TranslationPrompt(language)
	if !ok || strings.TrimSpace(payload.Explanation) == "" {
		return payload, false
	}

	t := l.Translate(ctx, system, payload.Explanation)
	if !t.OK() {
		l.logger.Warn("explanation translation failed, keeping original",
			zap.String("language", language),
			zap.Error(t.Err))
	}
	payload.Explanation = t.Or(payload.Explanation)
	return payload, !t.OK()
}

// Translate runs the plain-chat translation call and captures every failure,
// including panics from the client, in the returned Translation.
func (l *Localizer) Translate(ctx context.Context, system, text string) (t Translation) {
	defer func() {
		if r := recover(); r != nil {
			t = Translation{Err: fmt.Errorf("%w: panic: %v", model.ErrLocalization, r)}
		}
	}()

	out, err := l.LLM.Chat(ctx, llm.Message{System: system, User: text})
	if err != nil {
		return Translation{Err: fmt.Errorf("%w: %w", model.ErrLocalization, err)}
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return Translation{Err: fmt.Errorf("%w: %w", model.ErrLocalization, llm.ErrEmptyResponse)}
	}
	return Translation{Text: out}
}
