package evidence

import (
	"context"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/factcheck/internal/core/model"
	"github.com/agenthands/factcheck/internal/wiki"
)

type Assembler struct {
	Retriever       wiki.Retriever
	ContentMaxChars int
	sanitizer       *bluemonday.Policy
	logger          *zap.Logger
}

func NewAssembler(retriever wiki.Retriever, contentMaxChars int, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{
		Retriever:       retriever,
		ContentMaxChars: contentMaxChars,
		sanitizer:       bluemonday.StrictPolicy(),
		logger:          logger,
	}
}

// Assemble fetches content for the first limit hits concurrently and returns
// evidence indexed 0..n-1 in ranking order. A failed fetch leaves that item's
// content empty; it never fails the group.
func (a *Assembler) Assemble(ctx context.Context, hits []model.SearchHit, language string, limit int) []model.EvidenceItem {
	if limit >= 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	items := make([]model.EvidenceItem, len(hits))
	var g errgroup.Group
	for i, hit := range hits {
		items[i] = model.EvidenceItem{
			Index:   i,
			Title:   hit.Title,
			Snippet: a.StripMarkup(hit.Snippet),
			URL:     a.Retriever.PageURL(hit.PageID, language),
		}

		g.Go(func() error {
			content, err := a.Retriever.FetchContent(ctx, hit.PageID, language)
			if err != nil {
				a.logger.Warn("content fetch failed, using empty content",
					zap.Int64("page_id", hit.PageID),
					zap.Error(err))
				return nil
			}
			items[i].Content = Truncate(content, a.ContentMaxChars)
			return nil
		})
	}
	_ = g.Wait()

	return items
}

// StripMarkup removes every tag from a search snippet and decodes entities.
func (a *Assembler) StripMarkup(s string) string {
	return html.UnescapeString(a.sanitizer.Sanitize(s))
}

// Truncate cuts s to at most max characters without splitting a rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
