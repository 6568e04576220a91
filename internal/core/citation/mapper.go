package citation

import (
	"fmt"

	"github.com/agenthands/factcheck/internal/core/model"
)

// Map resolves the payload's citation indices into citations, in payload
// order and keeping repeats. Payload confidence is copied onto every
// citation. An index outside the evidence list fails the whole mapping with
// model.ErrMapping; no partial list is returned.
func Map(payload model.VerdictPayload, evidence []model.EvidenceItem) ([]model.Citation, error) {
	citations := make([]model.Citation, 0, len(payload.RelevantCitations))
	for _, idx := range payload.RelevantCitations {
		if idx < 0 || idx >= len(evidence) {
			return nil, fmt.Errorf("%w: index %d outside evidence range [0,%d)", model.ErrMapping, idx, len(evidence))
		}
		e := evidence[idx]
		citations = append(citations, model.Citation{
			Title:      e.Title,
			Snippet:    e.Snippet,
			URL:        e.URL,
			Confidence: payload.Confidence,
		})
	}
	return citations, nil
}
