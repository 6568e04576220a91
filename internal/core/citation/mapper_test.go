package citation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/factcheck/internal/core/model"
)

func evidence(n int) []model.EvidenceItem {
	out := make([]model.EvidenceItem, n)
	for i := range out {
		out[i] = model.EvidenceItem{
			Index:   i,
			Title:   fmt.Sprintf("Title %d", i),
			Snippet: fmt.Sprintf("Snippet %d", i),
			Content: fmt.Sprintf("Content %d", i),
			URL:     fmt.Sprintf("https://en.wikipedia.org/?curid=%d", i),
		}
	}
	return out
}

func TestMapPreservesOrderAndBroadcastsConfidence(t *testing.T) {
	ev := evidence(3)
	payload := model.VerdictPayload{Confidence: 0.73, RelevantCitations: []int{2, 0, 2}}

	got, err := Map(payload, ev)

	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, idx := range payload.RelevantCitations {
		assert.Equal(t, model.Citation{
			Title:      ev[idx].Title,
			Snippet:    ev[idx].Snippet,
			URL:        ev[idx].URL,
			Confidence: 0.73,
		}, got[i])
	}
}

func TestMapEmpty(t *testing.T) {
	got, err := Map(model.VerdictPayload{Confidence: 0.1, RelevantCitations: []int{}}, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMapRejectsOutOfRange(t *testing.T) {
	for _, bad := range []int{3, -1, 100} {
		t.Run(fmt.Sprint(bad), func(t *testing.T) {
			payload := model.VerdictPayload{Confidence: 0.9, RelevantCitations: []int{0, bad}}
			got, err := Map(payload, evidence(3))

			assert.ErrorIs(t, err, model.ErrMapping)
			assert.Nil(t, got)
		})
	}

	_, err := Map(model.VerdictPayload{RelevantCitations: []int{0}}, nil)
	assert.ErrorIs(t, err, model.ErrMapping)
}
