package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/agenthands/factcheck/internal/core/model"
	"github.com/agenthands/factcheck/internal/core/prompt"
	"github.com/agenthands/factcheck/internal/llm"
)

type Synthesizer struct {
	LLM     llm.LLMClient
	Prompts *prompt.Catalog
	logger  *zap.Logger
}

func NewSynthesizer(llmClient llm.LLMClient, prompts *prompt.Catalog, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{
		LLM:     llmClient,
		Prompts: prompts,
		logger:  logger,
	}
}

// VerdictTool is the only callable offered to the model. Its parameters are
// exactly the fields of model.VerdictPayload.
func VerdictTool() llm.Tool {
	verdicts := make([]string, len(model.Verdicts))
	for i, v := range model.Verdicts {
		verdicts[i] = string(v)
	}

	return llm.Tool{
		Name:        prompt.ToolName,
		Description: "Verify a claim based on provided evidence and determine if it's Supported, Refuted, or if there's Not Enough Info",
		Parameters: &llm.Schema{
			Type: llm.TypeObject,
			Properties: map[string]*llm.Schema{
				"verdict": {
					Type:        llm.TypeString,
					Enum:        verdicts,
					Description: "The verification verdict",
				},
				"explanation": {
					Type:        llm.TypeString,
					Description: "A clear explanation of why the claim has this verdict, citing specific evidence",
				},
				"confidence": {
					Type:        llm.TypeNumber,
					Description: "Confidence score between 0 and 1",
				},
				"relevant_citations": {
					Type:        llm.TypeArray,
					Items:       &llm.Schema{Type: llm.TypeNumber},
					Description: "Array of indices of the most relevant evidence items (0-based)",
				},
			},
			Required: []string{"verdict", "explanation", "confidence", "relevant_citations"},
		},
	}
}

// Synthesize asks the model for a verdict over evidence. It is not retried;
// any failure is returned wrapped in model.ErrSynthesis.
func (s *Synthesizer) Synthesize(ctx context.Context, claim string, evidence []model.EvidenceItem, language string) (model.VerdictPayload, error) {
	tmpl := s.Prompts.Lookup(language)
	msg := llm.Message{
		System: tmpl.System,
		User:   tmpl.RenderUser(claim, evidence),
	}

	args, err := s.LLM.CallTool(ctx, msg, VerdictTool())
	if err != nil {
		return model.VerdictPayload{}, fmt.Errorf("%w: %w", model.ErrSynthesis, err)
	}

	payload, err := ParsePayload(args)
	if err != nil {
		s.logger.Debug("rejected tool arguments", zap.ByteString("arguments", args))
		return model.VerdictPayload{}, err
	}

	s.logger.Info("verdict synthesized",
		zap.String("verdict", string(payload.Verdict)),
		zap.Float64("confidence", payload.Confidence),
		zap.Ints("relevant_citations", payload.RelevantCitations))
	return payload, nil
}

// rawPayload keeps every field optional so presence can be checked.
type rawPayload struct {
	Verdict           *string   `json:"verdict"`
	Explanation       *string   `json:"explanation"`
	Confidence        *float64  `json:"confidence"`
	RelevantCitations []float64 `json:"relevant_citations"`
}

// ParsePayload validates tool-call arguments against the verdict schema.
// Citation indices must be non-negative integers; range checks against the
// evidence list happen during citation mapping.
func ParsePayload(args json.RawMessage) (model.VerdictPayload, error) {
	if len(bytes.TrimSpace(args)) == 0 {
		return model.VerdictPayload{}, fmt.Errorf("%w: empty tool arguments", model.ErrSynthesis)
	}

	var raw rawPayload
	dec := json.NewDecoder(bytes.NewReader(args))
	if err := dec.Decode(&raw); err != nil {
		return model.VerdictPayload{}, fmt.Errorf("%w: invalid tool arguments: %v", model.ErrSynthesis, err)
	}

	switch {
	case raw.Verdict == nil:
		return model.VerdictPayload{}, fmt.Errorf("%w: missing verdict", model.ErrSynthesis)
	case raw.Explanation == nil:
		return model.VerdictPayload{}, fmt.Errorf("%w: missing explanation", model.ErrSynthesis)
	case raw.Confidence == nil:
		return model.VerdictPayload{}, fmt.Errorf("%w: missing confidence", model.ErrSynthesis)
	case raw.RelevantCitations == nil:
		return model.VerdictPayload{}, fmt.Errorf("%w: missing relevant_citations", model.ErrSynthesis)
	}

	verdict := model.Verdict(*raw.Verdict)
	if !verdict.Valid() {
		return model.VerdictPayload{}, fmt.Errorf("%w: unknown verdict %q", model.ErrSynthesis, *raw.Verdict)
	}

	confidence := *raw.Confidence
	if math.IsNaN(confidence) || confidence < 0 || confidence > 1 {
		return model.VerdictPayload{}, fmt.Errorf("%w: confidence %v outside [0,1]", model.ErrSynthesis, confidence)
	}

	citations := make([]int, len(raw.RelevantCitations))
	for i, c := range raw.RelevantCitations {
		if c < 0 || c != math.Trunc(c) || c > math.MaxInt32 {
			return model.VerdictPayload{}, fmt.Errorf("%w: citation %v is not an evidence index", model.ErrSynthesis, c)
		}
		citations[i] = int(c)
	}

	return model.VerdictPayload{
		Verdict:           verdict,
		Explanation:       *raw.Explanation,
		Confidence:        confidence,
		RelevantCitations: citations,
	}, nil
}
