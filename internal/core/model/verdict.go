package model

// Verdict is the tri-state outcome of a verification.
type Verdict string

const (
	VerdictSupported     Verdict = "Supported"
	VerdictRefuted       Verdict = "Refuted"
	VerdictNotEnoughInfo Verdict = "Not Enough Info"
)

// Verdicts lists every accepted verdict in the order the tool schema declares them.
var Verdicts = []Verdict{VerdictSupported, VerdictRefuted, VerdictNotEnoughInfo}

func (v Verdict) Valid() bool {
	for _, known := range Verdicts {
		if v == known {
			return true
		}
	}
	return false
}

// VerdictPayload matches the arguments of the verify_claim_with_evidence tool call.
type VerdictPayload struct {
	Verdict           Verdict `json:"verdict"`
	Explanation       string  `json:"explanation"`
	Confidence        float64 `json:"confidence"`
	RelevantCitations []int   `json:"relevant_citations"`
}

type Citation struct {
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	URL        string  `json:"url"`
	Confidence float64 `json:"confidence"`
}

// VerificationResult is the response body of the verify-claim endpoint.
type VerificationResult struct {
	Transcript  string     `json:"transcript"`
	Verdict     Verdict    `json:"verdict"`
	Explanation string     `json:"explanation"`
	Confidence  float64    `json:"confidence"`
	Citations   []Citation `json:"citations"`
}
