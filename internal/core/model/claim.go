package model

// Claim is the statement submitted for checking together with its language code.
type Claim struct {
	Text     string `json:"claim"`
	Language string `json:"language"`
}

// SearchHit is one ranked result from the encyclopedia full-text search.
// Snippet is raw and may contain markup.
type SearchHit struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	PageID  int64  `json:"pageid"`
	Rank    int    `json:"rank"`
}

// EvidenceItem is retrieved reference text with provenance. Index is the
// 0-based position in ranking order and is the only linkage the verdict
// payload has back to evidence.
type EvidenceItem struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Content string `json:"content"`
	URL     string `json:"url"`
}
