package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// toolArguments trims whatever an OpenAI-compatible server wrapped around the
// argument object. Local models behind Ollama sometimes fence it in markdown
// or prefix a sentence.
func toolArguments(s string) (json.RawMessage, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end < start {
		return nil, fmt.Errorf("%w: arguments contain no JSON object", ErrInvalidArguments)
	}

	obj := s[start : end+1]
	if !json.Valid([]byte(obj)) {
		return nil, fmt.Errorf("%w: malformed arguments: %s", ErrInvalidArguments, obj)
	}
	return json.RawMessage(obj), nil
}
