package localize

import (
	"context"
	"encoding/json"

	"github.com/agenthands/factcheck/internal/llm"
)

type MockLLMClient struct {
	Response string
	Err      error
	Panic    bool

	Calls   int
	LastMsg llm.Message
}

func (m *MockLLMClient) Chat(ctx context.Context, msg llm.Message) (string, error) {
	m.Calls++
	m.LastMsg = msg
	if m.Panic {
		panic("connection reset")
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLMClient) CallTool(ctx context.Context, msg llm.Message, tool llm.Tool) (json.RawMessage, error) {
	return nil, llm.ErrNoToolCall
}
