package synthesis

import (
	"context"
	"encoding/json"

	"github.com/agenthands/factcheck/internal/llm"
)

type MockLLMClient struct {
	Arguments string
	Err       error

	Calls    int
	LastMsg  llm.Message
	LastTool llm.Tool
}

func (m *MockLLMClient) Chat(ctx context.Context, msg llm.Message) (string, error) {
	return "", nil
}

func (m *MockLLMClient) CallTool(ctx context.Context, msg llm.Message, tool llm.Tool) (json.RawMessage, error) {
	m.Calls++
	m.LastMsg = msg
	m.LastTool = tool
	if m.Err != nil {
		return nil, m.Err
	}
	return json.RawMessage(m.Arguments), nil
}
