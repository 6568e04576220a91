package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/agenthands/factcheck/internal/core/model"
	"github.com/agenthands/factcheck/internal/llm"
)

type MockRetriever struct {
	Hits      []model.SearchHit
	Contents  map[int64]string
	SearchErr error

	mu       sync.Mutex
	Searches int
}

func (m *MockRetriever) Search(ctx context.Context, query, language string, limit int) ([]model.SearchHit, error) {
	m.mu.Lock()
	m.Searches++
	m.mu.Unlock()
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Hits, nil
}

func (m *MockRetriever) FetchContent(ctx context.Context, pageID int64, language string) (string, error) {
	return m.Contents[pageID], nil
}

func (m *MockRetriever) PageURL(pageID int64, language string) string {
	return fmt.Sprintf("https://%s.wikipedia.org/?curid=%d", language, pageID)
}

// MockLLM answers tool calls with Arguments and chats with ChatResponse.
type MockLLM struct {
	Arguments    string
	ToolErr      error
	ChatResponse string
	ChatErr      error

	ToolCalls int
	ChatCalls int
	LastUser  string
}

func (m *MockLLM) Chat(ctx context.Context, msg llm.Message) (string, error) {
	m.ChatCalls++
	if m.ChatErr != nil {
		return "", m.ChatErr
	}
	return m.ChatResponse, nil
}

func (m *MockLLM) CallTool(ctx context.Context, msg llm.Message, tool llm.Tool) (json.RawMessage, error) {
	m.ToolCalls++
	m.LastUser = msg.User
	if m.ToolErr != nil {
		return nil, m.ToolErr
	}
	return json.RawMessage(m.Arguments), nil
}
