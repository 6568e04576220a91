package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/agenthands/factcheck/internal/core/model"
	"github.com/agenthands/factcheck/internal/llm"
	"github.com/agenthands/factcheck/internal/transcribe"
)

type MockRetriever struct {
	Hits      []model.SearchHit
	Contents  map[int64]string
	SearchErr error
}

func (m *MockRetriever) Search(ctx context.Context, query, language string, limit int) ([]model.SearchHit, error) {
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

type MockLLM struct {
	Arguments string
	ToolErr   error
}

func (m *MockLLM) Chat(ctx context.Context, msg llm.Message) (string, error) {
	return "", nil
}

func (m *MockLLM) CallTool(ctx context.Context, msg llm.Message, tool llm.Tool) (json.RawMessage, error) {
	if m.ToolErr != nil {
		return nil, m.ToolErr
	}
	return json.RawMessage(m.Arguments), nil
}

type MockTranscriber struct {
	Text string
	Err  error

	Filename string
	Language string
	Audio    []byte
}

func (m *MockTranscriber) Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (*transcribe.Transcript, error) {
	m.Filename = filename
	m.Language = language
	m.Audio, _ = io.ReadAll(audio)
	if m.Err != nil {
		return nil, m.Err
	}
	return &transcribe.Transcript{Text: m.Text, Language: language}, nil
}
