// Package transcribe proxies recorded audio to a speech-to-text API.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/agenthands/factcheck/internal/config"
	"github.com/agenthands/factcheck/internal/llm"
)

var ErrNoAudio = errors.New("no audio file provided")

// Transcript is the response body of the transcription endpoint.
type Transcript struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (*Transcript, error)
}

type WhisperClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewWhisperClient(cfg config.TranscriptionConfig, logger *zap.Logger) *WhisperClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: logger,
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, filename string, audio io.Reader, language string) (*Transcript, error) {
	if audio == nil {
		return nil, ErrNoAudio
	}
	if filename == "" {
		filename = "audio.webm"
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: filename,
		Reader:   audio,
		Language: language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("transcription failed: %w", &llm.StatusError{StatusCode: apiErr.HTTPStatusCode, Err: err})
		}
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	c.logger.Info("transcription successful", zap.String("text", preview(resp.Text, 100)))
	return &Transcript{Text: resp.Text, Language: language}, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
