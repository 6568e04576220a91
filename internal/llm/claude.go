package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// Anthropic requires max_tokens on every request.
const defaultClaudeMaxTokens = 1024

type ClaudeClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewClaudeClient(apiKey string, model string, baseURL string, maxTokens int) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	if maxTokens <= 0 {
		maxTokens = defaultClaudeMaxTokens
	}

	return &ClaudeClient{
		client:    anthropic.NewClient(apiKey, opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *ClaudeClient) request(msg Message) anthropic.MessagesRequest {
	return anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    msg.System,
		Messages:  []anthropic.Message{anthropic.NewUserTextMessage(msg.User)},
		MaxTokens: c.maxTokens,
	}
}

func (c *ClaudeClient) Chat(ctx context.Context, msg Message) (string, error) {
	resp, err := c.client.CreateMessages(ctx, c.request(msg))
	if err != nil {
		return "", claudeError(err)
	}

	var sb strings.Builder
	for _, content := range resp.Content {
		if content.Type == anthropic.MessagesContentTypeText && content.Text != nil {
			sb.WriteString(*content.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

func (c *ClaudeClient) CallTool(ctx context.Context, msg Message, tool Tool) (json.RawMessage, error) {
	req := c.request(msg)
	req.Tools = []anthropic.ToolDefinition{
		{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.Parameters,
		},
	}
	req.ToolChoice = &anthropic.ToolChoice{Type: "tool", Name: tool.Name}

	resp, err := c.client.CreateMessages(ctx, req)
	if err != nil {
		return nil, claudeError(err)
	}

	for _, content := range resp.Content {
		if content.Type != anthropic.MessagesContentTypeToolUse || content.MessageContentToolUse == nil {
			continue
		}
		if content.MessageContentToolUse.Name != tool.Name {
			return nil, fmt.Errorf("%w: model called %q", ErrNoToolCall, content.MessageContentToolUse.Name)
		}
		return content.MessageContentToolUse.Input, nil
	}
	return nil, ErrNoToolCall
}

// claudeStatus recovers the HTTP status for typed API errors, which the
// client returns without one.
var claudeStatus = map[anthropic.ErrType]int{
	anthropic.ErrTypeInvalidRequest: http.StatusBadRequest,
	anthropic.ErrTypeAuthentication: http.StatusUnauthorized,
	anthropic.ErrTypePermission:     http.StatusForbidden,
	anthropic.ErrTypeNotFound:       http.StatusNotFound,
	anthropic.ErrTypeTooLarge:       http.StatusRequestEntityTooLarge,
	anthropic.ErrTypeRateLimit:      http.StatusTooManyRequests,
	anthropic.ErrTypeApi:            http.StatusInternalServerError,
	anthropic.ErrTypeOverloaded:     529,
}

func claudeError(err error) error {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{StatusCode: reqErr.StatusCode, Err: err}
	}
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		if status, ok := claudeStatus[apiErr.Type]; ok {
			return &StatusError{StatusCode: status, Err: err}
		}
	}
	return err
}
