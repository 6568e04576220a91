package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoToolCall is returned when a forced tool call comes back without one.
	ErrNoToolCall       = errors.New("no tool call in response")
	// ErrEmptyResponse is returned when a chat completion carries no content.
	ErrEmptyResponse    = errors.New("empty response")
	// ErrInvalidArguments is returned when tool-call arguments are not a JSON object.
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// StatusError is an upstream failure that carries the HTTP status when known.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm upstream status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// Message is a single system+user exchange. Every call in this service is one turn.
type Message struct {
	System string
	User   string
}

// Tool declares the single callable the model is forced to invoke.
type Tool struct {
	Name        string
	Description string
	Parameters  *Schema
}

// LLMClient is the chat surface shared by every provider.
type LLMClient interface {
	// Chat returns the plain-text reply to msg.
	Chat(ctx context.Context, msg Message) (string, error)
	// CallTool forces the model to call tool and returns the raw JSON arguments.
	CallTool(ctx context.Context, msg Message, tool Tool) (json.RawMessage, error)
}
