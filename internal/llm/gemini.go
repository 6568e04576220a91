package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

func NewGeminiClient(ctx context.Context, apiKey string, model string, maxTokens int) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client:    client,
		model:     model,
		maxTokens: int32(maxTokens),
	}, nil
}

func (c *GeminiClient) generativeModel(msg Message) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(msg.System))
	if c.maxTokens > 0 {
		model.SetMaxOutputTokens(c.maxTokens)
	}
	return model
}

func (c *GeminiClient) Chat(ctx context.Context, msg Message) (string, error) {
	resp, err := c.generativeModel(msg).GenerateContent(ctx, genai.Text(msg.User))
	if err != nil {
		return "", geminiError(err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}

func (c *GeminiClient) CallTool(ctx context.Context, msg Message, tool Tool) (json.RawMessage, error) {
	model := c.generativeModel(msg)
	forceTool(model, tool)

	resp, err := model.GenerateContent(ctx, genai.Text(msg.User))
	if err != nil {
		return nil, geminiError(err)
	}
	return functionCallArgs(resp, tool.Name)
}

// forceTool declares tool as the only callable function and requires a call.
func forceTool(model *genai.GenerativeModel, tool Tool) {
	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        tool.Name,
					Description: tool.Description,
					Parameters:  toGenaiSchema(tool.Parameters),
				},
			},
		},
	}
	model.ToolConfig = &genai.ToolConfig{
		FunctionCallingConfig: &genai.FunctionCallingConfig{
			Mode:                 genai.FunctionCallingAny,
			AllowedFunctionNames: []string{tool.Name},
		},
	}
}

func functionCallArgs(resp *genai.GenerateContentResponse, name string) (json.RawMessage, error) {
	if resp == nil {
		return nil, ErrNoToolCall
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			fc, ok := part.(genai.FunctionCall)
			if !ok {
				continue
			}
			if fc.Name != name {
				return nil, fmt.Errorf("%w: model called %q", ErrNoToolCall, fc.Name)
			}
			return json.Marshal(fc.Args)
		}
	}
	return nil, ErrNoToolCall
}

func geminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &StatusError{StatusCode: apiErr.Code, Err: err}
	}
	return err
}

var genaiTypes = map[string]genai.Type{
	TypeObject:  genai.TypeObject,
	TypeString:  genai.TypeString,
	TypeNumber:  genai.TypeNumber,
	TypeInteger: genai.TypeInteger,
	TypeArray:   genai.TypeArray,
	TypeBoolean: genai.TypeBoolean,
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
