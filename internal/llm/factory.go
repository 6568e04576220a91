package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/factcheck/internal/config"
)

// NewClient builds the verdict client and the translation client for the
// configured provider. Both share credentials; the translation client uses
// TranslationModel when set.
func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, LLMClient, error) {
	verifier, err := newProviderClient(ctx, cfg, cfg.Model)
	if err != nil {
		return nil, nil, err
	}

	if cfg.TranslationModel == "" || cfg.TranslationModel == cfg.Model {
		return verifier, verifier, nil
	}
	translator, err := newProviderClient(ctx, cfg, cfg.TranslationModel)
	if err != nil {
		return nil, nil, err
	}
	return verifier, translator, nil
}

func newProviderClient(ctx context.Context, cfg config.LLMConfig, model string) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, model, cfg.BaseURL, cfg.MaxTokens), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, model, cfg.MaxTokens)

	case "claude":
		return NewClaudeClient(cfg.APIKey, model, cfg.BaseURL, cfg.MaxTokens), nil

	case "ollama":
		// Ollama speaks the OpenAI protocol, including tools, under /v1.
		return NewOpenAIClient(ollamaKey(cfg.APIKey), model, OllamaBaseURL(cfg.BaseURL), cfg.MaxTokens), nil

	default:
		return nil, fmt.Errorf("%w: unsupported llm provider: %s", config.ErrConfiguration, provider)
	}
}

// OllamaBaseURL normalizes an Ollama host into its OpenAI-compatible root.
func OllamaBaseURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL
	}
	return fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
}

// Ollama ignores the key; a placeholder keeps the Authorization header well formed.
func ollamaKey(apiKey string) string {
	if apiKey == "" {
		return "ollama"
	}
	return apiKey
}
