package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// ErrConfiguration is returned when a required credential or endpoint is
// missing or malformed. The server must not start when it is returned.
var ErrConfiguration = errors.New("configuration error")

type ServerConfig struct {
	Port                  string `toml:"port" validate:"required,numeric"`
	ReadTimeoutSeconds    int    `toml:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds   int    `toml:"write_timeout_seconds" validate:"gte=0"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds" validate:"gte=0"`
}

type LLMConfig struct {
	Provider         string `toml:"provider" validate:"required,oneof=openai gemini claude ollama"`
	Model            string `toml:"model" validate:"required"`
	TranslationModel string `toml:"translation_model"`
	APIKey           string `toml:"api_key" validate:"required_unless=Provider ollama"`
	BaseURL          string `toml:"base_url" validate:"omitempty,url"`
	MaxTokens        int    `toml:"max_tokens" validate:"gte=0"`
}

type TranscriptionConfig struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key" validate:"required_if=Enabled true"`
	BaseURL string `toml:"base_url" validate:"omitempty,url"`
	Model   string `toml:"model"`
}

type WikipediaConfig struct {
	// Endpoint and PageURL may contain {lang}; PageURL also takes {id}.
	Endpoint          string  `toml:"endpoint" validate:"required"`
	PageURL           string  `toml:"page_url" validate:"required"`
	UserAgent         string  `toml:"user_agent"`
	TimeoutSeconds    int     `toml:"timeout_seconds" validate:"gt=0"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gte=0"`
	Burst             int     `toml:"burst" validate:"gte=1"`
	MaxIdleConns      int     `toml:"max_idle_conns" validate:"gte=0"`
}

type PipelineConfig struct {
	DefaultLanguage string `toml:"default_language" validate:"required"`
	SearchLimit     int    `toml:"search_limit" validate:"min=1,max=5"`
	ContentMaxChars int    `toml:"content_max_chars" validate:"gt=0"`
}

// PromptConfig overrides or adds one language entry of the prompt catalog.
// Empty fields keep the built-in text.
type PromptConfig struct {
	System      string `toml:"system"`
	User        string `toml:"user"`
	URLLabel    string `toml:"url_label"`
	Translation string `toml:"translation"`
}

type Config struct {
	Server        ServerConfig            `toml:"server"`
	LLM           LLMConfig               `toml:"llm"`
	Transcription TranscriptionConfig     `toml:"transcription"`
	Wikipedia     WikipediaConfig         `toml:"wikipedia"`
	Pipeline      PipelineConfig          `toml:"pipeline"`
	Prompts       map[string]PromptConfig `toml:"prompts"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                  "8080",
			ReadTimeoutSeconds:    30,
			WriteTimeoutSeconds:   90,
			RequestTimeoutSeconds: 60,
		},
		LLM: LLMConfig{
			Provider:         "openai",
			Model:            "gpt-4o",
			TranslationModel: "gpt-4o-mini",
			MaxTokens:        1024,
		},
		Transcription: TranscriptionConfig{
			Enabled: true,
			Model:   "whisper-1",
		},
		Wikipedia: WikipediaConfig{
			Endpoint:          "https://{lang}.wikipedia.org/w/api.php",
			PageURL:           "https://{lang}.wikipedia.org/?curid={id}",
			UserAgent:         "factcheck/1.0 (https://github.com/agenthands/factcheck)",
			TimeoutSeconds:    10,
			RequestsPerSecond: 20,
			Burst:             10,
			MaxIdleConns:      16,
		},
		Pipeline: PipelineConfig{
			DefaultLanguage: "en",
			SearchLimit:     3,
			ContentMaxChars: 1000,
		},
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default value.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// ApplyEnv overrides file values with environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"PORT", &c.Server.Port},
		{"LLM_PROVIDER", &c.LLM.Provider},
		{"LLM_MODEL", &c.LLM.Model},
		{"LLM_TRANSLATION_MODEL", &c.LLM.TranslationModel},
		{"LLM_API_KEY", &c.LLM.APIKey},
		{"LLM_BASE_URL", &c.LLM.BaseURL},
		{"OPENAI_API_KEY", &c.Transcription.APIKey},
		{"WIKIPEDIA_ENDPOINT", &c.Wikipedia.Endpoint},
	}
	for _, s := range strs {
		if v := getenv(s.key); v != "" {
			*s.dst = v
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"SEARCH_LIMIT", &c.Pipeline.SearchLimit},
		{"CONTENT_MAX_CHARS", &c.Pipeline.ContentMaxChars},
	}
	for _, s := range ints {
		v := getenv(s.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer, got %q", ErrConfiguration, s.key, v)
		}
		*s.dst = n
	}

	return nil
}

// Validate checks required credentials and policy bounds.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}
