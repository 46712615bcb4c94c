package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

type ProviderName string

const (
	ProviderGoogleAI ProviderName = "googleai"
	ProviderOpenAI   ProviderName = "openai"
	ProviderOllama   ProviderName = "ollama"
)

var ErrMissingAPIKey = errors.New("llm api key is not set")

// ProviderConfig selects and configures the text generation backend.
type ProviderConfig struct {
	Provider ProviderName
	Model    string
	APIKey   string
	BaseURL  string
}

func DefaultModel(provider ProviderName) string {
	switch provider {
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderOllama:
		return "llama3.1"
	default:
		return "gemini-2.0-flash-001"
	}
}

func ParseProviderName(value string) (ProviderName, error) {
	switch name := ProviderName(strings.ToLower(strings.TrimSpace(value))); name {
	case ProviderGoogleAI, ProviderOpenAI, ProviderOllama:
		return name, nil
	case "gemini", "google":
		return ProviderGoogleAI, nil
	default:
		return "", fmt.Errorf("unsupported llm provider: %q", value)
	}
}

// RequiresAPIKey reports whether the provider refuses to work without a key.
func (p ProviderName) RequiresAPIKey() bool {
	return p != ProviderOllama
}

// NewModel builds the langchaingo model for the configured provider.
func NewModel(ctx context.Context, cfg ProviderConfig) (llms.Model, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Provider)
	}
	if cfg.Provider.RequiresAPIKey() && cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingAPIKey, cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderGoogleAI:
		if cfg.BaseURL != "" {
			return nil, fmt.Errorf("googleai does not support a custom base url")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(model),
		)
	case ProviderOpenAI:
		opts := []openai.Option{
			openai.WithModel(model),
			openai.WithToken(cfg.APIKey),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	case ProviderOllama:
		opts := []ollama.Option{ollama.WithModel(model)}
		if cfg.BaseURL != "" {
			opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
		}
		return ollama.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}
