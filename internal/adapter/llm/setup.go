package llm

import (
	"context"

	"go.uber.org/zap"

	"taskflow/internal/config"
	"taskflow/internal/core/ports"
	"taskflow/internal/metrics"
)

// Setup is the generator built from configuration along with what the
// health report needs to know about it.
type Setup struct {
	Generator ports.Generator
	Provider  ProviderName
	Available bool
}

// NewFromConfig builds the generator for cfg. A provider that cannot be
// constructed yields an Unavailable generator unless cfg.RequireKey is set,
// so task management keeps working without parsing.
func NewFromConfig(ctx context.Context, cfg config.LLMConfig, m *metrics.Metrics) (Setup, error) {
	provider, err := ParseProviderName(cfg.Provider)
	if err != nil {
		return Setup{}, err
	}

	model, err := NewModel(ctx, ProviderConfig{
		Provider: provider,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
	})
	if err != nil {
		if cfg.RequireKey {
			return Setup{}, err
		}
		zap.L().Warn("llm provider unavailable, parsing endpoints will fail",
			zap.String("provider", string(provider)),
			zap.Error(err),
		)
		return Setup{Generator: Unavailable{Reason: err}, Provider: provider}, nil
	}

	return Setup{
		Generator: NewGenerator(model, provider, GeneratorOptions{
			Timeout:      cfg.Timeout,
			MaxRetries:   cfg.MaxRetries,
			RetryBackoff: cfg.RetryBackoff,
			Temperature:  cfg.Temperature,
			Metrics:      m,
		}),
		Provider:  provider,
		Available: true,
	}, nil
}
