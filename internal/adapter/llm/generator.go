package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
	"taskflow/internal/metrics"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 2
	DefaultRetryBackoff = 500 * time.Millisecond
	DefaultTemperature  = 0.1

	maxRetryBackoff = 5 * time.Second
	maxRetries      = 10
)

var (
	errEmptyResponse   = errors.New("empty response from provider")
	errBlockedResponse = errors.New("response blocked by provider")
)

// Substrings of provider errors worth another attempt.
var transientMarkers = []string{
	"429", "500", "502", "503", "504",
	"rate limit", "too many requests", "resource exhausted", "resource_exhausted",
	"unavailable", "overloaded", "connection reset", "connection refused", "eof", "timeout",
}

var blockedStopReasons = []string{"safety", "content_filter", "blocklist", "prohibited_content", "recitation"}

type GeneratorOptions struct {
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	Temperature  float64
	Metrics      *metrics.Metrics
}

// Generator calls a langchaingo model with a bounded timeout and a bounded
// number of retries for transient failures. Every failure it returns wraps
// domain.ErrProvider.
type Generator struct {
	model    llms.Model
	provider string
	opts     GeneratorOptions
}

var _ ports.Generator = (*Generator)(nil)

func NewGenerator(model llms.Model, provider ProviderName, opts GeneratorOptions) *Generator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxRetries < 0 || opts.MaxRetries > maxRetries {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = DefaultRetryBackoff
	}
	return &Generator{model: model, provider: string(provider), opts: opts}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()

	start := time.Now()
	text, err := g.generateWithRetry(ctx, prompt)
	g.opts.Metrics.ObserveProvider(g.provider, time.Since(start), err)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", fmt.Errorf("%w: %s: %w", domain.ErrProvider, g.provider, err)
	}
	return text, nil
}

func (g *Generator) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	backoff := retry.WithMaxRetries(
		uint64(g.opts.MaxRetries), // #nosec G115 -- bounded in NewGenerator
		retry.WithCappedDuration(maxRetryBackoff, retry.NewExponential(g.opts.RetryBackoff)),
	)

	messages := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)}
	attempt := 0

	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		resp, err := g.model.GenerateContent(ctx, messages, llms.WithTemperature(g.opts.Temperature))
		if err != nil {
			if isTransient(ctx, err) {
				zap.L().Warn("transient provider failure",
					zap.String("provider", g.provider),
					zap.Int("attempt", attempt),
					zap.Error(err),
				)
				return retry.RetryableError(err)
			}
			return err
		}

		content, err := contentOf(resp)
		if err != nil {
			return err
		}
		text = content
		return nil
	})
	return text, err
}

func contentOf(resp *llms.ContentResponse) (string, error) {
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", errEmptyResponse
	}

	choice := resp.Choices[0]
	reason := strings.ToLower(choice.StopReason)
	for _, blocked := range blockedStopReasons {
		if reason == blocked {
			return "", fmt.Errorf("%w: %s", errBlockedResponse, choice.StopReason)
		}
	}
	if strings.TrimSpace(choice.Content) == "" {
		return "", errEmptyResponse
	}
	return choice.Content, nil
}

func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Unavailable is a Generator for a provider that could not be built at
// startup. Every call fails with domain.ErrProvider.
type Unavailable struct {
	Reason error
}

var _ ports.Generator = Unavailable{}

func (u Unavailable) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: provider unavailable: %w", domain.ErrProvider, u.Reason)
}
