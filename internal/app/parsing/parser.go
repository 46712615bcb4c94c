package parsing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
	"taskflow/internal/metrics"
)

const (
	ModeSingle     = "single"
	ModeTranscript = "transcript"
)

// Parser turns free text into task candidates through the provider. It holds
// no per-request state and is safe for concurrent use.
type Parser struct {
	generator ports.Generator
	metrics   *metrics.Metrics
}

func NewParser(generator ports.Generator, m *metrics.Metrics) *Parser {
	return &Parser{generator: generator, metrics: m}
}

var _ ports.TaskParser = (*Parser)(nil)

// ParseOne extracts a single task. Relative dates in text are resolved by the
// provider against reference.
func (p *Parser) ParseOne(ctx context.Context, text string, reference time.Time) (domain.TaskCandidate, error) {
	raw, err := p.generator.Generate(ctx, buildSingleTaskPrompt(text, reference))
	if err != nil {
		p.fail(ModeSingle, err, "")
		return domain.TaskCandidate{}, err
	}

	value, err := Normalize(raw)
	if err != nil {
		p.fail(ModeSingle, err, raw)
		return domain.TaskCandidate{}, err
	}

	p.metrics.ObserveParse(ModeSingle, metrics.OutcomeSuccess)
	return ValidateSingle(value, reference), nil
}

// ParseMany extracts every task mentioned in a meeting transcript.
func (p *Parser) ParseMany(ctx context.Context, transcript string) ([]domain.TaskCandidate, error) {
	raw, err := p.generator.Generate(ctx, buildTranscriptPrompt(transcript))
	if err != nil {
		p.fail(ModeTranscript, err, "")
		return nil, err
	}

	value, err := Normalize(raw)
	if err != nil {
		p.fail(ModeTranscript, err, raw)
		return nil, err
	}

	candidates, err := ValidateBatch(value)
	if err != nil {
		p.fail(ModeTranscript, err, raw)
		return nil, err
	}

	p.metrics.ObserveParse(ModeTranscript, metrics.OutcomeSuccess)
	return candidates, nil
}

func (p *Parser) fail(mode string, err error, raw string) {
	kind := domain.KindOf(err)
	p.metrics.ObserveParse(mode, string(kind))
	zap.L().Warn("task parsing failed",
		zap.String("mode", mode),
		zap.String("kind", string(kind)),
		zap.Error(err),
	)
	if raw != "" {
		zap.L().Debug("raw provider response", zap.String("mode", mode), zap.String("raw", raw))
	}
}
