// Package pipeline composes the generation stages into the staged
// system-prompt pipeline: context, skeleton, complex tagging, population,
// enrichment, and formalization. Each stage runs under a bounded retry
// controller and feedback loop; the pipeline itself is pure sequencing and
// holds no retry state.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/sunfoxy2k/antechamber/block"
	"github.com/sunfoxy2k/antechamber/llm"
	"github.com/sunfoxy2k/antechamber/metrics"
	"github.com/sunfoxy2k/antechamber/validation"
)

// Generator is the external text-generation capability the pipeline
// consumes. *llm.Client satisfies it.
type Generator interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// ModelConfig enumerates the recognized generation options. Each is
// independently optional; zero values defer to provider defaults.
type ModelConfig struct {
	Model           string
	Temperature     *float64
	MaxTokens       int
	ReasoningEffort string
	Verbosity       string
}

// StageIterations bounds the feedback loop per stage.
type StageIterations struct {
	Context   int
	Skeleton  int
	Complex   int
	Populate  int
	Enrich    int
	Formalize int
}

// DefaultStageIterations returns the reference iteration bounds.
func DefaultStageIterations() StageIterations {
	return StageIterations{
		Context:   10,
		Skeleton:  5,
		Complex:   5,
		Populate:  5,
		Enrich:    3,
		Formalize: 5,
	}
}

// Pipeline sequences the generation stages. Construct one per run; it holds
// no mutable cross-run state, so independent runs may execute concurrently
// as long as each owns its own Pipeline (the Store is read-only and safe to
// share).
type Pipeline struct {
	gen        Generator
	store      *block.Store
	model      ModelConfig
	valOpts    validation.Options
	retry      RetryConfig
	iterations StageIterations
	critic     Critic
	notifier   Notifier
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithModel sets the generation options sent with every request.
func WithModel(model ModelConfig) Option {
	return func(p *Pipeline) { p.model = model }
}

// WithValidationOptions overrides the structural validation thresholds.
func WithValidationOptions(opts validation.Options) Option {
	return func(p *Pipeline) { p.valOpts = opts }
}

// WithRetryConfig overrides the inner retry bounds.
func WithRetryConfig(cfg RetryConfig) Option {
	return func(p *Pipeline) { p.retry = cfg }
}

// WithStageIterations overrides the per-stage feedback-loop bounds.
func WithStageIterations(it StageIterations) Option {
	return func(p *Pipeline) { p.iterations = it }
}

// WithCritic enables interactive mode with the given critique source.
func WithCritic(c Critic) Option {
	return func(p *Pipeline) { p.critic = c }
}

// WithNotifier sets the completion notifier used in interactive mode.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a pipeline over the given generator and definition store.
func New(gen Generator, store *block.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		gen:        gen,
		store:      store,
		valOpts:    validation.DefaultOptions(),
		retry:      DefaultRetryConfig(),
		iterations: DefaultStageIterations(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// loop builds a feedback-loop controller bounded to maxIterations.
func (p *Pipeline) loop(maxIterations int) *Loop {
	return NewLoop(
		LoopConfig{MaxIterations: maxIterations, Retry: p.retry},
		p.critic, p.notifier, p.logger, p.metrics,
	)
}

// complete sends one system/user message pair to the generator.
func (p *Pipeline) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.gen.Complete(ctx, llm.Request{
		Model: p.model.Model,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:     p.model.Temperature,
		MaxTokens:       p.model.MaxTokens,
		ReasoningEffort: p.model.ReasoningEffort,
		Verbosity:       p.model.Verbosity,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
