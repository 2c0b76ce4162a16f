package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sunfoxy2k/antechamber/metrics"
	"github.com/sunfoxy2k/antechamber/validation"
)

// RetryConfig bounds the inner retry controller.
type RetryConfig struct {
	// MaxRetries is the number of generation attempts per iteration.
	MaxRetries int

	// FeedValidationErrors controls whether validation errors found during
	// a retry are appended to the feedback history before the next attempt.
	// Off by default: the reference behavior resends the identical prompt.
	FeedValidationErrors bool
}

// DefaultRetryConfig returns the reference retry bound.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxRetries: 3}
}

// StageFunc produces one candidate. It reads the current feedback entries
// and returns the generated text or a transport error.
type StageFunc func(ctx context.Context, feedback []string) (string, error)

// Retryer wraps one generation stage with its validator. It retries failed
// candidates up to the bound and degrades to the last candidate instead of
// failing hard; the pipeline must always produce something.
type Retryer struct {
	config  RetryConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewRetryer creates a retry controller.
func NewRetryer(config RetryConfig, logger *slog.Logger, m *metrics.Metrics) *Retryer {
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultRetryConfig().MaxRetries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retryer{config: config, logger: logger, metrics: m}
}

// Run generates and validates a candidate up to MaxRetries times. It returns
// the first valid candidate, or the last candidate with its failing result
// when the budget is exhausted. Transport errors consume attempts; if every
// attempt fails in transport the returned text is an error-tagged string.
// The iteration number labels any fed-back validation errors.
func (r *Retryer) Run(
	ctx context.Context,
	stage string,
	generate StageFunc,
	validator *validation.Validator,
	history *FeedbackHistory,
	iteration int,
) (string, validation.Result) {
	var (
		last    string
		lastRes validation.Result
	)

	for attempt := 1; attempt <= r.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Sprintf("Error: %v", err), validation.Result{Errors: []string{err.Error()}}
		}

		r.metrics.ObserveAttempt(stage)

		out, err := generate(ctx, history.Entries())
		if err != nil {
			last = fmt.Sprintf("Error: %v", err)
			lastRes = validation.Result{Errors: []string{err.Error()}}
			r.logger.Warn("generation attempt failed",
				"stage", stage,
				"attempt", attempt,
				"max_retries", r.config.MaxRetries,
				"error", err)
			continue
		}

		last = out
		lastRes = validator.Validate(out)
		if lastRes.Valid {
			return out, lastRes
		}

		r.metrics.ObserveValidationFailure(stage)
		r.logger.Info("candidate failed validation",
			"stage", stage,
			"attempt", attempt,
			"max_retries", r.config.MaxRetries,
			"errors", validation.FormatErrors(lastRes.Errors))

		if r.config.FeedValidationErrors && attempt < r.config.MaxRetries {
			history.AddValidationErrors(iteration, lastRes.Errors)
		}
	}

	r.metrics.ObserveRetriesExhausted(stage)
	r.logger.Warn("retry budget exhausted, using last candidate",
		"stage", stage,
		"max_retries", r.config.MaxRetries)
	return last, lastRes
}
