package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sunfoxy2k/antechamber/metrics"
	"github.com/sunfoxy2k/antechamber/prompts"
	"github.com/sunfoxy2k/antechamber/validation"
)

// Critic solicits free-text critique of a candidate from the operator.
// Returning an empty string accepts the candidate.
type Critic interface {
	Critique(taskName, candidate string) (string, error)
}

// Notifier signals task completion to the operator.
type Notifier interface {
	Notify()
}

// Verdict classifies an operator critique.
type Verdict int

const (
	// VerdictAccept ends the loop and returns the current candidate.
	VerdictAccept Verdict = iota
	// VerdictStop ends the loop early, also returning the current candidate.
	VerdictStop
	// VerdictRevise records the critique and re-generates.
	VerdictRevise
)

// Affirmative and negative phrases recognized by the critique step. Any
// other non-empty text is treated as revision feedback.
var (
	affirmativePhrases = map[string]bool{
		"done":       true,
		"good":       true,
		"good!":      true,
		"looks good": true,
		"perfect":    true,
	}
	negativePhrases = map[string]bool{
		"stop": true,
		"quit": true,
		"exit": true,
	}
)

// ClassifyCritique maps operator input to a verdict. Blank input accepts.
func ClassifyCritique(text string) Verdict {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	switch {
	case trimmed == "" || affirmativePhrases[trimmed]:
		return VerdictAccept
	case negativePhrases[trimmed]:
		return VerdictStop
	default:
		return VerdictRevise
	}
}

// LoopConfig bounds the feedback loop around one stage.
type LoopConfig struct {
	// MaxIterations is the number of generate-and-critique rounds.
	MaxIterations int

	// Retry configures the inner retry controller.
	Retry RetryConfig
}

// Loop drives a stage through bounded iterations of generation, validation,
// and optional operator critique. A nil Critic makes the loop
// non-interactive: it returns after the first retry-controller result.
type Loop struct {
	config   LoopConfig
	critic   Critic
	notifier Notifier
	retryer  *Retryer
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewLoop creates a feedback-loop controller. critic and notifier may be nil.
func NewLoop(config LoopConfig, critic Critic, notifier Notifier, logger *slog.Logger, m *metrics.Metrics) *Loop {
	if config.MaxIterations <= 0 {
		config.MaxIterations = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		config:   config,
		critic:   critic,
		notifier: notifier,
		retryer:  NewRetryer(config.Retry, logger, m),
		logger:   logger,
		metrics:  m,
	}
}

// Run executes the loop for one stage. It always returns a candidate string;
// the accompanying Result reports whether that candidate is structurally
// valid. The returned error is non-nil only on context cancellation.
func (l *Loop) Run(
	ctx context.Context,
	stage string,
	generate StageFunc,
	validator *validation.Validator,
) (string, validation.Result, error) {
	start := time.Now()
	defer func() {
		l.metrics.ObserveStageDuration(stage, time.Since(start))
	}()

	history := &FeedbackHistory{}
	var (
		last    string
		lastRes validation.Result
	)

	for iteration := 1; iteration <= l.config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return last, lastRes, err
		}

		l.metrics.ObserveIteration(stage)
		l.logger.Info("starting iteration",
			"stage", stage,
			"iteration", iteration,
			"max_iterations", l.config.MaxIterations,
			"feedback_entries", history.Len())

		last, lastRes = l.retryer.Run(ctx, stage, generate, validator, history, iteration)

		// Non-interactive mode returns after the first retry-controller
		// result, valid or exhausted.
		if l.critic == nil {
			return last, lastRes, nil
		}

		if !lastRes.Valid {
			history.AddValidationErrors(iteration, lastRes.Errors)
			continue
		}

		critique, err := l.critic.Critique(prompts.TaskName(stage), last)
		if err != nil {
			// A closed console accepts the candidate.
			l.logger.Debug("critique unavailable, accepting candidate",
				"stage", stage, "error", err)
			return last, lastRes, nil
		}

		switch ClassifyCritique(critique) {
		case VerdictAccept:
			// Only an explicit affirmative rings the notifier; pressing
			// enter on a blank line accepts quietly.
			if l.notifier != nil && strings.TrimSpace(critique) != "" {
				l.notifier.Notify()
			}
			return last, lastRes, nil
		case VerdictStop:
			l.logger.Info("stopping on operator request", "stage", stage)
			return last, lastRes, nil
		case VerdictRevise:
			history.AddCritique(iteration, strings.TrimSpace(critique))
			l.logger.Info("critique recorded, regenerating",
				"stage", stage, "iteration", iteration)
		}
	}

	l.logger.Warn("reached maximum iterations, returning last candidate",
		"stage", stage, "max_iterations", l.config.MaxIterations)
	if l.notifier != nil {
		l.notifier.Notify()
	}
	return last, lastRes, nil
}
