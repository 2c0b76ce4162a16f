package pipeline

import (
	"context"
	"strings"
	"testing"
)

// scriptedCritic returns the scripted critiques in order, recording the
// task names it was shown.
type scriptedCritic struct {
	critiques []string
	calls     int
	taskNames []string
}

func (c *scriptedCritic) Critique(taskName, _ string) (string, error) {
	c.taskNames = append(c.taskNames, taskName)
	idx := c.calls
	c.calls++
	if idx < len(c.critiques) {
		return c.critiques[idx], nil
	}
	return "", nil
}

// countingNotifier records Notify calls.
type countingNotifier struct {
	count int
}

func (n *countingNotifier) Notify() { n.count++ }

func TestClassifyCritique(t *testing.T) {
	tests := []struct {
		input string
		want  Verdict
	}{
		{input: "", want: VerdictAccept},
		{input: "   ", want: VerdictAccept},
		{input: "done", want: VerdictAccept},
		{input: "good", want: VerdictAccept},
		{input: "good!", want: VerdictAccept},
		{input: "Looks Good", want: VerdictAccept},
		{input: "PERFECT", want: VerdictAccept},
		{input: "stop", want: VerdictStop},
		{input: "quit", want: VerdictStop},
		{input: "exit", want: VerdictStop},
		{input: "make the tone friendlier", want: VerdictRevise},
		{input: "goodness gracious", want: VerdictRevise},
	}
	for _, tt := range tests {
		if got := ClassifyCritique(tt.input); got != tt.want {
			t.Errorf("ClassifyCritique(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoopNonInteractiveFirstTrySuccess(t *testing.T) {
	stage := &scriptedStage{outputs: []string{"valid"}}
	loop := NewLoop(LoopConfig{MaxIterations: 5, Retry: RetryConfig{MaxRetries: 3}},
		nil, nil, quietLogger(), nil)

	out, res, err := loop.Run(context.Background(), "test", stage.generate, mustBeValid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "valid" || !res.Valid {
		t.Fatalf("got %q valid=%v", out, res.Valid)
	}
	if stage.calls != 1 {
		t.Errorf("stage called %d times, want exactly 1 (no retries consumed)", stage.calls)
	}
	if len(stage.feedback[0]) != 0 {
		t.Errorf("first call saw feedback %v, want empty history", stage.feedback[0])
	}
}

func TestLoopNonInteractiveReturnsAfterExhaustion(t *testing.T) {
	stage := &scriptedStage{outputs: []string{"bad", "bad", "bad", "never reached"}}
	loop := NewLoop(LoopConfig{MaxIterations: 5, Retry: RetryConfig{MaxRetries: 3}},
		nil, nil, quietLogger(), nil)

	out, res, err := loop.Run(context.Background(), "test", stage.generate, mustBeValid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "bad" || res.Valid {
		t.Errorf("got %q valid=%v, want degraded last candidate", out, res.Valid)
	}
	// Non-interactive: one retry-controller run, no further iterations.
	if stage.calls != 3 {
		t.Errorf("stage called %d times, want 3", stage.calls)
	}
}

func TestLoopCritiqueRevisionFeedsBack(t *testing.T) {
	stage := &scriptedStage{outputs: []string{"valid", "valid"}}
	critic := &scriptedCritic{critiques: []string{"make the tone friendlier", "good"}}
	notifier := &countingNotifier{}
	loop := NewLoop(LoopConfig{MaxIterations: 5, Retry: RetryConfig{MaxRetries: 3}},
		critic, notifier, quietLogger(), nil)

	out, res, err := loop.Run(context.Background(), "test", stage.generate, mustBeValid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "valid" || !res.Valid {
		t.Fatalf("got %q valid=%v", out, res.Valid)
	}
	if stage.calls != 2 {
		t.Fatalf("stage called %d times, want 2 (one revision)", stage.calls)
	}

	second := stage.feedback[1]
	if len(second) != 1 || second[0] != "Iteration 1: make the tone friendlier" {
		t.Errorf("revision feedback = %v", second)
	}
	if notifier.count != 1 {
		t.Errorf("notifier fired %d times, want 1 on acceptance", notifier.count)
	}
}

func TestLoopStopReturnsCurrentCandidate(t *testing.T) {
	stage := &scriptedStage{outputs: []string{"valid"}}
	critic := &scriptedCritic{critiques: []string{"stop"}}
	notifier := &countingNotifier{}
	loop := NewLoop(LoopConfig{MaxIterations: 5, Retry: RetryConfig{MaxRetries: 3}},
		critic, notifier, quietLogger(), nil)

	out, _, err := loop.Run(context.Background(), "test", stage.generate, mustBeValid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "valid" {
		t.Errorf("stop must return the current candidate, got %q", out)
	}
	if stage.calls != 1 {
		t.Errorf("stage called %d times, want 1", stage.calls)
	}
	if notifier.count != 0 {
		t.Errorf("stop must not fire the notifier, got %d", notifier.count)
	}
}

func TestLoopInteractiveInvalidIterationsAccumulateFeedback(t *testing.T) {
	// Every candidate fails; with MaxRetries 1 each iteration burns one
	// attempt and records its errors for the next.
	stage := &scriptedStage{outputs: []string{"bad", "bad"}}
	critic := &scriptedCritic{}
	loop := NewLoop(LoopConfig{MaxIterations: 2, Retry: RetryConfig{MaxRetries: 1}},
		critic, nil, quietLogger(), nil)

	out, res, err := loop.Run(context.Background(), "test", stage.generate, mustBeValid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "bad" || res.Valid {
		t.Errorf("got %q valid=%v, want last degraded candidate", out, res.Valid)
	}
	if stage.calls != 2 {
		t.Fatalf("stage called %d times, want 2", stage.calls)
	}
	if critic.calls != 0 {
		t.Errorf("critic consulted %d times on invalid candidates, want 0", critic.calls)
	}

	second := stage.feedback[1]
	if len(second) != 1 || !strings.HasPrefix(second[0], "Iteration 1 validation errors: ") {
		t.Errorf("second iteration feedback = %v", second)
	}
}

func TestLoopMaxIterationsReturnsLastCandidate(t *testing.T) {
	stage := &scriptedStage{outputs: []string{"valid", "valid", "valid"}}
	critic := &scriptedCritic{critiques: []string{"more detail", "even more detail", "still more"}}
	notifier := &countingNotifier{}
	loop := NewLoop(LoopConfig{MaxIterations: 3, Retry: RetryConfig{MaxRetries: 3}},
		critic, notifier, quietLogger(), nil)

	out, res, err := loop.Run(context.Background(), "test", stage.generate, mustBeValid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "valid" || !res.Valid {
		t.Errorf("got %q valid=%v", out, res.Valid)
	}
	if stage.calls != 3 {
		t.Errorf("stage called %d times, want 3", stage.calls)
	}
	if notifier.count != 1 {
		t.Errorf("notifier should fire once at exhaustion, got %d", notifier.count)
	}
}

func TestLoopContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stage := &scriptedStage{outputs: []string{"valid"}}
	loop := NewLoop(LoopConfig{MaxIterations: 5, Retry: RetryConfig{MaxRetries: 3}},
		nil, nil, quietLogger(), nil)

	_, _, err := loop.Run(ctx, "test", stage.generate, mustBeValid())
	if err == nil {
		t.Error("expected context cancellation error")
	}
	if stage.calls != 0 {
		t.Errorf("stage called %d times after cancellation, want 0", stage.calls)
	}
}

func TestLoopShowsDisplayTaskName(t *testing.T) {
	stage := &scriptedStage{outputs: []string{"valid"}}
	critic := &scriptedCritic{critiques: []string{"good"}}
	loop := NewLoop(LoopConfig{MaxIterations: 5, Retry: RetryConfig{MaxRetries: 3}},
		critic, nil, quietLogger(), nil)

	if _, _, err := loop.Run(context.Background(), "complex", stage.generate, mustBeValid()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(critic.taskNames) != 1 || critic.taskNames[0] != "Adding Complex Blocks" {
		t.Errorf("critic shown %v, want the display name for the stage", critic.taskNames)
	}
}

func TestLoopBlankCritiqueAcceptsQuietly(t *testing.T) {
	stage := &scriptedStage{outputs: []string{"valid"}}
	critic := &scriptedCritic{critiques: []string{""}}
	notifier := &countingNotifier{}
	loop := NewLoop(LoopConfig{MaxIterations: 5, Retry: RetryConfig{MaxRetries: 3}},
		critic, notifier, quietLogger(), nil)

	out, res, err := loop.Run(context.Background(), "test", stage.generate, mustBeValid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "valid" || !res.Valid {
		t.Fatalf("blank critique must accept the candidate, got %q valid=%v", out, res.Valid)
	}
	if notifier.count != 0 {
		t.Errorf("notifier fired %d times, blank acceptance must be silent", notifier.count)
	}
}
