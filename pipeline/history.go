package pipeline

import (
	"fmt"
	"strings"
)

// FeedbackHistory accumulates feedback across the iterations of one stage
// invocation. Entries are append-only and labeled with the iteration that
// produced them; the history is created per stage call and discarded when
// the stage returns. It is not safe for concurrent use; each pipeline run
// owns its own histories.
type FeedbackHistory struct {
	entries []string
}

// AddCritique records free-text operator critique from an iteration.
func (h *FeedbackHistory) AddCritique(iteration int, text string) {
	h.entries = append(h.entries, fmt.Sprintf("Iteration %d: %s", iteration, text))
}

// AddValidationErrors records a failed iteration's violation list as one
// labeled entry.
func (h *FeedbackHistory) AddValidationErrors(iteration int, errs []string) {
	h.entries = append(h.entries,
		fmt.Sprintf("Iteration %d validation errors: %s", iteration, strings.Join(errs, "; ")))
}

// Entries returns a copy of the accumulated feedback in order.
func (h *FeedbackHistory) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded entries.
func (h *FeedbackHistory) Len() int {
	return len(h.entries)
}
