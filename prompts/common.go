// Package prompts builds the system and user prompts for each generation
// stage. System prompts carry the stage instructions plus the block
// definitions the stage needs; user prompts carry the stage input and any
// accumulated feedback.
package prompts

import (
	"strings"
)

// StageNames maps stage identifiers to human-readable task names used in
// logs and the operator console.
var StageNames = map[string]string{
	"context":   "Context Generation",
	"skeleton":  "Structured Prompt Generation",
	"complex":   "Adding Complex Blocks",
	"populate":  "Populating Block Structure",
	"enrich":    "Adding System Info",
	"formalize": "Formalizing System Prompt",
}

// TaskName returns the display name for a stage, falling back to the
// identifier itself.
func TaskName(stage string) string {
	if name, ok := StageNames[stage]; ok {
		return name
	}
	return stage
}

// WithFeedback appends accumulated feedback to a user message. Feedback
// entries are already labeled with their originating iteration.
func WithFeedback(message string, feedback []string) string {
	if len(feedback) == 0 {
		return message
	}
	return message + "\n\nPrevious feedback to incorporate:\n" + strings.Join(feedback, "\n")
}
