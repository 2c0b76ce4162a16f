// Package validation provides structural validation for generated prompt
// text. Each generation stage composes a validator from the sub-checks it
// needs; a failing validator returns the full ordered list of violations so
// the retry and feedback loops can surface them to the model.
package validation

import (
	"strings"
)

// Result contains the outcome of validating one candidate. Valid is true
// exactly when Errors is empty.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// OK is the passing result.
var OK = Result{Valid: true}

// Check inspects candidate text and returns zero or more violation messages.
type Check func(text string) []string

// Validator runs an ordered list of checks and accumulates their violations.
type Validator struct {
	checks []Check
}

// New creates a validator from the given checks, run in order.
func New(checks ...Check) *Validator {
	return &Validator{checks: checks}
}

// Validate runs every check and collects all violations. Checks never short
// circuit each other; the model gets the complete picture in one pass.
func (v *Validator) Validate(text string) Result {
	var errs []string
	for _, check := range v.checks {
		errs = append(errs, check(text)...)
	}
	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}
	return OK
}

// FormatErrors joins violation messages for feedback and logging.
func FormatErrors(errs []string) string {
	return strings.Join(errs, "; ")
}

// Options holds the tunable thresholds shared by the structural checks.
type Options struct {
	// MinParagraphs and MaxParagraphs bound the paragraph count (closed
	// interval) after artifact filtering.
	MinParagraphs int
	MaxParagraphs int

	// MinComplexParagraphs is the number of paragraphs that must each carry
	// at least MinDistinctComplex distinct complex-block tags.
	MinComplexParagraphs int
	MinDistinctComplex   int

	// ContextCount is the required number of persona objects in the context
	// stage's JSON response.
	ContextCount int

	// StrictVocabulary turns unregistered tag names into validation errors.
	// Off by default: drafts routinely invent tags and the coverage checks
	// already force the registered ones to appear.
	StrictVocabulary bool
}

// DefaultOptions returns the reference thresholds.
func DefaultOptions() Options {
	return Options{
		MinParagraphs:        6,
		MaxParagraphs:        10,
		MinComplexParagraphs: 3,
		MinDistinctComplex:   2,
		ContextCount:         5,
		StrictVocabulary:     false,
	}
}
