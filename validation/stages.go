package validation

import (
	"github.com/sunfoxy2k/antechamber/block"
)

// Stage validator constructors. Each composes the checks one generation
// stage needs; the pipeline wires these into its retry controllers.

// ForContext validates the persona-generation stage's JSON response.
func ForContext(opts Options) *Validator {
	return New(ContextJSON(opts.ContextCount))
}

// ForSkeleton validates the block-skeleton stage: bounded paragraph count and
// full building-block coverage.
func ForSkeleton(store *block.Store, opts Options) *Validator {
	checks := []Check{
		ParagraphCount(opts.MinParagraphs, opts.MaxParagraphs),
		RequiredBlocks(store.BuildingBlocks()),
	}
	if opts.StrictVocabulary {
		checks = append(checks, RegisteredTags(store))
	}
	return New(checks...)
}

// ForComplex validates the complex-tagging stage: bounded paragraph count,
// the skeleton's building blocks preserved, full complex-block coverage,
// per-paragraph tag density, and a separate explanation on every tag.
func ForComplex(store *block.Store, opts Options) *Validator {
	checks := []Check{
		ParagraphCount(opts.MinParagraphs, opts.MaxParagraphs),
		RequiredBlocks(store.BuildingBlocks()),
		ComplexCoverage(store),
		ParagraphComplexity(opts.MinComplexParagraphs, opts.MinDistinctComplex),
		SeparateExplanations(),
	}
	if opts.StrictVocabulary {
		checks = append(checks, RegisteredTags(store))
	}
	return New(checks...)
}

// ForPopulate validates the prose-population stage: the output is final
// natural language, so no tags and no verbatim tool names.
func ForPopulate(tools []string) *Validator {
	return New(NoTagLeakage(), NoToolMentions(tools))
}

// ForEnrich validates the system-info enrichment stage. Its input is already
// prose; tags reappearing would be a regression.
func ForEnrich() *Validator {
	return New(NoTagLeakage())
}

// ForFormalize validates the formalization stage with the same leakage rules
// as population.
func ForFormalize(tools []string) *Validator {
	return New(NoTagLeakage(), NoToolMentions(tools))
}
