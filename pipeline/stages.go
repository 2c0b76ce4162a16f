package pipeline

import (
	"context"
	"strings"

	"github.com/sunfoxy2k/antechamber/prompts"
	"github.com/sunfoxy2k/antechamber/validation"
)

// GenerateContext produces the five-persona context document for the given
// inspiration. availableTools and currentSystem describe the deployment and
// may be empty.
func (p *Pipeline) GenerateContext(ctx context.Context, inspiration, availableTools, currentSystem string) (string, validation.Result, error) {
	system := prompts.ContextSystemPrompt(availableTools, currentSystem)
	generate := func(ctx context.Context, feedback []string) (string, error) {
		return p.complete(ctx, system, prompts.ContextUserPrompt(inspiration, availableTools, feedback))
	}
	return p.loop(p.iterations.Context).Run(ctx, "context", generate, validation.ForContext(p.valOpts))
}

// GenerateSkeleton produces the block-annotated skeleton from inspiration
// text.
func (p *Pipeline) GenerateSkeleton(ctx context.Context, inspiration string) (string, validation.Result, error) {
	system := prompts.SkeletonSystemPrompt(p.store, p.valOpts.MinParagraphs, p.valOpts.MaxParagraphs)
	generate := func(ctx context.Context, feedback []string) (string, error) {
		return p.complete(ctx, system, prompts.SkeletonUserPrompt(inspiration, feedback))
	}
	return p.loop(p.iterations.Skeleton).Run(ctx, "skeleton", generate, validation.ForSkeleton(p.store, p.valOpts))
}

// TagComplexBlocks layers complex-block tags onto an existing skeleton.
// userContext situates the tagging; empty means general use.
func (p *Pipeline) TagComplexBlocks(ctx context.Context, skeleton, userContext string) (string, validation.Result, error) {
	system := prompts.ComplexSystemPrompt(p.store, p.valOpts.MinComplexParagraphs, p.valOpts.MinDistinctComplex)
	generate := func(ctx context.Context, feedback []string) (string, error) {
		return p.complete(ctx, system, prompts.ComplexUserPrompt(skeleton, userContext, feedback))
	}
	return p.loop(p.iterations.Complex).Run(ctx, "complex", generate, validation.ForComplex(p.store, p.valOpts))
}

// PopulateBlocks expands a tagged structure into natural-language prose.
// requiredText, when non-empty, must appear word-for-word in the output;
// tools are the user's tool names, which must not leak into the prose.
// Tools declared by the personas in userContext are guarded against too.
func (p *Pipeline) PopulateBlocks(ctx context.Context, structured, userContext, requiredText string, tools []string) (string, validation.Result, error) {
	system := prompts.PopulateSystemPrompt(p.store, requiredText)
	generate := func(ctx context.Context, feedback []string) (string, error) {
		return p.complete(ctx, system, prompts.PopulateUserPrompt(structured, userContext, requiredText, feedback))
	}
	guarded := append(validation.ContextToolList(userContext), tools...)
	return p.loop(p.iterations.Populate).Run(ctx, "populate", generate, validation.ForPopulate(guarded))
}

// AddSystemInfo enriches the prompt's opening context paragraph with
// deployment settings.
func (p *Pipeline) AddSystemInfo(ctx context.Context, structure, userContext, settings string) (string, validation.Result, error) {
	system := prompts.EnrichSystemPrompt()
	generate := func(ctx context.Context, feedback []string) (string, error) {
		return p.complete(ctx, system, prompts.EnrichUserPrompt(structure, userContext, settings, feedback))
	}
	return p.loop(p.iterations.Enrich).Run(ctx, "enrich", generate, validation.ForEnrich())
}

// Formalize runs the final editorial pass over a generated prompt.
func (p *Pipeline) Formalize(ctx context.Context, text string, tools []string) (string, validation.Result, error) {
	system := prompts.FormalizeSystemPrompt()
	generate := func(ctx context.Context, feedback []string) (string, error) {
		return p.complete(ctx, system, prompts.FormalizeUserPrompt(text, feedback))
	}
	return p.loop(p.iterations.Formalize).Run(ctx, "formalize", generate, validation.ForFormalize(tools))
}

// RunInput is the input to a full pipeline run.
type RunInput struct {
	// Inspiration is the raw idea text driving the run.
	Inspiration string

	// Tools names the tools available to the assistant. They shape context
	// generation and are forbidden from appearing in final prose.
	Tools []string

	// CurrentSystem describes the system the assistant runs inside.
	CurrentSystem string

	// RequiredText must survive word-for-word into the populated prompt.
	RequiredText string

	// SystemSettings feeds the enrichment stage. Enrichment is skipped when
	// empty.
	SystemSettings string

	// Formalize enables the final editorial pass.
	Formalize bool
}

// RunResult carries every intermediate stage output plus the final text.
type RunResult struct {
	Context   string
	Skeleton  string
	Tagged    string
	Populated string
	Enriched  string
	Final     string

	// StageResults maps stage name to its validation outcome. A degraded
	// stage leaves its invalid result here; the run still completes.
	StageResults map[string]validation.Result
}

// Valid reports whether every executed stage produced a structurally valid
// result.
func (r *RunResult) Valid() bool {
	for _, res := range r.StageResults {
		if !res.Valid {
			return false
		}
	}
	return true
}

// Run executes the full stage sequence. Each stage's output feeds the next;
// degraded stage output flows onward rather than aborting the run. The
// returned error is non-nil only on context cancellation.
func (p *Pipeline) Run(ctx context.Context, input RunInput) (*RunResult, error) {
	result := &RunResult{StageResults: make(map[string]validation.Result)}
	toolList := strings.Join(input.Tools, ", ")

	contextText, res, err := p.GenerateContext(ctx, input.Inspiration, toolList, input.CurrentSystem)
	if err != nil {
		return result, err
	}
	result.Context = contextText
	result.StageResults["context"] = res

	skeleton, res, err := p.GenerateSkeleton(ctx, input.Inspiration)
	if err != nil {
		return result, err
	}
	result.Skeleton = skeleton
	result.StageResults["skeleton"] = res

	tagged, res, err := p.TagComplexBlocks(ctx, skeleton, contextText)
	if err != nil {
		return result, err
	}
	result.Tagged = tagged
	result.StageResults["complex"] = res

	populated, res, err := p.PopulateBlocks(ctx, tagged, contextText, input.RequiredText, input.Tools)
	if err != nil {
		return result, err
	}
	result.Populated = populated
	result.StageResults["populate"] = res
	result.Final = populated

	if input.SystemSettings != "" {
		enriched, res, err := p.AddSystemInfo(ctx, populated, contextText, input.SystemSettings)
		if err != nil {
			return result, err
		}
		result.Enriched = enriched
		result.StageResults["enrich"] = res
		result.Final = enriched
	}

	if input.Formalize {
		final, res, err := p.Formalize(ctx, result.Final, input.Tools)
		if err != nil {
			return result, err
		}
		result.StageResults["formalize"] = res
		result.Final = final
	}

	return result, nil
}
