package prompts

import (
	"fmt"
	"strings"

	"github.com/sunfoxy2k/antechamber/block"
)

// ContextSystemPrompt returns the system prompt for persona generation.
// availableTools and currentSystem describe the deployment the personas will
// interact with; either may be empty.
func ContextSystemPrompt(availableTools, currentSystem string) string {
	base := `You design realistic user personas for an AI assistant. Each persona grounds one
possible deployment of the assistant: who the user is, what they are working on right
now, and how a conversation with them tends to unfold.

Produce exactly 5 diverse personas as a single JSON object:

{
  "contexts": [
    {
      "user_name": "...",
      "user_role": "...",
      "user_personality": "...",
      "what_they_are_doing_for_current_task": "...",
      "conversation_flow": ["first thing they ask", "how the exchange develops"]
    }
  ]
}

Rules:
- Exactly 5 objects in the contexts array, no more, no fewer.
- Every field is required. String fields must be non-empty; conversation_flow is an
  array of short utterances in conversation order.
- Personas must differ meaningfully in role, temperament, and task. Avoid five
  variations on the same person.
- Respond with the JSON object only. No commentary before or after it.`

	if availableTools != "" {
		base += "\n\nAvailable tools the assistant can use for these users:\n" + availableTools
	}
	if currentSystem != "" {
		base += "\n\nCurrent system the assistant runs inside:\n" + currentSystem
	}
	return base
}

// ContextUserPrompt returns the user message for persona generation.
func ContextUserPrompt(inspiration, availableTools string, feedback []string) string {
	msg := fmt.Sprintf("Create 5 diverse user contexts based on this inspiration: %s", inspiration)
	if availableTools != "" {
		msg += fmt.Sprintf(" that are suitable for the following tools: %s", availableTools)
	}
	if len(feedback) > 0 {
		msg += "\n\nPrevious feedback from user:\n" + strings.Join(feedback, "\n") +
			"\n\nPlease incorporate this feedback and generate improved contexts."
	}
	return msg
}

// SkeletonSystemPrompt returns the system prompt for the block-skeleton
// stage. The store supplies the building-block reference definitions.
func SkeletonSystemPrompt(store *block.Store, minParagraphs, maxParagraphs int) string {
	names := store.BuildingBlocks()
	tagged := make([]string, len(names))
	for i, n := range names {
		tagged[i] = "[" + n + "]"
	}

	return fmt.Sprintf(`You write system-prompt skeletons in a structured block format. A skeleton is a
sequence of paragraphs; each paragraph is one or more lines, and each line pairs
short parenthesized explanations with building-block tags.

Line format: (short explanation of what this part covers) [BLOCK_NAME]
A line may carry several explanation/tag pairs. Explanations come before the tag
they describe.

Requirements:
- Produce between %d and %d paragraphs, separated by blank lines.
- Every one of these building blocks must appear at least once across the skeleton:
  %s
- Use only the listed building blocks.
- Keep explanations concrete and specific to the inspiration, not generic filler.

Building block reference:%s`,
		minParagraphs, maxParagraphs,
		strings.Join(tagged, " "),
		store.DescribeBlocks())
}

// SkeletonUserPrompt returns the user message for skeleton generation.
func SkeletonUserPrompt(inspiration string, feedback []string) string {
	var msg string
	if inspiration != "" {
		msg = fmt.Sprintf(`Inspiration ideas to incorporate throughout the paragraphs, in bullet points:
%s

Transform these ideas using different wording and distribute them naturally across
the paragraphs. They can appear at any position within each paragraph.`, inspiration)
	} else {
		msg = "Generate a block skeleton for a general-purpose assistant."
	}
	return WithFeedback(msg, feedback)
}

// ComplexSystemPrompt returns the system prompt for the complex-tagging
// stage. All complex blocks must be used; the store supplies definitions and
// examples.
func ComplexSystemPrompt(store *block.Store, minComplexParagraphs, minDistinct int) string {
	return fmt.Sprintf(`You layer semantic behavior tags onto an existing system-prompt skeleton. Behavior
tags use the form #Tag Name# and attach, with a short parenthesized explanation, to
the building-block lines they refine.

Requirements:
- Keep every existing paragraph, line, and [BLOCK] tag exactly where it is. You add
  to the structure; you never remove or reorder it.
- Every complex block listed below must appear as #Name# at least once.
- At least %d paragraphs must each contain %d or more different complex blocks.
- Give each complex block its own explanation; do not share one explanation between
  a building block and a complex block.

Available complex blocks with definitions and examples (ALL MUST BE USED):%s`,
		minComplexParagraphs, minDistinct,
		store.DescribeComplex(true))
}

// ComplexUserPrompt returns the user message for complex tagging.
func ComplexUserPrompt(skeleton, context string, feedback []string) string {
	if context == "" {
		context = "General use"
	}
	msg := fmt.Sprintf(`Add relevant complex block identifiers to this building block structure:

%s

Context: %s`, skeleton, context)
	return WithFeedback(msg, feedback)
}

// PopulateSystemPrompt returns the system prompt for the prose-population
// stage. requiredText, when non-empty, must survive word-for-word.
func PopulateSystemPrompt(store *block.Store, requiredText string) string {
	base := `You convert a tagged system-prompt structure into finished natural English. The
tags and parenthesized explanations are scaffolding: expand what each one stands
for into flowing prose and then drop the scaffolding entirely.

Requirements:
- The output is plain prose. No [BLOCK_NAME] tags, no #Complex Name# tags, no
  parenthesized scaffolding may remain.
- Preserve the paragraph structure of the input: one prose paragraph per input
  paragraph, in the same order.
- Address the assistant as "you". Never write "we" or "us"; the text is an
  instruction to the assistant, not a group statement.
- Do not name or enumerate the user's tools; describe behavior, not plumbing.`

	if requiredText != "" {
		base += "\n\nRequired text to include word-for-word:\n" + requiredText
	}
	base += "\n\nBLOCK DEFINITIONS:\n" + store.DescribeBlocks()
	base += "\nCOMPLEX BLOCK DEFINITIONS:\n" + store.DescribeComplex(false)
	return base
}

// PopulateUserPrompt returns the user message for prose population.
func PopulateUserPrompt(structured, context, requiredText string, feedback []string) string {
	msg := fmt.Sprintf(`Convert this structured block format into a natural English system prompt:

STRUCTURED INPUT:
%s

CONTEXT:
%s`, structured, context)

	if requiredText != "" {
		msg += "\n\nREQUIRED TEXT (must include word-for-word):\n" + requiredText
	}
	msg += "\n\nFocus on populating the structure. Address the assistant as YOU. Do not mention we or us; stay objective."
	return WithFeedback(msg, feedback)
}

// EnrichSystemPrompt returns the system prompt for the system-info
// enrichment stage.
func EnrichSystemPrompt() string {
	return `You enrich an existing system prompt with deployment-specific facts. The prompt's
opening context paragraph is the only place you touch: weave 2 to 5 concrete pieces
of system setting information into it. Everything else stays byte-for-byte as it is.

Requirements:
- Modify only the first context paragraph.
- Add between 2 and 5 pieces of system setting information drawn from the provided
  settings, phrased to fit the surrounding prose.
- Do not reintroduce any tag or scaffolding syntax.
- Return the complete prompt, not just the changed paragraph.`
}

// EnrichUserPrompt returns the user message for system-info enrichment.
func EnrichUserPrompt(structure, context, settings string, feedback []string) string {
	msg := fmt.Sprintf(`Add 2-5 pieces of system setting information to the first context paragraph:

CURRENT PROMPT:
%s

CONTEXT:
%s

SYSTEM SETTINGS:
%s

Requirements:
- Enrich the first context paragraph only
- Generate relevant system info based on context and system settings
- Maintain exact structure and format
- Leave all other paragraphs unchanged`, structure, context, settings)
	return WithFeedback(msg, feedback)
}

// FormalizeSystemPrompt returns the system prompt for the final
// formalization pass.
func FormalizeSystemPrompt() string {
	return `You are the final editorial pass over a generated system prompt. Tighten the
language into consistent, formal instruction prose without changing what it asks
the assistant to do.

Requirements:
- Preserve every behavioral requirement, constraint, and fact. Rewording is fine;
  dropping or weakening is not.
- Keep the paragraph structure intact.
- Remove any leftover scaffolding syntax, hedging, or meta commentary about the
  prompt itself.
- Keep second person throughout: the prompt speaks to the assistant as "you".`
}

// FormalizeUserPrompt returns the user message for formalization.
func FormalizeUserPrompt(text string, feedback []string) string {
	msg := fmt.Sprintf(`Formalize this system prompt:

%s`, text)
	return WithFeedback(msg, feedback)
}
