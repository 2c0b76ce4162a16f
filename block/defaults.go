package block

// Embedded default vocabularies. A definitions directory (see LoadDir) can
// replace or extend these without rebuilding.

type namedDefinition struct {
	name string
	def  Definition
}

type namedComplexDefinition struct {
	name string
	def  ComplexDefinition
}

var defaultBuildingBlocks = []namedDefinition{
	{
		name: "CONTEXT_INFORMATION",
		def: Definition{
			Purpose: "Situational facts the assistant can rely on: current location, local time, device state, active application, and environment settings.",
			Rule:    "State facts plainly and in the present tense. Never speculate beyond what the context supplies.",
		},
	},
	{
		name: "TOOL_USE_INSTRUCTIONS",
		def: Definition{
			Purpose: "When and how the assistant invokes its tools, including trigger conditions and fallback behavior when a tool is unavailable.",
			Rule:    "Name each tool explicitly, give a concrete trigger for its use, and say what to do when the call fails.",
		},
	},
	{
		name: "USER_PREFERENCES",
		def: Definition{
			Purpose: "Stable, user-specific settings: preferred formats, verbosity, units, languages, and standing instructions.",
			Rule:    "Express preferences as directives the assistant follows by default, overridable by an explicit request.",
		},
	},
	{
		name: "BACKGROUND_INFORMATION",
		def: Definition{
			Purpose: "Durable knowledge about the user and their situation that frames every response: role, ongoing projects, history.",
			Rule:    "Keep background descriptive, not prescriptive; behavioral rules belong in other blocks.",
		},
	},
	{
		name: "TONAL_CONTROL",
		def: Definition{
			Purpose: "The assistant's voice: register, warmth, directness, and how style shifts with the situation.",
			Rule:    "Describe tone with observable properties (sentence length, formality, hedging), not personality adjectives alone.",
		},
	},
}

var defaultComplexBlocks = []namedComplexDefinition{
	{
		name: "Provide_Context_Information",
		def: ComplexDefinition{
			Definition: "Surface the situational facts the assistant holds — time, place, device, active application — so responses stay anchored to the user's actual situation.",
			Examples: []string{
				"The current time is 14:32 local and the user is on a mobile device with a low battery",
				"The user has the calendar application open to the week view",
				"The user is at their office in Rotterdam and their next meeting starts in twenty minutes",
			},
		},
	},
	{
		name: "Define_Personality_and_Tone",
		def: ComplexDefinition{
			Definition: "Fix a consistent character for the assistant: its voice, its level of warmth, how it handles personal questions, and an explicit discouragement of sycophancy.",
			Examples: []string{
				"Keep a dry, understated voice and never open a reply with flattery",
				"When asked personal questions, answer briefly in character and steer back to the task",
				"Do not mirror the user's frustration; stay level and concrete",
			},
		},
	},
	{
		name: "Guide_Tool_Use_and_Response_Formatting",
		def: ComplexDefinition{
			Definition: "Specify the triggers that warrant a tool call and the rules that decide between prose and structured output such as lists or tables.",
			Examples: []string{
				"Use the search tool only when the answer depends on events after the knowledge cutoff",
				"Prefer prose for explanations and reserve bullet lists for steps the user will execute",
				"Never show raw tool output; summarize it in one or two sentences",
			},
		},
	},
	{
		name: "Set_Clear_Guardrails",
		def: ComplexDefinition{
			Definition: "Define safety boundaries and refusal protocols: what the assistant declines, how it phrases a refusal, and which topics require extra care.",
			Examples: []string{
				"Decline medical dosage advice and point the user to a professional",
				"Refuse in one sentence without lecturing, then offer a safe alternative",
				"Treat requests involving minors' personal data as out of bounds",
			},
		},
	},
	{
		name: "Manage_Conversation_Flow",
		def: ComplexDefinition{
			Definition: "Control pacing and turn structure: when to ask a clarifying question, when to act on assumptions, and how to close a completed exchange.",
			Examples: []string{
				"Ask at most one clarifying question before attempting an answer",
				"When the user's goal is unambiguous, act without confirming first",
				"End a resolved thread with a short closing line, not a new question",
			},
		},
	},
	{
		name: "Anchor_to_User_Goals",
		def: ComplexDefinition{
			Definition: "Keep every response tied to what the user is trying to accomplish in the current task, resisting digressions the user did not ask for.",
			Examples: []string{
				"Relate each suggestion back to the draft the user is editing",
				"If the user drifts off-task, answer briefly and offer to return to the task",
				"Do not volunteer features or upsells unrelated to the stated goal",
			},
		},
	},
	{
		name: "Handle_Uncertainty_and_Limits",
		def: ComplexDefinition{
			Definition: "Say what the assistant does when it does not know: admitting uncertainty, qualifying stale information, and never inventing specifics.",
			Examples: []string{
				"When unsure, say so in the first sentence rather than hedging at the end",
				"Mark any figure that may be outdated with the date of the latest data",
				"Never fabricate file names, prices, or citations; ask or use a tool instead",
			},
		},
	},
}
