package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sunfoxy2k/antechamber/llm"
)

// contextRequiredKeys are the fields every persona object must carry.
// conversation_flow is an array of utterances; the rest are non-empty strings.
var contextRequiredKeys = []string{
	"user_name",
	"user_role",
	"user_personality",
	"what_they_are_doing_for_current_task",
	"conversation_flow",
}

// ContextDocument is the parsed context-stage response.
type ContextDocument struct {
	Contexts []Context `json:"contexts"`
}

// Context is one generated user persona.
type Context struct {
	UserName         string   `json:"user_name"`
	UserRole         string   `json:"user_role"`
	UserPersonality  string   `json:"user_personality"`
	CurrentTask      string   `json:"what_they_are_doing_for_current_task"`
	ConversationFlow []string `json:"conversation_flow"`
	Tools            []string `json:"tools,omitempty"`
}

// ContextJSON validates the context stage's JSON response: an object with a
// "contexts" array of exactly count persona objects, each carrying the
// required keys. Surrounding prose and markdown fences are tolerated.
// Structural deviations yield a single descriptive error each.
func ContextJSON(count int) Check {
	return func(text string) []string {
		_, errs := ParseContexts(text, count)
		return errs
	}
}

// ParseContexts extracts and validates the context document from a model
// response. It returns the parsed document when the shape is valid, or the
// violation messages otherwise.
func ParseContexts(text string, count int) (*ContextDocument, []string) {
	raw := llm.ExtractJSON(text)
	if raw == "" {
		return nil, []string{"response does not contain a JSON object"}
	}

	// Generic shape first so key-level errors can reference positions.
	var generic struct {
		Contexts []map[string]json.RawMessage `json:"contexts"`
	}
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, []string{fmt.Sprintf("invalid JSON format: %v", err)}
	}

	if generic.Contexts == nil {
		return nil, []string{"missing 'contexts' key in JSON"}
	}
	if len(generic.Contexts) != count {
		return nil, []string{fmt.Sprintf(
			"expected exactly %d contexts, got %d", count, len(generic.Contexts))}
	}

	var errs []string
	for i, obj := range generic.Contexts {
		for _, key := range contextRequiredKeys {
			rawVal, ok := obj[key]
			if !ok {
				errs = append(errs, fmt.Sprintf("context %d missing required key: %s", i+1, key))
				continue
			}
			if key == "conversation_flow" {
				var flow []string
				if err := json.Unmarshal(rawVal, &flow); err != nil {
					errs = append(errs, fmt.Sprintf("context %d 'conversation_flow' must be an array of strings", i+1))
				}
				continue
			}
			var s string
			if err := json.Unmarshal(rawVal, &s); err != nil || strings.TrimSpace(s) == "" {
				errs = append(errs, fmt.Sprintf("context %d key '%s' must be a non-empty string", i+1, key))
			}
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	var doc ContextDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, []string{fmt.Sprintf("invalid JSON format: %v", err)}
	}
	return &doc, nil
}

// ContextToolList extracts the union of tool names declared across the
// personas of a context document. Text that does not parse as a context
// document yields nil, leaving leakage checking to the explicit tool list.
func ContextToolList(text string) []string {
	raw := llm.ExtractJSON(text)
	if raw == "" {
		return nil
	}
	var doc ContextDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var tools []string
	for _, c := range doc.Contexts {
		for _, tool := range c.Tools {
			tool = strings.TrimSpace(tool)
			key := strings.ToLower(tool)
			if tool == "" || seen[key] {
				continue
			}
			seen[key] = true
			tools = append(tools, tool)
		}
	}
	return tools
}
