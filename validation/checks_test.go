package validation

import (
	"strings"
	"testing"

	"github.com/sunfoxy2k/antechamber/block"
)

// paragraphs joins parts with blank lines.
func paragraphs(parts ...string) string {
	return strings.Join(parts, "\n\n")
}

func TestParagraphCount(t *testing.T) {
	check := ParagraphCount(6, 10)

	five := paragraphs("one", "two", "three", "four", "five")
	errs := check(five)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for 5 paragraphs, got %v", errs)
	}
	if !strings.Contains(errs[0], "5") || !strings.Contains(errs[0], "6") {
		t.Errorf("error must report observed count and bound: %q", errs[0])
	}

	seven := paragraphs("a", "b", "c", "d", "e", "f", "g")
	if errs := check(seven); len(errs) != 0 {
		t.Errorf("7 paragraphs should pass, got %v", errs)
	}
}

func TestParagraphCountDiscardsArtifact(t *testing.T) {
	check := ParagraphCount(6, 10)

	// The "you are" artifact paragraph does not count.
	text := paragraphs("you are", "a", "b", "c", "d", "e", "f")
	if errs := check(text); len(errs) != 0 {
		t.Errorf("artifact paragraph should be discarded before counting, got %v", errs)
	}
}

func TestRequiredBlocks(t *testing.T) {
	check := RequiredBlocks([]string{"CONTEXT_INFORMATION", "TONAL_CONTROL"})

	complete := "(intro) [CONTEXT_INFORMATION]\n\n(tone) [TONAL_CONTROL]"
	if errs := check(complete); len(errs) != 0 {
		t.Errorf("complete coverage should pass, got %v", errs)
	}

	partial := "(intro) [CONTEXT_INFORMATION]"
	errs := check(partial)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "[TONAL_CONTROL]") {
		t.Errorf("error must name the missing block: %q", errs[0])
	}
	if strings.Contains(errs[0], "[CONTEXT_INFORMATION]") {
		t.Errorf("error must not name present blocks: %q", errs[0])
	}
}

func TestComplexCoverage(t *testing.T) {
	store := block.NewStore()
	check := ComplexCoverage(store)
	all := store.ComplexBlocks()
	if len(all) != 7 {
		t.Fatalf("default store should have 7 complex blocks, got %d", len(all))
	}

	var covered []string
	for _, name := range all {
		covered = append(covered, "#"+name+"#")
	}
	if errs := check(strings.Join(covered, " ")); len(errs) != 0 {
		t.Errorf("full coverage should pass, got %v", errs)
	}

	// Drop exactly one tag: must fail reporting 1 missing, naming it.
	sixOfSeven := strings.Join(covered[:6], " ")
	errs := check(sixOfSeven)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "1 of 7") {
		t.Errorf("error must report 1 of 7 missing: %q", errs[0])
	}
	if !strings.Contains(errs[0], all[6]) {
		t.Errorf("error must name the missing block %q: %q", all[6], errs[0])
	}
}

func TestParagraphComplexity(t *testing.T) {
	check := ParagraphComplexity(3, 2)

	dense := paragraphs(
		"(a) #Set_Clear_Guardrails# #Anchor_to_User_Goals#",
		"(b) #Manage_Conversation_Flow# #Handle_Uncertainty_and_Limits#",
		"(c) #Provide_Context_Information# #Define_Personality_and_Tone#",
	)
	if errs := check(dense); len(errs) != 0 {
		t.Errorf("3 dense paragraphs should pass, got %v", errs)
	}

	// Repeated tags within a paragraph count once.
	sparse := paragraphs(
		"(a) #Set_Clear_Guardrails# #Set_Clear_Guardrails#",
		"(b) #Manage_Conversation_Flow# #Handle_Uncertainty_and_Limits#",
		"(c) #Provide_Context_Information# #Define_Personality_and_Tone#",
	)
	errs := check(sparse)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "2") || !strings.Contains(errs[0], "3") {
		t.Errorf("error must report observed and required counts: %q", errs[0])
	}
}

func TestRegisteredTags(t *testing.T) {
	store := block.NewStore()
	check := RegisteredTags(store)

	known := "(a) [CONTEXT_INFORMATION] #Set_Clear_Guardrails#"
	if errs := check(known); len(errs) != 0 {
		t.Errorf("registered tags should pass, got %v", errs)
	}

	unknown := "(a) [MADE_UP_BLOCK] #Invented Behavior#"
	errs := check(unknown)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "[MADE_UP_BLOCK]") || !strings.Contains(errs[0], "#Invented Behavior#") {
		t.Errorf("error must name every unregistered tag: %q", errs[0])
	}
}

func TestNoTagLeakage(t *testing.T) {
	check := NoTagLeakage()

	clean := "You are a helpful onboarding assistant for new analysts."
	if errs := check(clean); len(errs) != 0 {
		t.Errorf("plain prose should pass, got %v", errs)
	}

	leaked := "You help the user. [CONTEXT_INFORMATION] Stay within policy."
	errs := check(leaked)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "[CONTEXT_INFORMATION]") {
		t.Errorf("error must name the leaked tag: %q", errs[0])
	}

	complexLeak := "Remember to #Set_Clear_Guardrails# in replies."
	if errs := check(complexLeak); len(errs) != 1 {
		t.Errorf("complex tags must also be rejected, got %v", errs)
	}
}

func TestNoToolMentions(t *testing.T) {
	check := NoToolMentions([]string{"JiraSync", "LedgerBot", ""})

	clean := "Help the user plan their sprint without naming internal systems."
	if errs := check(clean); len(errs) != 0 {
		t.Errorf("clean text should pass, got %v", errs)
	}

	// Case-insensitive match.
	mention := "When asked, open jirasync and file the ticket."
	errs := check(mention)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %v", errs)
	}
	if !strings.Contains(errs[0], "JiraSync") {
		t.Errorf("error must name the mentioned tool: %q", errs[0])
	}
}

func TestValidatorAccumulatesAllErrors(t *testing.T) {
	store := block.NewStore()
	v := ForComplex(store, DefaultOptions())

	// One short paragraph with a single explained tag trips the paragraph
	// count, building-block coverage, complex coverage, and complexity
	// checks at once; only the explanation pairing passes.
	result := v.Validate("(a) [CONTEXT_INFORMATION]")
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if len(result.Errors) != 4 {
		t.Errorf("expected 4 accumulated errors, got %v", result.Errors)
	}
}

func TestValidatorValidImpliesNoErrors(t *testing.T) {
	v := New(func(string) []string { return nil })
	result := v.Validate("anything")
	if !result.Valid || len(result.Errors) != 0 {
		t.Errorf("valid result must carry no errors: %+v", result)
	}
}

func TestSeparateExplanations(t *testing.T) {
	check := SeparateExplanations()

	separate := "(who the user is) [CONTEXT_INFORMATION] (ground replies) #Provide_Context_Information#"
	if errs := check(separate); len(errs) != 0 {
		t.Errorf("separately explained tags should pass, got %v", errs)
	}

	// One explanation shared across two tags leaves the second bare.
	merged := "(shared) [CONTEXT_INFORMATION] [TONAL_CONTROL]"
	errs := check(merged)
	if len(errs) != 1 {
		t.Fatalf("expected 1 error for merged format, got %v", errs)
	}
	if !strings.Contains(errs[0], "[TONAL_CONTROL]") {
		t.Errorf("error must name the bare tag: %q", errs[0])
	}
	if strings.Contains(errs[0], "[CONTEXT_INFORMATION]") {
		t.Errorf("error must not name explained tags: %q", errs[0])
	}

	bare := "(a) [CONTEXT_INFORMATION] #Set_Clear_Guardrails#"
	errs = check(bare)
	if len(errs) != 1 || !strings.Contains(errs[0], "#Set_Clear_Guardrails#") {
		t.Errorf("bare complex tag must be reported, got %v", errs)
	}
}

// tagged returns a tagging-stage output that satisfies every ForComplex
// check against the default store.
func tagged() string {
	return paragraphs(
		"(who the user is) [CONTEXT_INFORMATION] (ground replies) #Provide_Context_Information# (tie to goals) #Anchor_to_User_Goals#",
		"(how to call tools) [TOOL_USE_INSTRUCTIONS] (tool etiquette) #Guide_Tool_Use_and_Response_Formatting# (hard limits) #Set_Clear_Guardrails#",
		"(formatting choices) [USER_PREFERENCES] (voice) #Define_Personality_and_Tone# (pacing) #Manage_Conversation_Flow#",
		"(domain knowledge) [BACKGROUND_INFORMATION] (when unsure) #Handle_Uncertainty_and_Limits#",
		"(voice and register) [TONAL_CONTROL] (consistent tone) #Define_Personality_and_Tone#",
		"(session specifics) [CONTEXT_INFORMATION] (stay current) #Provide_Context_Information#",
	)
}

func TestForComplexPreservesBuildingBlocks(t *testing.T) {
	store := block.NewStore()
	v := ForComplex(store, DefaultOptions())

	if result := v.Validate(tagged()); !result.Valid {
		t.Fatalf("fully tagged text should pass, got %v", result.Errors)
	}

	// Dropping a skeleton tag during tagging must fail, not slip through.
	dropped := strings.Replace(tagged(), "[TONAL_CONTROL] ", "", 1)
	result := v.Validate(dropped)
	if result.Valid {
		t.Fatal("expected invalid result when a building block is dropped")
	}
	if !strings.Contains(strings.Join(result.Errors, "; "), "[TONAL_CONTROL]") {
		t.Errorf("errors must name the dropped block: %v", result.Errors)
	}
}

func TestForComplexRejectsMergedExplanations(t *testing.T) {
	store := block.NewStore()
	v := ForComplex(store, DefaultOptions())

	merged := strings.Replace(tagged(),
		"(voice and register) [TONAL_CONTROL] (consistent tone) #Define_Personality_and_Tone#",
		"(voice and register) [TONAL_CONTROL] #Define_Personality_and_Tone#", 1)
	result := v.Validate(merged)
	if result.Valid {
		t.Fatal("expected invalid result for a tag without its own explanation")
	}
	if !strings.Contains(strings.Join(result.Errors, "; "), "#Define_Personality_and_Tone#") {
		t.Errorf("errors must name the bare tag: %v", result.Errors)
	}
}
