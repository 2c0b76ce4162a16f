package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sunfoxy2k/antechamber/block"
	"github.com/sunfoxy2k/antechamber/llm"
	"github.com/sunfoxy2k/antechamber/llm/testutil"
)

// validContextJSON builds a passing context-stage response.
func validContextJSON() string {
	var entries []string
	for i := 1; i <= 5; i++ {
		entries = append(entries, fmt.Sprintf(`{
			"user_name": "User %d",
			"user_role": "Analyst",
			"user_personality": "Direct",
			"what_they_are_doing_for_current_task": "Reviewing a report",
			"conversation_flow": ["asks a question"]
		}`, i))
	}
	return fmt.Sprintf(`{"contexts": [%s]}`, strings.Join(entries, ","))
}

// validSkeleton builds a passing skeleton: 6 paragraphs covering all five
// default building blocks.
func validSkeleton() string {
	return strings.Join([]string{
		"(who the user is) [CONTEXT_INFORMATION]",
		"(how to call tools) [TOOL_USE_INSTRUCTIONS]",
		"(formatting choices) [USER_PREFERENCES]",
		"(domain knowledge) [BACKGROUND_INFORMATION]",
		"(voice and register) [TONAL_CONTROL]",
		"(session specifics) [CONTEXT_INFORMATION]",
	}, "\n\n")
}

// validTagged layers all seven default complex blocks onto the skeleton with
// three paragraphs carrying two distinct tags each.
func validTagged() string {
	return strings.Join([]string{
		"(who the user is) [CONTEXT_INFORMATION] (ground replies) #Provide_Context_Information# (tie to goals) #Anchor_to_User_Goals#",
		"(how to call tools) [TOOL_USE_INSTRUCTIONS] (tool etiquette) #Guide_Tool_Use_and_Response_Formatting# (hard limits) #Set_Clear_Guardrails#",
		"(formatting choices) [USER_PREFERENCES] (voice) #Define_Personality_and_Tone# (pacing) #Manage_Conversation_Flow#",
		"(domain knowledge) [BACKGROUND_INFORMATION] (when unsure) #Handle_Uncertainty_and_Limits#",
		"(voice and register) [TONAL_CONTROL] (consistent tone) #Define_Personality_and_Tone#",
		"(session specifics) [CONTEXT_INFORMATION] (stay current) #Provide_Context_Information#",
	}, "\n\n")
}

func textResponse(content string) *llm.Response {
	return &llm.Response{Content: content, Model: "test-model"}
}

func newTestPipeline(mock *testutil.MockClient) *Pipeline {
	return New(mock, block.NewStore(),
		WithModel(ModelConfig{Model: "test-model"}),
		WithLogger(quietLogger()),
	)
}

func TestGenerateContextFirstTry(t *testing.T) {
	mock := &testutil.MockClient{Responses: []*llm.Response{textResponse(validContextJSON())}}
	p := newTestPipeline(mock)

	out, res, err := p.GenerateContext(context.Background(), "a mentoring assistant", "search", "")
	if err != nil {
		t.Fatalf("GenerateContext failed: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid result, got %v", res.Errors)
	}
	if out != validContextJSON() {
		t.Error("expected the candidate returned unchanged")
	}
	if mock.CallCount() != 1 {
		t.Errorf("generator called %d times, want 1", mock.CallCount())
	}

	req := mock.LastRequest()
	if req.Model != "test-model" {
		t.Errorf("request model = %q", req.Model)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Errorf("unexpected message shape: %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, "a mentoring assistant") {
		t.Error("user message must carry the inspiration")
	}
}

func TestGenerateSkeletonRetriesOnInvalid(t *testing.T) {
	mock := &testutil.MockClient{Responses: []*llm.Response{
		textResponse("just one paragraph with no tags"),
		textResponse(validSkeleton()),
	}}
	p := newTestPipeline(mock)

	out, res, err := p.GenerateSkeleton(context.Background(), "a mentoring assistant")
	if err != nil {
		t.Fatalf("GenerateSkeleton failed: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid result after retry, got %v", res.Errors)
	}
	if out != validSkeleton() {
		t.Error("expected the second candidate")
	}
	if mock.CallCount() != 2 {
		t.Errorf("generator called %d times, want 2", mock.CallCount())
	}
}

func TestTagComplexBlocks(t *testing.T) {
	mock := &testutil.MockClient{Responses: []*llm.Response{textResponse(validTagged())}}
	p := newTestPipeline(mock)

	_, res, err := p.TagComplexBlocks(context.Background(), validSkeleton(), "analyst persona")
	if err != nil {
		t.Fatalf("TagComplexBlocks failed: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid result, got %v", res.Errors)
	}

	req := mock.LastRequest()
	if !strings.Contains(req.Messages[1].Content, validSkeleton()) {
		t.Error("user message must carry the skeleton")
	}
}

func TestPopulateBlocksRejectsLeakage(t *testing.T) {
	mock := &testutil.MockClient{Responses: []*llm.Response{
		textResponse("You assist analysts. [CONTEXT_INFORMATION] remains here."),
		textResponse("You assist analysts with clear, sourced answers."),
	}}
	p := newTestPipeline(mock)

	out, res, err := p.PopulateBlocks(context.Background(), validTagged(), "analyst persona", "", nil)
	if err != nil {
		t.Fatalf("PopulateBlocks failed: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid result after retry, got %v", res.Errors)
	}
	if strings.Contains(out, "[CONTEXT_INFORMATION]") {
		t.Error("leaked tag survived into the accepted output")
	}
}

func TestRunFullSequence(t *testing.T) {
	prose := "You assist analysts with clear, sourced answers."
	mock := &testutil.MockClient{Responses: []*llm.Response{
		textResponse(validContextJSON()),
		textResponse(validSkeleton()),
		textResponse(validTagged()),
		textResponse(prose),
	}}
	p := newTestPipeline(mock)

	result, err := p.Run(context.Background(), RunInput{
		Inspiration: "a mentoring assistant",
		Tools:       []string{"search"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Valid() {
		t.Fatalf("expected all stages valid, got %+v", result.StageResults)
	}
	if result.Final != prose {
		t.Errorf("final = %q, want populate output (enrich and formalize skipped)", result.Final)
	}
	if result.Context != validContextJSON() || result.Skeleton != validSkeleton() || result.Tagged != validTagged() {
		t.Error("intermediate outputs must be preserved on the result")
	}
	if mock.CallCount() != 4 {
		t.Errorf("generator called %d times, want 4", mock.CallCount())
	}

	// Context output feeds later stages as their context parameter.
	reqs := mock.Requests()
	if !strings.Contains(reqs[2].Messages[1].Content, "User 1") {
		t.Error("complex stage must receive the generated context")
	}
}

func TestRunWithEnrichAndFormalize(t *testing.T) {
	prose := "You assist analysts with clear, sourced answers."
	enriched := "You assist analysts inside the Q3 reporting workspace with clear, sourced answers."
	final := "You assist analysts inside the Q3 reporting workspace. Provide clear, sourced answers."
	mock := &testutil.MockClient{Responses: []*llm.Response{
		textResponse(validContextJSON()),
		textResponse(validSkeleton()),
		textResponse(validTagged()),
		textResponse(prose),
		textResponse(enriched),
		textResponse(final),
	}}
	p := newTestPipeline(mock)

	result, err := p.Run(context.Background(), RunInput{
		Inspiration:    "a mentoring assistant",
		SystemSettings: "workspace: Q3 reporting",
		Formalize:      true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Enriched != enriched {
		t.Errorf("enriched = %q", result.Enriched)
	}
	if result.Final != final {
		t.Errorf("final = %q, want formalized output", result.Final)
	}
	if mock.CallCount() != 6 {
		t.Errorf("generator called %d times, want 6", mock.CallCount())
	}
}

func TestRunDegradedStageFlowsOnward(t *testing.T) {
	// The skeleton stage never validates; the run must still complete with
	// the degraded output feeding the next stage.
	badSkeleton := "one short paragraph"
	mock := &testutil.MockClient{Responses: []*llm.Response{
		textResponse(validContextJSON()),
		textResponse(badSkeleton),
		textResponse(badSkeleton),
		textResponse(badSkeleton),
		textResponse(validTagged()),
		textResponse("You assist analysts."),
	}}
	p := newTestPipeline(mock)

	result, err := p.Run(context.Background(), RunInput{Inspiration: "x"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Valid() {
		t.Error("run with a degraded stage must not report fully valid")
	}
	if result.StageResults["skeleton"].Valid {
		t.Error("skeleton stage should be marked invalid")
	}
	if result.Final != "You assist analysts." {
		t.Errorf("final = %q, run must complete despite degradation", result.Final)
	}
}

func TestPopulateBlocksGuardsContextDeclaredTools(t *testing.T) {
	contextDoc := strings.Replace(validContextJSON(),
		`"conversation_flow": ["asks a question"]`,
		`"conversation_flow": ["asks a question"], "tools": ["ledger_search"]`, 1)
	mock := &testutil.MockClient{Responses: []*llm.Response{
		textResponse("You assist analysts using ledger_search for sourcing."),
		textResponse("You assist analysts with clear, sourced answers."),
	}}
	p := newTestPipeline(mock)

	out, res, err := p.PopulateBlocks(context.Background(), validTagged(), contextDoc, "", nil)
	if err != nil {
		t.Fatalf("PopulateBlocks failed: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid result after retry, got %v", res.Errors)
	}
	if strings.Contains(out, "ledger_search") {
		t.Error("tool declared in the context document leaked into the accepted output")
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected a retry on tool mention, got %d calls", mock.CallCount())
	}
}
