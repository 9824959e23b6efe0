package enhance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"cveezy-backend/internal/llm"
)

// scriptedGenerator replays a fixed sequence of responses or errors.
type scriptedGenerator struct {
	replies []string
	errs    []error
	calls   int
	inputs  []llm.GenerateInput
}

func (g *scriptedGenerator) Generate(ctx context.Context, input llm.GenerateInput) (llm.GenerateResult, error) {
	g.inputs = append(g.inputs, input)
	i := g.calls
	g.calls++
	if i < len(g.errs) && g.errs[i] != nil {
		return llm.GenerateResult{}, g.errs[i]
	}
	reply := ""
	if i < len(g.replies) {
		reply = g.replies[i]
	}
	return llm.GenerateResult{
		Candidates: []llm.Candidate{
			{Content: llm.Content{Parts: []llm.Part{{Text: reply}}}},
		},
	}, nil
}

// fixedRand always picks the first option.
type fixedRand struct{}

func (fixedRand) Intn(n int) int { return 0 }

func newTestOrchestrator(gen llm.Generator) *Orchestrator {
	return NewOrchestrator(gen, DefaultConfig(), fixedRand{})
}

func TestEnhanceMissingRequiredFields(t *testing.T) {
	o := newTestOrchestrator(&scriptedGenerator{})

	_, err := o.Enhance(context.Background(), Request{
		ContentType: ContentExperience,
		FieldText:   "Maintained internal tools for the support team",
	})

	var missingErr *MissingRequiredFieldsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected MissingRequiredFieldsError, got %v", err)
	}
	want := []string{"jobTitle", "company"}
	if len(missingErr.Fields) != len(want) {
		t.Fatalf("expected fields %v, got %v", want, missingErr.Fields)
	}
	for i, field := range want {
		if missingErr.Fields[i] != field {
			t.Fatalf("expected fields %v, got %v", want, missingErr.Fields)
		}
	}
}

func TestEnhanceMissingFieldsCheckedBeforeContent(t *testing.T) {
	o := newTestOrchestrator(&scriptedGenerator{})

	// The text is both too short and generic, but the absent job title
	// must be reported first.
	_, err := o.Enhance(context.Background(), Request{
		ContentType: ContentSummary,
		FieldText:   "worked on stuff",
	})

	var missingErr *MissingRequiredFieldsError
	if !errors.As(err, &missingErr) {
		t.Fatalf("expected MissingRequiredFieldsError, got %v", err)
	}
}

func TestEnhanceInsufficientContent(t *testing.T) {
	o := newTestOrchestrator(&scriptedGenerator{})

	_, err := o.Enhance(context.Background(), Request{
		ContentType: ContentSummary,
		FieldText:   "short",
		Context:     EntityContext{JobTitle: "Engineer"},
	})

	var insufficientErr *InsufficientContentError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected InsufficientContentError, got %v", err)
	}
	if insufficientErr.MinLength != 20 {
		t.Fatalf("expected minLength 20, got %d", insufficientErr.MinLength)
	}
}

func TestEnhanceGenericContent(t *testing.T) {
	o := newTestOrchestrator(&scriptedGenerator{})

	_, err := o.Enhance(context.Background(), Request{
		ContentType: ContentExperience,
		FieldText:   "worked on stuff every day",
		Context:     EntityContext{JobTitle: "Engineer", Company: "Acme"},
	})

	var genericErr *GenericContentError
	if !errors.As(err, &genericErr) {
		t.Fatalf("expected GenericContentError, got %v", err)
	}
	if genericErr.Phrase != "worked on stuff" {
		t.Fatalf("expected phrase 'worked on stuff', got %q", genericErr.Phrase)
	}
}

func TestEnhanceAcceptsFirstGoodCandidate(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{
		`{"description": "Built and maintained internal tooling that cut support resolution time in half."}`,
	}}
	o := newTestOrchestrator(gen)

	res, err := o.Enhance(context.Background(), Request{
		ContentType: ContentExperience,
		FieldText:   "Maintained internal tools for the support team",
		Context:     EntityContext{JobTitle: "Engineer", Company: "Acme"},
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if res.Fallback {
		t.Fatalf("expected a generated result, got fallback: %q", res.Text)
	}
	if res.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", res.Attempts)
	}
	if !strings.Contains(res.Text, "support resolution time") {
		t.Fatalf("unexpected result text: %q", res.Text)
	}
}

func TestEnhanceRejectsEchoAndFallsBack(t *testing.T) {
	original := "Maintained internal tools for the support team"
	echo := fmt.Sprintf(`{"description": %q}`, original)
	gen := &scriptedGenerator{replies: []string{echo, echo, echo}}
	o := newTestOrchestrator(gen)

	res, err := o.Enhance(context.Background(), Request{
		ContentType: ContentExperience,
		FieldText:   original,
		Context:     EntityContext{JobTitle: "Engineer", Company: "Acme"},
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if !res.Fallback {
		t.Fatalf("expected fallback after echoed candidates, got %q", res.Text)
	}
	if res.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", res.Attempts)
	}
	if gen.calls != 3 {
		t.Fatalf("expected 3 generator calls, got %d", gen.calls)
	}
	if strings.TrimSpace(res.Text) == "" {
		t.Fatalf("fallback text is empty")
	}
}

func TestEnhanceSurvivesGeneratorErrors(t *testing.T) {
	gen := &scriptedGenerator{
		errs: []error{errors.New("gemini http status 503"), errors.New("request timeout")},
		replies: []string{"", "",
			`{"description": "Delivered stable internal platforms used daily by forty agents."}`,
		},
	}
	o := newTestOrchestrator(gen)

	res, err := o.Enhance(context.Background(), Request{
		ContentType: ContentExperience,
		FieldText:   "Maintained internal tools for the support team",
		Context:     EntityContext{JobTitle: "Engineer", Company: "Acme"},
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if res.Fallback {
		t.Fatalf("expected third attempt to succeed, got fallback")
	}
	if res.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", res.Attempts)
	}
}

func TestEnhanceRejectsAvoidListRepeats(t *testing.T) {
	previous := "Built and maintained internal tooling that cut support resolution time in half."
	gen := &scriptedGenerator{replies: []string{
		fmt.Sprintf(`{"description": %q}`, previous),
		`{"description": "Automated the support escalation workflow, removing two manual handoffs per ticket."}`,
	}}
	o := newTestOrchestrator(gen)

	res, err := o.Enhance(context.Background(), Request{
		ContentType: ContentExperience,
		FieldText:   "Maintained internal tools for the support team",
		Context:     EntityContext{JobTitle: "Engineer", Company: "Acme"},
		AvoidList:   []string{previous},
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if res.Fallback {
		t.Fatalf("expected second candidate to be accepted")
	}
	if res.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", res.Attempts)
	}
	if !strings.Contains(res.Text, "escalation workflow") {
		t.Fatalf("unexpected result text: %q", res.Text)
	}
}

func TestEnhanceEscalatesSampling(t *testing.T) {
	original := "Maintained internal tools for the support team"
	echo := fmt.Sprintf(`{"description": %q}`, original)
	gen := &scriptedGenerator{replies: []string{echo, echo, echo}}
	o := newTestOrchestrator(gen)

	if _, err := o.Enhance(context.Background(), Request{
		ContentType: ContentExperience,
		FieldText:   original,
		Context:     EntityContext{JobTitle: "Engineer", Company: "Acme"},
	}); err != nil {
		t.Fatalf("Enhance: %v", err)
	}

	if len(gen.inputs) != 3 {
		t.Fatalf("expected 3 generator inputs, got %d", len(gen.inputs))
	}
	for i := 1; i < len(gen.inputs); i++ {
		if gen.inputs[i].Temperature <= gen.inputs[i-1].Temperature {
			t.Fatalf("temperature did not escalate: %v then %v", gen.inputs[i-1].Temperature, gen.inputs[i].Temperature)
		}
		if gen.inputs[i].TopP < gen.inputs[i-1].TopP {
			t.Fatalf("topP decreased: %v then %v", gen.inputs[i-1].TopP, gen.inputs[i].TopP)
		}
	}
	if last := gen.inputs[len(gen.inputs)-1].Temperature; last > 1.00 {
		t.Fatalf("temperature exceeded the clamp: %v", last)
	}
}

func TestEnhanceRegenerateStartsHotter(t *testing.T) {
	original := "Maintained internal tools for the support team"
	gen := &scriptedGenerator{replies: []string{
		`{"description": "Built and maintained internal tooling that cut support resolution time in half."}`,
	}}
	o := newTestOrchestrator(gen)

	if _, err := o.Enhance(context.Background(), Request{
		ContentType: ContentExperience,
		FieldText:   original,
		Context:     EntityContext{JobTitle: "Engineer", Company: "Acme"},
		Regenerate:  true,
	}); err != nil {
		t.Fatalf("Enhance: %v", err)
	}

	sampling := DefaultConfig().SamplingFor(ContentExperience)
	if got := gen.inputs[0].Temperature; got != sampling.TemperatureRegn {
		t.Fatalf("expected regenerate temperature %v, got %v", sampling.TemperatureRegn, got)
	}
	if got := gen.inputs[0].TopP; got != sampling.TopPRegn {
		t.Fatalf("expected regenerate topP %v, got %v", sampling.TopPRegn, got)
	}
}

func TestEnhanceSummaryFallbackMentionsJobTitle(t *testing.T) {
	o := newTestOrchestrator(llm.PlaceholderGenerator{})

	res, err := o.Enhance(context.Background(), Request{
		ContentType: ContentSummary,
		FieldText:   "I have been working in operations for six years",
		Context: EntityContext{
			JobTitle: "Operations Manager",
			Experiences: []ExperienceContext{
				{JobTitle: "Operations Lead", Company: "Acme Logistics"},
			},
		},
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if !res.Fallback {
		t.Fatalf("placeholder generator should force the fallback")
	}
	if !strings.Contains(strings.ToLower(res.Text), "operations manager") {
		t.Fatalf("fallback summary lost the job title anchor: %q", res.Text)
	}
}
