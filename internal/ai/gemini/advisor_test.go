package gemini

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/recruitai"
	"github.com/voxhire/voxhire/internal/scoring"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testReport(t *testing.T) (*recruitai.ParsedResume, *scoring.ATSReport) {
	t.Helper()

	resume := &recruitai.ParsedResume{
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Skills: []string{"JavaScript", "React"},
	}

	report, err := scoring.ATSScore(resume, "software-engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return resume, report
}

func TestAdvisorSuggest(t *testing.T) {
	stub := &stubGenerator{response: `[
		{"category": "Skills Gap", "priority": "HIGH", "suggestion": "Learn Python", "action": "Take a course", "impact": "Passes screening", "timeframe": "2-4 weeks"},
		{"category": "Projects", "priority": "nonsense", "suggestion": "Add a project", "action": "Build one", "impact": "Shows skills"}
	]`}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	resume, report := testReport(t)

	suggestions, err := advisor.Suggest(context.Background(), resume, report, "software-engineer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}

	if suggestions[0].Priority != "high" {
		t.Fatalf("expected normalized high priority, got %q", suggestions[0].Priority)
	}

	if suggestions[1].Priority != "medium" {
		t.Fatalf("expected unknown priority to default to medium, got %q", suggestions[1].Priority)
	}

	if !strings.Contains(stub.lastPrompt, "software-engineer") {
		t.Fatalf("expected role in prompt")
	}

	if !strings.Contains(stub.lastPrompt, `"Ada Lovelace"`) {
		t.Fatalf("expected resume payload in prompt")
	}
}

func TestAdvisorSuggestGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: fmt.Errorf("quota exceeded")}
	advisor := NewAdvisor(stub, zap.NewNop(), 0)

	resume, report := testReport(t)

	if _, err := advisor.Suggest(context.Background(), resume, report, "software-engineer"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseResponseHandlesCodeBlock(t *testing.T) {
	raw := "```json\n[{\"category\": \"Summary\", \"priority\": \"low\", \"suggestion\": \"Tighten the summary\", \"action\": \"Rewrite it\", \"impact\": \"Better hook\"}]\n```"

	suggestions, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(suggestions))
	}

	if suggestions[0].Category != "Summary" {
		t.Fatalf("unexpected category: %q", suggestions[0].Category)
	}
}

func TestParseResponseRejectsEmpty(t *testing.T) {
	if _, err := parseResponse(`[]`); err == nil {
		t.Fatalf("expected error for empty suggestion list")
	}

	if _, err := parseResponse(`[{"category": "x"}]`); err == nil {
		t.Fatalf("expected error when no element has a suggestion")
	}
}
