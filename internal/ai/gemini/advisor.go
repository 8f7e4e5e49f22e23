package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/ai"
	"github.com/voxhire/voxhire/internal/logger"
	"github.com/voxhire/voxhire/internal/recruitai"
	"github.com/voxhire/voxhire/internal/scoring"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Advisor turns a scoring report into prioritized improvement suggestions
// via Gemini.
type Advisor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewAdvisor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Advisor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Advisor{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

func (a *Advisor) Suggest(ctx context.Context, resume *recruitai.ParsedResume, report *scoring.ATSReport, role string) ([]ai.Suggestion, error) {
	if resume == nil {
		return nil, fmt.Errorf("a parsed resume is required")
	}
	if report == nil {
		return nil, fmt.Errorf("a scoring report is required")
	}

	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resume payload: %w", err)
	}

	reportJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report payload: %w", err)
	}

	prompt := buildPrompt(string(resumeJSON), string(reportJSON), role)

	a.logger.Debug("gemini generate content request",
		zap.String("role", role),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("gemini generate content response",
		zap.String("role", role),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, a.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildPrompt(resumeJSON, reportJSON, role string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME_JSON}}\n\nReport:\n{{REPORT_JSON}}\n\nRole: {{ROLE}}\n\nJSON Response:"
	}

	prompt := strings.ReplaceAll(template, "{{RESUME_JSON}}", resumeJSON)
	prompt = strings.ReplaceAll(prompt, "{{REPORT_JSON}}", reportJSON)
	prompt = strings.ReplaceAll(prompt, "{{ROLE}}", role)

	return prompt
}

func parseResponse(raw string) ([]ai.Suggestion, error) {
	cleaned := extractJSON(strings.TrimSpace(raw))

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	suggestions := make([]ai.Suggestion, 0, len(items))
	for _, item := range items {
		suggestion := ai.Suggestion{
			Category:   coerceString(item["category"]),
			Priority:   normalizePriority(coerceString(item["priority"])),
			Suggestion: coerceString(item["suggestion"]),
			Action:     coerceString(item["action"]),
			Impact:     coerceString(item["impact"]),
			Timeframe:  coerceString(item["timeframe"]),
		}
		if suggestion.Suggestion == "" {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	if len(suggestions) == 0 {
		return nil, fmt.Errorf("gemini response contained no usable suggestions")
	}

	return suggestions, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func normalizePriority(p string) string {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "high":
		return "high"
	case "low":
		return "low"
	default:
		return "medium"
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
