package ai

import (
	"context"

	"github.com/voxhire/voxhire/internal/recruitai"
	"github.com/voxhire/voxhire/internal/scoring"
)

// Suggestion is one actionable resume improvement. Priority is one of
// high/medium/low.
type Suggestion struct {
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	Suggestion string `json:"suggestion"`
	Action     string `json:"action"`
	Impact     string `json:"impact"`
	Timeframe  string `json:"timeframe,omitempty"`
}

// Advisor produces improvement suggestions from a resume and its scoring
// report. It is advisory only: nothing it returns feeds back into the
// deterministic scores.
type Advisor interface {
	Suggest(ctx context.Context, resume *recruitai.ParsedResume, report *scoring.ATSReport, role string) ([]Suggestion, error)
}
