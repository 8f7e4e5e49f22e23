package recruitai

import (
	"context"
)

// InterviewSummary is one row of the completed-interviews listing.
type InterviewSummary struct {
	ID            string  `json:"id"`
	CandidateName string  `json:"candidateName"`
	TargetRole    string  `json:"targetRole"`
	Status        string  `json:"status"`
	Score         float64 `json:"score,omitempty"`
	CreatedAt     string  `json:"createdAt,omitempty"`
	Duration      int     `json:"duration,omitempty"`
}

// PerformanceStats aggregates interview outcomes across a recruiter account.
type PerformanceStats struct {
	TotalInterviews int                `json:"totalInterviews"`
	Completed       int                `json:"completedInterviews"`
	AverageScore    float64            `json:"averageScore"`
	AverageDuration float64            `json:"averageDuration"`
	ByRole          map[string]int     `json:"interviewsByRole,omitempty"`
	ScoreTrend      []float64          `json:"scoreTrend,omitempty"`
	SectionAverages map[string]float64 `json:"sectionAverages,omitempty"`
}

func (c *Client) ListInterviews(ctx context.Context) ([]InterviewSummary, error) {
	var items []InterviewSummary
	if err := c.getJSON(ctx, "/interviews", nil, &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *Client) GetPerformanceStats(ctx context.Context) (*PerformanceStats, error) {
	var stats PerformanceStats
	if err := c.getJSON(ctx, "/interviews/performance-stats", nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
