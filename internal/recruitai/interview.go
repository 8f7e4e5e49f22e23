package recruitai

import (
	"context"
	"fmt"
)

const interviewPath = "/interview"

// Entry types within a conversation.
const (
	EntryQuestion = "question"
	EntryAnswer   = "answer"
)

// Question kinds returned by the question generator. Follow-ups do not
// advance the question counter.
const (
	QuestionFollowUp        = "follow_up"
	QuestionNewSection      = "new_section"
	QuestionContinueSection = "continue_section"
)

// InterviewMeta is the session metadata loaded before a session starts.
type InterviewMeta struct {
	ID              string         `json:"id"`
	CandidateName   string         `json:"candidateName"`
	TargetRole      string         `json:"targetRole"`
	ExperienceLevel string         `json:"experienceLevel"`
	Skills          []string       `json:"skills"`
	ExtractedData   map[string]any `json:"extractedData"`
}

// ConversationEntry is one question or answer in a session transcript.
// Entries are append-only; they are never mutated after insertion.
type ConversationEntry struct {
	Type           string `json:"type"`
	Text           string `json:"text"`
	Timestamp      int64  `json:"timestamp"`
	Section        string `json:"section"`
	QuestionNumber int    `json:"questionNumber"`
	QuestionType   string `json:"questionType,omitempty"`
	Topic          string `json:"topic,omitempty"`
}

type CandidateInfo struct {
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
	Projects   []any    `json:"projects"`
}

type QuestionRequest struct {
	InterviewID         string              `json:"interviewId"`
	Section             string              `json:"section"`
	PreviousAnswer      string              `json:"previousAnswer"`
	ResumeData          map[string]any      `json:"resumeData"`
	ConversationHistory []ConversationEntry `json:"conversationHistory"`
	CandidateInfo       CandidateInfo       `json:"candidateInfo"`
}

type Question struct {
	Question     string `json:"question"`
	Section      string `json:"section"`
	IsComplete   bool   `json:"isComplete"`
	QuestionType string `json:"questionType,omitempty"`
	Topic        string `json:"topic,omitempty"`
}

type Answer struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type SubmitRequest struct {
	InterviewID         string              `json:"interviewId"`
	ConversationHistory []ConversationEntry `json:"conversationHistory"`
	Answers             []Answer            `json:"answers"`
	Duration            int                 `json:"duration"`
}

type SubmitResult struct {
	InterviewID string         `json:"interviewId"`
	Feedback    map[string]any `json:"feedback,omitempty"`
}

// CreateInterviewRequest configures a new session. ExtractedData carries the
// parsed resume verbatim so the question generator can personalize questions.
type CreateInterviewRequest struct {
	CandidateName   string        `json:"candidateName"`
	CandidateEmail  string        `json:"candidateEmail,omitempty"`
	TargetRole      string        `json:"targetRole"`
	ExperienceLevel string        `json:"experienceLevel"`
	Company         string        `json:"company,omitempty"`
	InterviewType   string        `json:"interviewType"`
	Duration        int           `json:"duration"`
	Skills          []string      `json:"skills"`
	Projects        []Project     `json:"projects"`
	ExtractedData   *ParsedResume `json:"extractedData,omitempty"`
}

// CreateInterview registers a new interview session and returns its id, the
// one candidates pass to the session runner.
func (c *Client) CreateInterview(ctx context.Context, req *CreateInterviewRequest) (string, error) {
	if req == nil {
		return "", fmt.Errorf("create request is required")
	}
	if req.CandidateName == "" {
		return "", fmt.Errorf("a candidate name is required")
	}
	if req.TargetRole == "" {
		return "", fmt.Errorf("a target role is required")
	}
	// Nil slices marshal to JSON null, which the platform rejects.
	if req.Skills == nil {
		req.Skills = []string{}
	}
	if req.Projects == nil {
		req.Projects = []Project{}
	}

	var created struct {
		InterviewID string `json:"interviewId"`
	}
	if err := c.postJSON(ctx, interviewPath+"/create", req, &created); err != nil {
		return "", err
	}

	if created.InterviewID == "" {
		return "", fmt.Errorf("platform returned no interview id")
	}

	return created.InterviewID, nil
}

func (c *Client) GetInterview(ctx context.Context, id string) (*InterviewMeta, error) {
	if id == "" {
		return nil, fmt.Errorf("interview id is required")
	}

	var meta InterviewMeta
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s", interviewPath, id), nil, &meta); err != nil {
		return nil, err
	}

	if meta.ID == "" {
		meta.ID = id
	}

	return &meta, nil
}

func (c *Client) NextQuestion(ctx context.Context, req *QuestionRequest) (*Question, error) {
	if req == nil {
		return nil, fmt.Errorf("question request is required")
	}
	// A nil history marshals to JSON null, which the generator rejects.
	if req.ConversationHistory == nil {
		req.ConversationHistory = []ConversationEntry{}
	}

	var q Question
	if err := c.postJSON(ctx, interviewPath+"/next-question", req, &q); err != nil {
		return nil, err
	}

	if q.Question == "" && !q.IsComplete {
		return nil, fmt.Errorf("question generator returned an empty question")
	}

	return &q, nil
}

func (c *Client) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	if req == nil {
		return nil, fmt.Errorf("submit request is required")
	}

	var result SubmitResult
	if err := c.postJSON(ctx, interviewPath+"/submit", req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
