package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/recruitai"
)

// State is the controller's lifecycle position. A session moves
// idle → listening/talking/thinking → processing → completed and never
// backwards out of completed.
type State string

const (
	StateIdle       State = "idle"
	StateThinking   State = "thinking"
	StateTalking    State = "talking"
	StateListening  State = "listening"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
)

const (
	defaultQuestionTimeout = 3 * time.Second

	// The generator only needs recent context; the full transcript slows it
	// down without improving the questions.
	historyWindow = 2
	maxSkillsSent = 3
)

// QuestionService is the slice of the platform API the controller talks to.
type QuestionService interface {
	NextQuestion(ctx context.Context, req *recruitai.QuestionRequest) (*recruitai.Question, error)
	Submit(ctx context.Context, req *recruitai.SubmitRequest) (*recruitai.SubmitResult, error)
}

// Speaker voices a question and blocks until playback is done.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Archiver keeps a submission payload when the platform cannot take it.
type Archiver interface {
	SaveFailed(ctx context.Context, interviewID string, payload *recruitai.SubmitRequest) (string, error)
}

// Deps wires a Controller. Platform and Speaker are required; Archive may be
// nil, in which case a failed submission is lost and reported as an error.
type Deps struct {
	Platform QuestionService
	Speaker  Speaker
	Archive  Archiver
	Logger   *zap.Logger

	// QuestionTimeout bounds a single next-question fetch before falling
	// back to the generic list. Zero means the default.
	QuestionTimeout time.Duration

	// Now is stubbed in tests.
	Now func() time.Time
}

// Turn is the outcome of feeding one answer into the session.
type Turn struct {
	Question  string
	Completed bool
	Result    *Result
}

// Result describes how the session ended.
type Result struct {
	InterviewID  string
	Duration     int
	Feedback     map[string]any
	SavedLocally bool
	ArchiveID    string
}

// Controller owns one interview session: the transcript, the question
// counter and the state machine. It is not safe for concurrent use; a
// session has exactly one timeline and one caller.
type Controller struct {
	platform QuestionService
	speaker  Speaker
	archive  Archiver
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time

	meta           *recruitai.InterviewMeta
	state          State
	conversation   []recruitai.ConversationEntry
	questionNumber int
	started        time.Time
	result         *Result
}

func New(meta *recruitai.InterviewMeta, deps Deps) (*Controller, error) {
	if meta == nil || meta.ID == "" {
		return nil, fmt.Errorf("interview metadata with an id is required")
	}
	if deps.Platform == nil {
		return nil, fmt.Errorf("a platform client is required")
	}
	if deps.Speaker == nil {
		return nil, fmt.Errorf("a speaker is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.QuestionTimeout <= 0 {
		deps.QuestionTimeout = defaultQuestionTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Controller{
		platform:       deps.Platform,
		speaker:        deps.Speaker,
		archive:        deps.Archive,
		logger:         deps.Logger,
		timeout:        deps.QuestionTimeout,
		now:            deps.Now,
		meta:           meta,
		state:          StateIdle,
		questionNumber: 1,
	}, nil
}

// Start fetches and voices the opening question.
func (c *Controller) Start(ctx context.Context) (string, error) {
	if c.state != StateIdle {
		return "", fmt.Errorf("session already started")
	}

	c.started = c.now()
	c.state = StateThinking

	question := c.fetchQuestion(ctx, "")
	c.appendQuestion(question, recruitai.QuestionNewSection)

	c.logger.Info("interview started",
		zap.String("interview_id", c.meta.ID),
		zap.String("section", SectionFor(c.questionNumber)))

	c.speak(ctx, question.Question)

	return question.Question, nil
}

// SubmitAnswer records the candidate's answer and advances the session: the
// next question is fetched (falling back to the generic list on failure),
// checked against the transcript for a duplicate with exactly one retry, and
// voiced. When the generator reports the interview complete, or the retry
// also fails, the session is ended and the Turn carries the Result.
func (c *Controller) SubmitAnswer(ctx context.Context, text string) (*Turn, error) {
	if c.state == StateCompleted {
		return nil, fmt.Errorf("session already completed")
	}
	if c.state == StateIdle {
		return nil, fmt.Errorf("session not started")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("an answer is required")
	}

	c.state = StateProcessing
	c.conversation = append(c.conversation, recruitai.ConversationEntry{
		Type:           recruitai.EntryAnswer,
		Text:           text,
		Timestamp:      c.now().UnixMilli(),
		Section:        SectionFor(c.questionNumber),
		QuestionNumber: c.questionNumber,
	})

	question := c.fetchQuestion(ctx, text)
	if question.IsComplete {
		return c.complete(ctx)
	}

	if c.isDuplicate(question.Question) {
		c.logger.Warn("duplicate question from generator, retrying once",
			zap.String("question", question.Question))

		retry := c.fetchQuestion(ctx, text)
		if retry.IsComplete || c.isDuplicate(retry.Question) {
			return c.complete(ctx)
		}
		question = retry
	}

	if question.QuestionType != recruitai.QuestionFollowUp {
		c.questionNumber++
	}
	c.appendQuestion(question, recruitai.QuestionContinueSection)

	c.speak(ctx, question.Question)

	return &Turn{Question: question.Question}, nil
}

// End closes the session and submits the transcript. A failed submission is
// archived locally; the session counts as completed either way. Calling End
// on a completed session returns the stored result.
func (c *Controller) End(ctx context.Context) (*Result, error) {
	if c.state == StateCompleted {
		return c.result, nil
	}

	duration := int(c.now().Sub(c.started) / time.Second)
	c.state = StateCompleted

	payload := &recruitai.SubmitRequest{
		InterviewID:         c.meta.ID,
		ConversationHistory: c.Conversation(),
		Answers:             c.answers(),
		Duration:            duration,
	}

	result := &Result{InterviewID: c.meta.ID, Duration: duration}
	c.result = result

	submitted, err := c.platform.Submit(ctx, payload)
	if err == nil {
		result.Feedback = submitted.Feedback
		c.logger.Info("interview submitted",
			zap.String("interview_id", c.meta.ID),
			zap.Int("duration_seconds", duration))
		return result, nil
	}

	c.logger.Warn("submission failed, archiving locally",
		zap.String("interview_id", c.meta.ID), zap.Error(err))

	if c.archive == nil {
		return result, fmt.Errorf("submitting interview: %w", err)
	}

	archiveID, archiveErr := c.archive.SaveFailed(ctx, c.meta.ID, payload)
	if archiveErr != nil {
		return result, fmt.Errorf("submitting interview: %w (local archive also failed: %v)", err, archiveErr)
	}

	result.SavedLocally = true
	result.ArchiveID = archiveID

	return result, nil
}

func (c *Controller) State() State { return c.state }

// QuestionNumber never decreases over the life of a session.
func (c *Controller) QuestionNumber() int { return c.questionNumber }

// Conversation returns a copy of the transcript so far.
func (c *Controller) Conversation() []recruitai.ConversationEntry {
	out := make([]recruitai.ConversationEntry, len(c.conversation))
	copy(out, c.conversation)

	return out
}

// Elapsed is the session runtime so far, zero before Start.
func (c *Controller) Elapsed() time.Duration {
	if c.started.IsZero() {
		return 0
	}

	return c.now().Sub(c.started)
}

func (c *Controller) complete(ctx context.Context) (*Turn, error) {
	result, err := c.End(ctx)

	return &Turn{Completed: true, Result: result}, err
}

// fetchQuestion never fails: any transport, timeout or generator error
// degrades to the fixed fallback list so the session keeps moving.
func (c *Controller) fetchQuestion(ctx context.Context, previousAnswer string) *recruitai.Question {
	fetchCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	recent := c.conversation
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	history := make([]recruitai.ConversationEntry, 0, historyWindow)
	history = append(history, recent...)

	skills := c.meta.Skills
	if len(skills) > maxSkillsSent {
		skills = skills[:maxSkillsSent]
	}

	question, err := c.platform.NextQuestion(fetchCtx, &recruitai.QuestionRequest{
		InterviewID:         c.meta.ID,
		Section:             SectionFor(c.questionNumber),
		PreviousAnswer:      previousAnswer,
		ResumeData:          map[string]any{},
		ConversationHistory: history,
		CandidateInfo: recruitai.CandidateInfo{
			Name:       c.meta.CandidateName,
			Role:       c.meta.TargetRole,
			Experience: c.meta.ExperienceLevel,
			Skills:     skills,
			Projects:   []any{},
		},
	})
	if err != nil {
		c.logger.Warn("question generator unavailable, using fallback",
			zap.Int("conversation_len", len(c.conversation)), zap.Error(err))

		return FallbackQuestion(len(c.conversation), SectionFor(c.questionNumber))
	}

	return question
}

func (c *Controller) isDuplicate(question string) bool {
	normalized := strings.ToLower(strings.TrimSpace(question))
	for _, entry := range c.conversation {
		if entry.Type == recruitai.EntryQuestion &&
			strings.ToLower(strings.TrimSpace(entry.Text)) == normalized {
			return true
		}
	}

	return false
}

func (c *Controller) appendQuestion(question *recruitai.Question, defaultType string) {
	section := question.Section
	if section == "" {
		section = SectionFor(c.questionNumber)
	}
	questionType := question.QuestionType
	if questionType == "" {
		questionType = defaultType
	}

	c.conversation = append(c.conversation, recruitai.ConversationEntry{
		Type:           recruitai.EntryQuestion,
		Text:           question.Question,
		Timestamp:      c.now().UnixMilli(),
		Section:        section,
		QuestionNumber: c.questionNumber,
		QuestionType:   questionType,
		Topic:          question.Topic,
	})
}

func (c *Controller) answers() []recruitai.Answer {
	answers := make([]recruitai.Answer, 0, len(c.conversation)/2)
	for _, entry := range c.conversation {
		if entry.Type == recruitai.EntryAnswer {
			answers = append(answers, recruitai.Answer{Text: entry.Text, Timestamp: entry.Timestamp})
		}
	}

	return answers
}

// speak voices a question; a playback failure is not fatal to the session,
// the candidate can still read the question in the terminal.
func (c *Controller) speak(ctx context.Context, text string) {
	c.state = StateTalking
	if err := c.speaker.Speak(ctx, text); err != nil {
		c.logger.Warn("speech playback failed", zap.Error(err))
	}
	c.state = StateListening
}
