package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/voxhire/voxhire/internal/recruitai"
)

type questionReply struct {
	question *recruitai.Question
	err      error
}

type stubPlatform struct {
	replies   []questionReply
	requests  []*recruitai.QuestionRequest
	submits   []*recruitai.SubmitRequest
	submitErr error
	feedback  map[string]any
}

func (s *stubPlatform) NextQuestion(_ context.Context, req *recruitai.QuestionRequest) (*recruitai.Question, error) {
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return nil, fmt.Errorf("no scripted reply")
	}

	reply := s.replies[0]
	s.replies = s.replies[1:]

	return reply.question, reply.err
}

func (s *stubPlatform) Submit(_ context.Context, req *recruitai.SubmitRequest) (*recruitai.SubmitResult, error) {
	s.submits = append(s.submits, req)
	if s.submitErr != nil {
		return nil, s.submitErr
	}

	return &recruitai.SubmitResult{InterviewID: req.InterviewID, Feedback: s.feedback}, nil
}

type stubSpeaker struct {
	spoken []string
	err    error
}

func (s *stubSpeaker) Speak(_ context.Context, text string) error {
	s.spoken = append(s.spoken, text)

	return s.err
}

type stubArchiver struct {
	saved []*recruitai.SubmitRequest
	id    string
	err   error
}

func (s *stubArchiver) SaveFailed(_ context.Context, _ string, payload *recruitai.SubmitRequest) (string, error) {
	s.saved = append(s.saved, payload)

	return s.id, s.err
}

func newController(t *testing.T, platform *stubPlatform, speaker *stubSpeaker, archive Archiver) *Controller {
	t.Helper()

	meta := &recruitai.InterviewMeta{
		ID:              "int-1",
		CandidateName:   "Ada",
		TargetRole:      "Software Engineer",
		ExperienceLevel: "senior",
		Skills:          []string{"Go", "SQL", "React", "Docker", "AWS"},
	}

	ctrl, err := New(meta, Deps{
		Platform: platform,
		Speaker:  speaker,
		Archive:  archive,
		Logger:   zap.NewNop(),
		Now:      func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	return ctrl
}

func scripted(questions ...*recruitai.Question) []questionReply {
	replies := make([]questionReply, len(questions))
	for i, q := range questions {
		replies[i] = questionReply{question: q}
	}

	return replies
}

func TestStartUsesFallbackWhenGeneratorFails(t *testing.T) {
	platform := &stubPlatform{replies: []questionReply{{err: fmt.Errorf("timeout")}}}
	speaker := &stubSpeaker{}
	ctrl := newController(t, platform, speaker, nil)

	question, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, fallbackQuestions[0], question)
	assert.Equal(t, StateListening, ctrl.State())
	assert.Equal(t, []string{fallbackQuestions[0]}, speaker.spoken)

	conv := ctrl.Conversation()
	require.Len(t, conv, 1)
	assert.Equal(t, recruitai.EntryQuestion, conv[0].Type)
	assert.Equal(t, 1, conv[0].QuestionNumber)
	assert.Equal(t, SectionGreeting, conv[0].Section)
	assert.Equal(t, recruitai.QuestionNewSection, conv[0].QuestionType)
}

func TestStartSendsBoundedContext(t *testing.T) {
	platform := &stubPlatform{replies: scripted(&recruitai.Question{Question: "Q1"})}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	require.Len(t, platform.requests, 1)
	req := platform.requests[0]
	assert.Equal(t, "int-1", req.InterviewID)
	assert.Equal(t, SectionGreeting, req.Section)
	assert.Len(t, req.CandidateInfo.Skills, 3)
	assert.NotNil(t, req.ConversationHistory)
}

func TestSubmitAnswerAdvancesQuestionNumber(t *testing.T) {
	platform := &stubPlatform{replies: scripted(
		&recruitai.Question{Question: "Q1"},
		&recruitai.Question{Question: "Q2", Section: "resume"},
	)}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ctrl.QuestionNumber())

	turn, err := ctrl.SubmitAnswer(context.Background(), "my answer")
	require.NoError(t, err)

	assert.False(t, turn.Completed)
	assert.Equal(t, "Q2", turn.Question)
	assert.Equal(t, 2, ctrl.QuestionNumber())

	conv := ctrl.Conversation()
	require.Len(t, conv, 3)
	assert.Equal(t, recruitai.EntryAnswer, conv[1].Type)
	assert.Equal(t, 1, conv[1].QuestionNumber)
	assert.Equal(t, 2, conv[2].QuestionNumber)
	assert.Equal(t, recruitai.QuestionContinueSection, conv[2].QuestionType)
}

func TestFollowUpDoesNotAdvanceQuestionNumber(t *testing.T) {
	platform := &stubPlatform{replies: scripted(
		&recruitai.Question{Question: "Q1"},
		&recruitai.Question{Question: "Why was that hard?", QuestionType: recruitai.QuestionFollowUp},
	)}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	turn, err := ctrl.SubmitAnswer(context.Background(), "an answer")
	require.NoError(t, err)

	assert.False(t, turn.Completed)
	assert.Equal(t, 1, ctrl.QuestionNumber())
}

func TestDuplicateQuestionRetriesExactlyOnce(t *testing.T) {
	platform := &stubPlatform{replies: scripted(
		&recruitai.Question{Question: "Q1"},
		&recruitai.Question{Question: "q1  "}, // duplicate modulo case and spacing
		&recruitai.Question{Question: "Q2"},
	)}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	turn, err := ctrl.SubmitAnswer(context.Background(), "answer")
	require.NoError(t, err)

	assert.Equal(t, "Q2", turn.Question)
	assert.Len(t, platform.requests, 3)
}

func TestDuplicateTwiceEndsInterview(t *testing.T) {
	platform := &stubPlatform{replies: scripted(
		&recruitai.Question{Question: "Q1"},
		&recruitai.Question{Question: "Q1"},
		&recruitai.Question{Question: " q1"},
	)}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	turn, err := ctrl.SubmitAnswer(context.Background(), "answer")
	require.NoError(t, err)

	assert.True(t, turn.Completed)
	assert.Equal(t, StateCompleted, ctrl.State())
	require.Len(t, platform.submits, 1)
	assert.Len(t, platform.requests, 3)
}

func TestGeneratorCompleteEndsInterview(t *testing.T) {
	platform := &stubPlatform{
		replies: scripted(
			&recruitai.Question{Question: "Q1"},
			&recruitai.Question{IsComplete: true},
		),
		feedback: map[string]any{"overall": "solid"},
	}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	turn, err := ctrl.SubmitAnswer(context.Background(), "final answer")
	require.NoError(t, err)

	assert.True(t, turn.Completed)
	require.NotNil(t, turn.Result)
	assert.False(t, turn.Result.SavedLocally)
	assert.Equal(t, map[string]any{"overall": "solid"}, turn.Result.Feedback)

	require.Len(t, platform.submits, 1)
	submitted := platform.submits[0]
	assert.Equal(t, "int-1", submitted.InterviewID)
	require.Len(t, submitted.Answers, 1)
	assert.Equal(t, "final answer", submitted.Answers[0].Text)
}

func TestSubmitFailureArchivesLocally(t *testing.T) {
	platform := &stubPlatform{
		replies:   scripted(&recruitai.Question{Question: "Q1"}),
		submitErr: fmt.Errorf("bad status: 502 Bad Gateway"),
	}
	archive := &stubArchiver{id: "arc-1"}
	ctrl := newController(t, platform, &stubSpeaker{}, archive)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	result, err := ctrl.End(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateCompleted, ctrl.State())
	assert.True(t, result.SavedLocally)
	assert.Equal(t, "arc-1", result.ArchiveID)
	require.Len(t, archive.saved, 1)
	assert.Equal(t, "int-1", archive.saved[0].InterviewID)
}

func TestSubmitFailureWithoutArchiveIsAnError(t *testing.T) {
	platform := &stubPlatform{
		replies:   scripted(&recruitai.Question{Question: "Q1"}),
		submitErr: fmt.Errorf("bad status: 502 Bad Gateway"),
	}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	result, err := ctrl.End(context.Background())
	assert.Error(t, err)
	// Locally the session is still over.
	assert.Equal(t, StateCompleted, ctrl.State())
	assert.False(t, result.SavedLocally)
}

func TestEndIsIdempotent(t *testing.T) {
	platform := &stubPlatform{replies: scripted(&recruitai.Question{Question: "Q1"})}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	first, err := ctrl.End(context.Background())
	require.NoError(t, err)
	second, err := ctrl.End(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, platform.submits, 1)
}

func TestSubmitAnswerValidation(t *testing.T) {
	platform := &stubPlatform{replies: scripted(&recruitai.Question{Question: "Q1"})}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.SubmitAnswer(context.Background(), "too early")
	assert.Error(t, err)

	_, err = ctrl.Start(context.Background())
	require.NoError(t, err)

	_, err = ctrl.SubmitAnswer(context.Background(), "   ")
	assert.Error(t, err)
}

func TestQuestionNumberNeverDecreases(t *testing.T) {
	platform := &stubPlatform{replies: scripted(
		&recruitai.Question{Question: "Q1"},
		&recruitai.Question{Question: "Q2"},
		&recruitai.Question{Question: "Follow up?", QuestionType: recruitai.QuestionFollowUp},
		&recruitai.Question{Question: "Q3"},
		&recruitai.Question{IsComplete: true},
	)}
	ctrl := newController(t, platform, &stubSpeaker{}, nil)

	_, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	last := ctrl.QuestionNumber()
	for i := 0; ; i++ {
		turn, err := ctrl.SubmitAnswer(context.Background(), fmt.Sprintf("answer %d", i))
		require.NoError(t, err)

		assert.GreaterOrEqual(t, ctrl.QuestionNumber(), last)
		last = ctrl.QuestionNumber()
		if turn.Completed {
			break
		}
	}

	assert.Equal(t, 3, last)
}

func TestFallbackQuestionIndexing(t *testing.T) {
	first := FallbackQuestion(0, SectionGreeting)
	assert.Equal(t, fallbackQuestions[0], first.Question)
	assert.False(t, first.IsComplete)

	deep := FallbackQuestion(12, SectionClosing)
	assert.Equal(t, fallbackQuestions[len(fallbackQuestions)-1], deep.Question)
	assert.True(t, deep.IsComplete)

	edge := FallbackQuestion(9, SectionClosing)
	assert.True(t, edge.IsComplete)
}

func TestSectionFor(t *testing.T) {
	tests := []struct {
		number  int
		section string
	}{
		{1, SectionGreeting},
		{2, SectionGreeting},
		{3, SectionResume},
		{4, SectionResume},
		{5, SectionProjects},
		{6, SectionProjects},
		{7, SectionBehavioral},
		{8, SectionBehavioral},
		{9, SectionClosing},
		{15, SectionClosing},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.section, SectionFor(tt.number), "question %d", tt.number)
	}
}

func TestSpeechFailureIsNotFatal(t *testing.T) {
	platform := &stubPlatform{replies: scripted(&recruitai.Question{Question: "Q1"})}
	speaker := &stubSpeaker{err: fmt.Errorf("no audio device")}
	ctrl := newController(t, platform, speaker, nil)

	question, err := ctrl.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Q1", question)
	assert.Equal(t, StateListening, ctrl.State())
}
