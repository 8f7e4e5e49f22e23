package recruitai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(zap.NewNop(), "test-token")
	client.APIURL = server.URL

	return client, server
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"id": "i1"})
	})

	_, err := client.GetInterview(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestErrorMessageSurfacedVerbatim(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
	})

	_, err := client.Login(context.Background(), "a@b.c", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestNextQuestionDecodesResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/interview/next-question", r.URL.Path)

		var req QuestionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "greeting", req.Section)
		assert.NotNil(t, req.ConversationHistory)

		json.NewEncoder(w).Encode(Question{
			Question:     "Tell me about your last project.",
			Section:      "projects",
			QuestionType: QuestionNewSection,
		})
	})

	q, err := client.NextQuestion(context.Background(), &QuestionRequest{
		InterviewID: "i1",
		Section:     "greeting",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tell me about your last project.", q.Question)
	assert.Equal(t, "projects", q.Section)
	assert.False(t, q.IsComplete)
}

func TestNextQuestionRejectsEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Question{})
	})

	_, err := client.NextQuestion(context.Background(), &QuestionRequest{InterviewID: "i1"})
	require.Error(t, err)
}

func TestSpeechToTextPostsMultipart(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))

		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "answer.wav", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": " I built a search service. "})
	})

	text, err := client.SpeechToText(context.Background(), "answer.wav", []byte("RIFFdata"))
	require.NoError(t, err)
	assert.Equal(t, "I built a search service.", text)
}

func TestDecodeResumeNormalizesCertifications(t *testing.T) {
	raw := map[string]any{
		"name":   "Ada",
		"email":  "ada@example.com",
		"skills": []any{"Go", "SQL"},
		"certifications": []any{
			"AWS Certified Developer",
			map[string]any{"name": "CKA", "year": float64(2024)},
		},
	}

	resume, err := DecodeResume(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, resume.Skills)
	assert.Equal(t, []string{"AWS Certified Developer", "CKA"}, resume.Certifications)
}

func TestCreateInterviewReturnsID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/interview/create", r.URL.Path)

		var req CreateInterviewRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ada Lovelace", req.CandidateName)
		assert.Equal(t, "software-engineer", req.TargetRole)
		assert.NotNil(t, req.Skills)
		assert.NotNil(t, req.Projects)

		json.NewEncoder(w).Encode(map[string]string{"interviewId": "i-42"})
	})

	id, err := client.CreateInterview(context.Background(), &CreateInterviewRequest{
		CandidateName:   "Ada Lovelace",
		TargetRole:      "software-engineer",
		ExperienceLevel: "mid-level",
	})
	require.NoError(t, err)
	assert.Equal(t, "i-42", id)
}

func TestCreateInterviewValidatesBeforeSending(t *testing.T) {
	requests := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(map[string]string{"interviewId": "i-42"})
	})

	_, err := client.CreateInterview(context.Background(), &CreateInterviewRequest{TargetRole: "software-engineer"})
	require.Error(t, err)

	_, err = client.CreateInterview(context.Background(), &CreateInterviewRequest{CandidateName: "Ada"})
	require.Error(t, err)

	assert.Zero(t, requests)
}

func TestCreateInterviewRejectsMissingID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.CreateInterview(context.Background(), &CreateInterviewRequest{
		CandidateName: "Ada",
		TargetRole:    "software-engineer",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no interview id")
}

func TestGetInterviewFillsMissingID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"candidateName": "Ada",
			"targetRole":    "software-engineer",
		})
	})

	meta, err := client.GetInterview(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", meta.ID)
	assert.Equal(t, "Ada", meta.CandidateName)
}
