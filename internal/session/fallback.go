package session

import "github.com/voxhire/voxhire/internal/recruitai"

// fallbackQuestions keeps the interview moving when the question generator is
// slow or down. Indexed by how much conversation has already happened, so a
// degraded session still progresses instead of looping on the opener.
var fallbackQuestions = []string{
	"Can you tell me about yourself and your background?",
	"What interests you most about this role?",
	"Tell me about a challenging project you've worked on.",
	"How do you approach problem-solving in your work?",
	"What are your key technical strengths?",
	"Describe a time you had to learn something new quickly.",
	"How do you handle working in a team environment?",
	"What motivates you in your professional work?",
	"Tell me about your career goals.",
	"Do you have any questions for me about this role?",
}

// completeAfter is the conversation length at which a fully degraded session
// wraps up rather than asking more generic questions.
const completeAfter = 9

// FallbackQuestion picks the generic question for the current conversation
// length. Once the list is exhausted the returned question reports the
// session complete.
func FallbackQuestion(conversationLen int, section string) *recruitai.Question {
	index := conversationLen
	if index > len(fallbackQuestions)-1 {
		index = len(fallbackQuestions) - 1
	}

	return &recruitai.Question{
		Question:   fallbackQuestions[index],
		Section:    section,
		IsComplete: conversationLen >= completeAfter,
	}
}
