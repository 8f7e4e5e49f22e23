package session

// Interview sections in the order a session walks through them.
const (
	SectionGreeting   = "greeting"
	SectionResume     = "resume"
	SectionProjects   = "projects"
	SectionBehavioral = "behavioral"
	SectionClosing    = "closing"
)

// SectionFor maps a question number to its interview section.
func SectionFor(questionNumber int) string {
	switch {
	case questionNumber <= 2:
		return SectionGreeting
	case questionNumber <= 4:
		return SectionResume
	case questionNumber <= 6:
		return SectionProjects
	case questionNumber <= 8:
		return SectionBehavioral
	default:
		return SectionClosing
	}
}
