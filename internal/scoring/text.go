package scoring

import (
	"regexp"
	"strings"

	"github.com/voxhire/voxhire/internal/recruitai"
)

var (
	// metricPattern spots quantified achievements in experience bullets.
	metricPattern = regexp.MustCompile(`(?i)\d+%|\d+x|\$\d+|\d+\s*(users|customers|projects|team|million|thousand|hours|days)`)
	// sectionMetricPattern is the narrower variant used by section scoring.
	sectionMetricPattern = regexp.MustCompile(`(?i)\d+%|\$\d+|\d+\s*(users|customers|projects|team|million|thousand)`)
	yearPattern          = regexp.MustCompile(`\d{4}`)
)

var actionVerbs = []string{
	"developed", "built", "created", "implemented", "designed",
	"managed", "led", "optimized", "improved", "achieved",
}

// allResumeText collects the free-text fields keyword matching runs over:
// summary, skill list, experience titles and bullets, project descriptions
// and technology lists.
func allResumeText(r *recruitai.ParsedResume) string {
	var b strings.Builder

	b.WriteString(r.Summary)
	b.WriteString(" ")
	b.WriteString(strings.Join(r.Skills, " "))
	for _, exp := range r.Experience {
		b.WriteString(" ")
		b.WriteString(exp.Title)
		b.WriteString(" ")
		b.WriteString(strings.Join(exp.Responsibilities, " "))
	}
	for _, project := range r.Projects {
		b.WriteString(" ")
		b.WriteString(project.Description)
		b.WriteString(" ")
		b.WriteString(strings.Join(project.Technologies, " "))
	}

	return strings.ToLower(b.String())
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, v := range values {
		lowered[i] = strings.ToLower(v)
	}

	return lowered
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

// containsWord reports whether the lowered text contains the skill bounded by
// non-word characters. Plain substring search is too loose here: "JavaScript"
// must not count as a match for "Java".
func containsWord(loweredText, skill string) bool {
	skill = strings.ToLower(skill)
	if skill == "" {
		return false
	}

	for i := 0; i <= len(loweredText)-len(skill); {
		j := strings.Index(loweredText[i:], skill)
		if j < 0 {
			return false
		}

		start := i + j
		end := start + len(skill)
		if (start == 0 || !isWordChar(loweredText[start-1])) &&
			(end == len(loweredText) || !isWordChar(loweredText[end])) {
			return true
		}
		i = start + 1
	}

	return false
}

// skillListed reports whether any entry in the candidate's skill list names
// the wanted skill.
func skillListed(loweredSkills []string, skill string) bool {
	for _, cs := range loweredSkills {
		if containsWord(cs, skill) {
			return true
		}
	}

	return false
}

func experienceText(exp recruitai.Experience) string {
	return strings.ToLower(exp.Title + " " + strings.Join(exp.Responsibilities, " "))
}

func projectText(project recruitai.Project) string {
	return strings.ToLower(project.Description + " " + strings.Join(project.Technologies, " "))
}

func containsAnySkill(loweredText string, skills []string) bool {
	for _, skill := range skills {
		if containsWord(loweredText, skill) {
			return true
		}
	}

	return false
}
