package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/voxhire/voxhire/internal/recruitai"
)

// SectionScores rates each resume section on its own 0-100 scale.
type SectionScores struct {
	Contact        int `json:"contact"`
	Summary        int `json:"summary"`
	Skills         int `json:"skills"`
	Experience     int `json:"experience"`
	Projects       int `json:"projects"`
	Education      int `json:"education"`
	Certifications int `json:"certifications"`
}

// Section weights for the overall blend. Skills dominate because the roles
// here are primarily technical.
const (
	weightContact        = 0.05
	weightSummary        = 0.10
	weightSkills         = 0.30
	weightExperience     = 0.25
	weightProjects       = 0.20
	weightEducation      = 0.07
	weightCertifications = 0.03
)

// Sections scores each section of the resume against the role profile.
func Sections(resume *recruitai.ParsedResume, roleKey string) (*SectionScores, error) {
	role, err := Role(roleKey)
	if err != nil {
		return nil, err
	}

	return &SectionScores{
		Contact:        contactSection(resume),
		Summary:        summarySection(resume, role),
		Skills:         skillsSection(resume, role),
		Experience:     experienceSection(resume, role),
		Projects:       projectsSection(resume, role),
		Education:      educationSection(resume),
		Certifications: certificationsSection(resume, role),
	}, nil
}

// OverallScore blends the section scores into a single 0-100 number. Like
// ATSScore it is fully deterministic.
func OverallScore(resume *recruitai.ParsedResume, roleKey string) (int, error) {
	sections, err := Sections(resume, roleKey)
	if err != nil {
		return 0, err
	}

	weighted := float64(sections.Contact)*weightContact +
		float64(sections.Summary)*weightSummary +
		float64(sections.Skills)*weightSkills +
		float64(sections.Experience)*weightExperience +
		float64(sections.Projects)*weightProjects +
		float64(sections.Education)*weightEducation +
		float64(sections.Certifications)*weightCertifications

	return int(math.Round(weighted)), nil
}

func contactSection(resume *recruitai.ParsedResume) int {
	score := 0
	if resume.Name != "" && resume.Name != unknownCandidate {
		score += 30
	}
	if resume.Email != "" {
		score += 25
	}
	if resume.Phone != "" {
		score += 25
	}
	if resume.Location != "" {
		score += 20
	}

	return score
}

func summarySection(resume *recruitai.ParsedResume, role RoleDefinition) int {
	if resume.Summary == "" {
		return 0
	}

	score := 0
	switch {
	case len(resume.Summary) > 150:
		score += 40
	case len(resume.Summary) > 100:
		score += 30
	case len(resume.Summary) > 50:
		score += 20
	}

	lowered := strings.ToLower(resume.Summary)
	mentioned := 0
	for _, skill := range role.RequiredSkills {
		if containsWord(lowered, skill) {
			mentioned++
		}
	}
	for _, skill := range role.PreferredSkills {
		if containsWord(lowered, skill) {
			mentioned++
		}
	}
	score += min(mentioned*10, 60)

	return min(score, 100)
}

func skillsSection(resume *recruitai.ParsedResume, role RoleDefinition) int {
	loweredSkills := lowerAll(resume.Skills)

	required := 0
	for _, skill := range role.RequiredSkills {
		if skillListed(loweredSkills, skill) {
			required++
		}
	}
	preferred := 0
	for _, skill := range role.PreferredSkills {
		if skillListed(loweredSkills, skill) {
			preferred++
		}
	}

	score := float64(required) / float64(len(role.RequiredSkills)) * 60
	score += float64(preferred) / float64(len(role.PreferredSkills)) * 30
	if len(resume.Skills) >= 10 {
		score += 10
	}

	return min(int(math.Round(score)), 100)
}

func experienceSection(resume *recruitai.ParsedResume, role RoleDefinition) int {
	score := 0
	count := len(resume.Experience)

	switch {
	case count >= role.MinExperience*2:
		score += 40
	case count >= role.MinExperience:
		score += 30
	case count > 0:
		score += 15
	}

	for _, exp := range resume.Experience {
		if len(exp.Responsibilities) > 2 {
			score += 20
			break
		}
	}

	quantified := false
	for _, exp := range resume.Experience {
		for _, resp := range exp.Responsibilities {
			if sectionMetricPattern.MatchString(resp) {
				quantified = true
				break
			}
		}
		if quantified {
			break
		}
	}
	if quantified {
		score += 25
	}

	if hasRelevantExperience(resume, role) {
		score += 15
	}

	return min(score, 100)
}

func projectsSection(resume *recruitai.ParsedResume, role RoleDefinition) int {
	score := 0
	count := len(resume.Projects)

	switch {
	case count >= role.MinProjects*2:
		score += 30
	case count >= role.MinProjects:
		score += 25
	case count >= 2:
		score += 15
	case count >= 1:
		score += 10
	}

	for _, project := range resume.Projects {
		if len(project.Description) > 100 && len(project.Technologies) > 0 {
			score += 25
			break
		}
	}

	relevant := false
	for _, project := range resume.Projects {
		if containsAnySkill(projectText(project), role.RequiredSkills) {
			relevant = true
			break
		}
	}
	if relevant {
		score += 25
	}

	for _, project := range resume.Projects {
		if project.URL != "" {
			score += 20
			break
		}
	}

	return min(score, 100)
}

func educationSection(resume *recruitai.ParsedResume) int {
	score := 0

	// Even a resume with no education section keeps a floor here; plenty of
	// strong candidates are self-taught.
	switch {
	case len(resume.Education) >= 2:
		score += 40
	case len(resume.Education) >= 1:
		score += 30
	default:
		score += 10
	}

	relevantDegree := false
	for _, edu := range resume.Education {
		degree := strings.ToLower(edu.Degree)
		if strings.Contains(degree, "computer") || strings.Contains(degree, "engineering") ||
			strings.Contains(degree, "science") || strings.Contains(degree, "technology") {
			relevantDegree = true
			break
		}
	}
	if relevantDegree {
		score += 30
	}

	for _, edu := range resume.Education {
		if gpa, err := strconv.ParseFloat(strings.TrimSpace(edu.GPA), 64); err == nil && gpa >= 3.5 {
			score += 20
			break
		}
	}

	for _, edu := range resume.Education {
		if len(edu.Achievements) > 0 {
			score += 10
			break
		}
	}

	return min(score, 100)
}

func certificationsSection(resume *recruitai.ParsedResume, role RoleDefinition) int {
	score := 0

	switch {
	case len(resume.Certifications) >= 5:
		score += 50
	case len(resume.Certifications) >= 3:
		score += 40
	case len(resume.Certifications) >= 2:
		score += 30
	case len(resume.Certifications) >= 1:
		score += 20
	}

	relevant := false
	for _, cert := range resume.Certifications {
		lowered := strings.ToLower(cert)
		if containsAnySkill(lowered, role.RequiredSkills) || containsAnySkill(lowered, role.PreferredSkills) {
			relevant = true
			break
		}
	}
	if relevant {
		score += 50
	}

	return min(score, 100)
}
