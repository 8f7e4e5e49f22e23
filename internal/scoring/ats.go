package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/voxhire/voxhire/internal/recruitai"
)

// maxIssues bounds the issue list; categories earlier in the pipeline win.
const maxIssues = 8

const unknownCandidate = "Unknown Candidate"

// Issue is one concrete, fixable problem found in a resume.
type Issue struct {
	Category string `json:"category"`
	Issue    string `json:"issue"`
	Impact   string `json:"impact"`
	Fix      string `json:"fix"`
}

// KeywordMatches breaks the role's required/preferred skill lists down by
// whether the resume mentions them.
type KeywordMatches struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
	Missing   []string `json:"missing"`
}

// CategoryPoints holds the per-category contributions to the ATS score.
type CategoryPoints struct {
	Contact    int `json:"contactInfo"`
	Keywords   int `json:"keywordMatching"`
	Structure  int `json:"structure"`
	Content    int `json:"content"`
	Formatting int `json:"formatting"`
	Technical  int `json:"technical"`
}

// ATSReport estimates how an applicant tracking system would rank the resume
// for the given role. It is a different metric from OverallScore and the two
// must not be conflated: this one models machine screening, the other models
// general resume quality.
type ATSReport struct {
	Score    int            `json:"score"`
	Rating   string         `json:"rating"`
	Details  CategoryPoints `json:"details"`
	Issues   []Issue        `json:"issues"`
	Keywords KeywordMatches `json:"keywordMatches"`
}

// ATSScore is deterministic: identical inputs produce identical reports.
// There is no randomness and no time-dependent term anywhere in it.
func ATSScore(resume *recruitai.ParsedResume, roleKey string) (*ATSReport, error) {
	role, err := Role(roleKey)
	if err != nil {
		return nil, err
	}
	if resume == nil {
		return nil, fmt.Errorf("a parsed resume is required")
	}

	var (
		total   float64
		details CategoryPoints
		issues  []Issue
	)

	// 1. Contact information, 15 points.
	contact := 0
	if resume.Name != "" && resume.Name != unknownCandidate {
		contact += 5
	} else {
		issues = append(issues, Issue{
			Category: "Contact Info",
			Issue:    "Name not clearly identified",
			Impact:   "ATS cannot identify candidate",
			Fix:      "Add full name at the top of resume",
		})
	}
	if strings.Contains(resume.Email, "@") {
		contact += 4
	} else {
		issues = append(issues, Issue{
			Category: "Contact Info",
			Issue:    "Email missing or invalid format",
			Impact:   "ATS cannot contact candidate",
			Fix:      "Add professional email address",
		})
	}
	if resume.Phone != "" {
		contact += 3
	} else {
		issues = append(issues, Issue{
			Category: "Contact Info",
			Issue:    "Phone number missing",
			Impact:   "Reduces ATS confidence score",
			Fix:      "Add phone number in standard format",
		})
	}
	if resume.Location != "" {
		contact += 3
	} else {
		issues = append(issues, Issue{
			Category: "Contact Info",
			Issue:    "Location not specified",
			Impact:   "ATS cannot filter by location",
			Fix:      `Add city, state (e.g., "San Francisco, CA")`,
		})
	}
	details.Contact = contact
	total += float64(contact)

	// 2. Keyword matching, 25 points. Required keywords are worth 15,
	// preferred 10, both scaled by the matched fraction.
	loweredSkills := lowerAll(resume.Skills)
	freeText := allResumeText(resume)

	matched := func(skill string) bool {
		return skillListed(loweredSkills, skill) || containsWord(freeText, skill)
	}

	keywords := KeywordMatches{
		Required:  make([]string, 0, len(role.RequiredSkills)),
		Preferred: make([]string, 0, len(role.PreferredSkills)),
		Missing:   make([]string, 0),
	}
	for _, skill := range role.RequiredSkills {
		if matched(skill) {
			keywords.Required = append(keywords.Required, skill)
		} else {
			keywords.Missing = append(keywords.Missing, skill)
		}
	}
	for _, skill := range role.PreferredSkills {
		if matched(skill) {
			keywords.Preferred = append(keywords.Preferred, skill)
		}
	}

	keywordScore := float64(len(keywords.Required)) / float64(len(role.RequiredSkills)) * 15
	keywordScore += float64(len(keywords.Preferred)) / float64(len(role.PreferredSkills)) * 10
	details.Keywords = int(math.Round(keywordScore))
	total += keywordScore

	if float64(len(keywords.Required)) < float64(len(role.RequiredSkills))*0.7 {
		shown := keywords.Missing
		if len(shown) > 5 {
			shown = shown[:5]
		}
		issues = append(issues, Issue{
			Category: "Keywords",
			Issue:    fmt.Sprintf("Missing %d critical keywords", len(keywords.Missing)),
			Impact:   "ATS will rank resume very low",
			Fix:      "Add these keywords: " + strings.Join(shown, ", "),
		})
	}

	// 3. Resume structure, 20 points.
	structure := 0
	if len(resume.Summary) >= 50 {
		structure += 5
	} else {
		issues = append(issues, Issue{
			Category: "Structure",
			Issue:    "Missing or weak professional summary",
			Impact:   "ATS cannot understand candidate value",
			Fix:      "Add 2-3 line professional summary with key skills",
		})
	}
	if len(resume.Experience) > 0 {
		structure += 5

		properDates := false
		for _, exp := range resume.Experience {
			if yearPattern.MatchString(exp.Duration) {
				properDates = true
				break
			}
		}
		if properDates {
			structure += 2
		} else {
			issues = append(issues, Issue{
				Category: "Structure",
				Issue:    "Inconsistent or missing date formats",
				Impact:   "ATS cannot parse employment timeline",
				Fix:      `Use consistent date format (e.g., "Jan 2020 - Present")`,
			})
		}
	} else {
		issues = append(issues, Issue{
			Category: "Structure",
			Issue:    "No work experience section",
			Impact:   "ATS flags as incomplete resume",
			Fix:      "Add work experience, internships, or relevant projects",
		})
	}
	if len(resume.Skills) >= 5 {
		structure += 4
	} else {
		issues = append(issues, Issue{
			Category: "Structure",
			Issue:    "Insufficient skills listed",
			Impact:   "ATS cannot match to job requirements",
			Fix:      "Add technical skills, tools, and technologies",
		})
	}
	if len(resume.Education) > 0 {
		structure += 2
	}
	if len(resume.Projects) > 0 {
		structure += 2
	} else if technicalRoles[roleKey] {
		issues = append(issues, Issue{
			Category: "Structure",
			Issue:    "No projects section for technical role",
			Impact:   "ATS flags as inexperienced candidate",
			Fix:      "Add projects section with technical projects",
		})
	}
	details.Structure = structure
	total += float64(structure)

	// 4. Content quality, 20 points.
	content := 0
	if hasQuantifiedBullet(resume) {
		content += 8
	} else {
		issues = append(issues, Issue{
			Category: "Content",
			Issue:    "No quantifiable achievements",
			Impact:   "ATS cannot assess candidate impact",
			Fix:      `Add metrics: "Improved performance by 30%", "Managed team of 5"`,
		})
	}
	if hasActionVerbs(resume) {
		content += 4
	} else {
		issues = append(issues, Issue{
			Category: "Content",
			Issue:    "Weak action verbs in descriptions",
			Impact:   "ATS scores content as passive",
			Fix:      "Start bullets with: Built, Developed, Implemented, Optimized",
		})
	}
	if hasRelevantExperience(resume, role) {
		content += 4
	}
	if hasTechnicalProjects(resume) {
		content += 4
	}
	details.Content = content
	total += float64(content)

	// 5. Formatting and readability, 10 points.
	formatting := 0
	if len(resume.Experience) > 0 {
		consistent := true
		for _, exp := range resume.Experience {
			if exp.Title == "" || exp.Company == "" {
				consistent = false
				break
			}
		}
		if consistent {
			formatting += 3
		} else {
			issues = append(issues, Issue{
				Category: "Formatting",
				Issue:    "Inconsistent job title/company formatting",
				Impact:   "ATS cannot parse work history properly",
				Fix:      `Use consistent format: "Job Title | Company Name"`,
			})
		}
	}
	if len(resume.Skills) > 0 {
		formatting += 3
	}
	formatting += sectionCount(resume)
	details.Formatting = formatting
	total += float64(formatting)

	// 6. File format and technical sanity, 10 points. PDF input is assumed,
	// so the category starts near its ceiling and only loses points for an
	// implausible amount of text.
	technical := 8
	length := estimatedTextLength(resume)
	if length < 500 {
		technical -= 3
		issues = append(issues, Issue{
			Category: "Technical",
			Issue:    "Resume appears too short",
			Impact:   "ATS may flag as incomplete",
			Fix:      "Add more detail to experience and projects",
		})
	} else if length > 4000 {
		technical -= 2
		issues = append(issues, Issue{
			Category: "Technical",
			Issue:    "Resume may be too long",
			Impact:   "ATS may truncate content",
			Fix:      "Condense to 1-2 pages, focus on relevant experience",
		})
	}
	details.Technical = technical
	total += float64(technical)

	if len(issues) > maxIssues {
		issues = issues[:maxIssues]
	}

	score := int(math.Round(total))
	if score > 100 {
		score = 100
	}

	return &ATSReport{
		Score:    score,
		Rating:   rating(score),
		Details:  details,
		Issues:   issues,
		Keywords: keywords,
	}, nil
}

func rating(score int) string {
	switch {
	case score >= 85:
		return "Excellent"
	case score >= 70:
		return "Good"
	case score >= 55:
		return "Fair"
	default:
		return "Poor"
	}
}

func hasQuantifiedBullet(resume *recruitai.ParsedResume) bool {
	for _, exp := range resume.Experience {
		for _, resp := range exp.Responsibilities {
			if metricPattern.MatchString(resp) {
				return true
			}
		}
	}

	return false
}

func hasActionVerbs(resume *recruitai.ParsedResume) bool {
	for _, exp := range resume.Experience {
		for _, resp := range exp.Responsibilities {
			lowered := strings.ToLower(resp)
			for _, verb := range actionVerbs {
				if strings.Contains(lowered, verb) {
					return true
				}
			}
		}
	}

	return false
}

func hasRelevantExperience(resume *recruitai.ParsedResume, role RoleDefinition) bool {
	for _, exp := range resume.Experience {
		if containsAnySkill(experienceText(exp), role.RequiredSkills) {
			return true
		}
	}

	return false
}

func hasTechnicalProjects(resume *recruitai.ParsedResume) bool {
	for _, project := range resume.Projects {
		if len(project.Technologies) >= 3 {
			return true
		}
	}

	return false
}

func sectionCount(resume *recruitai.ParsedResume) int {
	count := 0
	if resume.Summary != "" {
		count++
	}
	if len(resume.Experience) > 0 {
		count++
	}
	if len(resume.Skills) > 0 {
		count++
	}
	if len(resume.Education) > 0 {
		count++
	}

	return count
}

func estimatedTextLength(resume *recruitai.ParsedResume) int {
	length := len(resume.Summary)
	for _, exp := range resume.Experience {
		length += len(strings.Join(exp.Responsibilities, " "))
	}
	for _, project := range resume.Projects {
		length += len(project.Description)
	}

	return length
}
