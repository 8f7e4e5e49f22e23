package scoring

import (
	"fmt"
	"sort"
)

// RoleDefinition is the static requirement profile a resume is scored against.
type RoleDefinition struct {
	Name            string
	RequiredSkills  []string
	PreferredSkills []string
	MinProjects     int
	MinExperience   int
	KeyAreas        []string
}

// technicalRoles are the roles for which a missing projects section is
// flagged as an issue rather than merely losing points.
var technicalRoles = map[string]bool{
	"software-engineer":   true,
	"frontend-developer":  true,
	"backend-developer":   true,
	"fullstack-developer": true,
}

var roleDefinitions = map[string]RoleDefinition{
	"software-engineer": {
		Name:            "Software Engineer",
		RequiredSkills:  []string{"JavaScript", "Python", "Java", "React", "Node.js", "Git", "SQL"},
		PreferredSkills: []string{"TypeScript", "AWS", "Docker", "MongoDB", "GraphQL"},
		MinProjects:     3,
		MinExperience:   1,
		KeyAreas:        []string{"Technical Skills", "Projects", "Problem Solving", "Code Quality"},
	},
	"frontend-developer": {
		Name:            "Frontend Developer",
		RequiredSkills:  []string{"HTML", "CSS", "JavaScript", "React", "Vue", "Angular"},
		PreferredSkills: []string{"TypeScript", "SCSS", "Webpack", "Figma", "Responsive Design"},
		MinProjects:     4,
		MinExperience:   1,
		KeyAreas:        []string{"UI/UX Skills", "Frontend Frameworks", "Design Systems", "Performance"},
	},
	"backend-developer": {
		Name:            "Backend Developer",
		RequiredSkills:  []string{"Python", "Java", "Node.js", "SQL", "API", "Database"},
		PreferredSkills: []string{"Docker", "Kubernetes", "AWS", "Redis", "Microservices"},
		MinProjects:     3,
		MinExperience:   1,
		KeyAreas:        []string{"Server Technologies", "Database Design", "API Development", "Scalability"},
	},
	"fullstack-developer": {
		Name:            "Full Stack Developer",
		RequiredSkills:  []string{"JavaScript", "React", "Node.js", "SQL", "HTML", "CSS", "Git"},
		PreferredSkills: []string{"TypeScript", "MongoDB", "AWS", "Docker", "GraphQL"},
		MinProjects:     4,
		MinExperience:   2,
		KeyAreas:        []string{"Frontend Skills", "Backend Skills", "Database Knowledge", "DevOps"},
	},
	"data-scientist": {
		Name:            "Data Scientist",
		RequiredSkills:  []string{"Python", "R", "SQL", "Machine Learning", "Statistics", "Pandas"},
		PreferredSkills: []string{"TensorFlow", "PyTorch", "Jupyter", "Tableau", "AWS", "Spark"},
		MinProjects:     3,
		MinExperience:   1,
		KeyAreas:        []string{"Data Analysis", "Machine Learning", "Statistics", "Visualization"},
	},
	"devops-engineer": {
		Name:            "DevOps Engineer",
		RequiredSkills:  []string{"Docker", "Kubernetes", "AWS", "Jenkins", "Git", "Linux"},
		PreferredSkills: []string{"Terraform", "Ansible", "Prometheus", "Grafana", "Helm"},
		MinProjects:     2,
		MinExperience:   2,
		KeyAreas:        []string{"Cloud Platforms", "Containerization", "CI/CD", "Monitoring"},
	},
	"mobile-developer": {
		Name:            "Mobile Developer",
		RequiredSkills:  []string{"React Native", "Flutter", "Swift", "Kotlin", "iOS", "Android"},
		PreferredSkills: []string{"Firebase", "Redux", "GraphQL", "App Store", "Play Store"},
		MinProjects:     3,
		MinExperience:   1,
		KeyAreas:        []string{"Mobile Frameworks", "Platform Knowledge", "App Performance", "User Experience"},
	},
	"product-manager": {
		Name:            "Product Manager",
		RequiredSkills:  []string{"Product Strategy", "Analytics", "User Research", "Agile", "Roadmapping"},
		PreferredSkills: []string{"SQL", "A/B Testing", "Figma", "Jira", "Market Research"},
		MinProjects:     2,
		MinExperience:   2,
		KeyAreas:        []string{"Product Strategy", "User Research", "Analytics", "Leadership"},
	},
}

// Role looks up a role definition by its key, e.g. "software-engineer".
func Role(key string) (RoleDefinition, error) {
	role, ok := roleDefinitions[key]
	if !ok {
		return RoleDefinition{}, fmt.Errorf("unknown role %q (known roles: %v)", key, RoleKeys())
	}

	return role, nil
}

// RoleKeys returns the supported role keys in stable order.
func RoleKeys() []string {
	keys := make([]string, 0, len(roleDefinitions))
	for key := range roleDefinitions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}
