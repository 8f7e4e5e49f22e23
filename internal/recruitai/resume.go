package recruitai

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ParsedResume is the platform's parser output. Every field is optional:
// the parser fills in what it managed to extract and nothing more, so the
// shape is validated here at the boundary instead of being trusted downstream.
type ParsedResume struct {
	Name           string       `json:"name" mapstructure:"name"`
	Email          string       `json:"email" mapstructure:"email"`
	Phone          string       `json:"phone" mapstructure:"phone"`
	Location       string       `json:"location" mapstructure:"location"`
	Summary        string       `json:"summary" mapstructure:"summary"`
	Skills         []string     `json:"skills" mapstructure:"skills"`
	Experience     []Experience `json:"experience" mapstructure:"experience"`
	Projects       []Project    `json:"projects" mapstructure:"projects"`
	Education      []Education  `json:"education" mapstructure:"education"`
	Certifications []string     `json:"certifications" mapstructure:"certifications"`
}

type Experience struct {
	Title            string   `json:"title" mapstructure:"title"`
	Company          string   `json:"company" mapstructure:"company"`
	Duration         string   `json:"duration" mapstructure:"duration"`
	Responsibilities []string `json:"responsibilities" mapstructure:"responsibilities"`
}

type Project struct {
	Name         string   `json:"name" mapstructure:"name"`
	Description  string   `json:"description" mapstructure:"description"`
	Technologies []string `json:"technologies" mapstructure:"technologies"`
	URL          string   `json:"url" mapstructure:"url"`
}

type Education struct {
	Degree       string   `json:"degree" mapstructure:"degree"`
	Institution  string   `json:"institution" mapstructure:"institution"`
	Year         string   `json:"year" mapstructure:"year"`
	GPA          string   `json:"gpa" mapstructure:"gpa"`
	Achievements []string `json:"achievements" mapstructure:"achievements"`
}

// ParseResume uploads a resume PDF and returns the parsed fields.
func (c *Client) ParseResume(ctx context.Context, filename string, pdf []byte) (*ParsedResume, error) {
	if len(pdf) == 0 {
		return nil, fmt.Errorf("resume file is empty")
	}

	var raw map[string]any
	if err := c.postFile(ctx, interviewPath+"/parse-resume", "resume", filename, pdf, nil, &raw); err != nil {
		return nil, err
	}

	return DecodeResume(raw)
}

// DecodeResume converts a loose resume payload into the typed record.
// Certification entries may arrive as plain strings or as {name: ...} objects
// depending on the parser model; both are accepted.
func DecodeResume(raw map[string]any) (*ParsedResume, error) {
	if raw == nil {
		return nil, fmt.Errorf("resume payload is empty")
	}

	normalizeCertifications(raw)

	var resume ParsedResume
	cfg := &mapstructure.DecoderConfig{
		Result:           &resume,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode resume payload: %w", err)
	}

	return &resume, nil
}

func normalizeCertifications(raw map[string]any) {
	certs, ok := raw["certifications"].([]any)
	if !ok {
		return
	}

	normalized := make([]any, 0, len(certs))
	for _, cert := range certs {
		if m, ok := cert.(map[string]any); ok {
			if name, ok := m["name"].(string); ok {
				normalized = append(normalized, name)
				continue
			}
			continue
		}
		normalized = append(normalized, cert)
	}
	raw["certifications"] = normalized
}
