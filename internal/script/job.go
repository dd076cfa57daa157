package script

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// JobDescription is the opening context used when answering candidate
// questions about the position.
type JobDescription struct {
	Company      string            `json:"company"`
	Position     string            `json:"position"`
	Location     string            `json:"location"`
	About        JobAbout          `json:"about"`
	Requirements []string          `json:"requirements"`
	Benefits     []string          `json:"benefits"`
	AboutCompany []string          `json:"about_company"`
	FAQ          map[string]string `json:"faq"`
}

type JobAbout struct {
	Type      string   `json:"type"`
	Salary    string   `json:"salary"`
	Roles     []string `json:"roles"`
	Reporting string   `json:"reporting"`
}

// DefaultJobDescription returns the compiled-in TechInnovate Solutions
// posting.
func DefaultJobDescription() *JobDescription {
	return &JobDescription{
		Company:  "TechInnovate Solutions",
		Position: "Software Engineer",
		Location: "San Francisco, CA",
		About: JobAbout{
			Type:   "Full-time position",
			Salary: "$80,000-$100,000 depending on experience",
			Roles: []string{
				"Backend focuses on Python, Django, and AWS",
				"Frontend focuses on React, TypeScript, and Next.js",
				"Full Stack involves both backend and frontend technologies",
			},
			Reporting: "Reports to the Engineering Manager",
		},
		Requirements: []string{
			"Bachelor's degree in Computer Science or related field (or equivalent experience)",
			"Backend: Experience with Python and web frameworks",
			"Frontend: Experience with React and modern JavaScript",
			"Full Stack: Experience with both backend and frontend technologies",
			"Experience with Git and CI/CD pipelines",
			"Strong problem-solving skills and attention to detail",
		},
		Benefits: []string{
			"Comprehensive health, dental, and vision insurance",
			"401(k) with 4% match",
			"Unlimited PTO (minimum 3 weeks encouraged)",
			"Home office stipend",
			"Professional development budget",
			"Catered lunches on in-office days",
		},
		AboutCompany: []string{
			"Series B startup with 120 employees",
			"Building AI-powered workflow automation tools",
			"Values: Innovation, Collaboration, User-Centric Design",
			"Diverse and inclusive workplace",
		},
		FAQ: map[string]string{},
	}
}

// LoadJobDescription reads a job description from a JSON file. An empty path
// returns the embedded default.
func LoadJobDescription(path string) (*JobDescription, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultJobDescription(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading job description %q: %w", path, err)
	}

	var job JobDescription
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parsing job description %q: %w", path, err)
	}

	return &job, nil
}
