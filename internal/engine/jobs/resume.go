// Package jobs holds the resume model, posting filter, LLM tailoring and
// the local application tracker.
package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anatolykoptev/go_apply/internal/engine"
)

// Personal is the contact block of the operator's resume.
type Personal struct {
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Experience is one role. Bullets are replaced wholesale by tailoring,
// never appended to.
type Experience struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location,omitempty"`
	Dates        string   `json:"dates"`
	Bullets      []string `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

type Education struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Location    string   `json:"location,omitempty"`
	Dates       string   `json:"dates,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

type Project struct {
	Name         string   `json:"name"`
	Dates        string   `json:"dates,omitempty"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
}

type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// BaseResume is the operator's master resume. Loaded once per run and
// never mutated in place; tailoring operates on a copy.
type BaseResume struct {
	Personal       Personal        `json:"personal_info"`
	Summary        string          `json:"summary"`
	Skills         []SkillGroup    `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// LoadBaseResume reads and validates the resume file named by the
// configuration.
func LoadBaseResume(path string) (*BaseResume, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resume: read %s: %w", path, err)
	}
	return ParseBaseResume(data, engine.Cfg.CategoryOrder)
}

// ParseBaseResume decodes resume JSON, normalizing the skills field
// whichever of its shapes the file uses.
func ParseBaseResume(data []byte, categoryOrder []string) (*BaseResume, error) {
	var raw struct {
		Personal       Personal        `json:"personal_info"`
		Summary        string          `json:"summary"`
		Skills         json.RawMessage `json:"skills"`
		Experience     []Experience    `json:"experience"`
		Education      []Education     `json:"education"`
		Projects       []Project       `json:"projects"`
		Certifications []Certification `json:"certifications"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("resume: parse: %w", err)
	}

	skills, err := NormalizeSkills(raw.Skills, categoryOrder)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}

	r := &BaseResume{
		Personal:       raw.Personal,
		Summary:        raw.Summary,
		Skills:         skills,
		Experience:     raw.Experience,
		Education:      raw.Education,
		Projects:       raw.Projects,
		Certifications: raw.Certifications,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate reports what a usable resume is missing.
func (r *BaseResume) Validate() error {
	var problems []string
	if r.Personal.Name == "" {
		problems = append(problems, "personal_info.name is required")
	}
	if r.Personal.Email == "" {
		problems = append(problems, "personal_info.email is required")
	}
	if len(r.Experience) == 0 {
		problems = append(problems, "at least one experience entry is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("resume: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Copy returns a deep copy safe to mutate during tailoring.
func (r *BaseResume) Copy() *BaseResume {
	out := *r

	out.Skills = make([]SkillGroup, len(r.Skills))
	for i, g := range r.Skills {
		g.Skills = append([]string(nil), g.Skills...)
		out.Skills[i] = g
	}

	out.Experience = make([]Experience, len(r.Experience))
	for i, e := range r.Experience {
		e.Bullets = append([]string(nil), e.Bullets...)
		e.Technologies = append([]string(nil), e.Technologies...)
		out.Experience[i] = e
	}

	out.Education = make([]Education, len(r.Education))
	for i, e := range r.Education {
		e.Highlights = append([]string(nil), e.Highlights...)
		out.Education[i] = e
	}

	out.Projects = make([]Project, len(r.Projects))
	for i, p := range r.Projects {
		p.Technologies = append([]string(nil), p.Technologies...)
		out.Projects[i] = p
	}

	out.Certifications = append([]Certification(nil), r.Certifications...)
	return &out
}
