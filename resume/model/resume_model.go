package model

import (
	"errors"
	"fmt"
	"strings"
)

// ResumeData represents the canonical resume payload. A value is replaced
// wholesale on every successful extraction; nothing mutates it in place.
type ResumeData struct {
	Basics     Basics       `json:"basics"`
	Education  []Education  `json:"education"`
	Experience []Experience `json:"experience"`
	Projects   []Project    `json:"projects"`
	Skills     []string     `json:"skills"`
	Languages  []string     `json:"languages"`
}

// Basics captures identity, contact and summary fields.
type Basics struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
}

// Education represents an education entry.
type Education struct {
	School      string `json:"school"`
	Degree      string `json:"degree"`
	Major       string `json:"major"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description,omitempty"`
}

// Experience represents a work history entry.
type Experience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Responsibilities []string `json:"responsibilities"`
}

// Project represents a notable project.
type Project struct {
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// ErrNameRequired is returned when basics.name is blank.
var ErrNameRequired = errors.New("basics.name is required")

// Validate enforces the structural rules every ResumeData must satisfy
// before it reaches the renderer.
func (d ResumeData) Validate() error {
	if strings.TrimSpace(d.Basics.Name) == "" {
		return ErrNameRequired
	}
	if d.Education == nil {
		return errors.New("education must be an array")
	}
	if d.Experience == nil {
		return errors.New("experience must be an array")
	}
	if d.Projects == nil {
		return errors.New("projects must be an array")
	}
	if d.Skills == nil {
		return errors.New("skills must be an array")
	}
	if d.Languages == nil {
		return errors.New("languages must be an array")
	}
	for i, exp := range d.Experience {
		if exp.Responsibilities == nil {
			return fmt.Errorf("experience[%d].responsibilities must be an array", i)
		}
	}
	for i, project := range d.Projects {
		if project.Technologies == nil {
			return fmt.Errorf("projects[%d].technologies must be an array", i)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can hand the value out without
// sharing backing arrays.
func (d ResumeData) Clone() ResumeData {
	out := ResumeData{
		Basics:     d.Basics,
		Education:  append(make([]Education, 0, len(d.Education)), d.Education...),
		Experience: make([]Experience, 0, len(d.Experience)),
		Projects:   make([]Project, 0, len(d.Projects)),
		Skills:     cloneStrings(d.Skills),
		Languages:  cloneStrings(d.Languages),
	}
	for _, exp := range d.Experience {
		exp.Responsibilities = cloneStrings(exp.Responsibilities)
		out.Experience = append(out.Experience, exp)
	}
	for _, project := range d.Projects {
		project.Technologies = cloneStrings(project.Technologies)
		out.Projects = append(out.Projects, project)
	}
	return out
}

func cloneStrings(in []string) []string {
	return append(make([]string, 0, len(in)), in...)
}
