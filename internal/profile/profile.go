package profile

import (
	"fmt"
	"strings"
)

// Grade is an A/L letter grade. The empty grade means the subject has not been chosen yet.
type Grade string

const (
	GradeA    Grade = "A"
	GradeB    Grade = "B"
	GradeC    Grade = "C"
	GradeS    Grade = "S"
	GradeF    Grade = "F"
	GradeNone Grade = ""
)

// GradePoints is the fixed point scale used for every subject
var GradePoints = map[Grade]float64{
	GradeA: 3.0,
	GradeB: 2.5,
	GradeC: 2.0,
	GradeS: 1.0,
	GradeF: 0,
}

// Points returns the point value of the grade and whether it is a known grade
func (g Grade) Points() (float64, bool) {
	p, ok := GradePoints[g]
	return p, ok
}

// Valid reports whether g is one of A, B, C, S, F
func (g Grade) Valid() bool {
	_, ok := GradePoints[g]
	return ok
}

// ParseGrade parses a single letter grade. "-" and "" mean not chosen.
func ParseGrade(s string) (Grade, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return GradeNone, nil
	}
	g := Grade(s)
	if !g.Valid() {
		return GradeNone, fmt.Errorf("unknown grade %q (use A, B, C, S or F)", s)
	}
	return g, nil
}

// ParseGrades parses a comma separated list such as "A,B,-"
func ParseGrades(s string) ([]Grade, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	grades := make([]Grade, 0, len(parts))
	for i, part := range parts {
		g, err := ParseGrade(part)
		if err != nil {
			return nil, fmt.Errorf("subject %d: %w", i+1, err)
		}
		grades = append(grades, g)
	}
	return grades, nil
}

// SpecialCategories are independent flags that each boost eligibility
type SpecialCategories struct {
	Rural           bool `json:"rural" toml:"rural" yaml:"rural"`
	Disability      bool `json:"disability" toml:"disability" yaml:"disability"`
	Orphan          bool `json:"orphan" toml:"orphan" yaml:"orphan"`
	FirstGeneration bool `json:"first_generation" toml:"first_generation" yaml:"first_generation"`
}

// Any reports whether at least one category is set
func (s SpecialCategories) Any() bool {
	return s.Rural || s.Disability || s.Orphan || s.FirstGeneration
}

// Profile is a student's submitted academic, financial and demographic details.
// It is a value: engine functions receive a copy and never modify it.
type Profile struct {
	Grades        []Grade           `json:"grades,omitempty"`
	Stream        string            `json:"stream,omitempty"`
	MonthlyIncome *float64          `json:"monthly_income,omitempty"`
	AcademicIndex *float64          `json:"academic_index,omitempty"`
	District      string            `json:"district,omitempty"`
	SchoolType    string            `json:"school_type,omitempty"`
	Medium        string            `json:"medium,omitempty"`
	Goal          string            `json:"goal,omitempty"`
	Interest      string            `json:"interest,omitempty"`
	Special       SpecialCategories `json:"special_categories"`
}

// MissingGrades returns the 1-based subject positions that have no valid grade.
// Positions beyond len(Grades) up to subjectCount are missing as well.
func (p Profile) MissingGrades(subjectCount int) []int {
	var missing []int
	for i := 0; i < subjectCount; i++ {
		if i >= len(p.Grades) || !p.Grades[i].Valid() {
			missing = append(missing, i+1)
		}
	}
	return missing
}

// GradesComplete reports whether every one of the subjectCount subjects has a valid grade
func (p Profile) GradesComplete(subjectCount int) bool {
	return subjectCount > 0 && len(p.MissingGrades(subjectCount)) == 0
}

// WithGrade returns a copy of p with subject i (0-based) set to g
func (p Profile) WithGrade(i int, g Grade) Profile {
	grades := make([]Grade, max(len(p.Grades), i+1))
	copy(grades, p.Grades)
	grades[i] = g
	p.Grades = grades
	return p
}

// Float is a helper for building optional numeric fields
func Float(v float64) *float64 {
	return &v
}
