package profile

import (
	"fmt"
	"strings"
)

// Stream describes an A/L stream and the subjects a student chooses grades for
type Stream struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Subjects []string `json:"subjects"`
	Careers  []string `json:"careers"`
	Fields   []string `json:"fields"` // catalog fields matched when no interest is given
}

// Streams is the closed set of supported streams
var Streams = []Stream{
	{
		ID:       "physical",
		Name:     "Physical Science",
		Subjects: []string{"Combined Maths", "Physics", "Chemistry"},
		Careers:  []string{"Software Engineer", "Civil Engineer", "Data Scientist"},
		Fields:   []string{"Engineering", "IT", "Science"},
	},
	{
		ID:       "bio",
		Name:     "Biological Science",
		Subjects: []string{"Biology", "Physics", "Chemistry"},
		Careers:  []string{"Medical Doctor", "Biotechnologist", "Pharmacist"},
		Fields:   []string{"Medicine", "Science", "Agriculture"},
	},
	{
		ID:       "commerce",
		Name:     "Commerce",
		Subjects: []string{"Economics", "Business Studies", "Accounting"},
		Careers:  []string{"Chartered Accountant", "Financial Analyst", "Marketing Strategist"},
		Fields:   []string{"Business", "Management"},
	},
	{
		ID:       "arts",
		Name:     "Arts",
		Subjects: []string{"Main Subject 1", "Main Subject 2", "Main Subject 3"},
		Careers:  []string{"Legal Consultant", "Diplomat", "Journalist"},
		Fields:   []string{"Arts", "Law", "Humanities"},
	},
	{
		ID:       "tech",
		Name:     "Technology",
		Subjects: []string{"ET/SFT", "BST", "SFT/Science"},
		Careers:  []string{"Product Designer", "Mechatronics Specialist", "IT Project Manager"},
		Fields:   []string{"IT", "Technical", "Engineering"},
	},
}

// streamAliases maps display names used by the resolver form to stream ids
var streamAliases = map[string]string{
	"physical science":   "physical",
	"biological science": "bio",
	"bio science":        "bio",
	"biology":            "bio",
	"technology":         "tech",
}

// LookupStream finds a stream by id or display name, case-insensitively
func LookupStream(name string) (Stream, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := streamAliases[key]; ok {
		key = alias
	}
	for _, s := range Streams {
		if s.ID == key || strings.ToLower(s.Name) == key {
			return s, nil
		}
	}
	return Stream{}, fmt.Errorf("unknown stream %q", name)
}

// interestFields maps explorer interests to the field names used in the catalog
var interestFields = map[string]string{
	"technology":  "IT",
	"engineering": "Engineering",
	"business":    "Business",
	"health":      "Medicine",
	"science":     "Science",
}

// InterestField returns the catalog field for an interest, or the interest itself
func InterestField(interest string) string {
	if f, ok := interestFields[strings.ToLower(strings.TrimSpace(interest))]; ok {
		return f
	}
	return strings.TrimSpace(interest)
}
