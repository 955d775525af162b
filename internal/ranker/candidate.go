package ranker

import "strings"

// Kind identifies which catalog a candidate comes from
type Kind string

const (
	KindInstitution Kind = "institution"
	KindProgram     Kind = "program"
	KindScholarship Kind = "scholarship"
)

// ParseKind validates a kind string
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindInstitution, KindProgram, KindScholarship:
		return k, true
	default:
		return "", false
	}
}

// Candidate is one read-only record of the external catalog
type Candidate struct {
	ID           string   `json:"id"`
	Kind         Kind     `json:"kind"`
	DisplayName  string   `json:"display_name"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category,omitempty"` // Government, Private, Vocational, Local, International
	CategoryTags []string `json:"category_tags,omitempty"`
	TierWeight   *float64 `json:"tier_weight,omitempty"`
	LocationTag  string   `json:"location_tag,omitempty"`
	Status       string   `json:"status,omitempty"`
}

// Pass identifies which ranking pass produced a result
type Pass string

const (
	PassKeyword  Pass = "keyword"
	PassFallback Pass = "fallback"
)

// Result is one ranked candidate
type Result struct {
	CandidateID string   `json:"candidate_id"`
	DisplayName string   `json:"display_name"`
	Score       float64  `json:"score"`
	Rank        int      `json:"rank"`
	Pass        Pass     `json:"pass"`
	Reasons     []string `json:"reasons,omitempty"`
}

// FilterCategories keeps candidates whose Category is in allowed.
// An empty allowed list keeps everything.
func FilterCategories(candidates []Candidate, allowed []string) []Candidate {
	if len(allowed) == 0 {
		out := make([]Candidate, len(candidates))
		copy(out, candidates)
		return out
	}

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		for _, a := range allowed {
			if strings.EqualFold(c.Category, strings.TrimSpace(a)) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// FilterKind keeps candidates of the given kind
func FilterKind(candidates []Candidate, kind Kind) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
