package ranker

import (
	"sort"
	"strings"
)

// AdmissionTier opens a set of institution categories to profiles whose raw
// academic index is at least MinIndex. Empty Categories opens every category.
type AdmissionTier struct {
	MinIndex   float64  `json:"min_index" toml:"min_index"`
	Categories []string `json:"categories" toml:"categories"`
}

// DefaultAdmissionTiers returns the three admission tiers of the home-page matcher
func DefaultAdmissionTiers() []AdmissionTier {
	return []AdmissionTier{
		{MinIndex: 1.9},
		{MinIndex: 1.3, Categories: []string{"Government", "Private", "Vocational"}},
		{MinIndex: 0, Categories: []string{"Private", "Vocational"}},
	}
}

// TierFor returns the highest tier whose MinIndex is at most index
func TierFor(tiers []AdmissionTier, index float64) (AdmissionTier, bool) {
	sorted := make([]AdmissionTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinIndex > sorted[j].MinIndex
	})

	for _, t := range sorted {
		if index >= t.MinIndex {
			return t, true
		}
	}
	return AdmissionTier{}, false
}

// TierPool returns the candidates admissible at the given raw academic index.
// No matching tier yields an empty pool.
func TierPool(candidates []Candidate, tiers []AdmissionTier, index float64) []Candidate {
	tier, ok := TierFor(tiers, index)
	if !ok {
		return []Candidate{}
	}
	return FilterCategories(candidates, tier.Categories)
}

// Admits reports whether the tier opens the given category
func (t AdmissionTier) Admits(category string) bool {
	if len(t.Categories) == 0 {
		return true
	}
	for _, c := range t.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}
