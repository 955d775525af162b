package eligibility

import "github.com/edupath-lk/pathfinder/internal/normalize"

// Summary is a coarse reading of the buckets
type Summary struct {
	SuccessLikelihood string `json:"success_likelihood"`
	EstimatedValue    string `json:"estimated_value"`
	MonthlyEstimate   string `json:"monthly_estimate"`
	RuralBenefit      string `json:"rural_benefit"`
}

func summarize(r Result, s normalize.Signals) Summary {
	eligible, conditional := len(r.Eligible), len(r.Conditional)

	sum := Summary{
		SuccessLikelihood: "Low",
		EstimatedValue:    "Low to Medium (estimate)",
		MonthlyEstimate:   "Varies",
		RuralBenefit:      "Standard",
	}

	switch {
	case eligible >= 2:
		sum.SuccessLikelihood = "High"
		sum.EstimatedValue = "Medium to High (estimate)"
		sum.MonthlyEstimate = "LKR 10,000 - 50,000 (estimate)"
	case eligible == 1:
		sum.SuccessLikelihood = "Medium"
		sum.EstimatedValue = "Medium (estimate)"
	case conditional > 0:
		sum.SuccessLikelihood = "Medium"
	}

	if s.Special.Rural {
		sum.RuralBenefit = "Higher"
	}
	return sum
}
