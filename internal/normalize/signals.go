package normalize

import (
	"fmt"
	"strings"

	"github.com/edupath-lk/pathfinder/internal/profile"
)

// Signals are the normalized values rules and rankers are evaluated against
type Signals struct {
	AcademicIndex float64                   `json:"academic_index"`
	RawIndex      float64                   `json:"raw_index"`
	Income        float64                   `json:"income"`
	CategoryBoost float64                   `json:"category_boost"`
	Composite     float64                   `json:"composite"`
	MonthlyIncome *float64                  `json:"monthly_income,omitempty"`
	Special       profile.SpecialCategories `json:"special_categories"`
	Stream        string                    `json:"stream,omitempty"`
	District      string                    `json:"district,omitempty"`
}

// Signal names accepted by Value
const (
	SignalAcademicIndex = "academic_index"
	SignalRawIndex      = "raw_index"
	SignalIncome        = "income"
	SignalCategoryBoost = "category_boost"
	SignalComposite     = "composite"
)

// Flag names accepted by Flag
const (
	FlagRural           = "rural"
	FlagDisability      = "disability"
	FlagOrphan          = "orphan"
	FlagFirstGeneration = "first_generation"
)

// Value returns the numeric signal with the given name
func (s Signals) Value(name string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case SignalAcademicIndex:
		return s.AcademicIndex, nil
	case SignalRawIndex:
		return s.RawIndex, nil
	case SignalIncome:
		return s.Income, nil
	case SignalCategoryBoost:
		return s.CategoryBoost, nil
	case SignalComposite:
		return s.Composite, nil
	default:
		return 0, fmt.Errorf("unknown signal %q", name)
	}
}

// Flag returns the special-category flag with the given name
func (s Signals) Flag(name string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FlagRural:
		return s.Special.Rural, nil
	case FlagDisability:
		return s.Special.Disability, nil
	case FlagOrphan:
		return s.Special.Orphan, nil
	case FlagFirstGeneration, "first_gen", "firstgeneration":
		return s.Special.FirstGeneration, nil
	default:
		return false, fmt.Errorf("unknown flag %q", name)
	}
}
