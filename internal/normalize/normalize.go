// Package normalize turns raw profile fields into bounded signals.
//
// Every function here is pure. A Normalizer holds only its configuration and may be
// shared between goroutines.
package normalize

import (
	"math"

	"github.com/edupath-lk/pathfinder/internal/profile"
)

// Boosts are the per-category additions to the composite score
type Boosts struct {
	Rural           float64
	Disability      float64
	Orphan          float64
	FirstGeneration float64
}

// Config holds the normalization constants
type Config struct {
	IncomeCeiling  float64 // monthly income at which need-based weight reaches zero
	AcademicWeight float64
	IncomeWeight   float64
	UnknownIncome  float64 // normalized income used when income is missing
	IndexScale     float64 // academic index value that maps to 1.0
	SubjectCount   int
	Boosts         Boosts
	BoostCap       float64
}

// DefaultConfig returns the documented default constants
func DefaultConfig() Config {
	return Config{
		IncomeCeiling:  200000,
		AcademicWeight: 0.55,
		IncomeWeight:   0.35,
		UnknownIncome:  0.5,
		IndexScale:     3.0,
		SubjectCount:   3,
		Boosts: Boosts{
			Rural:           0.08,
			Disability:      0.08,
			Orphan:          0.06,
			FirstGeneration: 0.04,
		},
		BoostCap: 0.30,
	}
}

// Normalizer computes normalized signals for profiles
type Normalizer struct {
	config Config
}

// New creates a Normalizer with the given configuration
func New(config Config) *Normalizer {
	return &Normalizer{config: config}
}

// Config returns the normalizer's configuration
func (n *Normalizer) Config() Config {
	return n.config
}

// RawAcademicIndex returns the academic index on its own scale: the given index when
// present, otherwise the mean grade points.
func (n *Normalizer) RawAcademicIndex(p profile.Profile) (float64, error) {
	if p.AcademicIndex != nil {
		v := *p.AcademicIndex
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &IncompleteProfileError{Reason: "academic index is not a finite number"}
		}
		return v, nil
	}

	if missing := p.MissingGrades(n.config.SubjectCount); len(missing) > 0 {
		return 0, &IncompleteProfileError{Missing: missing}
	}

	var total float64
	for _, g := range p.Grades[:n.config.SubjectCount] {
		points, _ := g.Points()
		total += points
	}
	return total / float64(n.config.SubjectCount), nil
}

// AcademicIndex returns the academic performance signal in [0,1]
func (n *Normalizer) AcademicIndex(p profile.Profile) (float64, error) {
	raw, err := n.RawAcademicIndex(p)
	if err != nil {
		return 0, err
	}
	return Clamp(raw/n.config.IndexScale, 0, 1), nil
}

// Income returns the need signal in [0,1]. Unknown or negative income is neutral.
func (n *Normalizer) Income(monthlyIncome *float64) float64 {
	if monthlyIncome == nil || *monthlyIncome < 0 || math.IsNaN(*monthlyIncome) {
		return n.config.UnknownIncome
	}
	return Clamp(1-*monthlyIncome/n.config.IncomeCeiling, 0, 1)
}

// CategoryBoost sums the boosts of the set categories, capped at BoostCap
func (n *Normalizer) CategoryBoost(s profile.SpecialCategories) float64 {
	b := n.config.Boosts
	var total float64
	if s.Rural {
		total += b.Rural
	}
	if s.Disability {
		total += b.Disability
	}
	if s.Orphan {
		total += b.Orphan
	}
	if s.FirstGeneration {
		total += b.FirstGeneration
	}
	return Clamp(total, 0, n.config.BoostCap)
}

// Composite blends academic, income and category signals into one score in [0,1]
func (n *Normalizer) Composite(p profile.Profile) (float64, error) {
	s, err := n.Signals(p)
	if err != nil {
		return 0, err
	}
	return s.Composite, nil
}

// Signals computes every normalized signal for a profile
func (n *Normalizer) Signals(p profile.Profile) (Signals, error) {
	raw, err := n.RawAcademicIndex(p)
	if err != nil {
		return Signals{}, err
	}
	academic := Clamp(raw/n.config.IndexScale, 0, 1)
	income := n.Income(p.MonthlyIncome)
	boost := n.CategoryBoost(p.Special)

	composite := Clamp(n.config.AcademicWeight*academic+n.config.IncomeWeight*income+boost, 0, 1)

	return Signals{
		AcademicIndex: academic,
		RawIndex:      raw,
		Income:        income,
		CategoryBoost: boost,
		Composite:     composite,
		MonthlyIncome: p.MonthlyIncome,
		Special:       p.Special,
		Stream:        p.Stream,
		District:      p.District,
	}, nil
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
