package config

import (
	"github.com/edupath-lk/pathfinder/internal/eligibility"
	"github.com/edupath-lk/pathfinder/internal/normalize"
	"github.com/edupath-lk/pathfinder/internal/ranker"
)

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Normalizer NormalizerConfig `toml:"normalizer"`
	Ranker     RankerConfig     `toml:"ranker"`
	Admission  AdmissionConfig  `toml:"admission"`
	Classifier ClassifierConfig `toml:"classifier"`
	Logging    LoggingConfig    `toml:"logging"`
	MCP        MCPConfig        `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// NormalizerConfig contains score normalization settings
type NormalizerConfig struct {
	IncomeCeiling  float64      `toml:"income_ceiling"`
	AcademicWeight float64      `toml:"academic_weight"`
	IncomeWeight   float64      `toml:"income_weight"`
	UnknownIncome  float64      `toml:"unknown_income"`
	IndexScale     float64      `toml:"index_scale"`
	SubjectCount   int          `toml:"subject_count"`
	BoostCap       float64      `toml:"boost_cap"`
	Boosts         BoostsConfig `toml:"boosts"`
}

// BoostsConfig holds the additive special-category boosts
type BoostsConfig struct {
	Rural           float64 `toml:"rural"`
	Disability      float64 `toml:"disability"`
	Orphan          float64 `toml:"orphan"`
	FirstGeneration float64 `toml:"first_generation"`
}

// RankerConfig contains candidate ranking settings
type RankerConfig struct {
	TopN              int     `toml:"top_n"`
	TagMatchPoints    float64 `toml:"tag_match_points"`
	NameMatchPoints   float64 `toml:"name_match_points"`
	GoalMatchPoints   float64 `toml:"goal_match_points"`
	TierMaxPoints     float64 `toml:"tier_max_points"`
	TierWeightCeiling float64 `toml:"tier_weight_ceiling"`
	Locale            string  `toml:"locale"`
}

// AdmissionConfig lists the admission tiers used for the institution fallback
type AdmissionConfig struct {
	Tiers []ranker.AdmissionTier `toml:"tiers"`
}

// ClassifierConfig contains eligibility classification settings
type ClassifierConfig struct {
	SoftMargin    float64  `toml:"soft_margin"`
	CatalogPath   string   `toml:"catalog_path"` // empty uses the built-in catalog
	ClosedWindows []string `toml:"closed_windows"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	n := normalize.DefaultConfig()
	r := ranker.DefaultConfig()

	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/pathfinder/pathfinder.db",
		},
		Normalizer: NormalizerConfig{
			IncomeCeiling:  n.IncomeCeiling,
			AcademicWeight: n.AcademicWeight,
			IncomeWeight:   n.IncomeWeight,
			UnknownIncome:  n.UnknownIncome,
			IndexScale:     n.IndexScale,
			SubjectCount:   n.SubjectCount,
			BoostCap:       n.BoostCap,
			Boosts: BoostsConfig{
				Rural:           n.Boosts.Rural,
				Disability:      n.Boosts.Disability,
				Orphan:          n.Boosts.Orphan,
				FirstGeneration: n.Boosts.FirstGeneration,
			},
		},
		Ranker: RankerConfig{
			TopN:              r.DefaultTopN,
			TagMatchPoints:    r.TagMatchPoints,
			NameMatchPoints:   r.NameMatchPoints,
			GoalMatchPoints:   r.GoalMatchPoints,
			TierMaxPoints:     r.TierMaxPoints,
			TierWeightCeiling: r.TierWeightCeiling,
			Locale:            r.Locale,
		},
		Admission: AdmissionConfig{
			Tiers: ranker.DefaultAdmissionTiers(),
		},
		Classifier: ClassifierConfig{
			SoftMargin:    eligibility.DefaultSoftMargin,
			ClosedWindows: []string{"time-limited-intake"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}

// NormalizerConfig converts the [normalizer] section to the engine config
func (c *Config) NormalizerConfig() normalize.Config {
	n := c.Normalizer
	return normalize.Config{
		IncomeCeiling:  n.IncomeCeiling,
		AcademicWeight: n.AcademicWeight,
		IncomeWeight:   n.IncomeWeight,
		UnknownIncome:  n.UnknownIncome,
		IndexScale:     n.IndexScale,
		SubjectCount:   n.SubjectCount,
		BoostCap:       n.BoostCap,
		Boosts: normalize.Boosts{
			Rural:           n.Boosts.Rural,
			Disability:      n.Boosts.Disability,
			Orphan:          n.Boosts.Orphan,
			FirstGeneration: n.Boosts.FirstGeneration,
		},
	}
}

// RankerConfig converts the [ranker] section to the engine config
func (c *Config) RankerConfig() ranker.Config {
	r := c.Ranker
	return ranker.Config{
		TagMatchPoints:    r.TagMatchPoints,
		NameMatchPoints:   r.NameMatchPoints,
		GoalMatchPoints:   r.GoalMatchPoints,
		TierMaxPoints:     r.TierMaxPoints,
		TierWeightCeiling: r.TierWeightCeiling,
		DefaultTopN:       r.TopN,
		Locale:            r.Locale,
	}
}

// Tiers returns the configured admission tiers
func (c *Config) Tiers() []ranker.AdmissionTier {
	return c.Admission.Tiers
}

// ClassifyOptions converts the [classifier] section to classification options
func (c *Config) ClassifyOptions() eligibility.Options {
	opts := eligibility.Options{
		SoftMargin:    c.Classifier.SoftMargin,
		ClosedWindows: make(map[string]bool, len(c.Classifier.ClosedWindows)),
	}
	for _, id := range c.Classifier.ClosedWindows {
		opts.ClosedWindows[id] = true
	}
	return opts
}
