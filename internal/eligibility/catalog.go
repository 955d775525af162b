package eligibility

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/edupath-lk/pathfinder/internal/normalize"
)

//go:embed default_catalog.toml
var defaultCatalog []byte

// RuleSpec is the declarative form of a Rule as written in catalog files
type RuleSpec struct {
	ID       string `toml:"id" yaml:"id" json:"id"`
	Name     string `toml:"name" yaml:"name" json:"name"`
	Provider string `toml:"provider" yaml:"provider" json:"provider,omitempty"`
	Amount   string `toml:"amount" yaml:"amount" json:"amount,omitempty"`
	Deadline string `toml:"deadline" yaml:"deadline" json:"deadline,omitempty"`

	// Exactly one of Signal, AnyFlags or AllFlags is set
	Signal   string   `toml:"signal" yaml:"signal" json:"signal,omitempty"`
	Min      *float64 `toml:"min" yaml:"min" json:"min,omitempty"`
	Max      *float64 `toml:"max" yaml:"max" json:"max,omitempty"`
	AnyFlags []string `toml:"any_flags" yaml:"any_flags" json:"any_flags,omitempty"`
	AllFlags []string `toml:"all_flags" yaml:"all_flags" json:"all_flags,omitempty"`

	Explanation        string   `toml:"explanation" yaml:"explanation" json:"explanation,omitempty"`
	MissingRequirement string   `toml:"missing_requirement" yaml:"missing_requirement" json:"missing_requirement,omitempty"`
	Remediation        string   `toml:"remediation" yaml:"remediation" json:"remediation,omitempty"`
	ViolatedRule       string   `toml:"violated_rule" yaml:"violated_rule" json:"violated_rule,omitempty"`
	Alternative        string   `toml:"alternative" yaml:"alternative" json:"alternative,omitempty"`
	DocChecklist       []string `toml:"doc_checklist" yaml:"doc_checklist" json:"doc_checklist,omitempty"`
	TimeSensitive      bool     `toml:"time_sensitive" yaml:"time_sensitive" json:"time_sensitive,omitempty"`
	ProbabilityBoost   float64  `toml:"probability_boost" yaml:"probability_boost" json:"probability_boost,omitempty"`
}

// Catalog is a versioned list of rule specs
type Catalog struct {
	Version string     `toml:"version" yaml:"version" json:"version"`
	Rules   []RuleSpec `toml:"rules" yaml:"rules" json:"rules"`
}

// Validate checks every rule and joins all problems into one error
func (c *Catalog) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(c.Rules))

	for i, r := range c.Rules {
		if strings.TrimSpace(r.ID) == "" {
			errs = append(errs, fmt.Errorf("rules[%d]: id is required", i))
			continue
		}
		if seen[r.ID] {
			errs = append(errs, fmt.Errorf("rules[%d]: duplicate id %q", i, r.ID))
		}
		seen[r.ID] = true
		if err := r.validate(); err != nil {
			errs = append(errs, fmt.Errorf("rule %q: %w", r.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (r RuleSpec) validate() error {
	kinds := 0
	if r.Signal != "" {
		kinds++
	}
	if len(r.AnyFlags) > 0 {
		kinds++
	}
	if len(r.AllFlags) > 0 {
		kinds++
	}
	if kinds != 1 {
		return errors.New("exactly one of signal, any_flags or all_flags must be set")
	}
	if r.Signal != "" && r.Min == nil && r.Max == nil {
		return errors.New("signal requires min or max")
	}
	if r.Signal == "" && (r.Min != nil || r.Max != nil) {
		return errors.New("min and max only apply to signal rules")
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return fmt.Errorf("min %v is greater than max %v", *r.Min, *r.Max)
	}
	return nil
}

// Compile builds the executable rule
func (r RuleSpec) Compile() (Rule, error) {
	if err := r.validate(); err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", r.ID, err)
	}

	rule := Rule{
		ID:                 r.ID,
		Name:               r.Name,
		Provider:           r.Provider,
		Amount:             r.Amount,
		Deadline:           r.Deadline,
		Explanation:        r.Explanation,
		MissingRequirement: r.MissingRequirement,
		Remediation:        r.Remediation,
		ViolatedRule:       r.ViolatedRule,
		Alternative:        r.Alternative,
		DocChecklist:       r.DocChecklist,
		TimeSensitive:      r.TimeSensitive,
		ProbabilityBoost:   r.ProbabilityBoost,
	}

	switch {
	case r.Signal != "":
		rule.Threshold = &Threshold{Signal: r.Signal, Min: r.Min, Max: r.Max}
	case len(r.AnyFlags) > 0:
		rule.Predicate = flagPredicate(r.AnyFlags, false)
	default:
		rule.Predicate = flagPredicate(r.AllFlags, true)
	}
	return rule, nil
}

// flagPredicate is true when any (or, with all set, every) flag is set
func flagPredicate(flags []string, all bool) Predicate {
	return func(s normalize.Signals) (bool, error) {
		for _, f := range flags {
			set, err := s.Flag(f)
			if err != nil {
				return false, err
			}
			if set && !all {
				return true, nil
			}
			if !set && all {
				return false, nil
			}
		}
		return all, nil
	}
}

// Compile validates the catalog and compiles every rule in order
func (c *Catalog) Compile() ([]Rule, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	rules := make([]Rule, 0, len(c.Rules))
	for _, spec := range c.Rules {
		rule, err := spec.Compile()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ParseCatalog decodes a catalog in the given format (toml or yaml)
func ParseCatalog(data []byte, format string) (*Catalog, error) {
	var c Catalog
	switch strings.ToLower(format) {
	case "toml":
		if err := toml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse toml catalog: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("failed to parse yaml catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// LoadCatalog reads a catalog file, picking the format from its extension
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return ParseCatalog(data, format)
}

// DefaultCatalog returns the built-in scholarship catalog
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog, "toml")
}

// DefaultRules compiles the built-in catalog
func DefaultRules() ([]Rule, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return c.Compile()
}
