package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override the config file
const (
	EnvDatabase = "PATHFINDER_DB"
	EnvLogLevel = "PATHFINDER_LOG_LEVEL"
	EnvCatalog  = "PATHFINDER_CATALOG"
)

// DefaultPath is where config init writes the config file
const DefaultPath = "~/.config/pathfinder/config.toml"

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'pathfinder config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return finish(cfg)
}

// LoadOrDefault loads the config file, falling back to defaults when it does not exist
func LoadOrDefault(path string) (*Config, error) {
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}
	if _, err := os.Stat(expandedPath); errors.Is(err, os.ErrNotExist) {
		return finish(Default())
	}
	return Load(path)
}

// Parse decodes TOML over the defaults without touching the environment
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Admission.Tiers = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Admission.Tiers) == 0 {
		cfg.Admission.Tiers = Default().Admission.Tiers
	}
	return cfg, nil
}

// finish applies .env and environment overrides, expands paths and validates
func finish(cfg *Config) (*Config, error) {
	loadDotEnv()
	cfg.applyEnv()

	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads ./.env when present. Variables already set win.
func loadDotEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		c.Classifier.CatalogPath = v
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	c.Classifier.CatalogPath, err = expandPath(c.Classifier.CatalogPath)
	if err != nil {
		return err
	}

	return nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// Normalizer validation
	n := c.Normalizer
	if n.IncomeCeiling <= 0 {
		errs = append(errs, errors.New("normalizer.income_ceiling must be positive"))
	}
	if n.IndexScale <= 0 {
		errs = append(errs, errors.New("normalizer.index_scale must be positive"))
	}
	if n.SubjectCount < 1 {
		errs = append(errs, errors.New("normalizer.subject_count must be at least 1"))
	}
	fractions := []struct {
		name  string
		value float64
	}{
		{"academic_weight", n.AcademicWeight},
		{"income_weight", n.IncomeWeight},
		{"unknown_income", n.UnknownIncome},
		{"boost_cap", n.BoostCap},
		{"boosts.rural", n.Boosts.Rural},
		{"boosts.disability", n.Boosts.Disability},
		{"boosts.orphan", n.Boosts.Orphan},
		{"boosts.first_generation", n.Boosts.FirstGeneration},
	}
	for _, f := range fractions {
		if f.value < 0 || f.value > 1 {
			errs = append(errs, fmt.Errorf("normalizer.%s must be between 0 and 1, got %v", f.name, f.value))
		}
	}
	if n.AcademicWeight+n.IncomeWeight > 1+1e-9 {
		errs = append(errs, errors.New("normalizer.academic_weight + income_weight must not exceed 1"))
	}

	// Ranker validation
	if c.Ranker.TopN < 1 {
		errs = append(errs, errors.New("ranker.top_n must be at least 1"))
	}
	if c.Ranker.TierWeightCeiling <= 0 {
		errs = append(errs, errors.New("ranker.tier_weight_ceiling must be positive"))
	}

	// Admission validation
	if len(c.Admission.Tiers) == 0 {
		errs = append(errs, errors.New("admission.tiers must not be empty"))
	}
	for i, t := range c.Admission.Tiers {
		if t.MinIndex < 0 {
			errs = append(errs, fmt.Errorf("admission.tiers[%d].min_index must not be negative", i))
		}
	}
	if !sort.SliceIsSorted(c.Admission.Tiers, func(i, j int) bool {
		return c.Admission.Tiers[i].MinIndex > c.Admission.Tiers[j].MinIndex
	}) {
		errs = append(errs, errors.New("admission.tiers must be sorted by min_index, highest first"))
	}

	// Classifier validation
	if c.Classifier.SoftMargin < 0 || c.Classifier.SoftMargin > 1 {
		errs = append(errs, fmt.Errorf("classifier.soft_margin must be between 0 and 1, got %v", c.Classifier.SoftMargin))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error, got '%s'", c.Logging.Level))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be 'console' or 'json', got '%s'", c.Logging.Format))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates the database directory
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
