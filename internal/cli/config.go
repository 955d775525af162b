package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(home, ".config", "pathfinder")
	dataDir := filepath.Join(home, ".local", "share", "pathfinder")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	configFile := filepath.Join(configDir, "config.toml")

	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'pathfinder config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run 'pathfinder catalog seed' to load the built-in catalog")
	fmt.Println("  2. Run 'pathfinder match --grades A,A,B --stream physical --income 45000'")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := expandHome(configPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'pathfinder config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", path)
	fmt.Println(string(data))
	return nil
}

func expandHome(path string) (string, error) {
	if len(path) < 2 || path[:2] != "~/" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

const defaultConfig = `# Pathfinder Configuration

[database]
path = "~/.local/share/pathfinder/pathfinder.db"

[normalizer]
income_ceiling = 200000   # LKR per month; income at or above scores 0
academic_weight = 0.55
income_weight = 0.35
unknown_income = 0.5      # income signal when income is not given
index_scale = 3.0
subject_count = 3
boost_cap = 0.30

[normalizer.boosts]
rural = 0.08
disability = 0.08
orphan = 0.06
first_generation = 0.04

[ranker]
top_n = 3
tag_match_points = 50
name_match_points = 25
goal_match_points = 15
tier_max_points = 10
tier_weight_ceiling = 5.0
locale = "en"

# Institution categories open at each academic index (0-3 scale), highest first
[[admission.tiers]]
min_index = 1.9
categories = []

[[admission.tiers]]
min_index = 1.3
categories = ["Government", "Private", "Vocational"]

[[admission.tiers]]
min_index = 0.0
categories = ["Private", "Vocational"]

[classifier]
soft_margin = 0.15
# catalog_path = "~/.config/pathfinder/rules.yaml"   # built-in rules when unset
closed_windows = ["time-limited-intake"]

[logging]
level = "info"      # debug, info, warn, error
format = "console"  # console, json

[mcp]
enabled = true
transport = "stdio"
`
