package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edupath-lk/pathfinder/internal/config"
	"github.com/edupath-lk/pathfinder/internal/database"
	"github.com/edupath-lk/pathfinder/internal/logging"
	"github.com/edupath-lk/pathfinder/internal/matcher"
	"github.com/edupath-lk/pathfinder/internal/normalize"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
	logLevel   string
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pathfinder",
	Short: "Match A/L student profiles to institutions, programs and scholarships",
	Long: `pathfinder turns a student's A/L results and background into
normalized signals and uses them to recommend higher-education options.

It provides:
  - Academic, income and special-category scoring
  - Keyword ranking of institutions and programs with an admission fallback
  - Scholarship eligibility with evidence (eligible, conditional, blocked)
  - MCP server for AI assistant integration`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: "+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides the config file")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if configPath == "" {
		configPath = config.DefaultPath
	}
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pathfinder %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}

// env bundles what most commands need
type env struct {
	cfg     *config.Config
	db      *database.DB
	logger  *zap.Logger
	matcher *matcher.Matcher
}

// loadConfig reads the config file, using defaults when it does not exist yet
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	return cfg, nil
}

// openEnv loads config, opens the database and builds the matcher.
// adjust runs on the loaded config before anything is opened.
// The caller must call close.
func openEnv(adjust ...func(*config.Config)) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	for _, fn := range adjust {
		fn(cfg)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	rules, err := matcher.LoadRules(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load eligibility rules: %w", err)
	}

	logger.Debug("environment ready",
		zap.String("database", cfg.Database.Path),
		zap.Int("rules", len(rules)),
	)

	return &env{
		cfg:     cfg,
		db:      db,
		logger:  logger,
		matcher: matcher.New(db, cfg, rules, logger),
	}, nil
}

func (e *env) close() {
	_ = e.logger.Sync()
	e.db.Close()
}

// explain turns engine errors into messages that tell the user what to pass
func explain(err error) error {
	var incomplete *normalize.IncompleteProfileError
	if errors.As(err, &incomplete) {
		return fmt.Errorf("%w\n\nPass --grades (e.g. A,B,C) for every subject, or --index with a known academic index", err)
	}
	return err
}
