package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/edupath-lk/pathfinder/internal/catalog"
	"github.com/edupath-lk/pathfinder/internal/database"
	"github.com/edupath-lk/pathfinder/internal/output"
	"github.com/edupath-lk/pathfinder/internal/profile"
	"github.com/edupath-lk/pathfinder/internal/ranker"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the stored candidate catalog",
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in institutions, programs and scholarships",
	RunE:  runCatalogSeed,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import candidates from a JSON catalog file",
	Long: `Import validates a JSON catalog against the catalog schema and upserts
its candidates. Records without an id get a generated one.

Examples:
  pathfinder catalog import universities.json
  pathfinder catalog import --replace scholarships.json`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored candidates",
	Long: `List stored candidates with optional filters.

Examples:
  pathfinder catalog list --kind=program
  pathfinder catalog list --kind=institution --category=Government
  pathfinder catalog list -o json`,
	RunE: runCatalogList,
}

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show candidate counts by kind",
	RunE:  runCatalogStats,
}

var catalogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete stored candidates",
	RunE:  runCatalogClear,
}

var (
	catalogReplace  bool
	catalogKind     string
	catalogCategory string
	catalogLimit    int
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(streamsCmd)
	catalogCmd.AddCommand(catalogSeedCmd, catalogImportCmd, catalogListCmd, catalogStatsCmd, catalogClearCmd)

	catalogSeedCmd.Flags().BoolVar(&catalogReplace, "replace", false, "Delete all stored candidates first")
	catalogImportCmd.Flags().BoolVar(&catalogReplace, "replace", false, "Delete all stored candidates first")
	catalogListCmd.Flags().StringVar(&catalogKind, "kind", "", "Filter by kind (institution, program, scholarship)")
	catalogListCmd.Flags().StringVar(&catalogCategory, "category", "", "Filter by category (Government, Private, Vocational, Local, International)")
	catalogListCmd.Flags().IntVar(&catalogLimit, "limit", 0, "Maximum number of results")
	catalogClearCmd.Flags().StringVar(&catalogKind, "kind", "", "Only delete candidates of this kind")
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	file, err := catalog.Seed()
	if err != nil {
		return err
	}
	return storeCatalog(cmd, file, "built-in catalog")
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	file, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	return storeCatalog(cmd, file, args[0])
}

func storeCatalog(cmd *cobra.Command, file *catalog.File, source string) error {
	ctx := cmd.Context()

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	var n int
	if catalogReplace {
		var removed int64
		removed, n, err = e.db.ReplaceCandidates(ctx, file.Candidates())
		if err != nil {
			return fmt.Errorf("failed to replace catalog: %w", err)
		}
		e.logger.Info("cleared catalog", zap.Int64("removed", removed))
	} else {
		n, err = e.db.UpsertCandidates(ctx, file.Candidates())
		if err != nil {
			return fmt.Errorf("failed to store candidates: %w", err)
		}
	}
	e.logger.Info("stored candidates", zap.String("source", source), zap.Int("count", n))

	counts, err := e.db.CountCandidates(ctx)
	if err != nil {
		return err
	}
	if outputFmt != "json" {
		fmt.Printf("Stored %d candidate(s) from %s\n\n", n, source)
	}
	return output.Output(outputFmt, counts)
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	opts := database.ListOptions{Limit: catalogLimit}
	if catalogKind != "" {
		kind, ok := ranker.ParseKind(catalogKind)
		if !ok {
			return fmt.Errorf("unknown kind: %s (use institution, program or scholarship)", catalogKind)
		}
		k := string(kind)
		opts.Kind = &k
	}
	if catalogCategory != "" {
		opts.Category = &catalogCategory
	}

	candidates, err := e.db.ListCandidates(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}
	return output.Output(outputFmt, candidates)
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	counts, err := e.db.CountCandidates(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count candidates: %w", err)
	}
	return output.Output(outputFmt, counts)
}

func runCatalogClear(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	kind := ""
	if catalogKind != "" {
		k, ok := ranker.ParseKind(catalogKind)
		if !ok {
			return fmt.Errorf("unknown kind: %s (use institution, program or scholarship)", catalogKind)
		}
		kind = string(k)
	}

	removed, err := e.db.DeleteCandidates(cmd.Context(), kind)
	if err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	fmt.Printf("Removed %d candidate(s)\n", removed)
	return nil
}

var streamsCmd = &cobra.Command{
	Use:   "streams",
	Short: "List supported A/L streams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Output(outputFmt, profile.Streams)
	},
}
