package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edupath-lk/pathfinder/internal/config"
	"github.com/edupath-lk/pathfinder/internal/database"
	"github.com/edupath-lk/pathfinder/internal/matcher"
	"github.com/edupath-lk/pathfinder/internal/output"
	"github.com/edupath-lk/pathfinder/internal/ranker"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Compute the normalized signals of a profile",
	Long: `Normalize prints the academic index, income signal, special-category
boost and composite score of a profile.

Examples:
  pathfinder normalize --grades A,A,B --income 45000
  pathfinder normalize --index 1.7 --rural
  pathfinder normalize --profile student.json -o json`,
	RunE: runNormalize,
}

var rankCmd = &cobra.Command{
	Use:   "rank [keywords...]",
	Short: "Rank stored candidates against keywords and a profile",
	Long: `Rank scores stored candidates of one kind by field tag, name and goal
matches and prints the best few. Only genuine matches are returned;
--fallback ranks admissible institutions when nothing matches.

Examples:
  pathfinder rank IT --grades A,A,B
  pathfinder rank --kind institution --interest medicine --index 2.1
  pathfinder rank --kind institution --keywords Astrophysics --index 1.5 --fallback
  pathfinder rank --category Government --top 5 --interest technology --index 2`,
	RunE: runRank,
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify scholarship eligibility for a profile",
	Long: `Classify evaluates every scholarship rule and sorts it into eligible,
conditional (close to the threshold) or blocked, with evidence.

Examples:
  pathfinder classify --grades A,A,B --income 45000
  pathfinder classify --profile student.json --closed time-limited-intake
  pathfinder classify --index 2.2 --catalog rules.yaml`,
	RunE: runClassify,
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run a full match: programs, institutions and scholarships",
	Long: `Match normalizes the profile, ranks programs by the student's interest
(or stream fields), ranks the institutions open at their academic index
and classifies scholarship eligibility. Runs are stored in history.

Examples:
  pathfinder match --grades A,A,B --stream physical --income 45000 --interest technology
  pathfinder match --profile student.json --no-record -o json`,
	RunE: runMatch,
}

var (
	normalizeProfile profileFlags
	rankProfile      profileFlags
	classifyProfile  profileFlags
	matchProfile     profileFlags

	rankKind       string
	rankKeywords   []string
	rankTop        int
	rankCategories []string
	rankFallback   bool
	rankRecord     bool

	classifyClosed  []string
	classifyCatalog string
	classifyRecord  bool

	matchKeywords []string
	matchTop      int
	matchClosed   []string
	matchNoRecord bool
)

func init() {
	rootCmd.AddCommand(normalizeCmd, rankCmd, classifyCmd, matchCmd)

	normalizeProfile.register(normalizeCmd)

	rankProfile.register(rankCmd)
	rankCmd.Flags().StringVar(&rankKind, "kind", "program", "Candidate kind (institution, program, scholarship)")
	rankCmd.Flags().StringSliceVarP(&rankKeywords, "keywords", "k", nil, "Field keywords; default derives them from --interest or --stream")
	rankCmd.Flags().IntVarP(&rankTop, "top", "n", 0, "Number of results (default from config)")
	rankCmd.Flags().StringSliceVar(&rankCategories, "category", nil, "Only rank these categories")
	rankCmd.Flags().BoolVar(&rankFallback, "fallback", false, "Rank admissible institutions when nothing matches")
	rankCmd.Flags().BoolVar(&rankRecord, "record", false, "Store the run in history")

	classifyProfile.register(classifyCmd)
	classifyCmd.Flags().StringSliceVar(&classifyClosed, "closed", nil, "Rule ids whose application windows are closed")
	classifyCmd.Flags().StringVar(&classifyCatalog, "catalog", "", "Rule catalog file (.toml, .yaml); overrides the config")
	classifyCmd.Flags().BoolVar(&classifyRecord, "record", false, "Store the run in history")

	matchProfile.register(matchCmd)
	matchCmd.Flags().StringSliceVarP(&matchKeywords, "keywords", "k", nil, "Field keywords; default derives them from --interest or --stream")
	matchCmd.Flags().IntVarP(&matchTop, "top", "n", 0, "Number of programs and institutions (default from config)")
	matchCmd.Flags().StringSliceVar(&matchClosed, "closed", nil, "Rule ids whose application windows are closed")
	matchCmd.Flags().BoolVar(&matchNoRecord, "no-record", false, "Do not store the run in history")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	p, err := normalizeProfile.build(cmd)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	signals, err := e.matcher.Signals(p)
	if err != nil {
		return explain(err)
	}
	return output.Output(outputFmt, signals)
}

func runRank(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := rankProfile.build(cmd)
	if err != nil {
		return err
	}
	kind, ok := ranker.ParseKind(rankKind)
	if !ok {
		return fmt.Errorf("unknown kind: %s (use institution, program or scholarship)", rankKind)
	}
	if cmd.Flags().Changed("top") && rankTop <= 0 {
		return fmt.Errorf("--top must be positive, got %d", rankTop)
	}

	keywords := append(append([]string(nil), args...), rankKeywords...)
	if len(keywords) == 0 {
		keywords = matcher.Keywords(p)
	}
	if len(keywords) == 0 && p.Goal == "" && !rankFallback {
		return fmt.Errorf("nothing to match: pass --keywords, --interest, --stream or --goal")
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	results, err := e.matcher.Rank(ctx, matcher.RankRequest{
		Kind:              kind,
		Keywords:          keywords,
		Profile:           p,
		TopN:              rankTop,
		AllowedCategories: rankCategories,
		AdmissionFallback: rankFallback,
	})
	if err != nil {
		return explain(err)
	}

	if rankRecord {
		run, err := e.matcher.Record(ctx, database.CommandRank, keywords, p, results)
		if err != nil {
			return err
		}
		if outputFmt != "json" {
			fmt.Printf("Run: %s\n", run.ID)
		}
	}
	return output.Output(outputFmt, results)
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	p, err := classifyProfile.build(cmd)
	if err != nil {
		return err
	}

	e, err := openEnv(func(cfg *config.Config) {
		if classifyCatalog != "" {
			cfg.Classifier.CatalogPath = classifyCatalog
		}
	})
	if err != nil {
		return err
	}
	defer e.close()

	c, err := e.matcher.Classify(p, classifyClosed)
	if err != nil {
		return explain(err)
	}

	if classifyRecord {
		run, err := e.matcher.Record(ctx, database.CommandClassify, nil, p, c)
		if err != nil {
			return err
		}
		if outputFmt != "json" {
			fmt.Printf("Run: %s\n", run.ID)
		}
	}
	return output.Output(outputFmt, c)
}

func runMatch(cmd *cobra.Command, args []string) error {
	p, err := matchProfile.build(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("top") && matchTop <= 0 {
		return fmt.Errorf("--top must be positive, got %d", matchTop)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	report, err := e.matcher.Match(cmd.Context(), p, matcher.MatchOptions{
		Keywords: matchKeywords,
		TopN:     matchTop,
		Closed:   matchClosed,
		Record:   !matchNoRecord,
	})
	if err != nil {
		return explain(err)
	}
	return output.Output(outputFmt, report)
}
