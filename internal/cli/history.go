package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edupath-lk/pathfinder/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded match runs",
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a recorded match run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	runs, err := e.db.ListMatchRuns(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list match runs: %w", err)
	}
	return output.Output(outputFmt, runs)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	run, err := e.db.GetMatchRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get match run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("match run not found: %s", args[0])
	}
	return output.Output(outputFmt, run)
}
