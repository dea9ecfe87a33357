package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nathoo/tilequest/settings"
	"github.com/nathoo/tilequest/storage"
)

var (
	flagLimit      int
	flagWins       bool
	flagRecordSeed string
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show stored runs",
	Long: `Display recent runs from the record database, or the fastest wins.

Examples:
  tilequest records
  tilequest records --wins --limit 5
  tilequest records --for-seed 00c0ffee000000000000000000000000`,
	Args: cobra.NoArgs,
	RunE: runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum runs to show")
	recordsCmd.Flags().BoolVar(&flagWins, "wins", false, "Show won runs, fewest steps first")
	recordsCmd.Flags().StringVar(&flagRecordSeed, "for-seed", "", "Show every run of one seed")
}

func runRecords(cmd *cobra.Command, _ []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	store, err := storage.Open(settings.ExpandPath(s.Records.Path))
	if err != nil {
		return fmt.Errorf("opening run records: %w", err)
	}
	defer store.Close()

	var (
		title string
		runs  []storage.Run
	)
	switch {
	case flagRecordSeed != "":
		title = "Runs of seed " + flagRecordSeed
		runs, err = store.RunsForSeed(flagRecordSeed)
	case flagWins:
		title = "Fastest wins"
		runs, err = store.Wins(flagLimit)
	default:
		title = "Recent runs"
		runs, err = store.RecentRuns(flagLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	stats, err := store.Stats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	printRuns(cmd.OutOrStdout(), title, runs, stats)
	return nil
}

func printRuns(out io.Writer, title string, runs []storage.Run, stats storage.Stats) {
	fmt.Fprintln(out, title)
	fmt.Fprintln(out)

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'tilequest play' to record the first one!")
		return
	}

	fmt.Fprintf(out, "  %-4s  %-16s  %-7s  %-6s  %-20s  %s\n", "#", "Date", "Result", "Steps", "Config", "Seed")
	fmt.Fprintf(out, "  %-4s  %-16s  %-7s  %-6s  %-20s  %s\n", "--", "----", "------", "-----", "------", "----")
	for i, r := range runs {
		result := "quit"
		if r.Victory {
			result = "won"
		}
		fmt.Fprintf(out, "  %-4d  %-16s  %-7s  %-6d  %-20s  %s\n",
			i+1, r.CreatedAt.Format("2006-01-02 15:04"), result, r.Steps, r.Config, r.Seed)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d runs, %d won", stats.Runs, stats.Wins)
	if stats.BestSteps > 0 {
		fmt.Fprintf(out, ", best win in %d steps", stats.BestSteps)
	}
	fmt.Fprintln(out)
}
