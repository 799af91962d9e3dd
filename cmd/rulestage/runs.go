package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rulestage/internal/platform/tui"
	"github.com/vovakirdan/rulestage/internal/storage"
)

var (
	flagRunsLimit       int
	flagRunsInteractive bool
	flagRunsClear       bool
)

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show recorded runs",
	Long: `Without a scenario, summarize every scenario with recorded runs.
With one, list its best runs.

Examples:
  rulestage runs
  rulestage runs unlock --limit 5
  rulestage runs -i
  rulestage runs unlock --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVarP(&flagRunsInteractive, "interactive", "i", false, "Browse runs in the terminal")
	runsCmd.Flags().BoolVar(&flagRunsClear, "clear", false, "Delete the recorded runs of the scenario")
}

func runRuns(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		exitf("opening run history: %v", err)
	}
	defer store.Close()

	switch {
	case flagRunsInteractive:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		theme, _ := tui.ThemeByName(cfg.Preview.Theme)
		if err := tui.RunRuns(store, theme, width, height); err != nil {
			exitf("%v", err)
		}

	case flagRunsClear:
		if len(args) == 0 {
			exitf("--clear needs a scenario")
		}
		if err := store.ClearRuns(args[0]); err != nil {
			exitf("%v", err)
		}
		fmt.Printf("Cleared runs of %s\n", args[0])

	case len(args) == 1:
		printRuns(store, args[0])

	default:
		printStats(store)
	}
}

func printRuns(store *storage.Store, name string) {
	runs, err := store.TopRuns(name, flagRunsLimit)
	if err != nil {
		exitf("retrieving runs: %v", err)
	}

	fmt.Printf("Runs - %s\n", name)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Run 'rulestage run %s --record' to record one.\n", name)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-7s  %-8s  %s\n", "Rank", "Score", "Outcome", "Frames", "Time", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-7s  %-8s  %s\n", "----", "-----", "-------", "------", "----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-8s  %-7d  %-8s  %s\n",
			i+1, r.Score, r.Outcome, r.Frames, fmt.Sprintf("%.2fs", r.Elapsed), r.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.BestScore(name); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
}

func printStats(store *storage.Store) {
	names, err := store.Scenarios()
	if err != nil {
		exitf("retrieving scenarios: %v", err)
	}
	if len(names) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-5s  %-9s  %-6s  %-8s  %s\n", "Scenario", "Runs", "Successes", "Best", "Average", "Last run")
	fmt.Printf("  %-16s  %-5s  %-9s  %-6s  %-8s  %s\n", "--------", "----", "---------", "----", "-------", "--------")
	for _, name := range names {
		st, err := store.Stats(name)
		if err != nil {
			exitf("retrieving stats: %v", err)
		}
		fmt.Printf("  %-16s  %-5d  %-9d  %-6d  %-8.1f  %s\n",
			st.Scenario, st.Runs, st.Successes, st.BestScore, st.AvgScore, st.LastRun.Format("2006-01-02 15:04"))
	}
}
