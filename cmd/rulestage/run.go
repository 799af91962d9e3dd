package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rulestage/internal/audio"
	"github.com/vovakirdan/rulestage/internal/scenario"
	"github.com/vovakirdan/rulestage/internal/storage"
)

var (
	flagFrames int
	flagFPS    int
	flagRecord bool
	flagAudio  bool
)

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a scenario headless",
	Long: `Run a scenario without a display, feeding its scripted input, and print
a summary when a rule ends the run or the frame limit is reached.

The scenario is a file path or the name of a listed scenario.

Examples:
  rulestage run unlock
  rulestage run ./level.yaml --frames 1200 --seed 42
  rulestage run unlock --record
  rulestage run unlock --audio`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFrames, "frames", 0, "Frame limit (0 = 60 seconds of play)")
	runCmd.Flags().IntVar(&flagFPS, "fps", 0, "Frames per second (0 = config tick rate)")
	runCmd.Flags().BoolVar(&flagRecord, "record", false, "Save the run to the history database")
	runCmd.Flags().BoolVar(&flagAudio, "audio", false, "Play rule sounds in real time")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}
	s, err := loadScenario(args[0], cfg)
	if err != nil {
		exitf("%v", err)
	}
	for _, w := range s.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	e := newEngine(cfg, s, nil)
	fps := flagFPS
	if fps <= 0 {
		fps = cfg.Simulation.TickRate
	}
	r, err := scenario.NewRunner(s, e, 1/float64(fps))
	if err != nil {
		exitf("%v", err)
	}
	frames := flagFrames
	if frames <= 0 {
		frames = 60 * fps
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sum scenario.Summary
	if flagAudio {
		player := audio.NewPlayer(0, e.Logger())
		if err := player.Open(); err != nil {
			exitf("audio: %v", err)
		}
		defer player.Close()
		player.Attach(&r.Ctx.Hooks)
		sum, err = realtime(ctx, r, frames, fps)
	} else {
		sum, err = r.Run(ctx, frames)
	}
	if err != nil {
		e.Logger().Warn("run interrupted", "frames", sum.Frames)
	}

	printSummary(sum)

	if flagRecord {
		store, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			exitf("opening run history: %v", err)
		}
		defer store.Close()
		id, err := store.SaveRun(storage.Run{
			Scenario: sum.Scenario,
			Seed:     sum.Seed,
			Score:    sum.Score,
			Outcome:  sum.Status.String(),
			Frames:   sum.Frames,
			Elapsed:  sum.Elapsed,
			Fired:    sum.Fired,
		})
		if err != nil {
			exitf("recording run: %v", err)
		}
		fmt.Printf("\nRecorded run %s\n", id)
	}
}

// realtime steps the runner at wall-clock pace so sounds line up with play.
func realtime(ctx context.Context, r *scenario.Runner, frames, fps int) (scenario.Summary, error) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for i := 0; i < frames && !r.Ended(); i++ {
		select {
		case <-ctx.Done():
			return r.Summary(), ctx.Err()
		case <-ticker.C:
			r.Step()
		}
	}
	return r.Summary(), nil
}

func printSummary(sum scenario.Summary) {
	fmt.Printf("Scenario: %s (seed %d)\n", sum.Scenario, sum.Seed)
	fmt.Printf("Outcome:  %s\n", sum.Status)
	fmt.Printf("Score:    %d\n", sum.Score)
	fmt.Printf("Frames:   %d (%.2fs)\n", sum.Frames, sum.Elapsed)
	fmt.Printf("Rules:    %d fired, %d restarts\n", sum.Fired, sum.Restarts)
	if len(sum.Messages) > 0 {
		fmt.Printf("Messages: %s\n", strings.Join(sum.Messages, " | "))
	}
	if len(sum.Errors) > 0 {
		fmt.Println("Errors:")
		for _, e := range sum.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
