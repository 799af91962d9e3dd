package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rulestage/internal/audio"
	"github.com/vovakirdan/rulestage/internal/engine"
	"github.com/vovakirdan/rulestage/internal/platform/tui"
	"github.com/vovakirdan/rulestage/internal/scenario"
)

var (
	flagWatchAudio  bool
	flagWatchRecord bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <scenario>",
	Short: "Preview a scenario in the terminal",
	Long: `Step a scenario in real time and draw its objects. The mouse acts as
a finger: click, hold, drag and stroke to send touch input.

Controls:
  P/Space    - Pause stepping
  N/.        - Step one frame while paused
  R          - Reset the scenario
  Tab        - Toggle the rule table
  Q/Ctrl+C   - Quit

Examples:
  rulestage watch unlock
  rulestage watch ./level.yaml --audio
  rulestage watch unlock --record`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&flagWatchAudio, "audio", false, "Play rule sounds")
	watchCmd.Flags().BoolVar(&flagWatchRecord, "record", false, "Save finished runs to the history database")
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}
	s, err := loadScenario(args[0], cfg)
	if err != nil {
		exitf("%v", err)
	}

	// Logs would tear the alternate screen.
	e := newEngine(cfg, s, io.Discard)
	r, err := scenario.NewRunner(s, e, cfg.Simulation.PhysicsStep)
	if err != nil {
		exitf("%v", err)
	}

	theme, ok := tui.ThemeByName(cfg.Preview.Theme)
	if !ok {
		e.Logger().Warn("unknown theme", "theme", cfg.Preview.Theme)
	}
	opts := tui.Options{
		TickRate:    cfg.Simulation.TickRate,
		MessageTime: cfg.Preview.MessageTime,
		Theme:       &theme,
		Logger:      e.Logger(),
	}

	if flagWatchRecord {
		if store := openStore(cfg, engine.NewLogger(cfg.Logging)); store != nil {
			defer store.Close()
			opts.Store = store
		}
	}

	if flagWatchAudio {
		player := audio.NewPlayer(0, e.Logger())
		if err := player.Open(); err != nil {
			exitf("audio: %v", err)
		}
		defer player.Close()
		player.Attach(&r.Ctx.Hooks)
	}

	if err := tui.Run(r, opts); err != nil {
		exitf("running preview: %v", err)
	}
}
