// rulestage runs and previews rule-driven game scenarios.
//
// Usage:
//
//	rulestage list                  - List known scenarios
//	rulestage run <scenario>        - Run a scenario headless and print a summary
//	rulestage validate <file>...    - Check scenario files for errors
//	rulestage watch <scenario>      - Preview a scenario in the terminal
//	rulestage runs [scenario]       - Show recorded runs
//
// Global flags:
//
//	--config <path>    - Engine config YAML (default: ~/.rulestage/engine.yaml)
//	--seed <value>     - Override the scenario seed
//	--db <path>        - Run history database (default from config)
//	--dir <path>       - Extra scenario directory
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/rulestage/internal/config"
	"github.com/vovakirdan/rulestage/internal/engine"
	"github.com/vovakirdan/rulestage/internal/registry"
	"github.com/vovakirdan/rulestage/internal/scenario"
	"github.com/vovakirdan/rulestage/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     uint64
	flagDBPath   string
	flagDir      string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rulestage",
	Short: "Rulestage - run and preview rule-driven game scenarios",
	Long: `Rulestage evaluates scenario rules frame by frame: touch input,
collisions, timers, flags and counters trigger actions on stage objects.

Available commands:
  list      - Show bundled and discovered scenarios
  run       - Run a scenario headless and print a summary
  validate  - Check scenario files without running them
  watch     - Preview a scenario in the terminal with mouse input
  runs      - Show recorded runs

Examples:
  rulestage list
  rulestage run unlock --record
  rulestage validate ./scenarios/*.yaml
  rulestage watch ./my-level.yaml
  rulestage runs unlock`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = scenario seed)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run history database")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Extra directory of scenario files")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(runsCmd)
}

// loadConfig reads the engine config and applies global flag overrides.
func loadConfig() (config.EngineConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg, nil
}

// catalog returns the bundled scenarios plus those of --dir.
func catalog() (*registry.Registry, error) {
	r := registry.Bundled()
	if flagDir != "" {
		if _, err := r.Discover(flagDir); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// loadScenario resolves a file path or scenario name.
func loadScenario(ref string, cfg config.EngineConfig) (*scenario.Scenario, error) {
	r, err := catalog()
	if err != nil {
		return nil, err
	}
	return r.Resolve(ref, cfg)
}

// newEngine builds an engine for s. A nil out uses the configured stderr logger.
func newEngine(cfg config.EngineConfig, s *scenario.Scenario, out io.Writer) *engine.Engine {
	seed := s.Seed
	if flagSeed != 0 {
		seed = flagSeed
		s.Seed = seed
	}
	logger := engine.NewLogger(cfg.Logging)
	if out != nil {
		logger.SetOutput(out)
	}
	return engine.New(
		engine.WithConfig(cfg),
		engine.WithLogger(logger),
		engine.WithSeed(seed),
	)
}

// openStore opens the run history. Failures are logged and yield nil so
// callers can continue without recording.
func openStore(cfg config.EngineConfig, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		logger.Warn("run history unavailable", "db", cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

// exitf prints an error and exits.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
