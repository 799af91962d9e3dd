package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rulestage/internal/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario>...",
	Short: "Check scenarios for errors",
	Long: `Compile scenarios without running them and report every error and
warning. Exits non-zero when any scenario has errors.

Examples:
  rulestage validate unlock
  rulestage validate ./scenarios/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitf("%v", err)
	}

	failed := 0
	for _, ref := range args {
		s, err := loadScenario(ref, cfg)
		var ve *scenario.ValidationError
		switch {
		case errors.As(err, &ve):
			failed++
			fmt.Printf("%s: %d error(s), %d warning(s)\n", ref, len(ve.Errors), len(ve.Warnings))
			for _, e := range ve.Errors {
				fmt.Printf("  error: %s\n", e)
			}
			for _, w := range ve.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		case err != nil:
			failed++
			fmt.Printf("%s: %v\n", ref, err)
		default:
			fmt.Printf("%s: ok (%d objects, %d rules)\n", ref, len(s.Objects), len(s.Rules))
			for _, w := range s.Warnings {
				fmt.Printf("  warning: %s\n", w)
			}
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d of %d scenario(s) failed validation\n", failed, len(args))
		os.Exit(1)
	}
}
