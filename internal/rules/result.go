package rules

import (
	"fmt"

	"github.com/vovakirdan/rulestage/internal/world"
)

// Result describes what one rule execution did.
type Result struct {
	RuleID   string
	RuleName string
	Success  bool // no action recorded an error
	Skipped  bool // the rule panicked during evaluation or execution

	Effects []string // human-readable descriptions of applied actions
	Errors  []string

	ScoreDelta int
	Sounds     []world.SoundRequest
	Stopped    []string
	Particles  []world.ParticleRequest
	Messages   []world.Message

	Restart bool
	Ended   bool          // the host should stop the run
	Status  *world.Status // set when a game-control action changed the status
}

// NewResult starts a result for r.
func NewResult(r *Rule) *Result {
	return &Result{RuleID: r.ID, RuleName: r.Label(), Success: true}
}

// Effectf records an applied effect.
func (r *Result) Effectf(format string, args ...any) {
	r.Effects = append(r.Effects, fmt.Sprintf(format, args...))
}

// Fail records an error and marks the result unsuccessful.
func (r *Result) Fail(err error) {
	r.Errors = append(r.Errors, err.Error())
	r.Success = false
}
