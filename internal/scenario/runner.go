package scenario

import (
	"context"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/engine"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/world"
)

// Summary describes a finished headless run.
type Summary struct {
	Scenario string
	Seed     uint64
	Frames   int
	Elapsed  float64
	Score    int
	Status   world.Status
	Fired    int      // rule executions
	Restarts int      // restarts requested by rules
	Messages []string // message texts shown, in order
	Errors   []string // action and rule errors, in order
}

// Runner steps an engine through a scenario at a fixed frame delta,
// injecting scripted input when its time comes.
type Runner struct {
	Engine   *engine.Engine
	Scenario *Scenario
	Ctx      *world.Context
	Delta    float64

	next    int
	ended   bool
	summary Summary
}

// NewRunner installs s into e and prepares a fresh world.
func NewRunner(s *Scenario, e *engine.Engine, delta float64) (*Runner, error) {
	if err := s.Install(e); err != nil {
		return nil, err
	}
	if delta <= 0 {
		delta = e.Config().Simulation.PhysicsStep
	}
	return &Runner{
		Engine:   e,
		Scenario: s,
		Ctx:      s.NewContext(),
		Delta:    delta,
		summary:  Summary{Scenario: s.Name, Seed: s.Seed},
	}, nil
}

// Ended reports whether a rule ended the run.
func (r *Runner) Ended() bool {
	return r.ended
}

// Push queues a host input event stamped with the current game time.
func (r *Runner) Push(typ core.EventType, data core.TouchData) {
	r.Ctx.Events.Push(core.InputEvent{Type: typ, Timestamp: r.Ctx.State.Elapsed, Data: data})
}

// Step advances one frame and returns its results.
func (r *Runner) Step() []*rules.Result {
	r.Engine.Update(r.Ctx, r.Delta)
	r.inject()
	results := r.Engine.EvaluateAndExecuteRules(r.Ctx)

	r.summary.Frames++
	restart := false
	for _, res := range results {
		if !res.Skipped {
			r.summary.Fired++
		}
		for _, m := range res.Messages {
			r.summary.Messages = append(r.summary.Messages, m.Text)
		}
		r.summary.Errors = append(r.summary.Errors, res.Errors...)
		restart = restart || res.Restart
		r.ended = r.ended || res.Ended
	}
	if restart {
		r.restart()
	}
	return results
}

// inject pushes scripted events whose time has been reached.
func (r *Runner) inject() {
	now := r.Ctx.State.Elapsed
	for r.next < len(r.Scenario.Script) && r.Scenario.Script[r.next].At <= now {
		ev := r.Scenario.Script[r.next]
		r.Ctx.Events.Push(core.InputEvent{Type: ev.Type, Timestamp: ev.At, Data: ev.Data})
		r.next++
	}
}

// restart restores the scenario objects after the engine reset its clock.
func (r *Runner) restart() {
	r.summary.Restarts++
	r.Ctx.Objects = r.Scenario.NewObjects()
	r.next = 0
	r.ended = false
}

// Reset starts the scenario over with fresh objects and engine state.
// Host hooks on the current context are kept.
func (r *Runner) Reset() {
	hooks := r.Ctx.Hooks
	r.Engine.Reset()
	r.Ctx = r.Scenario.NewContext()
	r.Ctx.Hooks = hooks
	r.next = 0
	r.ended = false
	r.summary = Summary{Scenario: r.Scenario.Name, Seed: r.Scenario.Seed}
}

// Run steps up to frames frames, stopping early when a rule ends the run or
// ctx is cancelled.
func (r *Runner) Run(ctx context.Context, frames int) (Summary, error) {
	for i := 0; i < frames && !r.ended; i++ {
		if err := ctx.Err(); err != nil {
			return r.Summary(), err
		}
		r.Step()
	}
	return r.Summary(), nil
}

// Summary returns the run totals so far.
func (r *Runner) Summary() Summary {
	s := r.summary
	s.Elapsed = r.Ctx.State.Elapsed
	s.Score = r.Ctx.State.Score
	s.Status = r.Ctx.State.Status
	return s
}
