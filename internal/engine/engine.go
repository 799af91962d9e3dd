// Package engine is the rule orchestrator. It owns the rule list and the
// scalar stores, drives the per-frame physics, animation, effect and
// collision updates, and evaluates rules in priority order.
//
// The engine is single-threaded and not reentrant: hosts call Update and
// EvaluateAndExecuteRules from their frame loop and read object state only
// after the calls return.
package engine

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rulestage/internal/action"
	"github.com/vovakirdan/rulestage/internal/anim"
	"github.com/vovakirdan/rulestage/internal/collision"
	"github.com/vovakirdan/rulestage/internal/condition"
	"github.com/vovakirdan/rulestage/internal/config"
	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/effects"
	"github.com/vovakirdan/rulestage/internal/physics"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/store"
	"github.com/vovakirdan/rulestage/internal/world"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithConfig sets the engine configuration.
func WithConfig(cfg config.EngineConfig) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithSeed seeds every random source of the engine.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// entry is a rule plus the orchestrator-owned bookkeeping.
type entry struct {
	rule  *rules.Rule
	seq   uint64 // insertion order, breaks priority ties
	count int    // executions so far
}

// Engine evaluates rules against a world.
type Engine struct {
	cfg    config.EngineConfig
	logger *log.Logger
	seed   uint64

	entries []*entry
	byID    map[string]*entry
	nextSeq uint64

	flags    *store.Flags
	counters *store.Counters

	tracker    *collision.Tracker
	integrator *physics.Integrator
	effects    *effects.Manager
	eval       *condition.Evaluator
	exec       *action.Executor
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:  config.Default(),
		byID: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = NewLogger(e.cfg.Logging)
	}

	e.flags = store.NewFlags(e.cfg.Stores.HistoryLimit)
	e.counters = store.NewCounters(e.cfg.Stores.HistoryLimit)
	e.tracker = collision.NewTracker()
	e.integrator = physics.New(physics.Settings{
		Step:          e.cfg.Simulation.PhysicsStep,
		MaxSubsteps:   e.cfg.Simulation.MaxSubsteps,
		RestThreshold: e.cfg.Physics.RestThreshold,
		Ground:        e.cfg.Physics.Ground,
	})
	e.effects = effects.NewManager(e.seed)
	e.eval = condition.New(e.tracker, e.logger, e.seed)
	e.eval.DefaultInterval = e.cfg.Random.DefaultInterval
	e.exec = action.New(e.logger, e.seed, e.cfg.Random.MaxActionDepth)
	return e
}

// NewLogger builds the default engine logger from config.
func NewLogger(cfg config.LoggingConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          cfg.Prefix,
	})
	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// Config returns the active configuration.
func (e *Engine) Config() config.EngineConfig {
	return e.cfg
}

// Logger returns the engine logger.
func (e *Engine) Logger() *log.Logger {
	return e.logger
}

// AddRule adds a rule. Rule ids must be unique.
func (e *Engine) AddRule(r *rules.Rule) error {
	if r == nil {
		return fmt.Errorf("engine: nil rule")
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if _, ok := e.byID[r.ID]; ok {
		return fmt.Errorf("engine: duplicate rule id %q", r.ID)
	}

	e.nextSeq++
	en := &entry{rule: r, seq: e.nextSeq}
	e.entries = append(e.entries, en)
	e.byID[r.ID] = en
	e.sortRules()
	e.watchRegions(r.Trigger.Conditions)

	e.logger.Debug("rule added", "rule", r.ID, "priority", r.Priority)
	return nil
}

// RemoveRule removes a rule by id, reporting whether it existed.
func (e *Engine) RemoveRule(id string) bool {
	if _, ok := e.byID[id]; !ok {
		return false
	}
	delete(e.byID, id)
	for i, en := range e.entries {
		if en.rule.ID == id {
			e.entries = append(e.entries[:i], e.entries[i+1:]...)
			break
		}
	}
	e.eval.Forget(id)
	e.logger.Debug("rule removed", "rule", id)
	return true
}

// sortRules orders by priority descending, then insertion order.
func (e *Engine) sortRules() {
	sort.SliceStable(e.entries, func(i, j int) bool {
		a, b := e.entries[i], e.entries[j]
		if a.rule.Priority != b.rule.Priority {
			return a.rule.Priority > b.rule.Priority
		}
		return a.seq < b.seq
	})
}

// watchRegions registers collision regions so contacts are tracked from
// the next refresh on.
func (e *Engine) watchRegions(conds []rules.Condition) {
	for _, c := range conds {
		switch c := c.(type) {
		case rules.CollisionCondition:
			if c.With == rules.WithRegion {
				e.tracker.WatchRegion(c.Region)
			}
		case rules.RandomCondition:
			e.watchRegions(c.OnSuccess)
			e.watchRegions(c.OnFailure)
		}
	}
}

// Rules returns the rules in evaluation order.
func (e *Engine) Rules() []*rules.Rule {
	out := make([]*rules.Rule, len(e.entries))
	for i, en := range e.entries {
		out[i] = en.rule
	}
	return out
}

// ExecutionCount returns how many times a rule has fired.
func (e *Engine) ExecutionCount(id string) int {
	if en, ok := e.byID[id]; ok {
		return en.count
	}
	return 0
}

// Update advances time and drives physics, animation, effects and the
// collision snapshot. Paused or ended runs keep their clock and poses.
func (e *Engine) Update(ctx *world.Context, dt float64) {
	s := ctx.State
	s.Frame++
	s.Delta = dt
	s.PrevElapsed = s.Elapsed

	if s.Playing() && dt > 0 {
		s.Elapsed += dt
		e.integrator.Update(ctx.Objects, ctx.Field, dt)
		anim.Update(ctx.Objects, dt)
		e.effects.Update(ctx.Objects, s.Elapsed)
	} else {
		anim.Update(ctx.Objects, 0)
	}
	e.tracker.Refresh(ctx.Objects, ctx.Field)

	if ctx.Events != nil {
		if n := ctx.Events.PruneBefore(s.Elapsed - e.cfg.Input.EventRetention); n > 0 {
			e.eval.PruneConsumed(ctx.Events)
		}
	}
}

// EvaluateAndExecuteRules evaluates every enabled rule in priority order and
// executes the actions of those whose trigger holds. Effects of earlier
// rules are visible to later ones within the same call.
func (e *Engine) EvaluateAndExecuteRules(ctx *world.Context) []*rules.Result {
	if ctx.Events == nil {
		ctx.Events = core.NewEventQueue()
	}
	e.flags.BeginFrame()
	e.counters.BeginFrame()

	var results []*rules.Result
	restart := false
	now := ctx.State.Elapsed

	// Rules may be removed by hosts between frames only, so the slice is stable here.
	for _, en := range e.entries {
		r := en.rule
		if !r.Enabled {
			continue
		}
		if r.MaxCount > 0 && en.count >= r.MaxCount {
			continue
		}
		if r.Window != nil && !r.Window.Contains(now) {
			continue
		}

		res, fired := e.runRule(r, ctx)
		if res == nil {
			continue
		}
		if fired {
			en.count++
			e.logger.Debug("rule fired", "rule", r.ID, "priority", r.Priority)
		}
		results = append(results, res)
		restart = restart || res.Restart
	}

	e.syncState(ctx.State)
	ctx.State.PrevStatus = ctx.State.Status

	if restart {
		e.logger.Info("restart requested")
		e.restart(ctx)
	}
	return results
}

// runRule evaluates and executes one rule, converting panics into an
// error result so the frame continues with the next rule.
func (e *Engine) runRule(r *rules.Rule, ctx *world.Context) (res *rules.Result, fired bool) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("engine: rule %q panicked: %v", r.ID, p)
			e.logger.Error("rule skipped", "rule", r.ID, "error", err)
			res = rules.NewResult(r)
			res.Fail(err)
			res.Skipped = true
			fired = false
		}
	}()

	if !e.eval.Rule(r, condition.Env{Ctx: ctx, Flags: e.flags, Counters: e.counters}) {
		return nil, false
	}
	res = e.exec.Execute(r, action.Env{
		Ctx:      ctx,
		Flags:    e.flags,
		Counters: e.counters,
		Effects:  e.effects,
	})
	return res, true
}

func (e *Engine) syncState(s *world.GameState) {
	s.Flags = e.flags.Snapshot()
	s.Counters = e.counters.Snapshot()
}

// restart resets the engine and the run clock. Hosts restore their objects
// when a result reports Restart.
func (e *Engine) restart(ctx *world.Context) {
	e.Reset()
	effects.Finish(ctx.Objects)

	s := ctx.State
	s.Elapsed = 0
	s.PrevElapsed = 0
	s.Score = 0
	s.Status = world.StatusPlaying
	s.PrevStatus = world.StatusPlaying
	ctx.Events.Clear()
	e.syncState(s)
}

// Reset clears execution counts, restores flags and counters to their
// declared initial values and drops per-rule caches.
func (e *Engine) Reset() {
	for _, en := range e.entries {
		en.count = 0
	}
	e.flags.Reset()
	e.counters.Reset()
	e.eval.Reset()
	e.tracker.Reset()
}
