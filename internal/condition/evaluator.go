// Package condition evaluates trigger conditions against the current frame.
//
// Evaluation reads world state and the scalar stores and never mutates them.
// The evaluator's own caches are the only state it changes: one-shot touch
// events consumed per rule, store versions each rule has observed,
// random-condition draw schedules and compiled expressions.
package condition

import (
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rulestage/internal/collision"
	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/store"
	"github.com/vovakirdan/rulestage/internal/world"
)

// Env is what conditions are evaluated against.
type Env struct {
	Ctx      *world.Context
	Flags    *store.Flags
	Counters *store.Counters
}

type consumeKey struct {
	rule string
	seq  uint64
}

// seenKey names a store entry watched by a rule's changed condition.
type seenKey struct {
	rule    string
	name    string
	counter bool
}

// randomKey scopes a draw schedule to one condition position of one rule.
type randomKey struct {
	rule string
	path string
}

// Evaluator evaluates trigger groups.
type Evaluator struct {
	tracker  *collision.Tracker
	logger   *log.Logger
	rng      *rand.Rand
	consumed map[consumeKey]struct{}
	seen     map[seenKey]uint64
	random   map[randomKey]*randomState
	exprs    map[string]*compiled
	warned   map[string]struct{}

	// DefaultInterval applies to random conditions without their own interval.
	DefaultInterval float64
}

// New creates an evaluator reading contacts from tracker.
func New(tracker *collision.Tracker, logger *log.Logger, seed uint64) *Evaluator {
	if logger == nil {
		logger = log.Default()
	}
	return &Evaluator{
		tracker:  tracker,
		logger:   logger,
		rng:      rand.New(rand.NewPCG(seed, seed+1)),
		consumed: make(map[consumeKey]struct{}),
		seen:     make(map[seenKey]uint64),
		random:   make(map[randomKey]*randomState),
		exprs:    make(map[string]*compiled),
		warned:   make(map[string]struct{}),
	}
}

// Rule evaluates a rule's trigger group. Afterwards every changed
// condition of the rule is marked as having observed the current store
// versions, whether or not evaluation reached it.
func (e *Evaluator) Rule(r *rules.Rule, env Env) bool {
	ok := e.group(r, r.ID, r.Trigger.Op, r.Trigger.Conditions, env)
	e.observe(r.ID, r.Trigger.Conditions, env)
	return ok
}

func (e *Evaluator) observe(ruleID string, conds []rules.Condition, env Env) {
	for _, c := range conds {
		switch c := c.(type) {
		case rules.FlagCondition:
			if c.State == rules.FlagChanged {
				e.seen[seenKey{rule: ruleID, name: c.Name}] = env.Flags.Version(c.Name)
			}
		case rules.CounterCondition:
			if c.Compare == rules.CounterChanged {
				e.seen[seenKey{rule: ruleID, name: c.Name, counter: true}] = env.Counters.Version(c.Name)
			}
		case rules.RandomCondition:
			e.observe(ruleID, c.OnSuccess, env)
			e.observe(ruleID, c.OnFailure, env)
		}
	}
}

// group combines conditions. An empty list is false for both operators:
// a rule needs at least one condition to ever fire.
func (e *Evaluator) group(r *rules.Rule, path string, op rules.Operator, conds []rules.Condition, env Env) bool {
	if len(conds) == 0 {
		return false
	}
	for i, c := range conds {
		ok := e.Evaluate(r, path+"/"+strconv.Itoa(i), c, env)
		if op == rules.OpOr && ok {
			return true
		}
		if op == rules.OpAnd && !ok {
			return false
		}
	}
	return op == rules.OpAnd
}

// Evaluate evaluates a single condition. key identifies the condition's
// position within the rule and scopes its random-draw schedule.
func (e *Evaluator) Evaluate(r *rules.Rule, key string, c rules.Condition, env Env) bool {
	switch c := c.(type) {
	case rules.TouchCondition:
		return e.touch(r, c, env)
	case rules.CollisionCondition:
		return e.collision(r, c)
	case rules.AnimationCondition:
		return animation(r, c, env)
	case rules.TimeCondition:
		return timeReached(c, env.Ctx.State)
	case rules.FlagCondition:
		return e.flag(r, c, env.Flags)
	case rules.CounterCondition:
		return e.counter(r, c, env.Counters)
	case rules.PositionCondition:
		return position(r, c, env.Ctx)
	case rules.GameStateCondition:
		return gameState(c, env.Ctx.State)
	case rules.RandomCondition:
		return e.randomDraw(r, key, c, env)
	case rules.ExpressionCondition:
		return e.expression(c, env)
	default:
		e.warnOnce("unknown:"+r.ID, "unknown condition variant evaluates false", "rule", r.ID)
		return false
	}
}

func (e *Evaluator) warnOnce(key, msg string, keyvals ...any) {
	if _, ok := e.warned[key]; ok {
		return
	}
	e.warned[key] = struct{}{}
	e.logger.Warn(msg, keyvals...)
}

func (e *Evaluator) touch(r *rules.Rule, c rules.TouchCondition, env Env) bool {
	ctx := env.Ctx
	for _, ev := range ctx.Events.Events() {
		if ev.Type != c.Event {
			continue
		}
		// Events only count on the frame they were pushed in.
		if ev.Timestamp < ctx.State.PrevElapsed {
			continue
		}
		oneShot := ev.Type.OneShot()
		if oneShot {
			if _, used := e.consumed[consumeKey{r.ID, ev.Seq}]; used {
				continue
			}
		}
		if !touchMatches(r, c, ev, ctx) {
			continue
		}
		if oneShot {
			e.consumed[consumeKey{r.ID, ev.Seq}] = struct{}{}
		}
		return true
	}
	return false
}

func touchMatches(r *rules.Rule, c rules.TouchCondition, ev core.InputEvent, ctx *world.Context) bool {
	d := ev.Data
	p := d.Pos
	switch ev.Type {
	case core.EventTouchSwipe, core.EventTouchFlick:
		p = d.Start
		if c.Direction != core.DirAny && d.StrokeDirection() != c.Direction {
			return false
		}
		if d.Velocity.Len() < c.MinVelocity {
			return false
		}
	case core.EventTouchHold:
		if d.HoldDuration < c.MinHold {
			return false
		}
	}

	switch c.Target {
	case rules.TouchStage:
		return ctx.Field.Rect().Contains(p)
	case rules.TouchRegion:
		return c.Region.ContainsPoint(p, ctx.Field)
	default:
		o, ok := ctx.Object(r.Resolve(c.ObjectID))
		return ok && o.Visible && o.Bounds().Contains(p)
	}
}

func (e *Evaluator) collision(r *rules.Rule, c rules.CollisionCondition) bool {
	src := r.Resolve(c.ObjectID)
	switch c.With {
	case rules.WithBackground:
		return e.tracker.Phase(c.Phase, src, collision.BackgroundKey)
	case rules.WithRegion:
		return e.tracker.Phase(c.Phase, src, e.tracker.WatchRegion(c.Region))
	default:
		return e.tracker.Phase(c.Phase, src, c.OtherID)
	}
}

func animation(r *rules.Rule, c rules.AnimationCondition, env Env) bool {
	o, ok := env.Ctx.Object(r.Resolve(c.ObjectID))
	if !ok {
		return false
	}
	a := o.Anim
	switch c.Event {
	case rules.AnimFrame:
		return a.FrameChanged && a.Frame == c.Frame
	case rules.AnimStart:
		return a.Started
	case rules.AnimEnd:
		return a.Ended
	case rules.AnimLoops:
		return a.Looped && (c.Loops <= 0 || a.LoopCount == c.Loops)
	default:
		return false
	}
}

// crossed reports whether t lies in (prev, now]. The instant 0 counts as
// crossed by the first frame that advances the clock.
func crossed(prev, now, t float64) bool {
	if t > now {
		return false
	}
	return t > prev || (t == 0 && prev == 0 && now > 0)
}

func timeReached(c rules.TimeCondition, s *world.GameState) bool {
	switch c.Mode {
	case rules.TimeAt:
		return crossed(s.PrevElapsed, s.Elapsed, c.At)
	case rules.TimeRange:
		return s.Elapsed >= c.From && s.Elapsed <= c.To
	case rules.TimeInterval:
		if c.Interval <= 0 || s.Elapsed <= s.PrevElapsed {
			return false
		}
		return math.Floor(s.Elapsed/c.Interval) > math.Floor(s.PrevElapsed/c.Interval)
	default:
		return false
	}
}

// flag evaluates a flag condition. FlagChanged holds when the flag's value
// changed since the rule last evaluated its trigger, including writes made
// by lower-priority rules or the host after that evaluation.
func (e *Evaluator) flag(r *rules.Rule, c rules.FlagCondition, flags *store.Flags) bool {
	v, err := flags.Get(c.Name)
	if err != nil {
		return false
	}
	switch c.State {
	case rules.FlagOn:
		return v
	case rules.FlagOff:
		return !v
	case rules.FlagChanged:
		return flags.Version(c.Name) != e.seen[seenKey{rule: r.ID, name: c.Name}]
	default:
		return false
	}
}

// minTolerance absorbs float noise in equality tests.
const minTolerance = 1e-9

func (e *Evaluator) counter(r *rules.Rule, c rules.CounterCondition, counters *store.Counters) bool {
	v, err := counters.Get(c.Name)
	if err != nil {
		return false
	}
	switch c.Compare {
	case rules.CounterEquals:
		return math.Abs(v-c.Value) <= math.Max(c.Tolerance, minTolerance)
	case rules.CounterGreater:
		return v > c.Value
	case rules.CounterLess:
		return v < c.Value
	case rules.CounterBetween:
		return v >= c.Value && v <= c.Max
	case rules.CounterChanged:
		return counters.Version(c.Name) != e.seen[seenKey{rule: r.ID, name: c.Name, counter: true}]
	default:
		return false
	}
}

func position(r *rules.Rule, c rules.PositionCondition, ctx *world.Context) bool {
	o, ok := ctx.Object(r.Resolve(c.ObjectID))
	if !ok {
		return false
	}
	return c.Region.ContainsPoint(o.Center(), ctx.Field) == c.Inside
}

func gameState(c rules.GameStateCondition, s *world.GameState) bool {
	switch c.Mode {
	case rules.StateIs:
		return s.Status == c.Status
	case rules.StateNot:
		return s.Status != c.Status
	case rules.StateBecame:
		return s.Status == c.Status && s.PrevStatus != c.Status
	default:
		return false
	}
}

// Forget drops the per-rule caches of a removed rule.
func (e *Evaluator) Forget(ruleID string) {
	for k := range e.consumed {
		if k.rule == ruleID {
			delete(e.consumed, k)
		}
	}
	for k := range e.seen {
		if k.rule == ruleID {
			delete(e.seen, k)
		}
	}
	for k := range e.random {
		if k.rule == ruleID {
			delete(e.random, k)
		}
	}
}

// Reset clears every per-rule cache. Compiled expressions are kept.
func (e *Evaluator) Reset() {
	e.consumed = make(map[consumeKey]struct{})
	e.seen = make(map[seenKey]uint64)
	e.random = make(map[randomKey]*randomState)
}

// PruneConsumed forgets consumption marks for events no longer queued.
func (e *Evaluator) PruneConsumed(q *core.EventQueue) {
	live := make(map[uint64]struct{}, q.Len())
	for _, ev := range q.Events() {
		live[ev.Seq] = struct{}{}
	}
	for k := range e.consumed {
		if _, ok := live[k.seq]; !ok {
			delete(e.consumed, k)
		}
	}
}

// Stats reports cache sizes for debug snapshots.
type Stats struct {
	ConsumedEvents int
	RandomStates   int
	Expressions    int
}

// Stats returns the current cache sizes.
func (e *Evaluator) Stats() Stats {
	return Stats{
		ConsumedEvents: len(e.consumed),
		RandomStates:   len(e.random),
		Expressions:    len(e.exprs),
	}
}
