package condition

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rulestage/internal/collision"
	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/store"
	"github.com/vovakirdan/rulestage/internal/world"
)

type fixture struct {
	ev      *Evaluator
	tracker *collision.Tracker
	env     Env
}

func newFixture(t *testing.T, objs ...*world.Object) *fixture {
	t.Helper()
	tracker := collision.NewTracker()
	ctx := world.NewContext(core.Size{W: 400, H: 300}, world.NewObjects(objs...))
	return &fixture{
		ev:      New(tracker, log.New(io.Discard), 42),
		tracker: tracker,
		env: Env{
			Ctx:      ctx,
			Flags:    store.NewFlags(10),
			Counters: store.NewCounters(10),
		},
	}
}

func (f *fixture) advance(dt float64) {
	s := f.env.Ctx.State
	s.PrevElapsed = s.Elapsed
	s.Elapsed += dt
	f.tracker.Refresh(f.env.Ctx.Objects, f.env.Ctx.Field)
}

func (f *fixture) push(typ core.EventType, x, y float64) {
	f.env.Ctx.Events.Push(core.InputEvent{
		Type:      typ,
		Timestamp: f.env.Ctx.State.Elapsed,
		Data:      core.TouchData{Pos: core.V(x, y), Start: core.V(x, y)},
	})
}

func rule(id string, g rules.TriggerGroup) *rules.Rule {
	return &rules.Rule{ID: id, Enabled: true, Trigger: g}
}

func TestEmptyGroupIsFalse(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.ev.Rule(rule("and", rules.All()), f.env))
	assert.False(t, f.ev.Rule(rule("or", rules.Any()), f.env))
}

func TestGroupOperators(t *testing.T) {
	f := newFixture(t)
	f.env.Flags.Define("on", true)
	f.env.Flags.Define("off", false)
	on := rules.FlagCondition{Name: "on", State: rules.FlagOn}
	off := rules.FlagCondition{Name: "off", State: rules.FlagOn}

	assert.True(t, f.ev.Rule(rule("a", rules.All(on, on)), f.env))
	assert.False(t, f.ev.Rule(rule("b", rules.All(on, off)), f.env))
	assert.True(t, f.ev.Rule(rule("c", rules.Any(off, on)), f.env))
	assert.False(t, f.ev.Rule(rule("d", rules.Any(off, off)), f.env))
}

func TestTouchCircleRegion(t *testing.T) {
	cond := rules.TouchCondition{
		Event:  core.EventTouchDown,
		Target: rules.TouchRegion,
		Region: core.CircleRegion(0.5, 0.5, 0.2),
	}

	tests := []struct {
		name     string
		x, y     float64
		expected bool
	}{
		{"field center", 200, 150, true},
		{"corner", 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.push(core.EventTouchDown, tc.x, tc.y)
			assert.Equal(t, tc.expected, f.ev.Rule(rule("tap", rules.All(cond)), f.env))
		})
	}
}

func TestTouchOneShotPerRule(t *testing.T) {
	f := newFixture(t, world.NewObject("button", core.V(10, 10), 20, 20))
	cond := rules.TouchCondition{Event: core.EventTouchDown, Target: rules.TouchObject, ObjectID: "button"}
	first := rule("first", rules.All(cond))
	second := rule("second", rules.All(cond))

	f.push(core.EventTouchDown, 15, 15)

	assert.True(t, f.ev.Rule(first, f.env))
	assert.True(t, f.ev.Rule(second, f.env), "each rule sees the tap once")

	f.advance(1.0 / 60.0)
	assert.False(t, f.ev.Rule(first, f.env), "the tap is consumed for this rule")
	assert.Equal(t, 2, f.ev.Stats().ConsumedEvents)

	f.env.Ctx.Events.Clear()
	f.ev.PruneConsumed(f.env.Ctx.Events)
	assert.Equal(t, 0, f.ev.Stats().ConsumedEvents)
}

func TestOneShotTouchExpiresAfterItsFrame(t *testing.T) {
	f := newFixture(t, world.NewObject("button", core.V(10, 10), 20, 20))
	cond := rules.TouchCondition{Event: core.EventTouchDown, Target: rules.TouchObject, ObjectID: "button"}

	f.advance(1.0 / 60.0)
	f.push(core.EventTouchDown, 15, 15)
	f.advance(1.0 / 60.0)
	assert.True(t, f.ev.Rule(rule("now", rules.All(cond)), f.env), "pushed between frames counts on the next one")

	f.advance(1.0 / 60.0)
	assert.False(t, f.ev.Rule(rule("late", rules.All(cond)), f.env), "a rule that never saw the tap cannot use it later")
}

func TestTouchMissesHiddenObject(t *testing.T) {
	button := world.NewObject("button", core.V(10, 10), 20, 20)
	button.Visible = false
	f := newFixture(t, button)
	f.push(core.EventTouchDown, 15, 15)

	cond := rules.TouchCondition{Event: core.EventTouchDown, ObjectID: "button"}
	assert.False(t, f.ev.Rule(rule("r", rules.All(cond)), f.env))
}

func TestContinuousTouchOnlyThisFrame(t *testing.T) {
	f := newFixture(t)
	cond := rules.TouchCondition{Event: core.EventTouchDrag, Target: rules.TouchStage}
	r := rule("drag", rules.All(cond))

	f.push(core.EventTouchDrag, 50, 50)
	f.advance(1.0 / 60.0)
	assert.True(t, f.ev.Rule(r, f.env))
	assert.True(t, f.ev.Rule(r, f.env), "drag is not consumed")

	f.advance(1.0 / 60.0)
	assert.False(t, f.ev.Rule(r, f.env), "stale drag events do not match")
}

func TestSwipeDirection(t *testing.T) {
	f := newFixture(t)
	f.env.Ctx.Events.Push(core.InputEvent{
		Type: core.EventTouchSwipe,
		Data: core.TouchData{Start: core.V(100, 100), Pos: core.V(300, 110), Velocity: core.V(900, 40)},
	})

	left := rules.TouchCondition{Event: core.EventTouchSwipe, Target: rules.TouchStage, Direction: core.DirLeft}
	right := rules.TouchCondition{Event: core.EventTouchSwipe, Target: rules.TouchStage, Direction: core.DirRight, MinVelocity: 500}
	fast := rules.TouchCondition{Event: core.EventTouchSwipe, Target: rules.TouchStage, MinVelocity: 5000}

	assert.False(t, f.ev.Rule(rule("left", rules.All(left)), f.env))
	assert.True(t, f.ev.Rule(rule("right", rules.All(right)), f.env))
	assert.False(t, f.ev.Rule(rule("fast", rules.All(fast)), f.env))
}

func TestCollisionConditions(t *testing.T) {
	hero := world.NewObject("hero", core.V(100, 100), 10, 10)
	coin := world.NewObject("coin", core.V(150, 100), 10, 10)
	f := newFixture(t, hero, coin)
	r := &rules.Rule{ID: "pickup", Target: "hero"}
	enter := rules.CollisionCondition{Phase: rules.CollisionEnter, OtherID: "coin"}
	exit := rules.CollisionCondition{Phase: rules.CollisionExit, OtherID: "coin"}
	region := rules.CollisionCondition{Phase: rules.CollisionEnter, With: rules.WithRegion, Region: core.RectRegion(0.5, 0, 0.5, 1)}

	f.advance(0.1)
	assert.False(t, f.ev.Evaluate(r, "k", enter, f.env))
	assert.False(t, f.ev.Evaluate(r, "k", region, f.env), "region is watched from the next refresh")

	hero.Pos.X = 205
	coin.Pos.X = 208
	f.advance(0.1)
	assert.True(t, f.ev.Evaluate(r, "k", enter, f.env))
	assert.True(t, f.ev.Evaluate(r, "k", region, f.env))

	coin.Visible = false
	f.advance(0.1)
	assert.True(t, f.ev.Evaluate(r, "k", exit, f.env))
}

func TestAnimationConditions(t *testing.T) {
	o := world.NewObject("hero", core.V(0, 0), 1, 1)
	f := newFixture(t, o)
	r := &rules.Rule{ID: "r", Target: "hero"}

	o.Anim = world.Animation{Frame: 3, FrameChanged: true, Looped: true, LoopCount: 2, Ended: true}

	assert.True(t, f.ev.Evaluate(r, "k", rules.AnimationCondition{Event: rules.AnimFrame, Frame: 3}, f.env))
	assert.False(t, f.ev.Evaluate(r, "k", rules.AnimationCondition{Event: rules.AnimFrame, Frame: 2}, f.env))
	assert.True(t, f.ev.Evaluate(r, "k", rules.AnimationCondition{Event: rules.AnimLoops, Loops: 2}, f.env))
	assert.False(t, f.ev.Evaluate(r, "k", rules.AnimationCondition{Event: rules.AnimLoops, Loops: 3}, f.env))
	assert.True(t, f.ev.Evaluate(r, "k", rules.AnimationCondition{Event: rules.AnimEnd}, f.env))
	assert.False(t, f.ev.Evaluate(r, "k", rules.AnimationCondition{Event: rules.AnimStart}, f.env))
	assert.False(t, f.ev.Evaluate(r, "k", rules.AnimationCondition{Event: rules.AnimEnd, ObjectID: "ghost"}, f.env))
}

func TestTimeConditions(t *testing.T) {
	tests := []struct {
		name      string
		cond      rules.TimeCondition
		prev, now float64
		expected  bool
	}{
		{"at crossed", rules.TimeCondition{Mode: rules.TimeAt, At: 2}, 1.99, 2.01, true},
		{"at already passed", rules.TimeCondition{Mode: rules.TimeAt, At: 2}, 2.01, 2.03, false},
		{"at zero on first frame", rules.TimeCondition{Mode: rules.TimeAt, At: 0}, 0, 0.016, true},
		{"range inclusive end", rules.TimeCondition{Mode: rules.TimeRange, From: 1, To: 2}, 1.9, 2, true},
		{"range outside", rules.TimeCondition{Mode: rules.TimeRange, From: 1, To: 2}, 2, 2.1, false},
		{"interval crossed", rules.TimeCondition{Mode: rules.TimeInterval, Interval: 0.5}, 0.49, 0.51, true},
		{"interval not crossed", rules.TimeCondition{Mode: rules.TimeInterval, Interval: 0.5}, 0.51, 0.6, false},
		{"interval paused", rules.TimeCondition{Mode: rules.TimeInterval, Interval: 0.5}, 0.5, 0.5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := &world.GameState{PrevElapsed: tc.prev, Elapsed: tc.now}
			assert.Equal(t, tc.expected, timeReached(tc.cond, s))
		})
	}
}

func TestScalarConditions(t *testing.T) {
	f := newFixture(t)
	f.env.Flags.Define("door", false)
	require.NoError(t, f.env.Counters.Define(store.CounterDefinition{Name: "coins", Initial: 3}))
	r := &rules.Rule{ID: "r"}

	check := func(c rules.Condition) bool { return f.ev.Evaluate(r, "k", c, f.env) }

	assert.True(t, check(rules.FlagCondition{Name: "door", State: rules.FlagOff}))
	assert.False(t, check(rules.FlagCondition{Name: "door", State: rules.FlagChanged}))
	assert.False(t, check(rules.FlagCondition{Name: "missing", State: rules.FlagOff}), "undeclared flags are false")

	require.NoError(t, f.env.Flags.Set("door", true, store.Origin{}))
	assert.True(t, check(rules.FlagCondition{Name: "door", State: rules.FlagChanged}))

	assert.True(t, check(rules.CounterCondition{Name: "coins", Compare: rules.CounterEquals, Value: 3}))
	assert.True(t, check(rules.CounterCondition{Name: "coins", Compare: rules.CounterEquals, Value: 3.4, Tolerance: 0.5}))
	assert.True(t, check(rules.CounterCondition{Name: "coins", Compare: rules.CounterGreater, Value: 2}))
	assert.False(t, check(rules.CounterCondition{Name: "coins", Compare: rules.CounterLess, Value: 3}))
	assert.True(t, check(rules.CounterCondition{Name: "coins", Compare: rules.CounterBetween, Value: 3, Max: 5}))
	assert.False(t, check(rules.CounterCondition{Name: "coins", Compare: rules.CounterChanged}))
	assert.False(t, check(rules.CounterCondition{Name: "gems", Compare: rules.CounterLess, Value: 100}))
}

func TestChangedObservedEvenWhenShortCircuited(t *testing.T) {
	f := newFixture(t)
	f.env.Flags.Define("gate", false)
	f.env.Flags.Define("door", false)
	gate := rules.FlagCondition{Name: "gate", State: rules.FlagOn}
	door := rules.FlagCondition{Name: "door", State: rules.FlagChanged}
	gateFirst := rule("gate-first", rules.All(gate, door))
	doorFirst := rule("door-first", rules.All(door, gate))

	require.NoError(t, f.env.Flags.Set("door", true, store.Origin{}))
	assert.False(t, f.ev.Rule(gateFirst, f.env))
	assert.False(t, f.ev.Rule(doorFirst, f.env))

	require.NoError(t, f.env.Flags.Set("gate", true, store.Origin{}))
	assert.False(t, f.ev.Rule(gateFirst, f.env), "the door change was already observed")
	assert.False(t, f.ev.Rule(doorFirst, f.env))

	require.NoError(t, f.env.Flags.Set("door", false, store.Origin{}))
	assert.True(t, f.ev.Rule(gateFirst, f.env))
	assert.True(t, f.ev.Rule(doorFirst, f.env))
	assert.False(t, f.ev.Rule(gateFirst, f.env), "each change is seen once per rule")
}

func TestPositionAndGameState(t *testing.T) {
	o := world.NewObject("hero", core.V(190, 140), 20, 20)
	f := newFixture(t, o)
	r := &rules.Rule{ID: "r", Target: "hero"}
	center := core.CircleRegion(0.5, 0.5, 0.1)

	assert.True(t, f.ev.Evaluate(r, "k", rules.PositionCondition{Inside: true, Region: center}, f.env))
	assert.False(t, f.ev.Evaluate(r, "k", rules.PositionCondition{Inside: false, Region: center}, f.env))

	s := f.env.Ctx.State
	s.Status = world.StatusSuccess
	became := rules.GameStateCondition{Mode: rules.StateBecame, Status: world.StatusSuccess}
	assert.True(t, f.ev.Evaluate(r, "k", became, f.env))
	assert.True(t, f.ev.Evaluate(r, "k", rules.GameStateCondition{Mode: rules.StateNot, Status: world.StatusPlaying}, f.env))

	s.PrevStatus = world.StatusSuccess
	assert.False(t, f.ev.Evaluate(r, "k", became, f.env))
	assert.True(t, f.ev.Evaluate(r, "k", rules.GameStateCondition{Mode: rules.StateIs, Status: world.StatusSuccess}, f.env))
}

func TestRandomIntervalAndSeed(t *testing.T) {
	f := newFixture(t)
	r := &rules.Rule{ID: "r"}
	always := rules.RandomCondition{Probability: 1, Interval: 1}

	assert.True(t, f.ev.Evaluate(r, "k", always, f.env))
	f.advance(0.5)
	assert.False(t, f.ev.Evaluate(r, "k", always, f.env), "inside the re-check interval")
	f.advance(0.5)
	assert.True(t, f.ev.Evaluate(r, "k", always, f.env))

	seeded := rules.RandomCondition{Probability: 0.5, Seeded: true, Seed: 99}
	a := New(collision.NewTracker(), log.New(io.Discard), 1)
	b := New(collision.NewTracker(), log.New(io.Discard), 2)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Evaluate(r, "k", seeded, f.env), b.Evaluate(r, "k", seeded, f.env))
	}
}

func TestRandomNestedOutcomes(t *testing.T) {
	f := newFixture(t)
	f.env.Flags.Define("armed", false)
	r := &rules.Rule{ID: "r"}
	armed := rules.FlagCondition{Name: "armed", State: rules.FlagOn}
	disarmed := rules.FlagCondition{Name: "armed", State: rules.FlagOff}

	success := rules.RandomCondition{Probability: 1, OnSuccess: []rules.Condition{armed}}
	failure := rules.RandomCondition{Probability: 0, OnFailure: []rules.Condition{disarmed}}
	plainFailure := rules.RandomCondition{Probability: 0}

	assert.False(t, f.ev.Evaluate(r, "r/0", success, f.env))
	assert.True(t, f.ev.Evaluate(r, "r/1", failure, f.env))
	assert.False(t, f.ev.Evaluate(r, "r/2", plainFailure, f.env))
	assert.Equal(t, 3, f.ev.Stats().RandomStates)

	f.ev.Forget("r")
	assert.Equal(t, 0, f.ev.Stats().RandomStates)
}

func TestForgetKeepsRulesSharingAPrefix(t *testing.T) {
	f := newFixture(t)
	parent := &rules.Rule{ID: "a"}
	child := &rules.Rule{ID: "a/0"}
	slow := rules.RandomCondition{Probability: 1, Interval: 10}

	assert.True(t, f.ev.Evaluate(parent, "a/0", slow, f.env))
	assert.True(t, f.ev.Evaluate(child, "a/0", slow, f.env), "same path under another rule has its own schedule")
	assert.True(t, f.ev.Evaluate(child, "a/0/0", slow, f.env))
	assert.Equal(t, 3, f.ev.Stats().RandomStates)

	f.ev.Forget("a")
	assert.Equal(t, 2, f.ev.Stats().RandomStates)
	assert.False(t, f.ev.Evaluate(child, "a/0/0", slow, f.env), "the child's draw schedule survives")
}

func TestSeededDrawDistribution(t *testing.T) {
	hits := 0
	for i := uint64(0); i < 10000; i++ {
		if Unit(SplitMix64(7+i)) < 0.3 {
			hits++
		}
	}
	assert.InDelta(t, 3000, hits, 200)
}

func TestExpressionCondition(t *testing.T) {
	f := newFixture(t)
	f.env.Flags.Define("key", true)
	require.NoError(t, f.env.Counters.Define(store.CounterDefinition{Name: "coins", Initial: 5}))
	f.env.Ctx.State.Score = 40
	r := &rules.Rule{ID: "r"}

	assert.True(t, f.ev.Evaluate(r, "k", rules.ExpressionCondition{Source: `flags["key"] && counters["coins"] >= 5 && score > 30`}, f.env))
	assert.True(t, f.ev.Evaluate(r, "k", rules.ExpressionCondition{Source: `Flag("key") && status == "playing"`}, f.env))
	assert.False(t, f.ev.Evaluate(r, "k", rules.ExpressionCondition{Source: `Counter("coins") > 10`}, f.env))
	assert.False(t, f.ev.Evaluate(r, "k", rules.ExpressionCondition{Source: `score +`}, f.env), "compile errors are false")
	assert.Equal(t, 4, f.ev.Stats().Expressions)

	_, err := Compile("elapsed")
	assert.Error(t, err, "non-boolean expressions are rejected")
}
