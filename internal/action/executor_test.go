package action

import (
	"io"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/effects"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/store"
	"github.com/vovakirdan/rulestage/internal/world"
)

func newEnv(objs ...*world.Object) Env {
	ctx := world.NewContext(core.Size{W: 400, H: 200}, world.NewObjects(objs...))
	ctx.State.Delta = 1.0 / 60.0
	return Env{
		Ctx:      ctx,
		Flags:    store.NewFlags(10),
		Counters: store.NewCounters(10),
		Effects:  effects.NewManager(1),
	}
}

func newExecutor() *Executor {
	return New(log.New(io.Discard), 1, 0)
}

func run(env Env, target string, actions ...rules.Action) *rules.Result {
	r := &rules.Rule{ID: "r", Target: target, Actions: actions}
	return newExecutor().Execute(r, env)
}

func TestScoreAppliedOnce(t *testing.T) {
	env := newEnv()

	res := run(env, "", rules.ScoreAction{Delta: 10}, rules.ScoreAction{Delta: 20})

	assert.Equal(t, 30, res.ScoreDelta)
	assert.Equal(t, 30, env.Ctx.State.Score)
	assert.True(t, res.Success)
}

func TestFailingActionDoesNotAbortSiblings(t *testing.T) {
	env := newEnv()
	env.Flags.Define("done", false)

	res := run(env, "",
		rules.VisibilityAction{ObjectID: "ghost", Op: rules.Hide},
		rules.FlagAction{Name: "missing", Op: rules.FlagSet, Value: true},
		rules.FlagAction{Name: "done", Op: rules.FlagSet, Value: true},
	)

	assert.False(t, res.Success)
	assert.Len(t, res.Errors, 2)
	v, _ := env.Flags.Get("done")
	assert.True(t, v)
}

func TestPanickingActionIsRecovered(t *testing.T) {
	env := newEnv()
	env.Flags = nil
	require.NoError(t, env.Counters.Define(store.CounterDefinition{Name: "after"}))

	res := run(env, "",
		rules.FlagAction{Name: "broken", Op: rules.FlagToggle},
		rules.CounterAction{Name: "after", Op: rules.CounterSet, Value: 1},
	)

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "panicked")
	v, _ := env.Counters.Get("after")
	assert.Equal(t, 1.0, v)
}

func TestCounterActionClamps(t *testing.T) {
	env := newEnv()
	require.NoError(t, env.Counters.Define(store.CounterDefinition{Name: "lives", Initial: 2, Max: 3, HasMax: true}))

	res := run(env, "", rules.CounterAction{Name: "lives", Op: rules.CounterAdd, Value: 5})

	assert.True(t, res.Success)
	v, _ := env.Counters.Get("lives")
	assert.Equal(t, 3.0, v)
	h := env.Counters.History()
	require.Len(t, h, 1)
	assert.Equal(t, "r", h[0].RuleID)
}

func TestGameControl(t *testing.T) {
	tests := []struct {
		name    string
		action  rules.GameControlAction
		status  world.Status
		ended   bool
		restart bool
	}{
		{"success", rules.GameControlAction{Op: rules.ControlSuccess, Score: 100}, world.StatusSuccess, true, false},
		{"failure", rules.GameControlAction{Op: rules.ControlFailure}, world.StatusFailure, true, false},
		{"pause", rules.GameControlAction{Op: rules.ControlPause}, world.StatusPaused, false, false},
		{"pause and end", rules.GameControlAction{Op: rules.ControlPause, EndRun: true}, world.StatusPaused, true, false},
		{"restart", rules.GameControlAction{Op: rules.ControlRestart}, world.StatusPlaying, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newEnv()
			res := run(env, "", tc.action)

			assert.Equal(t, tc.status, env.Ctx.State.Status)
			assert.Equal(t, tc.ended, res.Ended)
			assert.Equal(t, tc.restart, res.Restart)
			assert.Equal(t, tc.action.Score, env.Ctx.State.Score)
		})
	}
}

func TestAudioHooks(t *testing.T) {
	env := newEnv()
	var played []world.SoundRequest
	var stopped []string
	env.Ctx.Hooks.PlaySound = func(r world.SoundRequest) { played = append(played, r) }
	env.Ctx.Hooks.StopSound = func(id string) { stopped = append(stopped, id) }

	res := run(env, "",
		rules.AudioAction{Sound: "coin", Volume: 0.5},
		rules.AudioAction{Sound: "theme", Music: true},
		rules.AudioAction{Sound: "theme", Stop: true},
		rules.AudioAction{},
	)

	require.Len(t, played, 2)
	assert.Equal(t, 0.5, played[0].Volume)
	assert.True(t, played[1].Loop, "music loops")
	assert.Equal(t, []string{"theme"}, stopped)
	assert.Len(t, res.Sounds, 2)
	assert.Len(t, res.Errors, 1)
}

func TestVisibilityPreservesPose(t *testing.T) {
	o := world.NewObject("hero", core.V(5, 6), 10, 10)
	o.Scale = 2
	env := newEnv(o)

	run(env, "hero", rules.VisibilityAction{Op: rules.Hide})
	assert.False(t, o.Visible)
	assert.Equal(t, core.V(5, 6), o.Pos)
	assert.Equal(t, 2.0, o.Scale)

	run(env, "hero", rules.VisibilityAction{Op: rules.ToggleVisibility})
	assert.True(t, o.Visible)
}

func TestCompassUnitVectors(t *testing.T) {
	for c := rules.North; c <= rules.NorthWest; c++ {
		assert.InDelta(t, 1, Unit(c).Len(), 1e-12, "direction %d", c)
	}
	o := world.NewObject("hero", core.V(0, 0), 10, 10)
	env := newEnv(o)

	run(env, "hero", rules.MoveAction{Mode: rules.MoveDirection, Direction: rules.SouthEast, Speed: 10})

	assert.InDelta(t, 10*math.Sqrt2/2, o.Velocity.X, 1e-12)
	assert.InDelta(t, 10*math.Sqrt2/2, o.Velocity.Y, 1e-12)
}

func TestMoveStraightTargetsCenter(t *testing.T) {
	o := world.NewObject("hero", core.V(0, 0), 10, 10)
	goal := world.NewObject("goal", core.V(95, 0), 10, 10)
	env := newEnv(o, goal)

	run(env, "hero", rules.MoveAction{Mode: rules.MoveStraight, Target: rules.Target{ObjectID: "goal"}, Duration: 2})

	assert.Equal(t, core.V(95, 0), o.Motion.Target)
	assert.True(t, o.Motion.Arrive)
	assert.InDelta(t, 47.5, o.Velocity.X, 1e-9)

	// Normalized point target: field center.
	run(env, "hero", rules.MoveAction{Mode: rules.MoveTeleport, Target: rules.Target{Point: core.V(0.5, 0.5)}})
	assert.Equal(t, core.V(200, 100), o.Center())
	assert.False(t, o.Motion.Arrive)
}

func TestMoveSwapStopAndBounce(t *testing.T) {
	a := world.NewObject("a", core.V(0, 0), 10, 10)
	b := world.NewObject("b", core.V(50, 50), 10, 10)
	env := newEnv(a, b)

	run(env, "a", rules.MoveAction{Mode: rules.MoveSwap, Target: rules.Target{ObjectID: "b"}})
	assert.Equal(t, core.V(50, 50), a.Pos)
	assert.Equal(t, core.V(0, 0), b.Pos)

	a.Velocity = core.V(30, 30)
	run(env, "a", rules.MoveAction{Mode: rules.MoveStop})
	assert.Equal(t, core.Vec2{}, a.Velocity)

	a.Pos = core.V(395, -3)
	a.Velocity = core.V(20, -20)
	run(env, "a", rules.MoveAction{Mode: rules.MoveBounce})
	assert.Equal(t, core.V(390, 0), a.Pos)
	assert.Equal(t, core.V(-20, 20), a.Velocity)

	res := run(env, "a", rules.MoveAction{Mode: rules.MoveSwap, Target: rules.Target{ObjectID: "nobody"}})
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "unknown object")
}

func TestMoveApproachAndOrbit(t *testing.T) {
	o := world.NewObject("moon", core.V(295, 95), 10, 10)
	env := newEnv(o)

	// Orbit the field center at its current distance of 100.
	res := run(env, "moon", rules.MoveAction{Mode: rules.MoveOrbit, Target: rules.Target{Point: core.V(0.5, 0.5)}, Speed: math.Pi * 30})
	require.True(t, res.Success)
	c := o.Center()
	assert.InDelta(t, 100, c.Dist(core.V(200, 100)), 1e-9)
	assert.InDelta(t, 200, c.X, 1e-9, "quarter turn after one frame at pi*30 rad/s")
	assert.InDelta(t, 200, c.Y, 1e-9)

	o.Motion = world.Motion{}
	o.MoveCenterTo(core.V(0, 100))
	run(env, "moon", rules.MoveAction{Mode: rules.MoveApproach, Target: rules.Target{Point: core.V(0.5, 0.5)}, Speed: 60})
	assert.InDelta(t, 60, o.Velocity.X, 1e-9)

	o.MoveCenterTo(core.V(199.5, 100))
	run(env, "moon", rules.MoveAction{Mode: rules.MoveApproach, Target: rules.Target{Point: core.V(0.5, 0.5)}, Speed: 60})
	assert.Equal(t, core.V(200, 100), o.Center())
	assert.Equal(t, core.Vec2{}, o.Velocity)
}

func TestPhysicsActions(t *testing.T) {
	o := world.NewObject("box", core.V(0, 0), 10, 10)
	o.Body = &world.Body{Type: world.BodyDynamic, Mass: 2}
	plain := world.NewObject("plain", core.V(0, 0), 10, 10)
	env := newEnv(o, plain)

	res := run(env, "box",
		rules.PhysicsAction{Op: rules.PhysicsImpulse, Vector: core.V(0, -20)},
		rules.PhysicsAction{Op: rules.PhysicsForce, Vector: core.V(5, 0)},
		rules.PhysicsAction{Op: rules.PhysicsGravity, Value: 300},
		rules.PhysicsAction{Op: rules.PhysicsProperty, Property: "restitution", Value: 3},
		rules.PhysicsAction{Op: rules.PhysicsProperty, Property: "type", BodyType: world.BodyKinematic},
	)
	require.True(t, res.Success, res.Errors)
	assert.Equal(t, core.V(0, -10), o.Velocity)
	assert.Equal(t, core.V(5, 0), o.Body.Force)
	assert.Equal(t, 300.0, o.Body.Gravity)
	assert.Equal(t, 1.0, o.Body.Restitution)
	assert.Equal(t, world.BodyKinematic, o.Body.Type)

	res = run(env, "plain",
		rules.PhysicsAction{Op: rules.PhysicsForce, Vector: core.V(1, 0)},
		rules.PhysicsAction{Op: rules.PhysicsProperty, Property: "mass", Value: 1},
		rules.PhysicsAction{Op: rules.PhysicsImpulse, Vector: core.V(4, 0)},
	)
	assert.Len(t, res.Errors, 2)
	assert.Equal(t, core.V(4, 0), plain.Velocity)
}

func TestEffectAndParticles(t *testing.T) {
	o := world.NewObject("gem", core.V(10, 10), 10, 10)
	env := newEnv(o)
	var emitted int
	env.Ctx.Hooks.EmitParticles = func(p world.ParticleRequest) { emitted += p.Count }

	res := run(env, "gem", rules.EffectAction{Effect: world.EffectParticles, Count: 5, Duration: 0.3})

	assert.Equal(t, 5, emitted)
	require.Len(t, res.Particles, 1)
	assert.Equal(t, core.V(15, 15), res.Particles[0].Pos)
	require.NotNil(t, o.Effect)
	assert.Equal(t, world.EffectParticles, o.Effect.Kind)
}

func TestAnimationAction(t *testing.T) {
	o := world.NewObject("hero", core.V(0, 0), 10, 10)
	o.Clips = map[string]world.Clip{"jump": {Frames: 3, FPS: 12}}
	env := newEnv(o)

	res := run(env, "hero", rules.AnimationAction{Clip: "jump"}, rules.AnimationAction{Clip: "fly"})
	assert.Len(t, res.Errors, 1)
	assert.Equal(t, "jump", o.Anim.Clip)
	assert.True(t, o.Anim.Playing)

	run(env, "hero", rules.AnimationAction{Stop: true})
	assert.False(t, o.Anim.Playing)
}

func TestWeightedPickDistribution(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	opts := []rules.RandomOption{{Weight: 1}, {Weight: 1}, {Weight: 2}}
	counts := make([]int, 3)

	const n = 20000
	for i := 0; i < n; i++ {
		idx, err := Pick(rng, rules.PickWeighted, opts)
		require.NoError(t, err)
		counts[idx]++
	}

	assert.InDelta(t, 0.25, float64(counts[0])/n, 0.02)
	assert.InDelta(t, 0.25, float64(counts[1])/n, 0.02)
	assert.InDelta(t, 0.50, float64(counts[2])/n, 0.02)
}

func TestPickPolicies(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))

	_, err := Pick(rng, rules.PickUniform, nil)
	assert.ErrorIs(t, err, ErrNoOptions)

	certain := []rules.RandomOption{{Probability: 0}, {Probability: 1}, {Probability: 0}}
	for i := 0; i < 100; i++ {
		idx, err := Pick(rng, rules.PickProbability, certain)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	}

	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		idx, _ := Pick(rng, rules.PickUniform, make([]rules.RandomOption, 4))
		seen[idx] = true
	}
	assert.Len(t, seen, 4)
}

func TestRandomActionExecutesOneOption(t *testing.T) {
	env := newEnv()

	res := run(env, "", rules.RandomAction{
		Policy: rules.PickUniform,
		Options: []rules.RandomOption{
			{Action: rules.ScoreAction{Delta: 1}},
			{Action: rules.ScoreAction{Delta: 2}},
		},
	})

	assert.True(t, res.Success)
	assert.Contains(t, []int{1, 2}, env.Ctx.State.Score)
}

func TestRandomActionDepthIsBounded(t *testing.T) {
	var a rules.Action = rules.ScoreAction{Delta: 1}
	for i := 0; i < DefaultMaxDepth+2; i++ {
		a = rules.RandomAction{Options: []rules.RandomOption{{Action: a}}}
	}
	env := newEnv()

	res := run(env, "", a)

	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "nested too deep")
	assert.Equal(t, 0, env.Ctx.State.Score)
}
