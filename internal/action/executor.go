// Package action executes rule actions against the world and the scalar
// stores. Each action runs in isolation: a failing or panicking action is
// recorded in the rule's result and the remaining actions still run.
package action

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rulestage/internal/anim"
	"github.com/vovakirdan/rulestage/internal/effects"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/store"
	"github.com/vovakirdan/rulestage/internal/world"
)

// DefaultMaxDepth bounds nested random actions.
const DefaultMaxDepth = 8

var (
	ErrUnknownObject = errors.New("action: unknown object")
	ErrRandomDepth   = errors.New("action: random actions nested too deep")
	ErrNoOptions     = errors.New("action: random action has no options")
	ErrNoBody        = errors.New("action: object has no physics body")
)

// Env is what actions mutate.
type Env struct {
	Ctx      *world.Context
	Flags    *store.Flags
	Counters *store.Counters
	Effects  *effects.Manager
}

// Executor runs action lists.
type Executor struct {
	logger   *log.Logger
	rng      *rand.Rand
	maxDepth int
}

// New creates an executor. maxDepth <= 0 uses DefaultMaxDepth.
func New(logger *log.Logger, seed uint64, maxDepth int) *Executor {
	if logger == nil {
		logger = log.Default()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Executor{
		logger:   logger,
		rng:      rand.New(rand.NewPCG(seed, ^seed)),
		maxDepth: maxDepth,
	}
}

// Execute runs r's actions in order. Score changes from the whole list are
// summed and applied to the game state once at the end.
func (x *Executor) Execute(r *rules.Rule, env Env) *rules.Result {
	res := rules.NewResult(r)
	for _, a := range r.Actions {
		x.safe(r, a, env, res, 0)
	}
	if res.ScoreDelta != 0 {
		env.Ctx.State.Score += res.ScoreDelta
	}
	return res
}

func (x *Executor) safe(r *rules.Rule, a rules.Action, env Env, res *rules.Result, depth int) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("action: %s panicked: %v", kindOf(a), p)
			x.logger.Error("action panicked", "rule", r.ID, "action", kindOf(a), "error", err)
			res.Fail(err)
		}
	}()
	if err := x.apply(r, a, env, res, depth); err != nil {
		x.logger.Warn("action failed", "rule", r.ID, "action", kindOf(a), "error", err)
		res.Fail(err)
	}
}

func kindOf(a rules.Action) string {
	if a == nil {
		return "nil"
	}
	return a.Kind()
}

func (x *Executor) object(r *rules.Rule, env Env, id string) (*world.Object, error) {
	id = r.Resolve(id)
	o, ok := env.Ctx.Object(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObject, id)
	}
	return o, nil
}

func (x *Executor) apply(r *rules.Rule, a rules.Action, env Env, res *rules.Result, depth int) error {
	origin := store.Origin{RuleID: r.ID, Time: env.Ctx.State.Elapsed}

	switch a := a.(type) {
	case rules.GameControlAction:
		return gameControl(a, env.Ctx.State, res)

	case rules.AudioAction:
		return audio(a, env.Ctx.Hooks, res)

	case rules.FlagAction:
		if a.Op == rules.FlagToggle {
			v, err := env.Flags.Toggle(a.Name, origin)
			if err != nil {
				return err
			}
			res.Effectf("flag %s toggled to %t", a.Name, v)
			return nil
		}
		if err := env.Flags.Set(a.Name, a.Value, origin); err != nil {
			return err
		}
		res.Effectf("flag %s set to %t", a.Name, a.Value)
		return nil

	case rules.CounterAction:
		v, err := env.Counters.Apply(a.Name, a.Op, a.Value, origin)
		if err != nil {
			return err
		}
		res.Effectf("counter %s %s %g -> %g", a.Name, a.Op, a.Value, v)
		return nil

	case rules.VisibilityAction:
		o, err := x.object(r, env, a.ObjectID)
		if err != nil {
			return err
		}
		switch a.Op {
		case rules.Show:
			o.Visible = true
		case rules.Hide:
			o.Visible = false
		case rules.ToggleVisibility:
			o.Visible = !o.Visible
		}
		res.Effectf("%s visible=%t", o.ID, o.Visible)
		return nil

	case rules.MoveAction:
		return x.move(r, a, env, res)

	case rules.AnimationAction:
		o, err := x.object(r, env, a.ObjectID)
		if err != nil {
			return err
		}
		if a.Stop {
			anim.Stop(o)
			res.Effectf("%s animation stopped", o.ID)
			return nil
		}
		if err := anim.Switch(o, a.Clip); err != nil {
			return err
		}
		res.Effectf("%s animation %s", o.ID, a.Clip)
		return nil

	case rules.PhysicsAction:
		return x.physics(r, a, env, res)

	case rules.EffectAction:
		return x.effect(r, a, env, res)

	case rules.ScoreAction:
		res.ScoreDelta += a.Delta
		res.Effectf("score %+d", a.Delta)
		return nil

	case rules.MessageAction:
		m := world.Message{Text: a.Text, Duration: a.Duration}
		res.Messages = append(res.Messages, m)
		if env.Ctx.Hooks.ShowMessage != nil {
			env.Ctx.Hooks.ShowMessage(m)
		}
		res.Effectf("message %q", a.Text)
		return nil

	case rules.RandomAction:
		if depth >= x.maxDepth {
			return fmt.Errorf("%w: depth %d", ErrRandomDepth, depth)
		}
		i, err := Pick(x.rng, a.Policy, a.Options)
		if err != nil {
			return err
		}
		res.Effectf("random picked option %d", i)
		x.safe(r, a.Options[i].Action, env, res, depth+1)
		return nil

	default:
		x.logger.Warn("unknown action variant ignored", "rule", r.ID, "action", kindOf(a))
		return nil
	}
}

func gameControl(a rules.GameControlAction, s *world.GameState, res *rules.Result) error {
	res.ScoreDelta += a.Score
	ended := a.EndRun

	switch a.Op {
	case rules.ControlSuccess:
		s.Status = world.StatusSuccess
		ended = true
	case rules.ControlFailure:
		s.Status = world.StatusFailure
		ended = true
	case rules.ControlPause:
		if s.Status == world.StatusPlaying {
			s.Status = world.StatusPaused
		}
	case rules.ControlResume:
		if s.Status == world.StatusPaused {
			s.Status = world.StatusPlaying
		}
	case rules.ControlRestart:
		res.Restart = true
	default:
		return fmt.Errorf("action: unknown game control %d", a.Op)
	}

	status := s.Status
	res.Status = &status
	res.Ended = res.Ended || ended
	res.Effectf("game %s", a.Op)
	return nil
}

func audio(a rules.AudioAction, hooks world.Hooks, res *rules.Result) error {
	if a.Sound == "" {
		return fmt.Errorf("action: audio action without sound id")
	}
	if a.Stop {
		res.Stopped = append(res.Stopped, a.Sound)
		if hooks.StopSound != nil {
			hooks.StopSound(a.Sound)
		}
		res.Effectf("stop %s", a.Sound)
		return nil
	}
	vol := a.Volume
	if vol <= 0 || vol > 1 {
		vol = 1
	}
	req := world.SoundRequest{ID: a.Sound, Volume: vol, Loop: a.Loop || a.Music, Music: a.Music}
	res.Sounds = append(res.Sounds, req)
	if hooks.PlaySound != nil {
		hooks.PlaySound(req)
	}
	res.Effectf("play %s", a.Sound)
	return nil
}

func (x *Executor) effect(r *rules.Rule, a rules.EffectAction, env Env, res *rules.Result) error {
	o, err := x.object(r, env, a.ObjectID)
	if err != nil {
		return err
	}
	now := env.Ctx.State.Elapsed
	if a.Effect == world.EffectParticles {
		count := a.Count
		if count <= 0 {
			count = 12
		}
		req := world.ParticleRequest{
			ObjectID: o.ID,
			Pos:      o.Center(),
			Count:    count,
			Color:    a.Color,
			Lifetime: a.Duration,
		}
		res.Particles = append(res.Particles, req)
		if env.Ctx.Hooks.EmitParticles != nil {
			env.Ctx.Hooks.EmitParticles(req)
		}
	}
	env.Effects.Trigger(o, a.Effect, now, a.Duration, a.Intensity)
	res.Effectf("%s effect %s", o.ID, a.Effect)
	return nil
}

// Pick selects one option index according to policy. Probability and
// weight policies sample the cumulative sum, normalized by its total;
// a non-positive total falls back to uniform.
func Pick(rng *rand.Rand, policy rules.RandomPolicy, opts []rules.RandomOption) (int, error) {
	if len(opts) == 0 {
		return 0, ErrNoOptions
	}
	if policy == rules.PickUniform {
		return rng.IntN(len(opts)), nil
	}

	share := func(o rules.RandomOption) float64 {
		v := o.Weight
		if policy == rules.PickProbability {
			v = o.Probability
		}
		if v < 0 {
			return 0
		}
		return v
	}
	total := 0.0
	for _, o := range opts {
		total += share(o)
	}
	if total <= 0 {
		return rng.IntN(len(opts)), nil
	}

	roll := rng.Float64() * total
	cum := 0.0
	for i, o := range opts {
		cum += share(o)
		if roll < cum {
			return i, nil
		}
	}
	// Rounding can leave roll at the very top; take the last weighted option.
	for i := len(opts) - 1; i >= 0; i-- {
		if share(opts[i]) > 0 {
			return i, nil
		}
	}
	return len(opts) - 1, nil
}
