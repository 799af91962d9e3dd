// Package effects runs transient visual effects on objects: scale pulses,
// flashes, shakes, rotation sweeps and particle bursts. Each effect pins the
// object's pose to a curve over its baseline and restores the baseline
// exactly when it completes.
package effects

import (
	"math"
	"math/rand/v2"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/world"
)

// Default intensities per kind, used when a trigger passes zero.
const (
	DefaultScale    = 0.5 // peak extra scale
	DefaultFlashes  = 3   // flash cycles
	DefaultShake    = 4   // peak jitter, world units
	DefaultRotation = 360 // degrees swept
	DefaultDuration = 0.5
)

// Manager owns the jitter source used by shake effects.
type Manager struct {
	rng *rand.Rand
}

// NewManager creates a manager whose shake jitter is derived from seed.
func NewManager(seed uint64) *Manager {
	return &Manager{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Trigger starts an effect on o at time now. A running effect is finished
// first so the new one captures the true baseline.
func (m *Manager) Trigger(o *world.Object, kind world.EffectKind, now, duration, intensity float64) {
	if o.Effect != nil {
		restore(o)
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	if intensity == 0 {
		intensity = defaultIntensity(kind)
	}
	o.Effect = &world.Effect{
		Kind:         kind,
		Start:        now,
		Duration:     duration,
		Intensity:    intensity,
		BaseScale:    o.Scale,
		BaseRotation: o.Rotation,
		BasePos:      o.Pos,
	}
}

func defaultIntensity(kind world.EffectKind) float64 {
	switch kind {
	case world.EffectScale:
		return DefaultScale
	case world.EffectFlash:
		return DefaultFlashes
	case world.EffectShake:
		return DefaultShake
	case world.EffectRotate:
		return DefaultRotation
	default:
		return 0
	}
}

// Update applies every running effect at time now.
func (m *Manager) Update(objs *world.Objects, now float64) {
	objs.Each(func(o *world.Object) {
		m.apply(o, now)
	})
}

// Active returns the number of objects with a running effect.
func Active(objs *world.Objects) int {
	n := 0
	objs.Each(func(o *world.Object) {
		if o.Effect != nil {
			n++
		}
	})
	return n
}

func (m *Manager) apply(o *world.Object, now float64) {
	e := o.Effect
	if e == nil {
		return
	}
	p := (now - e.Start) / e.Duration
	if p >= 1 {
		restore(o)
		return
	}
	p = core.ClampF(p, 0, 1)

	switch e.Kind {
	case world.EffectScale:
		o.Scale = e.BaseScale * (1 + e.Intensity*math.Sin(math.Pi*easeOutQuad(p)))
	case world.EffectFlash:
		o.Flash = math.Abs(math.Sin(math.Pi * e.Intensity * p))
	case world.EffectShake:
		decay := e.Intensity * (1 - p)
		o.Pos = e.BasePos.Add(core.Vec2{
			X: (m.rng.Float64()*2 - 1) * decay,
			Y: (m.rng.Float64()*2 - 1) * decay,
		})
	case world.EffectRotate:
		o.Rotation = e.BaseRotation + e.Intensity*easeInOutQuad(p)
	}
}

// restore puts back the pre-effect pose and clears the effect.
func restore(o *world.Object) {
	e := o.Effect
	switch e.Kind {
	case world.EffectScale:
		o.Scale = e.BaseScale
	case world.EffectShake:
		o.Pos = e.BasePos
	case world.EffectRotate:
		o.Rotation = e.BaseRotation
	}
	o.Flash = 0
	o.Effect = nil
}

// Finish ends every running effect immediately.
func Finish(objs *world.Objects) {
	objs.Each(func(o *world.Object) {
		if o.Effect != nil {
			restore(o)
		}
	})
}

func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}
