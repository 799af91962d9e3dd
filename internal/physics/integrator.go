// Package physics integrates object motion with a fixed time step.
//
// The step accumulator lives on each object's Body, so the integrator holds
// no cross-frame state and the same inputs always produce the same motion
// regardless of how the host slices frame deltas.
package physics

import (
	"math"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/world"
)

// Settings configures the integrator.
type Settings struct {
	Step          float64 // fixed step, seconds
	MaxSubsteps   int     // steps per Update before leftover time is dropped
	RestThreshold float64 // speeds below this snap to zero on the ground, units/s
	Ground        bool    // the bottom field edge is a floor
}

// DefaultSettings returns a 60 Hz step with a floor.
func DefaultSettings() Settings {
	return Settings{
		Step:          1.0 / 60.0,
		MaxSubsteps:   8,
		RestThreshold: 1,
		Ground:        true,
	}
}

// Integrator advances physics bodies and velocity-driven movement.
type Integrator struct {
	settings Settings
}

// New creates an integrator, filling unset settings with defaults.
func New(s Settings) *Integrator {
	def := DefaultSettings()
	if s.Step <= 0 {
		s.Step = def.Step
	}
	if s.MaxSubsteps <= 0 {
		s.MaxSubsteps = def.MaxSubsteps
	}
	if s.RestThreshold < 0 {
		s.RestThreshold = def.RestThreshold
	}
	return &Integrator{settings: s}
}

// Settings returns the active settings.
func (in *Integrator) Settings() Settings {
	return in.settings
}

// Update advances every object by dt seconds.
func (in *Integrator) Update(objs *world.Objects, field core.Size, dt float64) {
	if dt <= 0 {
		return
	}
	objs.Each(func(o *world.Object) {
		from := o.Pos
		switch {
		case o.Body == nil:
			// Plain objects move by their velocity without the fixed step.
			o.Pos = o.Pos.Add(o.Velocity.Scale(dt))
		case o.Body.Type == world.BodyStatic:
			return
		default:
			in.stepBody(o, field, dt)
		}
		arrive(o, from)
	})
}

func (in *Integrator) stepBody(o *world.Object, field core.Size, dt float64) {
	b := o.Body
	b.Accumulator += dt

	steps := int(b.Accumulator / in.settings.Step)
	if steps > in.settings.MaxSubsteps {
		steps = in.settings.MaxSubsteps
		b.Accumulator = math.Mod(b.Accumulator, in.settings.Step)
	} else {
		b.Accumulator -= float64(steps) * in.settings.Step
	}

	for range steps {
		if b.Type == world.BodyKinematic {
			o.Pos = o.Pos.Add(o.Velocity.Scale(in.settings.Step))
			o.Rotation += b.AngularVelocity * in.settings.Step
			continue
		}
		in.stepDynamic(o, field)
	}
	if steps > 0 {
		b.Force = core.Vec2{}
	}
}

func (in *Integrator) stepDynamic(o *world.Object, field core.Size) {
	b := o.Body
	h := in.settings.Step

	v := o.Velocity.Add(b.Force.Scale(b.InvMass() * h))
	v.Y += b.Gravity * h
	if b.AirResistance > 0 {
		v = v.Scale(math.Max(0, 1-b.AirResistance*h))
	}
	if b.MaxVelocity > 0 && v.Len() > b.MaxVelocity {
		v = v.Normalize().Scale(b.MaxVelocity)
	}

	o.Pos = o.Pos.Add(v.Scale(h))
	o.Rotation += b.AngularVelocity * h
	b.Grounded = false

	if in.settings.Ground {
		_, height := o.Size()
		if floor := field.H - height; o.Pos.Y >= floor {
			o.Pos.Y = floor
			if v.Y > 0 {
				// A bounce weaker than one step of gravity would never settle.
				bounce := v.Y * b.Restitution
				if bounce < b.Gravity*h+in.settings.RestThreshold {
					bounce = 0
				}
				v.Y = -bounce
				v.X *= 1 - b.Friction
			}
			if math.Abs(v.X) < in.settings.RestThreshold {
				v.X = 0
			}
			b.Grounded = true
		}
	}
	o.Velocity = v
}

// arrive stops an object that has reached or passed its movement target.
func arrive(o *world.Object, from core.Vec2) {
	if !o.Motion.Arrive {
		return
	}
	before := o.Motion.Target.Sub(from)
	after := o.Motion.Target.Sub(o.Pos)
	if after.Len() < 1e-6 || before.X*after.X+before.Y*after.Y <= 0 {
		o.Pos = o.Motion.Target
		o.Velocity = core.Vec2{}
		o.Motion.Arrive = false
	}
}

// ApplyImpulse changes velocity by J/mass immediately.
func ApplyImpulse(o *world.Object, j core.Vec2) {
	inv := 1.0
	if o.Body != nil {
		if o.Body.Type == world.BodyStatic {
			return
		}
		inv = o.Body.InvMass()
	}
	o.Velocity = o.Velocity.Add(j.Scale(inv))
}

// ApplyForce accumulates a force consumed by the next integration step.
func ApplyForce(o *world.Object, f core.Vec2) bool {
	if o.Body == nil || o.Body.Type != world.BodyDynamic {
		return false
	}
	o.Body.Force = o.Body.Force.Add(f)
	return true
}
