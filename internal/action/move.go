package action

import (
	"fmt"
	"math"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/physics"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/world"
)

// DefaultSpeed is used by movements that need a speed and were given none.
const DefaultSpeed = 100

const diag = math.Sqrt2 / 2

// compass holds unit vectors for the eight directions; y grows downward.
var compass = [...]core.Vec2{
	rules.North:     {X: 0, Y: -1},
	rules.NorthEast: {X: diag, Y: -diag},
	rules.East:      {X: 1, Y: 0},
	rules.SouthEast: {X: diag, Y: diag},
	rules.South:     {X: 0, Y: 1},
	rules.SouthWest: {X: -diag, Y: diag},
	rules.West:      {X: -1, Y: 0},
	rules.NorthWest: {X: -diag, Y: -diag},
}

// Unit returns the unit vector of a compass direction.
func Unit(c rules.Compass) core.Vec2 {
	if c < 0 || int(c) >= len(compass) {
		return core.Vec2{}
	}
	return compass[c]
}

// resolveTarget returns the world-space point a target names: another
// object's center or a normalized field point.
func (x *Executor) resolveTarget(env Env, t rules.Target) (core.Vec2, error) {
	if t.ObjectID != "" {
		o, ok := env.Ctx.Object(t.ObjectID)
		if !ok {
			return core.Vec2{}, fmt.Errorf("%w: %q", ErrUnknownObject, t.ObjectID)
		}
		return o.Center(), nil
	}
	return env.Ctx.Field.ToWorld(t.Point), nil
}

func speedOr(v float64) float64 {
	if v <= 0 {
		return DefaultSpeed
	}
	return v
}

func (x *Executor) move(r *rules.Rule, a rules.MoveAction, env Env, res *rules.Result) error {
	o, err := x.object(r, env, a.ObjectID)
	if err != nil {
		return err
	}
	dt := env.Ctx.State.Delta

	switch a.Mode {
	case rules.MoveDirection:
		o.Velocity = Unit(a.Direction).Scale(speedOr(a.Speed))
		o.Motion = world.Motion{}

	case rules.MoveStraight:
		to, err := x.resolveTarget(env, a.Target)
		if err != nil {
			return err
		}
		w, h := o.Size()
		dest := core.Vec2{X: to.X - w/2, Y: to.Y - h/2}
		delta := dest.Sub(o.Pos)
		dist := delta.Len()
		if dist == 0 {
			o.Velocity = core.Vec2{}
			o.Motion = world.Motion{}
			break
		}
		speed := speedOr(a.Speed)
		if a.Duration > 0 {
			speed = dist / a.Duration
		}
		o.Velocity = delta.Normalize().Scale(speed)
		o.Motion = world.Motion{Arrive: true, Target: dest}

	case rules.MoveTeleport:
		to, err := x.resolveTarget(env, a.Target)
		if err != nil {
			return err
		}
		o.MoveCenterTo(to)
		o.Motion = world.Motion{}

	case rules.MoveWander:
		angle := x.rng.Float64() * 2 * math.Pi
		o.Velocity = core.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(speedOr(a.Speed))
		o.Motion = world.Motion{}

	case rules.MoveStop:
		o.Velocity = core.Vec2{}
		o.Motion = world.Motion{}
		if o.Body != nil {
			o.Body.Force = core.Vec2{}
		}

	case rules.MoveSwap:
		other, ok := env.Ctx.Object(a.Target.ObjectID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownObject, a.Target.ObjectID)
		}
		o.Pos, other.Pos = other.Pos, o.Pos

	case rules.MoveApproach:
		to, err := x.resolveTarget(env, a.Target)
		if err != nil {
			return err
		}
		delta := to.Sub(o.Center())
		speed := speedOr(a.Speed)
		if delta.Len() <= speed*dt {
			o.MoveCenterTo(to)
			o.Velocity = core.Vec2{}
		} else {
			o.Velocity = delta.Normalize().Scale(speed)
		}
		o.Motion = world.Motion{}

	case rules.MoveOrbit:
		center, err := x.resolveTarget(env, a.Target)
		if err != nil {
			return err
		}
		offset := o.Center().Sub(center)
		radius := offset.Len()
		if a.Radius > 0 {
			radius = a.Radius * math.Min(env.Ctx.Field.W, env.Ctx.Field.H)
		}
		if !o.Motion.Orbiting {
			o.Motion = world.Motion{Orbiting: true, OrbitAngle: math.Atan2(offset.Y, offset.X)}
		}
		speed := a.Speed
		if speed == 0 {
			speed = 1
		}
		o.Motion.OrbitAngle += speed * dt
		o.MoveCenterTo(center.Add(core.Vec2{
			X: math.Cos(o.Motion.OrbitAngle) * radius,
			Y: math.Sin(o.Motion.OrbitAngle) * radius,
		}))
		o.Velocity = core.Vec2{}

	case rules.MoveBounce:
		bounce(o, env.Ctx.Field)

	default:
		return fmt.Errorf("action: unknown movement %d", a.Mode)
	}

	res.Effectf("%s move %s", o.ID, a.Mode)
	return nil
}

// bounce keeps o inside the field, reflecting the velocity component
// that points out of the edge it crossed.
func bounce(o *world.Object, field core.Size) {
	w, h := o.Size()
	if o.Pos.X < 0 {
		o.Pos.X = 0
		o.Velocity.X = math.Abs(o.Velocity.X)
	} else if o.Pos.X+w > field.W {
		o.Pos.X = field.W - w
		o.Velocity.X = -math.Abs(o.Velocity.X)
	}
	if o.Pos.Y < 0 {
		o.Pos.Y = 0
		o.Velocity.Y = math.Abs(o.Velocity.Y)
	} else if o.Pos.Y+h > field.H {
		o.Pos.Y = field.H - h
		o.Velocity.Y = -math.Abs(o.Velocity.Y)
	}
}

func (x *Executor) physics(r *rules.Rule, a rules.PhysicsAction, env Env, res *rules.Result) error {
	o, err := x.object(r, env, a.ObjectID)
	if err != nil {
		return err
	}

	switch a.Op {
	case rules.PhysicsImpulse:
		physics.ApplyImpulse(o, a.Vector)
		res.Effectf("%s impulse %v", o.ID, a.Vector)
		return nil
	case rules.PhysicsForce:
		if !physics.ApplyForce(o, a.Vector) {
			return fmt.Errorf("%w: %q is not dynamic", ErrNoBody, o.ID)
		}
		res.Effectf("%s force %v", o.ID, a.Vector)
		return nil
	}

	if o.Body == nil {
		return fmt.Errorf("%w: %q", ErrNoBody, o.ID)
	}
	b := o.Body
	if a.Op == rules.PhysicsGravity {
		b.Gravity = a.Value
		res.Effectf("%s gravity %g", o.ID, a.Value)
		return nil
	}

	switch a.Property {
	case "friction":
		b.Friction = core.ClampF(a.Value, 0, 1)
	case "restitution":
		b.Restitution = core.ClampF(a.Value, 0, 1)
	case "mass":
		b.Mass = a.Value
	case "max_velocity":
		b.MaxVelocity = math.Max(a.Value, 0)
	case "air_resistance":
		b.AirResistance = math.Max(a.Value, 0)
	case "angular_velocity":
		b.AngularVelocity = a.Value
	case "gravity":
		b.Gravity = a.Value
	case "type":
		b.Type = a.BodyType
	default:
		return fmt.Errorf("action: unknown physics property %q", a.Property)
	}
	res.Effectf("%s %s=%g", o.ID, a.Property, a.Value)
	return nil
}
