// Package world holds the runtime state the engine simulates: game objects,
// the object arena, the game state and the per-frame execution context.
// Hosts own these values; the engine mutates them only inside a frame.
package world

import (
	"github.com/vovakirdan/rulestage/internal/core"
)

// BodyType selects how the physics integrator treats an object.
type BodyType int

const (
	BodyStatic    BodyType = iota // never moved by physics
	BodyKinematic                 // position += velocity, no forces
	BodyDynamic                   // forces, gravity, drag and ground response
)

// String returns the body type name used in scenario files.
func (t BodyType) String() string {
	switch t {
	case BodyStatic:
		return "static"
	case BodyKinematic:
		return "kinematic"
	case BodyDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// ParseBodyType resolves a body type name.
func ParseBodyType(s string) (BodyType, bool) {
	switch s {
	case "static":
		return BodyStatic, true
	case "kinematic":
		return BodyKinematic, true
	case "dynamic", "":
		return BodyDynamic, true
	default:
		return BodyStatic, false
	}
}

// Body is the optional physics profile of an object.
type Body struct {
	Type            BodyType
	Gravity         float64 // downward acceleration, units/s²
	Friction        float64 // [0,1] horizontal loss on ground contact
	Restitution     float64 // [0,1] bounce factor on ground contact
	Mass            float64 // <= 0 is treated as 1
	MaxVelocity     float64 // 0 means unlimited
	AirResistance   float64 // fraction of velocity lost per second
	AngularVelocity float64 // degrees per second

	Force       core.Vec2 // accumulated force, cleared after each step
	Accumulator float64   // unconsumed simulation time, seconds
	Grounded    bool      // resting on the floor after the last step
}

// InvMass returns 1/mass, treating non-positive mass as 1.
func (b *Body) InvMass() float64 {
	if b.Mass <= 0 {
		return 1
	}
	return 1 / b.Mass
}

// Clip describes a named animation an object can switch to.
type Clip struct {
	Frames  int
	FPS     float64
	Loop    bool
	Reverse bool
}

// Animation is the playback state of an object's current clip.
type Animation struct {
	Clip      string
	Frames    int
	Frame     int
	FPS       float64
	Loop      bool
	Reverse   bool
	Playing   bool
	LoopCount int
	Timer     float64 // seconds since the last frame step

	// Edge flags for the current frame, cleared by the animation manager
	// before advancing.
	FrameChanged bool
	Started      bool
	Ended        bool
	Looped       bool

	StartPending bool // set by a clip switch, reported as Started on the next advance
}

// EffectKind identifies a transient visual effect.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectScale
	EffectFlash
	EffectShake
	EffectRotate
	EffectParticles
)

// String returns the effect name used in scenario files.
func (k EffectKind) String() string {
	switch k {
	case EffectNone:
		return "none"
	case EffectScale:
		return "scale"
	case EffectFlash:
		return "flash"
	case EffectShake:
		return "shake"
	case EffectRotate:
		return "rotate"
	case EffectParticles:
		return "particles"
	default:
		return "unknown"
	}
}

// Effect is a running transient effect together with the pose it restores.
type Effect struct {
	Kind      EffectKind
	Start     float64 // elapsed time at trigger
	Duration  float64 // seconds
	Intensity float64 // kind-specific: scale delta, shake magnitude, degrees, flashes

	BaseScale    float64
	BaseRotation float64
	BasePos      core.Vec2
}

// Motion is the movement bookkeeping left behind by move actions.
type Motion struct {
	Arrive     bool      // stop when Target is reached
	Target     core.Vec2 // top-left position to stop at
	OrbitAngle float64   // radians, advanced by orbit actions
	Orbiting   bool
}

// Object is a game object in the play-field.
type Object struct {
	ID       string
	Name     string
	Color    core.Color
	Pos      core.Vec2 // top-left corner, world units
	W, H     float64   // unscaled size
	Visible  bool
	Scale    float64
	Rotation float64 // degrees
	Velocity core.Vec2

	Anim  Animation
	Clips map[string]Clip

	Body   *Body
	Effect *Effect
	Flash  float64 // current flash intensity [0,1], read by renderers
	Motion Motion
}

// NewObject creates a visible object at pos with unit scale.
func NewObject(id string, pos core.Vec2, w, h float64) *Object {
	return &Object{
		ID:      id,
		Name:    id,
		Pos:     pos,
		W:       w,
		H:       h,
		Visible: true,
		Scale:   1,
	}
}

// Size returns the scaled width and height.
func (o *Object) Size() (float64, float64) {
	s := o.Scale
	if s <= 0 {
		s = 1
	}
	return o.W * s, o.H * s
}

// Bounds returns the scaled bounding box used for collisions.
func (o *Object) Bounds() core.Rect {
	w, h := o.Size()
	return core.Rect{X: o.Pos.X, Y: o.Pos.Y, W: w, H: h}
}

// Center returns the center of the scaled bounding box.
func (o *Object) Center() core.Vec2 {
	return o.Bounds().Center()
}

// MoveCenterTo positions the object so that its center is at c.
func (o *Object) MoveCenterTo(c core.Vec2) {
	w, h := o.Size()
	o.Pos = core.Vec2{X: c.X - w/2, Y: c.Y - h/2}
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() *Object {
	c := *o
	if o.Body != nil {
		b := *o.Body
		c.Body = &b
	}
	if o.Effect != nil {
		e := *o.Effect
		c.Effect = &e
	}
	if o.Clips != nil {
		c.Clips = make(map[string]Clip, len(o.Clips))
		for k, v := range o.Clips {
			c.Clips[k] = v
		}
	}
	return &c
}
