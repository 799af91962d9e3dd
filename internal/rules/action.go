package rules

import (
	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/world"
)

// Action is one THEN step of a rule. The set of implementations is closed;
// the executor matches on the concrete type.
type Action interface {
	Kind() string
	action()
}

// ControlOp is a game-control operation.
type ControlOp int

const (
	ControlSuccess ControlOp = iota
	ControlFailure
	ControlPause
	ControlResume
	ControlRestart
)

// String returns the operation name.
func (o ControlOp) String() string {
	switch o {
	case ControlSuccess:
		return "success"
	case ControlFailure:
		return "failure"
	case ControlPause:
		return "pause"
	case ControlResume:
		return "resume"
	case ControlRestart:
		return "restart"
	default:
		return "unknown"
	}
}

// GameControlAction changes the run status, optionally awarding score.
// Success and failure always end the run; EndRun ends it for the others.
type GameControlAction struct {
	Op     ControlOp
	Score  int
	EndRun bool
}

// AudioAction plays or stops a sound or background track.
type AudioAction struct {
	Stop   bool
	Sound  string
	Music  bool
	Volume float64 // 0 means full volume
	Loop   bool
}

// FlagOp is a flag mutation.
type FlagOp int

const (
	FlagSet FlagOp = iota
	FlagToggle
)

// FlagAction sets or toggles a declared flag.
type FlagAction struct {
	Name  string
	Op    FlagOp
	Value bool
}

// CounterOp is a counter mutation.
type CounterOp int

const (
	CounterSet CounterOp = iota
	CounterAdd
	CounterSubtract
	CounterMultiply
	CounterDivide
	CounterReset
)

// String returns the operation name recorded in store history.
func (o CounterOp) String() string {
	switch o {
	case CounterSet:
		return "set"
	case CounterAdd:
		return "add"
	case CounterSubtract:
		return "subtract"
	case CounterMultiply:
		return "multiply"
	case CounterDivide:
		return "divide"
	case CounterReset:
		return "reset"
	default:
		return "unknown"
	}
}

// CounterAction mutates a declared counter.
type CounterAction struct {
	Name  string
	Op    CounterOp
	Value float64
}

// VisibilityOp shows, hides or toggles an object.
type VisibilityOp int

const (
	Show VisibilityOp = iota
	Hide
	ToggleVisibility
)

// VisibilityAction changes visibility without touching the pose.
type VisibilityAction struct {
	ObjectID string
	Op       VisibilityOp
}

// MoveKind selects a movement behavior.
type MoveKind int

const (
	MoveDirection MoveKind = iota // one of eight compass directions
	MoveStraight                  // toward a point or object
	MoveTeleport
	MoveWander
	MoveStop
	MoveSwap
	MoveApproach
	MoveOrbit
	MoveBounce
)

// String returns the movement name.
func (k MoveKind) String() string {
	switch k {
	case MoveDirection:
		return "direction"
	case MoveStraight:
		return "straight"
	case MoveTeleport:
		return "teleport"
	case MoveWander:
		return "wander"
	case MoveStop:
		return "stop"
	case MoveSwap:
		return "swap"
	case MoveApproach:
		return "approach"
	case MoveOrbit:
		return "orbit"
	case MoveBounce:
		return "bounce"
	default:
		return "unknown"
	}
}

// Compass is one of the eight fixed movement directions.
type Compass int

const (
	North Compass = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Target is either a normalized field point or another object.
type Target struct {
	ObjectID string    // when set, the object's center
	Point    core.Vec2 // normalized [0,1] field fractions
}

// MoveAction moves an object.
type MoveAction struct {
	Mode      MoveKind
	ObjectID  string
	Direction Compass
	Speed     float64 // units/s; orbit uses radians/s
	Target    Target
	Duration  float64 // straight: derive speed so the trip takes this long
	Radius    float64 // orbit radius, fraction of the smaller field side
}

// AnimationAction switches an object's animation clip or stops playback.
type AnimationAction struct {
	ObjectID string
	Clip     string
	Stop     bool
}

// PhysicsOp is a physics mutation.
type PhysicsOp int

const (
	PhysicsImpulse PhysicsOp = iota
	PhysicsForce
	PhysicsGravity
	PhysicsProperty
)

// PhysicsAction applies an impulse, force, gravity change or property change.
type PhysicsAction struct {
	ObjectID string
	Op       PhysicsOp
	Vector   core.Vec2
	Property string // friction, restitution, mass, max_velocity, air_resistance, angular_velocity, type
	Value    float64
	BodyType world.BodyType // for Property == "type"
}

// EffectAction triggers a transient effect.
type EffectAction struct {
	ObjectID  string
	Effect    world.EffectKind
	Duration  float64
	Intensity float64
	Count     int // particles
	Color     core.Color
}

// ScoreAction adds a delta to the score.
type ScoreAction struct {
	Delta int
}

// MessageAction displays text.
type MessageAction struct {
	Text     string
	Duration float64
}

// RandomPolicy selects how a random action picks its option.
type RandomPolicy int

const (
	PickUniform RandomPolicy = iota
	PickProbability
	PickWeighted
)

// RandomOption is one candidate of a random action.
type RandomOption struct {
	Action      Action
	Weight      float64
	Probability float64
}

// RandomAction executes exactly one of its options.
type RandomAction struct {
	Policy  RandomPolicy
	Options []RandomOption
}

func (GameControlAction) Kind() string { return "gameControl" }
func (AudioAction) Kind() string       { return "audio" }
func (FlagAction) Kind() string        { return "flag" }
func (CounterAction) Kind() string     { return "counter" }
func (VisibilityAction) Kind() string  { return "visibility" }
func (MoveAction) Kind() string        { return "move" }
func (AnimationAction) Kind() string   { return "animation" }
func (PhysicsAction) Kind() string     { return "physics" }
func (EffectAction) Kind() string      { return "effect" }
func (ScoreAction) Kind() string       { return "score" }
func (MessageAction) Kind() string     { return "message" }
func (RandomAction) Kind() string      { return "random" }

func (GameControlAction) action() {}
func (AudioAction) action()       {}
func (FlagAction) action()        {}
func (CounterAction) action()     {}
func (VisibilityAction) action()  {}
func (MoveAction) action()        {}
func (AnimationAction) action()   {}
func (PhysicsAction) action()     {}
func (EffectAction) action()      {}
func (ScoreAction) action()       {}
func (MessageAction) action()     {}
func (RandomAction) action()      {}
