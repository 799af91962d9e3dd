package rules

import (
	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/world"
)

// Condition is one trigger predicate. The set of implementations is closed;
// the evaluator matches on the concrete type.
type Condition interface {
	Kind() string
	condition()
}

// TouchTarget selects what a touch must land on.
type TouchTarget int

const (
	TouchObject TouchTarget = iota // the object's bounds
	TouchStage                     // anywhere on the field
	TouchRegion                    // a normalized field region
)

// TouchCondition matches a host input event.
type TouchCondition struct {
	Event       core.EventType
	Target      TouchTarget
	ObjectID    string // empty means the rule target
	Region      core.Region
	Direction   core.Direction // swipe/flick; DirAny matches all
	MinVelocity float64        // swipe/flick speed threshold, units/s
	MinHold     float64        // hold threshold, seconds
}

// CollisionPhase is the lifecycle stage of a contact.
type CollisionPhase int

const (
	CollisionEnter CollisionPhase = iota
	CollisionStay
	CollisionExit
)

// String returns the phase name.
func (p CollisionPhase) String() string {
	switch p {
	case CollisionEnter:
		return "enter"
	case CollisionStay:
		return "stay"
	case CollisionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// CollisionWith selects the other side of a contact.
type CollisionWith int

const (
	WithObject     CollisionWith = iota // another object, or any when OtherID is empty
	WithBackground                      // the field boundary
	WithRegion                          // a normalized field region
)

// CollisionCondition matches contact lifecycle transitions.
type CollisionCondition struct {
	Phase    CollisionPhase
	With     CollisionWith
	ObjectID string // source; empty means the rule target
	OtherID  string // empty means any object
	Region   core.Region
	Pixel    bool // pixel precision; resolved against the same bounding boxes
}

// AnimEvent is the animation milestone a condition waits for.
type AnimEvent int

const (
	AnimFrame AnimEvent = iota // a specific frame was reached
	AnimStart
	AnimEnd
	AnimLoops // loop count reached
)

// AnimationCondition matches animation milestones.
type AnimationCondition struct {
	Event    AnimEvent
	ObjectID string
	Frame    int
	Loops    int
}

// TimeMode selects how a time condition reads the clock.
type TimeMode int

const (
	TimeAt       TimeMode = iota // fires on the frame crossing At
	TimeRange                    // From <= elapsed <= To
	TimeInterval                 // fires each time a multiple of Interval is crossed
)

// TimeCondition matches elapsed game time.
type TimeCondition struct {
	Mode     TimeMode
	At       float64
	From, To float64
	Interval float64
}

// FlagState is the flag predicate.
type FlagState int

const (
	FlagOn FlagState = iota
	FlagOff
	FlagChanged
)

// FlagCondition tests a declared flag.
type FlagCondition struct {
	Name  string
	State FlagState
}

// CounterCompare is the counter predicate.
type CounterCompare int

const (
	CounterEquals CounterCompare = iota
	CounterGreater
	CounterLess
	CounterBetween
	CounterChanged
)

// CounterCondition tests a declared counter. Between uses [Value, Max].
type CounterCondition struct {
	Name      string
	Compare   CounterCompare
	Value     float64
	Max       float64
	Tolerance float64
}

// PositionCondition tests whether an object's center is inside a region.
type PositionCondition struct {
	ObjectID string
	Inside   bool
	Region   core.Region
}

// StateMode is the game-state predicate.
type StateMode int

const (
	StateIs StateMode = iota
	StateNot
	StateBecame
)

// GameStateCondition tests the run status.
type GameStateCondition struct {
	Mode   StateMode
	Status world.Status
}

// RandomCondition is a Bernoulli trial re-drawn at most once per Interval.
type RandomCondition struct {
	Probability float64
	Interval    float64 // seconds; 0 draws every evaluation
	Seeded      bool
	Seed        uint64
	OnSuccess   []Condition // AND-ed when the draw succeeds
	OnFailure   []Condition // AND-ed when the draw fails
}

// ExpressionCondition is a boolean expression over flags, counters,
// score, elapsed and status.
type ExpressionCondition struct {
	Source string
}

func (TouchCondition) Kind() string      { return "touch" }
func (CollisionCondition) Kind() string  { return "collision" }
func (AnimationCondition) Kind() string  { return "animation" }
func (TimeCondition) Kind() string       { return "time" }
func (FlagCondition) Kind() string       { return "flag" }
func (CounterCondition) Kind() string    { return "counter" }
func (PositionCondition) Kind() string   { return "position" }
func (GameStateCondition) Kind() string  { return "gameState" }
func (RandomCondition) Kind() string     { return "random" }
func (ExpressionCondition) Kind() string { return "expression" }

func (TouchCondition) condition()      {}
func (CollisionCondition) condition()  {}
func (AnimationCondition) condition()  {}
func (TimeCondition) condition()       {}
func (FlagCondition) condition()       {}
func (CounterCondition) condition()    {}
func (PositionCondition) condition()   {}
func (GameStateCondition) condition()  {}
func (RandomCondition) condition()     {}
func (ExpressionCondition) condition() {}
