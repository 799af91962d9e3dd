package scenario

import (
	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/world"
)

// Names accepted in scenario files. The empty string selects the zero value.

var eventNames = map[string]core.EventType{
	"down":  core.EventTouchDown,
	"up":    core.EventTouchUp,
	"hold":  core.EventTouchHold,
	"drag":  core.EventTouchDrag,
	"swipe": core.EventTouchSwipe,
	"flick": core.EventTouchFlick,
}

var directionNames = map[string]core.Direction{
	"":      core.DirAny,
	"any":   core.DirAny,
	"up":    core.DirUp,
	"down":  core.DirDown,
	"left":  core.DirLeft,
	"right": core.DirRight,
}

var touchTargets = map[string]rules.TouchTarget{
	"":       rules.TouchObject,
	"object": rules.TouchObject,
	"stage":  rules.TouchStage,
	"region": rules.TouchRegion,
}

var collisionPhases = map[string]rules.CollisionPhase{
	"":      rules.CollisionEnter,
	"enter": rules.CollisionEnter,
	"stay":  rules.CollisionStay,
	"exit":  rules.CollisionExit,
}

var collisionWith = map[string]rules.CollisionWith{
	"":           rules.WithObject,
	"object":     rules.WithObject,
	"background": rules.WithBackground,
	"region":     rules.WithRegion,
}

var animEvents = map[string]rules.AnimEvent{
	"frame": rules.AnimFrame,
	"start": rules.AnimStart,
	"end":   rules.AnimEnd,
	"loops": rules.AnimLoops,
}

var timeModes = map[string]rules.TimeMode{
	"at":       rules.TimeAt,
	"range":    rules.TimeRange,
	"interval": rules.TimeInterval,
}

var flagStates = map[string]rules.FlagState{
	"":        rules.FlagOn,
	"on":      rules.FlagOn,
	"off":     rules.FlagOff,
	"changed": rules.FlagChanged,
}

var counterCompares = map[string]rules.CounterCompare{
	"equals":  rules.CounterEquals,
	"greater": rules.CounterGreater,
	"less":    rules.CounterLess,
	"between": rules.CounterBetween,
	"changed": rules.CounterChanged,
}

var stateModes = map[string]rules.StateMode{
	"":       rules.StateIs,
	"is":     rules.StateIs,
	"not":    rules.StateNot,
	"became": rules.StateBecame,
}

var controlOps = map[string]rules.ControlOp{
	"success": rules.ControlSuccess,
	"failure": rules.ControlFailure,
	"pause":   rules.ControlPause,
	"resume":  rules.ControlResume,
	"restart": rules.ControlRestart,
}

var flagOps = map[string]rules.FlagOp{
	"":       rules.FlagSet,
	"set":    rules.FlagSet,
	"toggle": rules.FlagToggle,
}

var counterOps = map[string]rules.CounterOp{
	"set":      rules.CounterSet,
	"add":      rules.CounterAdd,
	"subtract": rules.CounterSubtract,
	"multiply": rules.CounterMultiply,
	"divide":   rules.CounterDivide,
	"reset":    rules.CounterReset,
}

var visibilityOps = map[string]rules.VisibilityOp{
	"show":   rules.Show,
	"hide":   rules.Hide,
	"toggle": rules.ToggleVisibility,
}

var moveKinds = map[string]rules.MoveKind{
	"direction": rules.MoveDirection,
	"straight":  rules.MoveStraight,
	"teleport":  rules.MoveTeleport,
	"wander":    rules.MoveWander,
	"stop":      rules.MoveStop,
	"swap":      rules.MoveSwap,
	"approach":  rules.MoveApproach,
	"orbit":     rules.MoveOrbit,
	"bounce":    rules.MoveBounce,
}

var compassNames = map[string]rules.Compass{
	"n":  rules.North,
	"ne": rules.NorthEast,
	"e":  rules.East,
	"se": rules.SouthEast,
	"s":  rules.South,
	"sw": rules.SouthWest,
	"w":  rules.West,
	"nw": rules.NorthWest,
}

var physicsOps = map[string]rules.PhysicsOp{
	"impulse":  rules.PhysicsImpulse,
	"force":    rules.PhysicsForce,
	"gravity":  rules.PhysicsGravity,
	"property": rules.PhysicsProperty,
}

var physicsProperties = map[string]bool{
	"friction":         true,
	"restitution":      true,
	"mass":             true,
	"max_velocity":     true,
	"air_resistance":   true,
	"angular_velocity": true,
	"gravity":          true,
	"type":             true,
}

var effectKinds = map[string]world.EffectKind{
	"scale":     world.EffectScale,
	"flash":     world.EffectFlash,
	"shake":     world.EffectShake,
	"rotate":    world.EffectRotate,
	"particles": world.EffectParticles,
}

var randomPolicies = map[string]rules.RandomPolicy{
	"":            rules.PickUniform,
	"uniform":     rules.PickUniform,
	"probability": rules.PickProbability,
	"weighted":    rules.PickWeighted,
}
