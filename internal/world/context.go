package world

import "github.com/vovakirdan/rulestage/internal/core"

// SoundRequest asks the host to play a sound or background track.
type SoundRequest struct {
	ID     string
	Volume float64 // [0,1]
	Loop   bool
	Music  bool
}

// ParticleRequest asks the host to emit particles.
type ParticleRequest struct {
	ObjectID string
	Pos      core.Vec2
	Count    int
	Color    core.Color
	Lifetime float64
}

// Message is on-screen text requested by a rule.
type Message struct {
	Text     string
	Duration float64
}

// Hooks are optional host callbacks. Nil hooks are skipped; requests are
// also recorded in the frame results so hosts may poll instead.
type Hooks struct {
	PlaySound     func(SoundRequest)
	StopSound     func(id string)
	EmitParticles func(ParticleRequest)
	ShowMessage   func(Message)
}

// Context is the per-frame bundle handed to the engine.
type Context struct {
	State   *GameState
	Objects *Objects
	Events  *core.EventQueue
	Field   core.Size
	Hooks   Hooks
}

// NewContext creates a context with fresh state for a field of the given size.
func NewContext(field core.Size, objs *Objects) *Context {
	if objs == nil {
		objs = NewObjects()
	}
	return &Context{
		State:   NewGameState(),
		Objects: objs,
		Events:  core.NewEventQueue(),
		Field:   field,
	}
}

// Object looks up an object by id.
func (c *Context) Object(id string) (*Object, bool) {
	return c.Objects.Get(id)
}
