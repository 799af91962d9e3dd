package world

// Status is the play status of a run.
type Status int

const (
	StatusPlaying Status = iota
	StatusPaused
	StatusSuccess
	StatusFailure
)

// String returns the status name used in scenario files and logs.
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ParseStatus resolves a status name.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "playing":
		return StatusPlaying, true
	case "paused":
		return StatusPaused, true
	case "success":
		return StatusSuccess, true
	case "failure":
		return StatusFailure, true
	default:
		return StatusPlaying, false
	}
}

// Ended reports whether the run is over.
func (s Status) Ended() bool {
	return s == StatusSuccess || s == StatusFailure
}

// GameState is the scalar state of a run.
type GameState struct {
	Frame       uint64
	Elapsed     float64 // seconds of unpaused play
	PrevElapsed float64 // Elapsed at the start of the last Update
	Delta       float64 // last frame delta, seconds
	Score       int

	Status     Status
	PrevStatus Status // status at the end of the previous evaluation

	// Mirrors of the scalar stores, refreshed by the engine after each
	// evaluation so hosts can read them without engine access.
	Flags    map[string]bool
	Counters map[string]float64
}

// NewGameState creates a playing state with empty store mirrors.
func NewGameState() *GameState {
	return &GameState{
		Status:     StatusPlaying,
		PrevStatus: StatusPlaying,
		Flags:      make(map[string]bool),
		Counters:   make(map[string]float64),
	}
}

// Playing reports whether the run is active.
func (g *GameState) Playing() bool {
	return g.Status == StatusPlaying
}

// Paused reports whether the run is paused.
func (g *GameState) Paused() bool {
	return g.Status == StatusPaused
}
