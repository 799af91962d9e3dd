package core

// RuntimeConfig contains configuration passed to engines and hosts at initialization.
// Hosts use this to size the play-field and for deterministic simulation.
type RuntimeConfig struct {
	FieldW   float64 // Play-field width in world units (pixels)
	FieldH   float64 // Play-field height in world units (pixels)
	TickRate int     // Simulation frames per second (default 60)
	Seed     int64   // RNG seed for deterministic random conditions/actions
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		FieldW:   320,
		FieldH:   240,
		TickRate: 60,
		Seed:     0, // 0 means use current time in the host layer
	}
}

// Field returns the play-field extent.
func (c RuntimeConfig) Field() Size {
	return Size{W: c.FieldW, H: c.FieldH}
}

// FrameDelta returns the duration of one frame in seconds.
func (c RuntimeConfig) FrameDelta() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}
