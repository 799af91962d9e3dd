package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Default returns the built-in engine configuration.
func Default() EngineConfig {
	return EngineConfig{
		Simulation: SimulationConfig{
			TickRate:    60,
			PhysicsStep: 1.0 / 60.0,
			MaxSubsteps: 8,
		},
		Physics: PhysicsConfig{
			Gravity:       980,
			RestThreshold: 1,
			Ground:        true,
		},
		Stores: StoresConfig{
			HistoryLimit: 100,
		},
		Random: RandomConfig{
			MaxActionDepth:  8,
			DefaultInterval: 0,
		},
		Input: InputConfig{
			EventRetention: 0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Prefix: "rulestage",
		},
		Storage: StorageConfig{
			DBPath: "~/.rulestage/runs.db",
		},
		Preview: PreviewConfig{
			Theme:       "default",
			MessageTime: 2,
		},
	}
}

// normalize replaces unset or invalid values with defaults.
func (c *EngineConfig) normalize() {
	d := Default()
	if c.Simulation.TickRate <= 0 {
		c.Simulation.TickRate = d.Simulation.TickRate
	}
	if c.Simulation.PhysicsStep <= 0 {
		c.Simulation.PhysicsStep = d.Simulation.PhysicsStep
	}
	if c.Simulation.MaxSubsteps <= 0 {
		c.Simulation.MaxSubsteps = d.Simulation.MaxSubsteps
	}
	if c.Physics.RestThreshold < 0 {
		c.Physics.RestThreshold = d.Physics.RestThreshold
	}
	if c.Stores.HistoryLimit <= 0 {
		c.Stores.HistoryLimit = d.Stores.HistoryLimit
	}
	if c.Random.MaxActionDepth <= 0 {
		c.Random.MaxActionDepth = d.Random.MaxActionDepth
	}
	if c.Input.EventRetention <= 0 {
		c.Input.EventRetention = d.Input.EventRetention
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Prefix == "" {
		c.Logging.Prefix = d.Logging.Prefix
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = d.Storage.DBPath
	}
	if c.Preview.Theme == "" {
		c.Preview.Theme = d.Preview.Theme
	}
	if c.Preview.MessageTime <= 0 {
		c.Preview.MessageTime = d.Preview.MessageTime
	}
}
