// Package config provides YAML-based engine configuration loading.
package config

// EngineConfig contains all tunables of the rule engine and its hosts.
type EngineConfig struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Stores     StoresConfig     `yaml:"stores"`
	Random     RandomConfig     `yaml:"random"`
	Input      InputConfig      `yaml:"input"`
	Logging    LoggingConfig    `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// SimulationConfig defines frame timing.
type SimulationConfig struct {
	TickRate    int     `yaml:"tick_rate"`    // host frames per second
	PhysicsStep float64 `yaml:"physics_step"` // fixed physics step, seconds
	MaxSubsteps int     `yaml:"max_substeps"` // physics steps per frame before dropping backlog
}

// PhysicsConfig defines world-wide physics parameters.
type PhysicsConfig struct {
	Gravity       float64 `yaml:"gravity"`        // default gravity for dynamic bodies, units/s²
	RestThreshold float64 `yaml:"rest_threshold"` // speeds below this snap to rest on the ground
	Ground        bool    `yaml:"ground"`         // bottom field edge acts as a floor
}

// StoresConfig defines scalar store limits.
type StoresConfig struct {
	HistoryLimit int `yaml:"history_limit"`
}

// RandomConfig defines random condition and action limits.
type RandomConfig struct {
	MaxActionDepth  int     `yaml:"max_action_depth"` // nested random actions
	DefaultInterval float64 `yaml:"default_interval"` // re-check interval when a condition sets none
}

// InputConfig defines input queue retention.
type InputConfig struct {
	EventRetention float64 `yaml:"event_retention"` // seconds events stay queued
}

// LoggingConfig defines the engine logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Prefix string `yaml:"prefix"`
}

// StorageConfig defines the run history database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// PreviewConfig defines the terminal preview host.
type PreviewConfig struct {
	Theme       string  `yaml:"theme"`        // default, neon, pastel or mono
	MessageTime float64 `yaml:"message_time"` // seconds a message stays up when it sets no duration
}
