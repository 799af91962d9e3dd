// Package scenario loads YAML scenario documents (field, scalar stores,
// objects, rules and a scripted input timeline) and runs them headlessly
// against the engine.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/rulestage/internal/config"
	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/engine"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/store"
	"github.com/vovakirdan/rulestage/internal/world"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// FlagDefinition declares a flag and its initial value.
type FlagDefinition struct {
	Name    string
	Initial bool
}

// ScriptEvent is a touch event injected at a fixed game time.
type ScriptEvent struct {
	At   float64
	Type core.EventType
	Data core.TouchData
}

// Scenario is a compiled scenario document.
type Scenario struct {
	Name     string
	Field    core.Size
	Seed     uint64
	Flags    []FlagDefinition
	Counters []store.CounterDefinition
	Objects  []*world.Object
	Rules    []*rules.Rule
	Script   []ScriptEvent // sorted by At

	// Warnings found while compiling. They never block a run.
	Warnings []string
}

// Parse decodes and compiles a scenario document. A *ValidationError is
// returned when the document has errors.
func Parse(data []byte, cfg config.EngineConfig) (*Scenario, error) {
	var raw rawScenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}

	c := &compiler{
		cfg:      cfg,
		ve:       &ValidationError{},
		objects:  make(map[string]bool),
		flags:    make(map[string]bool),
		counters: make(map[string]bool),
	}
	s := c.scenario(raw)
	s.Warnings = c.ve.Warnings
	sort.SliceStable(s.Script, func(i, j int) bool { return s.Script[i].At < s.Script[j].At })

	if len(c.ve.Errors) > 0 {
		return s, c.ve
	}
	return s, nil
}

// Load reads and compiles a scenario file.
func Load(path string, cfg config.EngineConfig) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	return Parse(data, cfg)
}

// RuntimeConfig returns the runtime settings for hosts playing the scenario.
func (s *Scenario) RuntimeConfig(cfg config.EngineConfig) core.RuntimeConfig {
	return core.RuntimeConfig{
		FieldW:   s.Field.W,
		FieldH:   s.Field.H,
		TickRate: cfg.Simulation.TickRate,
		Seed:     int64(s.Seed),
	}
}

// NewObjects returns fresh copies of the scenario objects.
func (s *Scenario) NewObjects() *world.Objects {
	objs := world.NewObjects()
	for _, o := range s.Objects {
		_ = objs.Add(o.Clone())
	}
	return objs
}

// NewContext returns a fresh world for one run.
func (s *Scenario) NewContext() *world.Context {
	return world.NewContext(s.Field, s.NewObjects())
}

// Install declares the scenario's stores and adds its rules to e.
func (s *Scenario) Install(e *engine.Engine) error {
	for _, f := range s.Flags {
		e.AddFlagDefinition(f.Name, f.Initial)
	}
	for _, def := range s.Counters {
		if err := e.AddCounterDefinition(def); err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
	}
	for _, r := range s.Rules {
		if err := e.AddRule(r); err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
	}
	return nil
}
