package store

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/vovakirdan/rulestage/internal/rules"
)

// CounterDefinition declares a counter's initial value and optional bounds.
type CounterDefinition struct {
	Name    string
	Initial float64
	Min     float64
	Max     float64
	HasMin  bool
	HasMax  bool
}

// Clamp restricts v to the definition's bounds.
func (d CounterDefinition) Clamp(v float64) float64 {
	if d.HasMin && v < d.Min {
		v = d.Min
	}
	if d.HasMax && v > d.Max {
		v = d.Max
	}
	return v
}

// Counters is the numeric store. Every write is clamped to the counter's
// bounds before it is stored.
type Counters struct {
	defs     map[string]CounterDefinition
	values   map[string]float64
	prev     map[string]float64
	versions map[string]uint64
	history  history[float64]
}

// NewCounters creates an empty counter store keeping up to historyLimit changes.
func NewCounters(historyLimit int) *Counters {
	return &Counters{
		defs:     make(map[string]CounterDefinition),
		values:   make(map[string]float64),
		prev:     make(map[string]float64),
		versions: make(map[string]uint64),
		history:  history[float64]{limit: historyLimit},
	}
}

// Define declares a counter, resetting its current value to the clamped initial value.
func (c *Counters) Define(def CounterDefinition) error {
	if def.HasMin && def.HasMax && def.Min > def.Max {
		return fmt.Errorf("store: counter %q: min %g > max %g", def.Name, def.Min, def.Max)
	}
	def.Initial = def.Clamp(def.Initial)
	c.defs[def.Name] = def
	c.values[def.Name] = def.Initial
	c.prev[def.Name] = def.Initial
	return nil
}

// Definition returns a counter's declaration.
func (c *Counters) Definition(name string) (CounterDefinition, bool) {
	d, ok := c.defs[name]
	return d, ok
}

// Has reports whether the counter is declared.
func (c *Counters) Has(name string) bool {
	_, ok := c.defs[name]
	return ok
}

// Get returns the current value.
func (c *Counters) Get(name string) (float64, error) {
	v, ok := c.values[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCounter, name)
	}
	return v, nil
}

// Previous returns the value before the most recent write this frame.
func (c *Counters) Previous(name string) (float64, error) {
	v, ok := c.prev[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCounter, name)
	}
	return v, nil
}

// Changed reports whether the most recent write this frame changed the value.
func (c *Counters) Changed(name string) bool {
	return c.Has(name) && c.prev[name] != c.values[name]
}

// Version returns how many writes have changed the counter's stored value
// since it was declared or the store was reset.
func (c *Counters) Version(name string) uint64 {
	return c.versions[name]
}

// Set writes a value.
func (c *Counters) Set(name string, v float64, o Origin) (float64, error) {
	return c.Apply(name, rules.CounterSet, v, o)
}

// Apply performs op with operand and returns the stored (clamped) result.
// Clamping, the previous value and the history entry are updated together.
func (c *Counters) Apply(name string, op rules.CounterOp, operand float64, o Origin) (float64, error) {
	def, ok := c.defs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCounter, name)
	}
	old := c.values[name]

	var v float64
	switch op {
	case rules.CounterSet:
		v = operand
	case rules.CounterAdd:
		v = old + operand
	case rules.CounterSubtract:
		v = old - operand
	case rules.CounterMultiply:
		v = old * operand
	case rules.CounterDivide:
		if operand == 0 {
			return old, fmt.Errorf("%w: counter %q", ErrDivideByZero, name)
		}
		v = old / operand
	case rules.CounterReset:
		v = def.Initial
	default:
		return old, fmt.Errorf("store: counter %q: unknown operation %d", name, op)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return old, fmt.Errorf("store: counter %q: %s produced %g", name, op, v)
	}

	v = def.Clamp(v)
	c.prev[name] = old
	c.values[name] = v
	if v != old {
		c.versions[name]++
	}
	c.history.add(Change[float64]{Name: name, Op: op.String(), Old: old, New: v, Time: o.Time, RuleID: o.RuleID})
	return v, nil
}

// BeginFrame makes the current values the previous values.
func (c *Counters) BeginFrame() {
	maps.Copy(c.prev, c.values)
}

// Reset restores every counter to its declared initial value and clears history.
func (c *Counters) Reset() {
	for name, def := range c.defs {
		c.values[name] = def.Initial
		c.prev[name] = def.Initial
	}
	clear(c.versions)
	c.history.clear()
}

// Snapshot returns a copy of the current values.
func (c *Counters) Snapshot() map[string]float64 {
	return maps.Clone(c.values)
}

// Names returns the declared counter names, sorted.
func (c *Counters) Names() []string {
	return slices.Sorted(maps.Keys(c.defs))
}

// History returns the recorded changes, oldest first.
func (c *Counters) History() []Change[float64] {
	return c.history.list()
}
