package engine

import (
	"github.com/vovakirdan/rulestage/internal/store"
)

// hostOrigin marks writes made by the host rather than a rule.
const hostOrigin = "host"

// AddFlagDefinition declares a flag and its initial value.
func (e *Engine) AddFlagDefinition(name string, initial bool) {
	e.flags.Define(name, initial)
}

// AddCounterDefinition declares a counter with its initial value and bounds.
func (e *Engine) AddCounterDefinition(def store.CounterDefinition) error {
	return e.counters.Define(def)
}

// Flag returns a flag value.
func (e *Engine) Flag(name string) (bool, error) {
	return e.flags.Get(name)
}

// SetFlag writes a flag value.
func (e *Engine) SetFlag(name string, v bool) error {
	return e.flags.Set(name, v, store.Origin{RuleID: hostOrigin})
}

// Counter returns a counter value.
func (e *Engine) Counter(name string) (float64, error) {
	return e.counters.Get(name)
}

// SetCounter writes a counter value and returns the stored (clamped) value.
func (e *Engine) SetCounter(name string, v float64) (float64, error) {
	return e.counters.Set(name, v, store.Origin{RuleID: hostOrigin})
}
