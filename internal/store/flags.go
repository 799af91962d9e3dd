package store

import (
	"fmt"
	"maps"
	"slices"
)

// Flags is the boolean store.
type Flags struct {
	initial  map[string]bool
	values   map[string]bool
	prev     map[string]bool
	versions map[string]uint64
	history  history[bool]
}

// NewFlags creates an empty flag store keeping up to historyLimit changes.
func NewFlags(historyLimit int) *Flags {
	return &Flags{
		initial:  make(map[string]bool),
		values:   make(map[string]bool),
		prev:     make(map[string]bool),
		versions: make(map[string]uint64),
		history:  history[bool]{limit: historyLimit},
	}
}

// Define declares a flag with its initial value, resetting its current value.
func (f *Flags) Define(name string, initial bool) {
	f.initial[name] = initial
	f.values[name] = initial
	f.prev[name] = initial
}

// Has reports whether the flag is declared.
func (f *Flags) Has(name string) bool {
	_, ok := f.initial[name]
	return ok
}

// Get returns the current value.
func (f *Flags) Get(name string) (bool, error) {
	v, ok := f.values[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	return v, nil
}

// Previous returns the value before the most recent write this frame.
func (f *Flags) Previous(name string) (bool, error) {
	v, ok := f.prev[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	return v, nil
}

// Changed reports whether the most recent write this frame changed the value.
func (f *Flags) Changed(name string) bool {
	return f.Has(name) && f.prev[name] != f.values[name]
}

// Version returns how many writes have changed the flag's value since it
// was declared or the store was reset. Observers compare versions to
// detect changes made at any point between two of their checks.
func (f *Flags) Version(name string) uint64 {
	return f.versions[name]
}

// Set writes a value, recording the previous one.
func (f *Flags) Set(name string, v bool, o Origin) error {
	return f.write(name, "set", func(bool) bool { return v }, o)
}

// Toggle inverts a flag and returns the new value.
func (f *Flags) Toggle(name string, o Origin) (bool, error) {
	err := f.write(name, "toggle", func(old bool) bool { return !old }, o)
	return f.values[name], err
}

func (f *Flags) write(name, op string, next func(bool) bool, o Origin) error {
	old, ok := f.values[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFlag, name)
	}
	v := next(old)
	f.prev[name] = old
	f.values[name] = v
	if v != old {
		f.versions[name]++
	}
	f.history.add(Change[bool]{Name: name, Op: op, Old: old, New: v, Time: o.Time, RuleID: o.RuleID})
	return nil
}

// BeginFrame makes the current values the previous values.
func (f *Flags) BeginFrame() {
	maps.Copy(f.prev, f.values)
}

// Reset restores every flag to its declared initial value and clears history.
func (f *Flags) Reset() {
	maps.Copy(f.values, f.initial)
	maps.Copy(f.prev, f.initial)
	clear(f.versions)
	f.history.clear()
}

// Snapshot returns a copy of the current values.
func (f *Flags) Snapshot() map[string]bool {
	return maps.Clone(f.values)
}

// Names returns the declared flag names, sorted.
func (f *Flags) Names() []string {
	return slices.Sorted(maps.Keys(f.initial))
}

// History returns the recorded changes, oldest first.
func (f *Flags) History() []Change[bool] {
	return f.history.list()
}
