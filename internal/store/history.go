// Package store implements the scalar state stores: boolean flags and
// range-clamped numeric counters with previous-value tracking and a bounded
// change history.
package store

import "errors"

// DefaultHistoryLimit bounds each store's change history.
const DefaultHistoryLimit = 100

var (
	ErrUnknownFlag    = errors.New("store: unknown flag")
	ErrUnknownCounter = errors.New("store: unknown counter")
	ErrDivideByZero   = errors.New("store: divide by zero")
)

// Origin identifies who wrote a value and when.
type Origin struct {
	RuleID string
	Time   float64
}

// Change is one history entry.
type Change[T any] struct {
	Name   string
	Op     string
	Old    T
	New    T
	Time   float64
	RuleID string
}

// history keeps the most recent changes up to limit.
type history[T any] struct {
	limit   int
	entries []Change[T]
}

func (h *history[T]) add(c Change[T]) {
	if h.limit <= 0 {
		h.limit = DefaultHistoryLimit
	}
	h.entries = append(h.entries, c)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0], h.entries[over:]...)
	}
}

func (h *history[T]) list() []Change[T] {
	out := make([]Change[T], len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *history[T]) clear() {
	h.entries = h.entries[:0]
}
