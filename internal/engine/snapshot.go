package engine

import (
	"github.com/vovakirdan/rulestage/internal/store"
)

// RuleInfo describes one rule in a debug snapshot.
type RuleInfo struct {
	ID       string
	Name     string
	Priority int
	Enabled  bool
	Count    int
	MaxCount int
}

// Caches reports internal cache sizes.
type Caches struct {
	Expressions    int
	RandomStates   int
	ConsumedEvents int
	CollisionPairs int
	Regions        int
}

// Snapshot is a debug view of the engine for tooling. Gameplay code must
// not depend on it.
type Snapshot struct {
	Rules          []RuleInfo
	Flags          map[string]bool
	Counters       map[string]float64
	FlagHistory    []store.Change[bool]
	CounterHistory []store.Change[float64]
	Caches         Caches
}

// Snapshot captures the current engine state.
func (e *Engine) Snapshot() Snapshot {
	infos := make([]RuleInfo, len(e.entries))
	for i, en := range e.entries {
		infos[i] = RuleInfo{
			ID:       en.rule.ID,
			Name:     en.rule.Label(),
			Priority: en.rule.Priority,
			Enabled:  en.rule.Enabled,
			Count:    en.count,
			MaxCount: en.rule.MaxCount,
		}
	}
	st := e.eval.Stats()
	return Snapshot{
		Rules:          infos,
		Flags:          e.flags.Snapshot(),
		Counters:       e.counters.Snapshot(),
		FlagHistory:    e.flags.History(),
		CounterHistory: e.counters.History(),
		Caches: Caches{
			Expressions:    st.Expressions,
			RandomStates:   st.RandomStates,
			ConsumedEvents: st.ConsumedEvents,
			CollisionPairs: e.tracker.Pairs(),
			Regions:        e.tracker.Regions(),
		},
	}
}
