// Package rules defines the rule data model: rules, trigger groups and the
// closed condition and action variants the engine interprets.
package rules

import "fmt"

// Operator combines the conditions of a trigger group.
type Operator int

const (
	OpAnd Operator = iota
	OpOr
)

// String returns the operator name used in scenario files.
func (o Operator) String() string {
	if o == OpOr {
		return "OR"
	}
	return "AND"
}

// TriggerGroup is the IF part of a rule.
type TriggerGroup struct {
	Op         Operator
	Conditions []Condition
}

// All builds an AND group.
func All(conds ...Condition) TriggerGroup {
	return TriggerGroup{Op: OpAnd, Conditions: conds}
}

// Any builds an OR group.
func Any(conds ...Condition) TriggerGroup {
	return TriggerGroup{Op: OpOr, Conditions: conds}
}

// Window is an active interval [Start, End) in elapsed seconds.
// An Open window never closes and ignores End. A closed window with
// End <= Start contains no instant.
type Window struct {
	Start float64
	End   float64
	Open  bool
}

// Contains reports whether t lies inside the window.
func (w Window) Contains(t float64) bool {
	if t < w.Start {
		return false
	}
	return w.Open || t < w.End
}

// Rule is a prioritized IF (trigger group) THEN (actions) unit.
type Rule struct {
	ID       string
	Name     string
	Enabled  bool
	Priority int    // higher runs first
	Target   string // default object for conditions and actions without one

	Trigger TriggerGroup
	Actions []Action

	MaxCount int     // 0 means unlimited
	Window   *Window // nil means always active
}

// Label returns the name, falling back to the id.
func (r *Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Resolve returns id, or the rule target when id is empty.
func (r *Rule) Resolve(id string) string {
	if id != "" {
		return id
	}
	return r.Target
}

// Validate checks structural problems the engine cannot recover from.
func (r *Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rules: rule id is required")
	}
	if r.MaxCount < 0 {
		return fmt.Errorf("rules: rule %q: negative max count", r.ID)
	}
	if w := r.Window; w != nil && !w.Open && w.End < w.Start {
		return fmt.Errorf("rules: rule %q: window ends at %g before it starts at %g", r.ID, w.End, w.Start)
	}
	return nil
}
