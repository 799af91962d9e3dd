package tui

import (
	"github.com/vovakirdan/rulestage/internal/core"
)

// Gesture thresholds, in world units and game seconds.
const (
	HoldDelay        = 0.3
	SwipeMinDistance = 20.0
	FlickMaxDuration = 0.25
	FlickMinSpeed    = 400.0
)

// Gesture turns pointer press, motion and release into touch events.
// Times are game seconds so recorded previews replay the same way.
type Gesture struct {
	down    bool
	moved   bool
	start   core.Vec2
	last    core.Vec2
	startAt float64
}

// Down reports whether the pointer is pressed.
func (g *Gesture) Down() bool {
	return g.down
}

// Press starts a touch.
func (g *Gesture) Press(pos core.Vec2, now float64) []core.InputEvent {
	*g = Gesture{down: true, start: pos, last: pos, startAt: now}
	return []core.InputEvent{{
		Type:      core.EventTouchDown,
		Timestamp: now,
		Data:      core.TouchData{Pos: pos, Start: pos},
	}}
}

// Motion reports pointer movement. Only moves while pressed produce drags.
func (g *Gesture) Motion(pos core.Vec2, now float64) []core.InputEvent {
	if !g.down || pos == g.last {
		return nil
	}
	g.moved = true
	g.last = pos
	return []core.InputEvent{{
		Type:      core.EventTouchDrag,
		Timestamp: now,
		Data:      core.TouchData{Pos: pos, Start: g.start, Dragging: true},
	}}
}

// Release ends a touch. Fast short strokes become flicks, longer ones swipes.
func (g *Gesture) Release(pos core.Vec2, now float64) []core.InputEvent {
	if !g.down {
		return nil
	}
	g.down = false

	events := []core.InputEvent{{
		Type:      core.EventTouchUp,
		Timestamp: now,
		Data:      core.TouchData{Pos: pos, Start: g.start},
	}}

	delta := pos.Sub(g.start)
	dist := delta.Len()
	if dist < SwipeMinDistance {
		return events
	}
	dur := now - g.startAt
	var vel core.Vec2
	if dur > 0 {
		vel = delta.Scale(1 / dur)
	}
	typ := core.EventTouchSwipe
	if dur <= FlickMaxDuration && vel.Len() >= FlickMinSpeed {
		typ = core.EventTouchFlick
	}
	return append(events, core.InputEvent{
		Type:      typ,
		Timestamp: now,
		Data: core.TouchData{
			Pos:       pos,
			Start:     g.start,
			Velocity:  vel,
			Direction: core.DirectionOf(delta),
		},
	})
}

// Hold produces a hold event while a still pointer stays pressed past HoldDelay.
func (g *Gesture) Hold(now float64) []core.InputEvent {
	if !g.down || g.moved {
		return nil
	}
	held := now - g.startAt
	if held < HoldDelay {
		return nil
	}
	return []core.InputEvent{{
		Type:      core.EventTouchHold,
		Timestamp: now,
		Data:      core.TouchData{Pos: g.last, Start: g.start, HoldDuration: held},
	}}
}
