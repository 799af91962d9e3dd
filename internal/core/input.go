package core

// EventType identifies the kind of input event pushed by the host.
type EventType int

const (
	EventNone      EventType = iota
	EventTouchDown           // finger/mouse pressed
	EventTouchUp             // finger/mouse released
	EventTouchHold           // pressed and held, repeated by the host while held
	EventTouchDrag           // pressed and moving
	EventTouchSwipe          // quick directional stroke ended
	EventTouchFlick          // very short, fast stroke ended
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EventNone:
		return "none"
	case EventTouchDown:
		return "touch_down"
	case EventTouchUp:
		return "touch_up"
	case EventTouchHold:
		return "touch_hold"
	case EventTouchDrag:
		return "touch_drag"
	case EventTouchSwipe:
		return "touch_swipe"
	case EventTouchFlick:
		return "touch_flick"
	default:
		return "unknown"
	}
}

// OneShot reports whether an event of this type should satisfy a rule at
// most once. Hold and drag are continuous and re-sent by the host.
func (t EventType) OneShot() bool {
	switch t {
	case EventTouchDown, EventTouchUp, EventTouchSwipe, EventTouchFlick:
		return true
	default:
		return false
	}
}

// Direction is a coarse stroke direction for swipes and flicks.
type Direction int

const (
	DirAny Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// String returns the direction name used in scenario files.
func (d Direction) String() string {
	switch d {
	case DirAny:
		return "any"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// DirectionOf classifies a velocity into the dominant axis direction.
func DirectionOf(v Vec2) Direction {
	if v.X == 0 && v.Y == 0 {
		return DirAny
	}
	if abs(v.X) >= abs(v.Y) {
		if v.X < 0 {
			return DirLeft
		}
		return DirRight
	}
	if v.Y < 0 {
		return DirUp
	}
	return DirDown
}

// TouchData carries the payload of a touch event. Which fields are
// meaningful depends on the event type.
type TouchData struct {
	Pos          Vec2      // current position in world units
	Start        Vec2      // stroke start position (drag/swipe/flick)
	Velocity     Vec2      // stroke velocity in units/second (swipe/flick)
	Direction    Direction // stroke direction (swipe/flick); DirAny derives it from Velocity
	HoldDuration float64   // seconds held (hold)
	Dragging     bool      // drag still in progress
}

// StrokeDirection returns the explicit direction or derives it from the velocity.
func (d TouchData) StrokeDirection() Direction {
	if d.Direction != DirAny {
		return d.Direction
	}
	if d.Velocity.X != 0 || d.Velocity.Y != 0 {
		return DirectionOf(d.Velocity)
	}
	return DirectionOf(d.Pos.Sub(d.Start))
}

// InputEvent is a single host input event.
type InputEvent struct {
	Seq       uint64    // assigned by the queue, strictly increasing
	Type      EventType // event kind
	Timestamp float64   // elapsed game seconds when the event happened
	Data      TouchData
}

// EventQueue is the ordered per-run input queue. The host pushes events,
// the engine reads them during evaluation and prunes stale ones.
type EventQueue struct {
	events []InputEvent
	next   uint64
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push appends an event and assigns its sequence number.
func (q *EventQueue) Push(e InputEvent) InputEvent {
	q.next++
	e.Seq = q.next
	q.events = append(q.events, e)
	return e
}

// Events returns the queued events in push order. The slice must not be modified.
func (q *EventQueue) Events() []InputEvent {
	if q == nil {
		return nil
	}
	return q.events
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.events)
}

// PruneBefore drops events with a timestamp older than cutoff.
// Returns the number of events removed.
func (q *EventQueue) PruneBefore(cutoff float64) int {
	kept := q.events[:0]
	for _, e := range q.events {
		if e.Timestamp >= cutoff {
			kept = append(kept, e)
		}
	}
	removed := len(q.events) - len(kept)
	q.events = kept
	return removed
}

// Clear removes all events. Sequence numbers keep increasing.
func (q *EventQueue) Clear() {
	q.events = q.events[:0]
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
