package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rulestage/internal/core"
)

func TestGestureTap(t *testing.T) {
	var g Gesture
	down := g.Press(core.V(10, 10), 1)
	require.Len(t, down, 1)
	assert.Equal(t, core.EventTouchDown, down[0].Type)
	assert.True(t, g.Down())

	up := g.Release(core.V(12, 11), 1.1)
	require.Len(t, up, 1, "short strokes only release")
	assert.Equal(t, core.EventTouchUp, up[0].Type)
	assert.False(t, g.Down())

	assert.Nil(t, g.Release(core.V(12, 11), 1.2), "release without press")
}

func TestGestureFlickAndSwipe(t *testing.T) {
	var g Gesture
	g.Press(core.V(0, 0), 0)
	events := g.Release(core.V(100, 0), 0.1)
	require.Len(t, events, 2)
	flick := events[1]
	assert.Equal(t, core.EventTouchFlick, flick.Type)
	assert.Equal(t, core.DirRight, flick.Data.Direction)
	assert.InDelta(t, 1000, flick.Data.Velocity.X, 1e-9)
	assert.Equal(t, core.V(0, 0), flick.Data.Start)

	g.Press(core.V(50, 100), 2)
	events = g.Release(core.V(50, 20), 3)
	require.Len(t, events, 2)
	assert.Equal(t, core.EventTouchSwipe, events[1].Type)
	assert.Equal(t, core.DirUp, events[1].Data.StrokeDirection())
}

func TestGestureDragOnlyWhilePressed(t *testing.T) {
	var g Gesture
	assert.Nil(t, g.Motion(core.V(5, 5), 0))

	g.Press(core.V(0, 0), 0)
	drag := g.Motion(core.V(5, 5), 0.05)
	require.Len(t, drag, 1)
	assert.Equal(t, core.EventTouchDrag, drag[0].Type)
	assert.True(t, drag[0].Data.Dragging)

	assert.Nil(t, g.Motion(core.V(5, 5), 0.06), "no movement, no drag")
}

func TestGestureHold(t *testing.T) {
	var g Gesture
	assert.Nil(t, g.Hold(1))

	g.Press(core.V(3, 4), 1)
	assert.Nil(t, g.Hold(1.1))

	held := g.Hold(1.5)
	require.Len(t, held, 1)
	assert.Equal(t, core.EventTouchHold, held[0].Type)
	assert.InDelta(t, 0.5, held[0].Data.HoldDuration, 1e-9)
	assert.Equal(t, core.V(3, 4), held[0].Data.Pos)

	g.Motion(core.V(9, 9), 1.6)
	assert.Nil(t, g.Hold(2), "moving pointers do not hold")
}
