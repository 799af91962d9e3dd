package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/rules"
	"github.com/vovakirdan/rulestage/internal/world"
)

var field = core.Size{W: 200, H: 100}

func TestEnterStayExitLifecycle(t *testing.T) {
	a := world.NewObject("a", core.V(10, 10), 10, 10)
	b := world.NewObject("b", core.V(50, 10), 10, 10)
	objs := world.NewObjects(a, b)
	tr := NewTracker()

	// x positions of b per frame: apart, overlap x3, apart x2.
	positions := []float64{50, 15, 15, 15, 50, 50}
	var enters, stays, exits []int
	for frame, x := range positions {
		b.Pos.X = x
		tr.Refresh(objs, field)
		if tr.Enter("a", "b") {
			enters = append(enters, frame)
		}
		if tr.Stay("a", "b") {
			stays = append(stays, frame)
		}
		if tr.Exit("a", "b") {
			exits = append(exits, frame)
		}
	}

	assert.Equal(t, []int{1}, enters)
	assert.Equal(t, []int{2, 3}, stays)
	assert.Equal(t, []int{4}, exits)
}

func TestInvisibleObjectsDoNotCollide(t *testing.T) {
	a := world.NewObject("a", core.V(10, 10), 10, 10)
	b := world.NewObject("b", core.V(12, 12), 10, 10)
	b.Visible = false
	tr := NewTracker()

	tr.Refresh(world.NewObjects(a, b), field)
	assert.False(t, tr.Enter("a", "b"))
	assert.Empty(t, tr.Overlapping("a"))
}

func TestPhaseAnyObject(t *testing.T) {
	a := world.NewObject("a", core.V(10, 10), 10, 10)
	b := world.NewObject("b", core.V(15, 15), 10, 10)
	objs := world.NewObjects(a, b)
	tr := NewTracker()

	tr.Refresh(objs, field)
	assert.True(t, tr.Phase(rules.CollisionEnter, "a", ""))

	b.Pos = core.V(100, 50)
	tr.Refresh(objs, field)
	assert.True(t, tr.Phase(rules.CollisionExit, "a", ""))
	assert.False(t, tr.Phase(rules.CollisionStay, "a", ""))
}

func TestBackgroundAndRegions(t *testing.T) {
	a := world.NewObject("a", core.V(0, 40), 10, 10)
	tr := NewTracker()
	key := tr.WatchRegion(core.RectRegion(0.5, 0, 0.5, 1))
	objs := world.NewObjects(a)

	tr.Refresh(objs, field)
	assert.True(t, tr.Enter("a", BackgroundKey))
	assert.False(t, tr.Enter("a", key))

	a.Pos = core.V(120, 40)
	tr.Refresh(objs, field)
	assert.True(t, tr.Exit("a", BackgroundKey))
	assert.True(t, tr.Enter("a", key))
	assert.False(t, tr.Phase(rules.CollisionEnter, "a", ""), "synthetic contacts are not objects")
	assert.True(t, Synthetic(key))
}
