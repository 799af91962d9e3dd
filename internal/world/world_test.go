package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rulestage/internal/core"
)

func TestObjectBounds(t *testing.T) {
	o := NewObject("ball", core.V(10, 20), 8, 4)
	o.Scale = 2

	assert.Equal(t, core.NewRect(10, 20, 16, 8), o.Bounds())
	assert.Equal(t, core.V(18, 24), o.Center())

	o.MoveCenterTo(core.V(100, 100))
	assert.Equal(t, core.V(92, 96), o.Pos)
}

func TestObjectClone(t *testing.T) {
	o := NewObject("box", core.V(0, 0), 1, 1)
	o.Body = &Body{Type: BodyDynamic, Mass: 2}
	o.Clips = map[string]Clip{"idle": {Frames: 4}}

	c := o.Clone()
	c.Body.Mass = 5
	c.Clips["idle"] = Clip{Frames: 1}

	assert.Equal(t, 2.0, o.Body.Mass)
	assert.Equal(t, 4, o.Clips["idle"].Frames)
}

func TestObjectsArena(t *testing.T) {
	a := NewObjects(NewObject("a", core.V(0, 0), 1, 1), NewObject("b", core.V(0, 0), 1, 1))
	require.Error(t, a.Add(NewObject("a", core.V(0, 0), 1, 1)))
	require.NoError(t, a.Add(NewObject("c", core.V(0, 0), 1, 1)))

	assert.Equal(t, []string{"a", "b", "c"}, a.IDs())

	a.Remove("b")
	assert.Equal(t, []string{"a", "c"}, a.IDs())
	_, ok := a.Get("b")
	assert.False(t, ok)

	clone := a.Clone()
	o, _ := clone.Get("a")
	o.Pos = core.V(50, 50)
	orig, _ := a.Get("a")
	assert.Equal(t, core.V(0, 0), orig.Pos)
}

func TestStatusNames(t *testing.T) {
	for _, s := range []Status{StatusPlaying, StatusPaused, StatusSuccess, StatusFailure} {
		parsed, ok := ParseStatus(s.String())
		require.True(t, ok, s.String())
		assert.Equal(t, s, parsed)
	}
	assert.True(t, StatusFailure.Ended())
	assert.False(t, StatusPaused.Ended())
}
