package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/rulestage/internal/core"
	"github.com/vovakirdan/rulestage/internal/world"
)

func TestDrawWorld(t *testing.T) {
	s := core.NewScreen(10, 5)
	p := Projection{Field: core.Size{W: 100, H: 50}, Cols: 10, Rows: 5}

	box := world.NewObject("box", core.V(0, 0), 40, 30)
	box.Color = core.ColorGreen
	hidden := world.NewObject("ghost", core.V(60, 0), 30, 30)
	hidden.Visible = false
	flash := world.NewObject("f", core.V(90, 40), 10, 10)
	flash.Flash = 1

	objs := world.NewObjects()
	require.NoError(t, objs.Add(box))
	require.NoError(t, objs.Add(hidden))
	require.NoError(t, objs.Add(flash))

	s.Set(7, 1, 'x', core.ColorRed)
	DrawWorld(s, p, objs)

	assert.Equal(t, '┌', s.Get(0, 0))
	assert.Equal(t, '┘', s.Get(3, 2))
	assert.Equal(t, "bo", s.Row(1)[len("│"):len("│")+2], "labels are clipped to the box")
	assert.Equal(t, core.ColorGreen, s.GetCell(0, 0).Color)

	assert.Equal(t, ' ', s.Get(7, 1), "screen is cleared")
	assert.Equal(t, ' ', s.Get(6, 0), "hidden objects are skipped")

	cell := s.GetCell(9, 4)
	assert.Equal(t, '█', cell.Rune)
	assert.Equal(t, core.ColorBrightWhite, cell.Color)
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(4, 2)
	s.DrawText(0, 0, "ab", core.ColorRed)
	s.DrawText(2, 0, "cd", core.ColorBlue)
	s.DrawText(0, 1, "ef", core.ColorDefault)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "ab")
	assert.Contains(t, lines[0], "cd")
	assert.Contains(t, lines[1], "ef")
}
