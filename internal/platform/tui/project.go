package tui

import (
	"math"

	"github.com/vovakirdan/rulestage/internal/core"
)

// Projection maps the play-field onto a grid of terminal cells.
type Projection struct {
	Field      core.Size
	Cols, Rows int
}

// CellX returns the column of a world x coordinate.
func (p Projection) CellX(x float64) int {
	return int(math.Floor(x / p.Field.W * float64(p.Cols)))
}

// CellY returns the row of a world y coordinate.
func (p Projection) CellY(y float64) int {
	return int(math.Floor(y / p.Field.H * float64(p.Rows)))
}

// CellRect returns the cells covered by a world rectangle. Every non-empty
// rectangle covers at least one cell.
func (p Projection) CellRect(r core.Rect) (x, y, w, h int) {
	x, y = p.CellX(r.X), p.CellY(r.Y)
	w = int(math.Ceil(r.Right()/p.Field.W*float64(p.Cols))) - x
	h = int(math.Ceil(r.Bottom()/p.Field.H*float64(p.Rows))) - y
	return x, y, max(w, 1), max(h, 1)
}

// ToWorld returns the world position at the center of a cell.
func (p Projection) ToWorld(col, row int) core.Vec2 {
	return core.Vec2{
		X: (float64(col) + 0.5) / float64(p.Cols) * p.Field.W,
		Y: (float64(row) + 0.5) / float64(p.Rows) * p.Field.H,
	}
}

// Inside reports whether a cell lies on the field.
func (p Projection) Inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < p.Cols && row < p.Rows
}
