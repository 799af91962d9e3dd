package core

import "fmt"

// Size is the play-field extent in world units.
type Size struct {
	W, H float64
}

// Rect returns the field as a rectangle anchored at the origin.
func (s Size) Rect() Rect {
	return Rect{W: s.W, H: s.H}
}

// ToWorld converts a normalized [0,1] field fraction to world units.
func (s Size) ToWorld(p Vec2) Vec2 {
	return Vec2{X: p.X * s.W, Y: p.Y * s.H}
}

// RegionShape selects how a Region is interpreted.
type RegionShape int

const (
	RegionRect RegionShape = iota
	RegionCircle
)

// String returns the shape name used in scenario files.
func (s RegionShape) String() string {
	switch s {
	case RegionRect:
		return "rect"
	case RegionCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Region is a stage sub-area expressed in normalized field fractions.
// For rectangles X/Y is the top-left corner and W/H the extent; for circles
// X/Y is the center and Radius is a fraction of the smaller field side.
type Region struct {
	Shape  RegionShape
	X, Y   float64
	W, H   float64
	Radius float64
}

// RectRegion builds a normalized rectangular region.
func RectRegion(x, y, w, h float64) Region {
	return Region{Shape: RegionRect, X: x, Y: y, W: w, H: h}
}

// CircleRegion builds a normalized circular region.
func CircleRegion(x, y, radius float64) Region {
	return Region{Shape: RegionCircle, X: x, Y: y, Radius: radius}
}

// WorldRect converts a rectangular region into world units.
func (r Region) WorldRect(field Size) Rect {
	return Rect{X: r.X * field.W, Y: r.Y * field.H, W: r.W * field.W, H: r.H * field.H}
}

// WorldCircle converts a circular region into world units.
func (r Region) WorldCircle(field Size) Circle {
	side := field.W
	if field.H < side {
		side = field.H
	}
	return Circle{Center: field.ToWorld(Vec2{X: r.X, Y: r.Y}), Radius: r.Radius * side}
}

// ContainsPoint reports whether a world-space point lies in the region.
func (r Region) ContainsPoint(p Vec2, field Size) bool {
	switch r.Shape {
	case RegionCircle:
		return r.WorldCircle(field).Contains(p)
	default:
		return r.WorldRect(field).Contains(p)
	}
}

// Overlaps reports whether a world-space box overlaps the region.
func (r Region) Overlaps(box Rect, field Size) bool {
	switch r.Shape {
	case RegionCircle:
		return r.WorldCircle(field).IntersectsRect(box)
	default:
		return r.WorldRect(field).Intersects(box)
	}
}

// Key returns a stable synthetic id used to track collisions with the region.
func (r Region) Key() string {
	if r.Shape == RegionCircle {
		return fmt.Sprintf("region:circle:%g,%g,%g", r.X, r.Y, r.Radius)
	}
	return fmt.Sprintf("region:rect:%g,%g,%g,%g", r.X, r.Y, r.W, r.H)
}
