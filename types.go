// Package mosaic implements a tile-driven, multi-source raster mosaic
// compositor. Given a set of pre-aligned source rasters, each optionally
// carrying an alpha mask, a region-of-interest mask, and a no-data value
// range, it produces destination tiles covering the union of source
// bounds by combining contributing source pixels at each destination
// location under one of two compositing modes: OVERLAY (first accepting
// source wins) or BLEND (weighted mean of all contributing sources).
package mosaic

import "fmt"

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle of pixel coordinates. Min is inclusive,
// Max is exclusive, matching the stdlib image.Rectangle convention.
type Rect struct {
	Min, Max Point
}

// NewRect builds a Rect from an origin and dimensions.
func NewRect(x, y, width, height int) Rect {
	return Rect{Min: Point{x, y}, Max: Point{x + width, y + height}}
}

// Width returns the width of the rectangle. Zero for an empty rectangle.
func (r Rect) Width() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Max.X - r.Min.X
}

// Height returns the height of the rectangle. Zero for an empty rectangle.
func (r Rect) Height() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Max.Y - r.Min.Y
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// Contains returns true if the point (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y
}

// Area returns the area of the rectangle.
func (r Rect) Area() int64 {
	if r.IsEmpty() {
		return 0
	}
	return int64(r.Width()) * int64(r.Height())
}

// Union returns the smallest rectangle containing both r and other. An
// empty operand is ignored; Union of two empty rectangles is empty.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return Rect{
		Min: Point{min(r.Min.X, other.Min.X), min(r.Min.Y, other.Min.Y)},
		Max: Point{max(r.Max.X, other.Max.X), max(r.Max.Y, other.Max.Y)},
	}
}

// Intersect returns the overlapping region of r and other. The result
// IsEmpty if the rectangles do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	out := Rect{
		Min: Point{max(r.Min.X, other.Min.X), max(r.Min.Y, other.Min.Y)},
		Max: Point{min(r.Max.X, other.Max.X), min(r.Max.Y, other.Max.Y)},
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
