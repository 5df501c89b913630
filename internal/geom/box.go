// Package geom implements the axis-aligned box primitives that the spatial
// formula evaluator composes into higher-level predicates.
package geom

import "math"

// Box is an axis-aligned rectangle with its top-left corner at (X, Y). A box
// is empty when W <= 0 or H <= 0.
type Box struct {
	X, Y, W, H float64
}

// Empty reports whether b has zero or negative area.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// Intersect returns the intersection of a and b. If the two boxes do not
// overlap (or either is already empty), the result is the zero Box, which
// satisfies Empty().
//
// Emptiness uses strict inequality on the computed span so that boxes which
// only touch at an edge are not treated as overlapping.
func Intersect(a, b Box) Box {
	x := math.Max(a.X, b.X)
	y := math.Max(a.Y, b.Y)
	w := math.Min(a.X+a.W, b.X+b.W) - x
	h := math.Min(a.Y+a.H, b.Y+b.H) - y

	if w <= 0 || h <= 0 {
		return Box{}
	}

	return Box{X: x, Y: y, W: w, H: h}
}
