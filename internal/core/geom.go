// Package core provides fundamental types and utilities shared by the
// simulator shell. It has no Bubble Tea dependency so that drawing code stays
// pure and testable.
package core

import "math"

// Rect is an axis-aligned cell rectangle.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Lerp moves from a towards b by fraction t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// MapRange re-maps val from [inMin, inMax] onto [outMin, outMax].
// A degenerate input range maps everything to outMin.
func MapRange(val, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	return outMin + (val-inMin)*(outMax-outMin)/(inMax-inMin)
}

// RoundInt rounds to the nearest integer, halves away from zero.
func RoundInt(v float64) int {
	return int(math.Round(v))
}
