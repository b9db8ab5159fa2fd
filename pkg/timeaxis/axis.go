// Package timeaxis maps between nanosecond timestamps and pixel x
// coordinates for a visible time window.
package timeaxis

import (
	"errors"
	"fmt"
	"math"
)

const (
	NsPerUs  int64 = 1000
	NsPerMs  int64 = 1000 * NsPerUs
	NsPerSec int64 = 1000 * NsPerMs

	// MinLength is the smallest window length an axis can be built for.
	MinLength = 50 * NsPerUs
)

// ErrZeroWidth is returned when an axis is built for a zero pixel width.
var ErrZeroWidth = errors.New("axis width must be positive")

// Axis maps the window [Ts0, Ts1) onto the pixels [X, X+W).
type Axis struct {
	// X is the screen x of the left edge of the graph.
	X float64
	// W is the drawable pixel width.
	W float64
	// Ts0 and Ts1 are the start and end of the visible window.
	Ts0, Ts1 int64

	tsdx    int64   // Ts1 - Ts0 + 1
	tsdxrcp float64 // 1 / tsdx
}

// New returns an axis for the window [start, start+length) drawn at screen x
// with width w. Lengths below MinLength are clamped to MinLength.
func New(x, w float64, start, length int64) (Axis, error) {
	if !(w > 0) {
		return Axis{}, fmt.Errorf("%w: %v", ErrZeroWidth, w)
	}
	if length < MinLength {
		length = MinLength
	}
	a := Axis{X: x, W: w, Ts0: start, Ts1: start + length}
	a.tsdx = a.Ts1 - a.Ts0 + 1
	a.tsdxrcp = 1.0 / float64(a.tsdx)
	return a, nil
}

// Length returns the window length.
func (a Axis) Length() int64 {
	return a.Ts1 - a.Ts0
}

// ToX returns the x of ts relative to the left edge of the graph.
func (a Axis) ToX(ts int64) float64 {
	return a.W * float64(ts-a.Ts0) * a.tsdxrcp
}

// ToScreenX returns the screen x of ts.
func (a Axis) ToScreenX(ts int64) float64 {
	return a.X + a.ToX(ts)
}

// ToTs is the inverse of ToX.
func (a Axis) ToTs(x float64) int64 {
	return a.Ts0 + int64(math.Round(x/a.W*float64(a.tsdx)))
}

// ScreenXToTs is the inverse of ToScreenX.
func (a Axis) ScreenXToTs(x float64) int64 {
	return a.ToTs(x - a.X)
}

// DxToTs converts a pixel distance into a time distance.
func (a Axis) DxToTs(dx float64) int64 {
	return int64(math.Round(dx / a.W * float64(a.tsdx)))
}

// NsPerPixel returns the time resolution of a single pixel.
func (a Axis) NsPerPixel() float64 {
	return float64(a.tsdx) / a.W
}

// Contains returns true if ts is inside [Ts0, Ts1).
func (a Axis) Contains(ts int64) bool {
	return ts >= a.Ts0 && ts < a.Ts1
}
