// Package draw describes the primitives a frame produces. Nothing in here
// paints anything; a renderer walks a List and draws each Prim.
package draw

import "fmt"

// Color is a packed 0xAARRGGBB color.
type Color uint32

// RGBA returns the packed color for the given channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Channels returns the red, green, blue and alpha channels of c.
func (c Color) Channels() (r, g, b, a uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c), uint8(c >> 24)
}

// WithAlpha returns c with its alpha channel replaced by a.
func (c Color) WithAlpha(a uint8) Color {
	return c&0x00ffffff | Color(a)<<24
}

// Complement returns the RGB complement of c, keeping its alpha.
func (c Color) Complement() Color {
	return c ^ 0x00ffffff
}

// Hex returns c as a "#rrggbb" string.
func (c Color) Hex() string {
	r, g, b, _ := c.Channels()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Kind is the type of a primitive.
type Kind uint8

const (
	KindRect Kind = iota
	KindLine
	KindOutline
	KindText
	KindPolyline
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "rect"
	case KindLine:
		return "line"
	case KindOutline:
		return "outline"
	case KindText:
		return "text"
	case KindPolyline:
		return "polyline"
	case KindCircle:
		return "circle"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Point is a position in pixel space.
type Point struct {
	X, Y float64
}

// Prim is a single drawable primitive.
//
// Rect and Outline use X, Y, W, H. Line goes from (X, Y) to (X+W, Y+H).
// Text is drawn at (X, Y), with a background when Background is set.
// Circle is centered on (X, Y) with radius W. Polyline uses Points.
type Prim struct {
	Kind       Kind
	X, Y, W, H float64
	Color      Color
	Text       string
	Background Color
	Points     []Point
}

// List collects the primitives of a frame in draw order.
type List struct {
	Prims []Prim
}

// Rect adds a filled rectangle. Negative widths are flipped, and rectangles
// that are at most one pixel wide become vertical lines.
func (l *List) Rect(x, w, y, h float64, c Color) {
	if w < 0 {
		x += w
		w = -w
	}
	if w <= 1 {
		l.Prims = append(l.Prims, Prim{Kind: KindLine, X: x, Y: y - 0.5, H: h, Color: c})
		return
	}
	l.Prims = append(l.Prims, Prim{Kind: KindRect, X: x, Y: y, W: w, H: h, Color: c})
}

// Fill adds a filled rectangle without the line degeneration of Rect.
func (l *List) Fill(x, y, w, h float64, c Color) {
	l.Prims = append(l.Prims, Prim{Kind: KindRect, X: x, Y: y, W: w, H: h, Color: c})
}

// Outline adds an unfilled rectangle spanning min to max.
func (l *List) Outline(min, max Point, c Color) {
	l.Prims = append(l.Prims, Prim{Kind: KindOutline, X: min.X, Y: min.Y, W: max.X - min.X, H: max.Y - min.Y, Color: c})
}

// Text adds a text label. A zero bg draws no background.
func (l *List) Text(x, y float64, s string, c, bg Color) {
	l.Prims = append(l.Prims, Prim{Kind: KindText, X: x, Y: y, Text: s, Color: c, Background: bg})
}

// Polyline adds an open polyline through pts.
func (l *List) Polyline(pts []Point, c Color) {
	if len(pts) == 0 {
		return
	}
	l.Prims = append(l.Prims, Prim{Kind: KindPolyline, Points: pts, Color: c})
}

// Circle adds a filled circle.
func (l *List) Circle(x, y, radius float64, c Color) {
	l.Prims = append(l.Prims, Prim{Kind: KindCircle, X: x, Y: y, W: radius, Color: c})
}

// Len returns the number of primitives.
func (l *List) Len() int {
	return len(l.Prims)
}

// Count returns the number of primitives of kind k.
func (l *List) Count(k Kind) int {
	var n int
	for _, p := range l.Prims {
		if p.Kind == k {
			n++
		}
	}
	return n
}

// Rect is an axis aligned rectangle used for hit testing.
type Rect struct {
	Min, Max Point
}

// Empty reports whether r has never been set.
func (r Rect) Empty() bool {
	return r == Rect{}
}

// Contains reports whether p is inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// NewRect returns the rectangle at (x, y) with size (w, h).
func NewRect(x, y, w, h float64) Rect {
	return Rect{Min: Point{x, y}, Max: Point{x + w, y + h}}
}
