package timeaxis

import "strconv"

// Tick is a vertical time tick at screen x.
type Tick struct {
	X     float64
	Major bool
}

const (
	minTickSpacing   = 4.0
	minorTickSpacing = 35.0
)

// Ticks returns the time ticks for the window. Major ticks are placed every
// millisecond, or every second when millisecond ticks would be 4 pixels apart
// or less. Three minor ticks are added between major ticks that are at least
// 35 pixels apart.
func (a Axis) Ticks() []Tick {
	unit := NsPerMs
	dx := a.W * float64(unit) * a.tsdxrcp
	if dx <= minTickSpacing {
		unit = NsPerSec
		dx = a.W * float64(unit) * a.tsdxrcp
	}
	if dx <= minTickSpacing {
		return nil
	}

	start := max(a.Ts0/unit-1, 0) * unit
	var ticks []Tick
	for x := a.ToX(start); x <= a.W; x += dx {
		if x >= 0 {
			ticks = append(ticks, Tick{X: a.X + x, Major: true})
		}
		if dx >= minorTickSpacing {
			for i := 1; i < 4; i++ {
				mx := x + float64(i)*dx/4
				if mx >= 0 && mx <= a.W {
					ticks = append(ticks, Tick{X: a.X + mx})
				}
			}
		}
	}
	return ticks
}

// FormatMs formats ns as milliseconds with the given number of decimals.
func FormatMs(ns int64, precision int) string {
	return strconv.FormatFloat(float64(ns)/float64(NsPerMs), 'f', precision, 64)
}
