// Package svg writes the primitives of a frame as an SVG document.
package svg

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/felixge/tracegraph/pkg/draw"
)

// Options describe the document.
type Options struct {
	Width, Height float64
	Background    draw.Color
	// FontSize is the text size in pixels, 0 picks 13.
	FontSize float64
	// TextWidth measures text for label backgrounds. If nil, 7 pixels per
	// rune are assumed.
	TextWidth func(string) float64
}

// Write writes l to w.
func Write(w io.Writer, l *draw.List, opt Options) error {
	if opt.FontSize == 0 {
		opt.FontSize = 13
	}
	if opt.TextWidth == nil {
		opt.TextWidth = func(s string) float64 { return 7 * float64(utf8.RuneCountInString(s)) }
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" font-family="monospace" font-size="%s">`+"\n",
		num(opt.Width), num(opt.Height), num(opt.FontSize))
	if opt.Background != 0 {
		fmt.Fprintf(bw, `<rect width="100%%" height="100%%"%s/>`+"\n", fill(opt.Background))
	}
	for _, p := range l.Prims {
		writePrim(bw, p, opt)
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func writePrim(w *bufio.Writer, p draw.Prim, opt Options) {
	switch p.Kind {
	case draw.KindRect:
		fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
			num(p.X), num(p.Y), num(p.W), num(p.H), fill(p.Color))
	case draw.KindLine:
		fmt.Fprintf(w, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
			num(p.X), num(p.Y), num(p.X+p.W), num(p.Y+p.H), stroke(p.Color))
	case draw.KindOutline:
		fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s" fill="none"%s/>`+"\n",
			num(p.X), num(p.Y), num(p.W), num(p.H), stroke(p.Color))
	case draw.KindCircle:
		fmt.Fprintf(w, `<circle cx="%s" cy="%s" r="%s"%s/>`+"\n",
			num(p.X), num(p.Y), num(p.W), fill(p.Color))
	case draw.KindPolyline:
		pts := make([]string, len(p.Points))
		for i, pt := range p.Points {
			pts[i] = num(pt.X) + "," + num(pt.Y)
		}
		fmt.Fprintf(w, `<polyline points="%s" fill="none"%s/>`+"\n", strings.Join(pts, " "), stroke(p.Color))
	case draw.KindText:
		if p.Background != 0 {
			fmt.Fprintf(w, `<rect x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
				num(p.X), num(p.Y), num(opt.TextWidth(p.Text)), num(opt.FontSize), fill(p.Background))
		}
		// Prims position text by its top edge, SVG by the baseline.
		fmt.Fprintf(w, `<text x="%s" y="%s"%s>%s</text>`+"\n",
			num(p.X), num(p.Y+0.8*opt.FontSize), fill(p.Color), escape(p.Text))
	}
}

func fill(c draw.Color) string {
	return paint("fill", c)
}

func stroke(c draw.Color) string {
	return paint("stroke", c)
}

func paint(attr string, c draw.Color) string {
	s := fmt.Sprintf(` %s="%s"`, attr, c.Hex())
	if _, _, _, a := c.Channels(); a != 0xff {
		s += fmt.Sprintf(` %s-opacity="%s"`, attr, num(float64(a)/0xff))
	}
	return s
}

// num formats v with at most two decimals.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
