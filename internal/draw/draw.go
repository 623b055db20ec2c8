// Package draw is the output boundary of the desktop: an ordered list of
// simple primitives that a frontend rasterizes. Pixel formats and font
// rendering belong to the frontend.
package draw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/deskshell/internal/geom"
)

// Nominal text metrics. Frontends map them onto their own fonts or cells.
const (
	CharWidth  = 8
	LineHeight = 16
)

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGB builds a color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ParseColor accepts "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Pixel packs the color as 0xRRGGBB.
func (c Color) Pixel() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Op is a primitive type.
type Op int

const (
	FillRect Op = iota + 1
	StrokeRect
	Line
	Text
)

func (o Op) String() string {
	switch o {
	case FillRect:
		return "fill"
	case StrokeRect:
		return "stroke"
	case Line:
		return "line"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Primitive is one drawing instruction. Rect is used by the rectangle ops,
// From and To by Line, and From plus Text by Text, where From is the top-left
// corner of the text box.
type Primitive struct {
	Op    Op
	Rect  geom.Rect
	From  geom.Point
	To    geom.Point
	Text  string
	Color Color
}

// List is an ordered paint pass; later entries paint over earlier ones.
type List []Primitive

func (l *List) Fill(r geom.Rect, c Color) {
	if r.Empty() {
		return
	}
	*l = append(*l, Primitive{Op: FillRect, Rect: r, Color: c})
}

func (l *List) Stroke(r geom.Rect, c Color) {
	if r.Empty() {
		return
	}
	*l = append(*l, Primitive{Op: StrokeRect, Rect: r, Color: c})
}

func (l *List) Line(from, to geom.Point, c Color) {
	*l = append(*l, Primitive{Op: Line, From: from, To: to, Color: c})
}

func (l *List) Text(at geom.Point, s string, c Color) {
	if s == "" {
		return
	}
	*l = append(*l, Primitive{Op: Text, From: at, Text: s, Color: c})
}

// TextIn draws s vertically centred in r with a left inset, cut to fit.
func (l *List) TextIn(r geom.Rect, inset int, s string, c Color) {
	s = Truncate(s, r.Width-2*inset)
	y := r.Y + (r.Height-LineHeight)/2
	l.Text(geom.Point{X: r.X + inset, Y: y}, s, c)
}

// Append adds other after l.
func (l *List) Append(other List) {
	*l = append(*l, other...)
}

// Truncate cuts s to the number of nominal characters that fit in width.
func Truncate(s string, width int) string {
	n := width / CharWidth
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Clip keeps the parts of l that fall inside r. Rectangles are intersected,
// lines must lie wholly inside, and text is cut at the right edge and
// dropped when its box leaves r vertically.
func (l List) Clip(r geom.Rect) List {
	out := make(List, 0, len(l))
	for _, p := range l {
		switch p.Op {
		case FillRect, StrokeRect:
			p.Rect = p.Rect.Intersect(r)
			if p.Rect.Empty() {
				continue
			}
		case Line:
			if !inside(r, p.From) || !inside(r, p.To) {
				continue
			}
		case Text:
			if !r.Contains(p.From) || p.From.Y+LineHeight > r.Bottom() {
				continue
			}
			p.Text = Truncate(p.Text, r.Right()-p.From.X)
			if p.Text == "" {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// inside is Contains with the right and bottom edges included, which lines
// drawn along a border need.
func inside(r geom.Rect, p geom.Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}
