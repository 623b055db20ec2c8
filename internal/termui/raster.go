package termui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
)

// scale maps the desktop's virtual pixel screen onto terminal cells.
type scale struct {
	cellW, cellH int
	cols, rows   int
}

func newScale(width, height, cols, rows int) scale {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return scale{
		cellW: max(1, ceilDiv(width, cols)),
		cellH: max(1, ceilDiv(height, rows)),
		cols:  cols,
		rows:  rows,
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// cell returns the cell containing pixel p.
func (s scale) cell(p geom.Point) (int, int) {
	return p.X / s.cellW, p.Y / s.cellH
}

// point returns the pixel at the centre of cell (x, y).
func (s scale) point(x, y int) geom.Point {
	return geom.Point{X: x*s.cellW + s.cellW/2, Y: y*s.cellH + s.cellH/2}
}

// span returns the cells whose centres fall inside r, as a half-open range.
func (s scale) span(r geom.Rect) (x0, y0, x1, y1 int) {
	x0 = ceilDiv(max(0, r.X-s.cellW/2), s.cellW)
	y0 = ceilDiv(max(0, r.Y-s.cellH/2), s.cellH)
	x1 = ceilDiv(max(0, r.Right()-s.cellW/2), s.cellW)
	y1 = ceilDiv(max(0, r.Bottom()-s.cellH/2), s.cellH)
	return min(x0, s.cols), min(y0, s.rows), min(x1, s.cols), min(y1, s.rows)
}

type cell struct {
	r      rune
	fg, bg draw.Color
}

// grid is one rasterized frame.
type grid struct {
	scale scale
	cells []cell
}

func newGrid(s scale) *grid {
	cells := make([]cell, s.cols*s.rows)
	for i := range cells {
		cells[i].r = ' '
	}
	return &grid{scale: s, cells: cells}
}

func (g *grid) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= g.scale.cols || y >= g.scale.rows {
		return nil
	}
	return &g.cells[y*g.scale.cols+x]
}

// paint rasterizes a frame in order.
func (g *grid) paint(frame draw.List) {
	for _, p := range frame {
		switch p.Op {
		case draw.FillRect:
			g.fill(p.Rect, p.Color)
		case draw.StrokeRect:
			g.stroke(p.Rect, p.Color)
		case draw.Line:
			g.line(p.From, p.To, p.Color)
		case draw.Text:
			g.text(p.From, p.Text, p.Color)
		}
	}
}

func (g *grid) fill(r geom.Rect, c draw.Color) {
	x0, y0, x1, y1 := g.scale.span(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			*g.at(x, y) = cell{r: ' ', fg: c, bg: c}
		}
	}
}

func (g *grid) stroke(r geom.Rect, c draw.Color) {
	x0, y0, x1, y1 := g.scale.span(r)
	if x1-x0 < 2 || y1-y0 < 2 {
		g.fill(r, c)
		return
	}
	for x := x0; x < x1; x++ {
		g.glyph(x, y0, '─', c)
		g.glyph(x, y1-1, '─', c)
	}
	for y := y0; y < y1; y++ {
		g.glyph(x0, y, '│', c)
		g.glyph(x1-1, y, '│', c)
	}
	g.glyph(x0, y0, '┌', c)
	g.glyph(x1-1, y0, '┐', c)
	g.glyph(x0, y1-1, '└', c)
	g.glyph(x1-1, y1-1, '┘', c)
}

func (g *grid) line(from, to geom.Point, c draw.Color) {
	x0, y0 := g.scale.cell(from)
	x1, y1 := g.scale.cell(to)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)

	r := '─'
	switch {
	case dx == 0:
		r = '│'
	case dy != 0 && sx == sy:
		r = '╲'
	case dy != 0:
		r = '╱'
	}

	// Bresenham over cells.
	e := dx + dy
	for {
		g.glyph(x0, y0, r, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// text writes s from the cell holding the top-left of its line box,
// keeping the background already painted there.
func (g *grid) text(at geom.Point, s string, c draw.Color) {
	x, y := g.scale.cell(geom.Point{X: at.X, Y: at.Y + draw.LineHeight/2})
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > g.scale.cols {
			return
		}
		g.glyph(x, y, r, c)
		for i := 1; i < w; i++ {
			g.glyph(x+i, y, 0, c)
		}
		x += w
	}
}

func (g *grid) glyph(x, y int, r rune, c draw.Color) {
	if cl := g.at(x, y); cl != nil {
		cl.r = r
		cl.fg = c
	}
}

// show copies the grid to the screen. Continuation cells of wide runes are
// left to the terminal.
func (g *grid) show(screen tcell.Screen) {
	for y := 0; y < g.scale.rows; y++ {
		for x := 0; x < g.scale.cols; x++ {
			cl := g.cells[y*g.scale.cols+x]
			if cl.r == 0 {
				continue
			}
			style := tcell.StyleDefault.Foreground(color(cl.fg)).Background(color(cl.bg))
			screen.SetContent(x, y, cl.r, nil, style)
		}
	}
	screen.Show()
}

func color(c draw.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
