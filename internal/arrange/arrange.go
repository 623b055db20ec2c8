// Package arrange computes window placements for the tile and cascade
// actions. It only produces rectangles; the window manager applies them.
package arrange

import (
	"fmt"
	"math"
	"strings"

	"github.com/1broseidon/deskshell/internal/geom"
)

// Mode selects an arrangement strategy.
type Mode string

const (
	ModeGrid    Mode = "grid"    // Dynamic grid based on count.
	ModeColumns Mode = "columns" // Single row side-by-side.
	ModeRows    Mode = "rows"    // Single column stack.
	ModeCascade Mode = "cascade" // Keep sizes, offset each window diagonally.
)

// Modes lists the supported modes in display order.
var Modes = []Mode{ModeGrid, ModeColumns, ModeRows, ModeCascade}

// ParseMode converts a user supplied name to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown arrange mode %q (want grid, columns, rows or cascade)", s)
}

// Options tunes the placement.
type Options struct {
	Gap         int // pixels between and around tiled windows
	CascadeStep int // diagonal offset between cascaded windows
}

// CalculateGrid determines the grid dimensions for the given number of windows.
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows <= 0 {
		return 0, 0
	}

	// Columns first (ceiling of square root), then the rows needed.
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))
	return rows, cols
}

// Positions returns one rectangle per entry of current, in the same order.
// current carries the windows' present geometry; only cascade reads the sizes.
func Positions(mode Mode, current []geom.Rect, area geom.Rect, opts Options) ([]geom.Rect, error) {
	n := len(current)
	if n == 0 {
		return nil, nil
	}

	var rows, cols int
	switch mode {
	case ModeGrid:
		rows, cols = CalculateGrid(n)
	case ModeColumns:
		rows, cols = 1, n
	case ModeRows:
		rows, cols = n, 1
	case ModeCascade:
		return cascade(current, area, opts.CascadeStep), nil
	default:
		return nil, fmt.Errorf("unsupported arrange mode: %q", mode)
	}

	gap := opts.Gap
	if gap < 0 {
		gap = 0
	}
	cellWidth := (area.Width - (cols+1)*gap) / cols
	cellHeight := (area.Height - (rows+1)*gap) / rows
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for %s: area=%dx%d rows=%d cols=%d gap=%d",
			mode, area.Width, area.Height, rows, cols, gap,
		)
	}

	// A short last row stretches to use the full width.
	lastRow := rows - 1
	inLastRow := n - lastRow*cols
	lastWidth := cellWidth
	if inLastRow > 0 && inLastRow < cols {
		lastWidth = (area.Width - (inLastRow+1)*gap) / inLastRow
	}

	out := make([]geom.Rect, n)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		w := cellWidth
		if row == lastRow {
			w = lastWidth
		}
		out[i] = geom.Rect{
			X:      area.X + gap + col*(w+gap),
			Y:      area.Y + gap + row*(cellHeight+gap),
			Width:  w,
			Height: cellHeight,
		}
	}
	return out, nil
}

func cascade(current []geom.Rect, area geom.Rect, step int) []geom.Rect {
	if step <= 0 {
		step = 30
	}
	out := make([]geom.Rect, len(current))
	x, y := area.X+step, area.Y+step
	for i, r := range current {
		w := min(r.Width, area.Width)
		h := min(r.Height, area.Height)
		// Wrap back to the top-left once a window would spill out.
		if x+w > area.Right() || y+h > area.Bottom() {
			x, y = area.X, area.Y
		}
		out[i] = geom.Rect{X: x, Y: y, Width: w, Height: h}
		x += step
		y += step
	}
	return out
}
