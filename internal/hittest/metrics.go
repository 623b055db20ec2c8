package hittest

import "github.com/1broseidon/deskshell/internal/geom"

// Metrics are the window decoration sizes shared by hit testing and
// painting.
type Metrics struct {
	TitleBarHeight int
	TabHeight      int
	ButtonSize     int
	ButtonMargin   int
	HandleSize     int
	TabMaxWidth    int
}

// DefaultMetrics returns the stock decoration sizes.
func DefaultMetrics() Metrics {
	return Metrics{
		TitleBarHeight: 30,
		TabHeight:      25,
		ButtonSize:     15,
		ButtonMargin:   8,
		HandleSize:     20,
		TabMaxWidth:    120,
	}
}

// CloseButton is the rightmost title bar button.
func (m Metrics) CloseButton(w geom.Rect) geom.Rect {
	return geom.Rect{
		X:      w.Right() - m.ButtonMargin - m.ButtonSize,
		Y:      w.Y + m.ButtonMargin,
		Width:  m.ButtonSize,
		Height: m.ButtonSize,
	}
}

// MaximizeButton sits left of the close button.
func (m Metrics) MaximizeButton(w geom.Rect) geom.Rect {
	r := m.CloseButton(w)
	r.X -= m.ButtonMargin + m.ButtonSize
	return r
}

// MinimizeButton sits left of the maximize button.
func (m Metrics) MinimizeButton(w geom.Rect) geom.Rect {
	r := m.MaximizeButton(w)
	r.X -= m.ButtonMargin + m.ButtonSize
	return r
}

func (m Metrics) TitleBar(w geom.Rect) geom.Rect {
	return geom.Rect{X: w.X, Y: w.Y, Width: w.Width, Height: m.TitleBarHeight}
}

// TabStrip is the row under the title bar of a window hosting tabs.
func (m Metrics) TabStrip(w geom.Rect) geom.Rect {
	return geom.Rect{X: w.X, Y: w.Y + m.TitleBarHeight, Width: w.Width, Height: m.TabHeight}
}

// TabWidth is the width of each of n tabs: an equal share of the window
// capped at TabMaxWidth.
func (m Metrics) TabWidth(w geom.Rect, n int) int {
	if n <= 0 {
		return 0
	}
	return min(m.TabMaxWidth, w.Width/n)
}

// TabRect returns tab i of n.
func (m Metrics) TabRect(w geom.Rect, i, n int) geom.Rect {
	tw := m.TabWidth(w, n)
	strip := m.TabStrip(w)
	return geom.Rect{X: strip.X + i*tw, Y: strip.Y, Width: tw, Height: strip.Height}
}

// ResizeHandle is the square at the bottom-right corner.
func (m Metrics) ResizeHandle(w geom.Rect) geom.Rect {
	return geom.Rect{
		X:      w.Right() - m.HandleSize,
		Y:      w.Bottom() - m.HandleSize,
		Width:  m.HandleSize,
		Height: m.HandleSize,
	}
}

// ContentArea is the window body below the title bar and, when tabbed, the
// tab strip.
func (m Metrics) ContentArea(w geom.Rect, tabbed bool) geom.Rect {
	top := m.TitleBarHeight
	if tabbed {
		top += m.TabHeight
	}
	return geom.Rect{X: w.X, Y: w.Y + top, Width: w.Width, Height: max(0, w.Height-top)}
}
