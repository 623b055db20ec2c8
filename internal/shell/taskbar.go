package shell

import (
	"time"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/wm"
)

// TaskButton is the taskbar entry of one top-level window.
type TaskButton struct {
	Window    wm.ID
	Title     string
	Bounds    geom.Rect
	Active    bool
	Minimized bool
}

// Bar is the laid out taskbar.
type Bar struct {
	Bounds  geom.Rect
	Start   geom.Rect
	Buttons []TaskButton
	Clock   geom.Rect
	// Hidden counts windows whose buttons did not fit before the clock.
	Hidden int
}

// Taskbar lays out the strip below the workspace. Windows are listed in
// creation order; buttons that would reach into the clock are left out.
func (l Layout) Taskbar(m *wm.Manager) Bar {
	s := m.Settings()
	ws := m.Workspace()
	bar := Bar{Bounds: geom.Rect{X: 0, Y: ws.Bottom(), Width: s.ScreenWidth, Height: s.ScreenHeight - ws.Bottom()}}

	const pad = 5
	bar.Start = geom.Rect{X: pad, Y: bar.Bounds.Y + pad, Width: l.StartButtonWidth, Height: bar.Bounds.Height - 2*pad}
	bar.Clock = geom.Rect{X: bar.Bounds.Right() - l.ClockWidth, Y: bar.Bounds.Y, Width: l.ClockWidth, Height: bar.Bounds.Height}

	active, _ := m.ActiveID()
	x := bar.Start.Right() + l.ButtonSpacing
	for _, w := range m.TopLevel() {
		r := geom.Rect{X: x, Y: bar.Start.Y, Width: l.ButtonWidth, Height: bar.Start.Height}
		if r.Right() > bar.Clock.X {
			bar.Hidden++
			continue
		}
		bar.Buttons = append(bar.Buttons, TaskButton{
			Window:    w.ID(),
			Title:     w.Title(),
			Bounds:    r,
			Active:    w.ID() == active,
			Minimized: w.Minimized(),
		})
		x += l.ButtonWidth + l.ButtonSpacing
	}
	return bar
}

// ButtonAt returns the taskbar button under p.
func (b Bar) ButtonAt(p geom.Point) (TaskButton, bool) {
	for _, btn := range b.Buttons {
		if btn.Bounds.Contains(p) {
			return btn, true
		}
	}
	return TaskButton{}, false
}

// ClockText formats the frame time for the clock.
func (l Layout) ClockText(now time.Time) string {
	format := l.ClockFormat
	if format == "" {
		format = "15:04"
	}
	return now.Format(format)
}
