// Package render paints the desktop into a draw list, back to front:
// background, icons, windows, taskbar, then the open menu.
package render

import (
	"strconv"
	"time"

	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/hittest"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/wm"
)

// Renderer turns the model into frames. It is owned by the desktop loop.
type Renderer struct {
	Layout  shell.Layout
	Metrics hittest.Metrics
	Content *content.Registry
	// Pointer is the last known pointer position, used for menu hover.
	Pointer geom.Point

	themes  map[string]Theme
	current string
	theme   Theme
	palette *content.Palette
}

// New creates a renderer. palette is the palette the content registry was
// built with; it is rewritten whenever the theme changes.
func New(layout shell.Layout, metrics hittest.Metrics, registry *content.Registry, palette *content.Palette, themes map[string]Theme) *Renderer {
	r := &Renderer{
		Layout:  layout,
		Metrics: metrics,
		Content: registry,
		palette: palette,
	}
	r.SetThemes(themes)
	return r
}

// SetThemes replaces the theme table. The next frame re-resolves the
// shell's current theme against it.
func (r *Renderer) SetThemes(themes map[string]Theme) {
	r.themes = themes
	r.current = ""
	r.apply(DefaultTheme())
}

// Theme returns the colors of the last frame.
func (r *Renderer) Theme() Theme {
	return r.theme
}

func (r *Renderer) apply(t Theme) {
	r.theme = t
	if r.palette != nil {
		*r.palette = t.Palette()
	}
}

func (r *Renderer) selectTheme(name string) {
	if name == r.current && name != "" {
		return
	}
	r.current = name
	if t, ok := r.themes[name]; ok {
		r.apply(t)
		return
	}
	r.apply(DefaultTheme())
}

// Frame paints the whole screen.
func (r *Renderer) Frame(m *wm.Manager, sh *shell.Shell, now time.Time) draw.List {
	r.selectTheme(sh.Theme())
	s := m.Settings()
	var l draw.List
	l.Fill(geom.Rect{Width: s.ScreenWidth, Height: s.ScreenHeight}, r.theme.Background)

	r.icons(&l, sh.SelectedIcon)

	active, _ := m.ActiveID()
	for _, id := range m.ZOrder() {
		w := m.Window(id)
		if !w.Shown() {
			continue
		}
		r.window(&l, m, w, id == active, now)
	}

	r.taskbar(&l, m, now)
	r.menu(&l, m)
	return l
}

func (r *Renderer) icons(l *draw.List, selected int) {
	t := r.theme
	for i, icon := range r.Layout.Icons() {
		pic := icon.Picture()
		if i == selected {
			l.Fill(icon.Bounds, t.Selection)
			l.Fill(pic.Inset(8), t.IconSelected)
		} else {
			l.Fill(pic.Inset(8), t.Icon)
		}
		glyph := icon.Label[:1]
		l.Text(geom.Point{X: pic.X + (pic.Width-draw.CharWidth)/2, Y: pic.Y + (pic.Height-draw.LineHeight)/2}, glyph, t.Label)

		band := geom.Rect{X: icon.Bounds.X - 8, Y: pic.Bottom(), Width: icon.Bounds.Width + 16, Height: r.Layout.IconLabelHeight}
		label := draw.Truncate(icon.Label, band.Width)
		x := band.X + (band.Width-len([]rune(label))*draw.CharWidth)/2
		l.Text(geom.Point{X: x, Y: band.Y + (band.Height-draw.LineHeight)/2}, label, t.Label)
	}
}

func (r *Renderer) window(l *draw.List, m *wm.Manager, w *wm.Window, active bool, now time.Time) {
	t := r.theme
	mt := r.Metrics
	g := w.Geometry()

	l.Fill(g, t.Window)
	bar := mt.TitleBar(g)
	if active {
		l.Fill(bar, t.TitleBarActive)
	} else {
		l.Fill(bar, t.TitleBar)
	}
	minBtn := mt.MinimizeButton(g)
	title := geom.Rect{X: bar.X, Y: bar.Y, Width: max(0, minBtn.X-bar.X-5), Height: bar.Height}
	l.TextIn(title, 10, w.Title(), t.TitleText)
	l.Fill(mt.CloseButton(g), t.Close)
	l.Fill(mt.MaximizeButton(g), t.Maximize)
	l.Fill(minBtn, t.Minimize)

	tabs := w.Tabs()
	if tabs != nil {
		l.Fill(mt.TabStrip(g), t.Panel)
		n := tabs.Len()
		for i, child := range m.TabWindows(w.ID()) {
			tr := mt.TabRect(g, i, n)
			if i == tabs.ActiveIndex() {
				l.Fill(tr, t.TabActive)
			} else {
				l.Fill(tr, t.Tab)
			}
			l.Stroke(tr, t.Border)
			l.TextIn(tr, 6, child.Title(), t.TitleText)
		}
	}

	area := mt.ContentArea(g, tabs != nil)
	if cw := m.ContentWindow(w.ID()); cw != nil && r.Content != nil {
		l.Append(r.Content.Render(cw, area, now))
	}

	h := mt.ResizeHandle(g)
	for _, d := range []int{4, 9, 14} {
		if d >= h.Width {
			break
		}
		l.Line(geom.Point{X: h.Right() - d, Y: h.Bottom() - 2}, geom.Point{X: h.Right() - 2, Y: h.Bottom() - d}, t.Muted)
	}
	l.Stroke(g, t.Border)
}

func (r *Renderer) taskbar(l *draw.List, m *wm.Manager, now time.Time) {
	t := r.theme
	bar := r.Layout.Taskbar(m)
	l.Fill(bar.Bounds, t.Taskbar)

	if m.Menu().Kind == wm.MenuStart {
		l.Fill(bar.Start, t.ButtonActive)
	} else {
		l.Fill(bar.Start, t.Button)
	}
	l.TextIn(bar.Start, 10, "Start", t.ButtonText)

	for _, btn := range bar.Buttons {
		switch {
		case btn.Active:
			l.Fill(btn.Bounds, t.ButtonActive)
		case btn.Minimized:
			l.Stroke(btn.Bounds, t.Button)
		default:
			l.Fill(btn.Bounds, t.Button)
		}
		fg := t.ButtonText
		if btn.Minimized {
			fg = t.Muted
		}
		l.TextIn(btn.Bounds, 8, btn.Title, fg)
	}
	if bar.Hidden > 0 {
		more := "+" + strconv.Itoa(bar.Hidden)
		x := bar.Clock.X - len(more)*draw.CharWidth - 8
		l.Text(geom.Point{X: x, Y: bar.Bounds.Y + (bar.Bounds.Height-draw.LineHeight)/2}, more, t.Muted)
	}
	l.TextIn(bar.Clock, 20, r.Layout.ClockText(now), t.ButtonText)
}

func (r *Renderer) menu(l *draw.List, m *wm.Manager) {
	menu, ok := r.Layout.OpenMenu(m)
	if !ok {
		return
	}
	t := r.theme
	l.Fill(menu.Bounds, t.Menu)
	hover, _ := menu.ItemAt(r.Pointer)
	for i, it := range menu.Items {
		row := menu.ItemRect(i)
		if it.Separator {
			y := row.Y + row.Height/2
			l.Line(geom.Point{X: row.X + 8, Y: y}, geom.Point{X: row.Right() - 8, Y: y}, t.Muted)
			continue
		}
		if i == hover {
			l.Fill(row, t.MenuHover)
		}
		l.TextIn(row, 15, it.Label, t.MenuText)
	}
	l.Stroke(menu.Bounds, t.Border)
}
