package content

import (
	"time"

	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/wm"
)

// Sections are the settings pages in tab order.
var Sections = []string{"Appearance", "Desktop", "System", "About"}

const (
	sectionHeight = 40
	themeTop      = 80
	themeStep     = 40
	themeLeft     = 100
	themeWidth    = 100
	themeHeight   = 30
)

// Settings shows the theme picker and read-only desktop information. The
// callbacks connect it to the shell that owns the theme.
type Settings struct {
	Palette     *Palette
	Themes      func() []string
	Current     func() string
	SelectTheme func(name string)
	// Info returns the text lines of a non-appearance section.
	Info func(section string) []string
}

type settingsState struct {
	section int
	// width is the content width of the last render, which lays out the
	// section tabs.
	width int
}

func (s *Settings) state(w *wm.Window) *settingsState {
	if st, ok := w.Content.(*settingsState); ok {
		return st
	}
	st := &settingsState{}
	w.Content = st
	return st
}

// Section returns the page a settings window shows.
func (s *Settings) Section(w *wm.Window) string {
	return Sections[s.state(w).section]
}

func themeRect(i int) geom.Rect {
	return geom.Rect{X: themeLeft, Y: themeTop + i*themeStep, Width: themeWidth, Height: themeHeight}
}

func (s *Settings) themes() []string {
	if s.Themes == nil {
		return nil
	}
	return s.Themes()
}

func (s *Settings) HandlePointer(w *wm.Window, p input.Pointer) input.Effect {
	if p.Button != input.ButtonLeft {
		return input.Effect{}
	}
	st := s.state(w)
	if p.Local.Y < sectionHeight {
		if width := st.width / len(Sections); width > 0 {
			st.section = geom.Clamp(p.Local.X/width, 0, len(Sections)-1)
		}
		return input.Effect{}
	}
	if st.section != 0 {
		return input.Effect{}
	}
	for i, name := range s.themes() {
		if themeRect(i).Contains(p.Local) {
			if s.SelectTheme != nil {
				s.SelectTheme(name)
			}
			break
		}
	}
	return input.Effect{}
}

func (s *Settings) Render(w *wm.Window, area geom.Rect, _ time.Time) draw.List {
	st := s.state(w)
	pal := s.Palette
	st.width = area.Width
	var l draw.List
	l.Fill(area, pal.Background)

	width := area.Width / len(Sections)
	for i, name := range Sections {
		r := geom.Rect{X: area.X + i*width, Y: area.Y, Width: width, Height: sectionHeight}
		if i == st.section {
			l.Fill(r, pal.Accent)
		} else {
			l.Fill(r, pal.Panel)
		}
		l.TextIn(r, 10, name, pal.Text)
	}

	origin := area.Origin()
	if st.section == 0 {
		l.Text(origin.Add(geom.Point{X: 20, Y: sectionHeight + 12}), "Background theme", pal.Text)
		current := ""
		if s.Current != nil {
			current = s.Current()
		}
		for i, name := range s.themes() {
			r := themeRect(i)
			r.X += area.X
			r.Y += area.Y
			if name == current {
				l.Fill(r, pal.Selection)
			}
			l.Stroke(r, pal.Muted)
			l.TextIn(r, 8, name, pal.Text)
		}
		return l
	}

	if s.Info == nil {
		return l
	}
	y := area.Y + sectionHeight + 20
	for _, line := range s.Info(Sections[st.section]) {
		l.Text(geom.Point{X: area.X + 20, Y: y}, line, pal.Text)
		y += draw.LineHeight + 6
	}
	return l
}
