package content

import (
	"strings"
	"time"

	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/wm"
)

// HomePage is where new browser windows start.
const HomePage = "https://amos-os.org"

const (
	browserToolbar = 40
	browserButton  = 30
)

type page struct {
	title string
	body  []string
}

var pages = map[string]page{
	HomePage: {
		title: "AMOS Desktop",
		body: []string{
			"Welcome to the AMOS desktop.",
			"",
			"Windows can be dragged by their title bar, resized from the",
			"bottom-right corner and grouped into tabs.",
			"",
			"Try https://amos-os.org/docs or https://amos-os.org/about.",
		},
	},
	HomePage + "/docs": {
		title: "Documentation",
		body: []string{
			"Keyboard: type in the terminal, Escape closes menus.",
			"Mouse: double-click a title bar to maximize,",
			"middle-click a tab to detach it.",
		},
	},
	HomePage + "/about": {
		title: "About",
		body: []string{"A small desktop shell."},
	},
}

// Browser shows builtin pages behind an editable address bar.
type Browser struct {
	Palette *Palette
}

type browserState struct {
	url     string
	input   []rune
	cursor  int
	editing bool
	back    []string
}

func (b *Browser) state(w *wm.Window) *browserState {
	if st, ok := w.Content.(*browserState); ok {
		return st
	}
	st := &browserState{url: HomePage, input: []rune(HomePage)}
	st.cursor = len(st.input)
	w.Content = st
	return st
}

// URL returns the page a browser window shows.
func (b *Browser) URL(w *wm.Window) string {
	return b.state(w).url
}

// normalizeURL adds a scheme and drops a trailing slash.
func normalizeURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return HomePage
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	return strings.TrimSuffix(s, "/")
}

func (b *Browser) navigate(st *browserState, url string, record bool) input.Effect {
	url = normalizeURL(url)
	if record && url != st.url {
		st.back = append(st.back, st.url)
	}
	st.url = url
	st.input = []rune(url)
	st.cursor = len(st.input)
	st.editing = false
	return input.Effect{Title: lookupPage(url).title}
}

func lookupPage(url string) page {
	if p, ok := pages[url]; ok {
		return p
	}
	return page{title: "Not Found", body: []string{"The page " + url + " could not be found."}}
}

// AcceptsText is true while the address bar has focus.
func (b *Browser) AcceptsText(w *wm.Window) bool {
	return b.state(w).editing
}

func (b *Browser) HandleKey(w *wm.Window, ev input.Event) input.Effect {
	st := b.state(w)
	switch ev.Key {
	case input.KeyRune:
		if ev.Rune >= 0x20 && ev.Rune != 0x7f {
			st.input = insertRune(st.input, st.cursor, ev.Rune)
			st.cursor++
		}
	case input.KeyBackspace:
		if st.cursor > 0 {
			st.input = append(st.input[:st.cursor-1], st.input[st.cursor:]...)
			st.cursor--
		}
	case input.KeyDelete:
		if st.cursor < len(st.input) {
			st.input = append(st.input[:st.cursor], st.input[st.cursor+1:]...)
		}
	case input.ArrowLeft:
		st.cursor = max(0, st.cursor-1)
	case input.ArrowRight:
		st.cursor = min(len(st.input), st.cursor+1)
	case input.KeyHome:
		st.cursor = 0
	case input.KeyEnd:
		st.cursor = len(st.input)
	case input.KeyEscape:
		st.input = []rune(st.url)
		st.cursor = len(st.input)
		st.editing = false
	case input.KeyEnter:
		return b.navigate(st, string(st.input), true)
	}
	return input.Effect{}
}

func toolbarButton(i int) geom.Rect {
	return geom.Rect{X: 5 + i*(browserButton+5), Y: 5, Width: browserButton, Height: browserButton}
}

func urlField(width int) geom.Rect {
	x := toolbarButton(3).X
	return geom.Rect{X: x, Y: 5, Width: max(0, width-x-5), Height: browserButton}
}

// Navigate loads url as if typed into the address bar.
func (b *Browser) Navigate(w *wm.Window, url string) input.Effect {
	return b.navigate(b.state(w), url, true)
}

func (b *Browser) HandlePointer(w *wm.Window, p input.Pointer) input.Effect {
	if p.Button != input.ButtonLeft {
		return input.Effect{}
	}
	st := b.state(w)
	switch {
	case toolbarButton(0).Contains(p.Local):
		if n := len(st.back); n > 0 {
			prev := st.back[n-1]
			st.back = st.back[:n-1]
			return b.navigate(st, prev, false)
		}
	case toolbarButton(1).Contains(p.Local):
		return b.navigate(st, st.url, false)
	case toolbarButton(2).Contains(p.Local):
		return b.navigate(st, HomePage, true)
	case p.Local.Y < browserToolbar && p.Local.X >= toolbarButton(3).X:
		st.editing = true
		field := toolbarButton(3).X + 5
		st.cursor = geom.Clamp((p.Local.X-field)/draw.CharWidth, 0, len(st.input))
	default:
		st.editing = false
	}
	return input.Effect{}
}

func (b *Browser) Render(w *wm.Window, area geom.Rect, now time.Time) draw.List {
	st := b.state(w)
	pal := b.Palette
	var l draw.List
	l.Fill(area, pal.Background)

	bar := geom.Rect{X: area.X, Y: area.Y, Width: area.Width, Height: browserToolbar}
	l.Fill(bar, pal.Panel)
	for i, label := range []string{"<", "R", "H"} {
		r := toolbarButton(i)
		r.X += area.X
		r.Y += area.Y
		l.Fill(r, pal.Accent)
		l.TextIn(r, (browserButton-draw.CharWidth)/2, label, pal.Text)
	}

	field := urlField(area.Width)
	field.X += area.X
	field.Y += area.Y
	l.Fill(field, pal.Background)
	if st.editing {
		l.Stroke(field, pal.Accent)
	} else {
		l.Stroke(field, pal.Muted)
	}
	l.TextIn(field, 5, string(st.input), pal.Text)
	if st.editing && (now.UnixMilli()/cursorBlink.Milliseconds())%2 == 0 {
		x := field.X + 5 + st.cursor*draw.CharWidth
		l.Fill(geom.Rect{X: x, Y: field.Y + 7, Width: 2, Height: draw.LineHeight}, pal.Text)
	}

	pg := lookupPage(st.url)
	y := area.Y + browserToolbar + 15
	l.Text(geom.Point{X: area.X + 20, Y: y}, pg.title, pal.Accent)
	y += 2 * draw.LineHeight
	for _, line := range pg.body {
		l.Text(geom.Point{X: area.X + 20, Y: y}, line, pal.Text)
		y += draw.LineHeight + 4
	}
	return l
}
