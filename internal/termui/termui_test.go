package termui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/shell"
)

func TestScale(t *testing.T) {
	s := newScale(1024, 768, 128, 48)
	if s.cellW != 8 || s.cellH != 16 {
		t.Fatalf("unexpected cell size %dx%d", s.cellW, s.cellH)
	}
	if x, y := s.cell(geom.Point{X: 17, Y: 40}); x != 2 || y != 2 {
		t.Fatalf("cell = %d,%d", x, y)
	}
	if p := s.point(2, 2); p != (geom.Point{X: 20, Y: 40}) {
		t.Fatalf("point = %v", p)
	}

	x0, y0, x1, y1 := s.span(geom.Rect{X: 0, Y: 0, Width: 16, Height: 16})
	if x0 != 0 || y0 != 0 || x1 != 2 || y1 != 1 {
		t.Fatalf("span = %d,%d %d,%d", x0, y0, x1, y1)
	}
	x0, _, x1, _ = s.span(geom.Rect{X: 1000, Y: 0, Width: 100, Height: 16})
	if x0 != 125 || x1 != 128 {
		t.Fatalf("expected span clipped to the screen, got %d..%d", x0, x1)
	}
}

func TestGrid_Paint(t *testing.T) {
	red, white := draw.RGB(0xff, 0, 0), draw.RGB(0xff, 0xff, 0xff)
	g := newGrid(newScale(80, 64, 10, 4))

	var l draw.List
	l.Fill(geom.Rect{Width: 80, Height: 32}, red)
	l.Text(geom.Point{X: 8, Y: 0}, "hi", white)
	l.Stroke(geom.Rect{X: 0, Y: 32, Width: 32, Height: 32}, white)
	g.paint(l)

	if c := g.at(0, 0); c.bg != red || c.r != ' ' {
		t.Fatalf("unexpected fill cell %+v", *c)
	}
	if c := g.at(1, 0); c.r != 'h' || c.fg != white || c.bg != red {
		t.Fatalf("unexpected text cell %+v", *c)
	}
	if c := g.at(2, 0); c.r != 'i' {
		t.Fatalf("unexpected text cell %+v", *c)
	}
	if g.at(0, 2).r != '┌' || g.at(3, 3).r != '┘' {
		t.Fatalf("unexpected outline corners %q %q", g.at(0, 2).r, g.at(3, 3).r)
	}
	if g.at(5, 3).r != ' ' {
		t.Fatalf("outline leaked outside its rectangle")
	}
}

func TestGrid_TextWideRunes(t *testing.T) {
	g := newGrid(newScale(40, 16, 5, 1))
	var l draw.List
	l.Text(geom.Point{}, "日本語", draw.RGB(1, 1, 1))
	g.paint(l)

	if g.at(0, 0).r != '日' || g.at(1, 0).r != 0 || g.at(2, 0).r != '本' {
		t.Fatalf("unexpected wide rune layout %q %q %q", g.at(0, 0).r, g.at(1, 0).r, g.at(2, 0).r)
	}
	if g.at(4, 0).r != ' ' {
		t.Fatalf("expected the third rune to be clipped")
	}
}

func TestGrid_Line(t *testing.T) {
	g := newGrid(newScale(80, 64, 10, 4))
	var l draw.List
	l.Line(geom.Point{X: 0, Y: 8}, geom.Point{X: 72, Y: 8}, draw.RGB(1, 1, 1))
	l.Line(geom.Point{X: 4, Y: 16}, geom.Point{X: 4, Y: 60}, draw.RGB(1, 1, 1))
	g.paint(l)

	for x := 0; x < 10; x++ {
		if g.at(x, 0).r != '─' {
			t.Fatalf("horizontal line missing at %d", x)
		}
	}
	if g.at(0, 1).r != '│' || g.at(0, 3).r != '│' {
		t.Fatalf("vertical line missing")
	}
}

func TestMouseState(t *testing.T) {
	var m mouseState
	p := geom.Point{X: 10, Y: 10}

	evs := m.translate(p, tcell.Button1, 1)
	if len(evs) != 2 || evs[0].Kind != input.PointerMove || evs[1].Kind != input.PointerDown || evs[1].Button != input.ButtonLeft {
		t.Fatalf("unexpected press events %v", evs)
	}

	evs = m.translate(geom.Point{X: 20, Y: 10}, tcell.Button1, 2)
	if len(evs) != 1 || evs[0].Kind != input.PointerMove {
		t.Fatalf("expected drag to move only, got %v", evs)
	}

	evs = m.translate(geom.Point{X: 20, Y: 10}, tcell.ButtonNone, 3)
	if len(evs) != 1 || evs[0].Kind != input.PointerUp || evs[0].Button != input.ButtonLeft {
		t.Fatalf("unexpected release events %v", evs)
	}

	evs = m.translate(geom.Point{X: 20, Y: 10}, tcell.Button2|tcell.WheelDown, 4)
	if len(evs) != 2 || evs[0].Button != input.ButtonRight || evs[1].Button != input.WheelDown {
		t.Fatalf("unexpected right/wheel events %v", evs)
	}
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want input.Event
		ok   bool
	}{
		{"rune", tcell.KeyRune, 'x', input.Event{Kind: input.KeyDown, Key: input.KeyRune, Rune: 'x'}, true},
		{"enter", tcell.KeyEnter, 0, input.Event{Kind: input.KeyDown, Key: input.KeyEnter}, true},
		{"backspace", tcell.KeyBackspace2, 0, input.Event{Kind: input.KeyDown, Key: input.KeyBackspace}, true},
		{"start menu", tcell.KeyF1, 0, input.Event{Kind: input.Command, Action: shell.ActionToggleStartMenu}, true},
		{"log out", tcell.KeyCtrlQ, 0, input.Event{Kind: input.Command, Action: shell.ActionLogOut}, true},
		{"unmapped", tcell.KeyF12, 0, input.Event{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translateKey(tt.key, tt.r)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("translateKey = %v %v, want %v %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFrontend_SimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	f, err := New(screen, Options{Width: 1024, Height: 768})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer f.Close()
	screen.SetSize(128, 48)
	f.mu.Lock()
	f.scale = newScale(1024, 768, 128, 48)
	f.mu.Unlock()

	blue := draw.RGB(0, 0, 0xff)
	var l draw.List
	l.Fill(geom.Rect{Width: 1024, Height: 768}, blue)
	l.Text(geom.Point{X: 0, Y: 0}, "ok", draw.RGB(0xff, 0xff, 0xff))
	if err := f.Present(l); err != nil {
		t.Fatalf("Present: %v", err)
	}

	cells, w, _ := screen.GetContents()
	if w != 128 {
		t.Fatalf("unexpected width %d", w)
	}
	if string(cells[0].Runes) != "o" || string(cells[1].Runes) != "k" {
		t.Fatalf("unexpected text %q%q", cells[0].Runes, cells[1].Runes)
	}
	if _, bg, _ := cells[200].Style.Decompose(); bg != tcell.NewRGBColor(0, 0, 0xff) {
		t.Fatalf("unexpected background %v", bg)
	}

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-f.Events():
			if ev.Kind == input.KeyDown && ev.Rune == 'q' {
				return
			}
		case <-deadline:
			t.Fatalf("key event not delivered")
		}
	}
}
