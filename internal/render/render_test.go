package render

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/hittest"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/wm"
)

var frameTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newScene(themes map[string]Theme, current string) (*Renderer, *wm.Manager, *shell.Shell, *content.Palette) {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	palette := &content.Palette{}
	registry := content.NewRegistry(palette, nil)
	layout := shell.DefaultLayout()
	r := New(layout, hittest.DefaultMetrics(), registry, palette, themes)
	return r, wm.NewManager(wm.DefaultSettings()), shell.New(layout, names, current), palette
}

func hasFill(l draw.List, r geom.Rect, c draw.Color) bool {
	for _, p := range l {
		if p.Op == draw.FillRect && p.Rect == r && p.Color == c {
			return true
		}
	}
	return false
}

func TestThemeKeysMatchConfig(t *testing.T) {
	if got, want := strings.Join(ColorKeys(), ","), strings.Join(config.ThemeColorKeys, ","); got != want {
		t.Fatalf("color keys differ:\nrender: %s\nconfig: %s", got, want)
	}
}

func TestParseThemes_Builtins(t *testing.T) {
	themes, err := ParseThemes(config.BuiltinThemes())
	if err != nil {
		t.Fatalf("ParseThemes: %v", err)
	}
	if themes["blue"] != DefaultTheme() {
		t.Fatalf("builtin blue differs from the default theme")
	}
	if themes["dark"].Taskbar != draw.RGB(0x0a, 0x0a, 0x0a) {
		t.Fatalf("unexpected dark taskbar %v", themes["dark"].Taskbar)
	}
}

func TestParseTheme_Errors(t *testing.T) {
	tests := []struct {
		name   string
		colors map[string]string
		want   string
	}{
		{"unknown key", map[string]string{"chrome": "#ffffff"}, "unknown theme color"},
		{"bad hex", map[string]string{"background": "blue"}, "background"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTheme(tt.colors)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestFrame_BackgroundFirst(t *testing.T) {
	r, m, sh, _ := newScene(map[string]Theme{"blue": DefaultTheme()}, "blue")
	l := r.Frame(m, sh, frameTime)
	if len(l) == 0 {
		t.Fatalf("empty frame")
	}
	want := geom.Rect{Width: 1024, Height: 768}
	if l[0].Op != draw.FillRect || l[0].Rect != want || l[0].Color != DefaultTheme().Background {
		t.Fatalf("unexpected first primitive %+v", l[0])
	}
}

func TestFrame_Windows(t *testing.T) {
	theme := DefaultTheme()
	r, m, sh, _ := newScene(map[string]Theme{"blue": theme}, "blue")
	metrics := hittest.DefaultMetrics()

	back := m.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}, "Back", wm.KindDefault)
	front := m.CreateWindow(geom.Rect{X: 300, Y: 200, Width: 400, Height: 300}, "Front", wm.KindDefault)
	hidden := m.CreateWindow(geom.Rect{X: 50, Y: 50, Width: 300, Height: 200}, "Hidden", wm.KindDefault)
	m.Minimize(hidden)
	m.SetActive(front)

	l := r.Frame(m, sh, frameTime)

	frontBar := metrics.TitleBar(m.Window(front).Geometry())
	backBar := metrics.TitleBar(m.Window(back).Geometry())
	if !hasFill(l, frontBar, theme.TitleBarActive) {
		t.Fatalf("active window title bar not painted active")
	}
	if !hasFill(l, backBar, theme.TitleBar) {
		t.Fatalf("inactive window title bar not painted inactive")
	}
	if hasFill(l, m.Window(hidden).Geometry(), theme.Window) {
		t.Fatalf("minimized window was painted")
	}

	// The front window is painted after the back one.
	backAt, frontAt := -1, -1
	for i, p := range l {
		if p.Op != draw.FillRect || p.Color != theme.Window {
			continue
		}
		switch p.Rect {
		case m.Window(back).Geometry():
			backAt = i
		case m.Window(front).Geometry():
			frontAt = i
		}
	}
	if backAt < 0 || frontAt < 0 || backAt > frontAt {
		t.Fatalf("unexpected paint order back=%d front=%d", backAt, frontAt)
	}
}

func TestFrame_Tabs(t *testing.T) {
	theme := DefaultTheme()
	r, m, sh, _ := newScene(map[string]Theme{"blue": theme}, "blue")
	metrics := hittest.DefaultMetrics()

	parent := m.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}, "Parent", wm.KindDefault)
	child := m.CreateWindow(geom.Rect{X: 0, Y: 0, Width: 400, Height: 300}, "Child", wm.KindDefault)
	m.AddTab(parent, child)

	l := r.Frame(m, sh, frameTime)
	g := m.Window(parent).Geometry()
	if !hasFill(l, metrics.TabStrip(g), theme.Panel) {
		t.Fatalf("tab strip not painted")
	}
	if !hasFill(l, metrics.TabRect(g, 0, 1), theme.TabActive) {
		t.Fatalf("selected tab not highlighted")
	}
}

func TestFrame_TaskbarHiddenCount(t *testing.T) {
	r, m, sh, _ := newScene(map[string]Theme{"blue": DefaultTheme()}, "blue")
	for i := 0; i < 10; i++ {
		m.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 300, Height: 200}, "Window "+strconv.Itoa(i), wm.KindDefault)
	}
	bar := sh.Layout.Taskbar(m)
	if bar.Hidden == 0 {
		t.Fatalf("expected some buttons to overflow")
	}

	l := r.Frame(m, sh, frameTime)
	want := "+" + strconv.Itoa(bar.Hidden)
	for _, p := range l {
		if p.Op == draw.Text && p.Text == want {
			return
		}
	}
	t.Fatalf("hidden count %q not painted", want)
}

func TestFrame_MenuHover(t *testing.T) {
	theme := DefaultTheme()
	r, m, sh, _ := newScene(map[string]Theme{"blue": theme}, "blue")
	m.OpenStartMenu()

	menu := sh.Layout.StartMenu(m.Workspace())
	row := menu.ItemRect(0)
	r.Pointer = geom.Point{X: row.X + row.Width/2, Y: row.Y + row.Height/2}

	l := r.Frame(m, sh, frameTime)
	if !hasFill(l, row, theme.MenuHover) {
		t.Fatalf("hovered menu row not highlighted")
	}
	if !hasFill(l, menu.Bounds, theme.Menu) {
		t.Fatalf("menu background not painted")
	}
}

func TestFrame_ThemeUpdatesPalette(t *testing.T) {
	red, err := ParseTheme(map[string]string{"content": "#aa0000", "background": "#110000"})
	if err != nil {
		t.Fatalf("ParseTheme: %v", err)
	}
	r, m, sh, palette := newScene(map[string]Theme{"blue": DefaultTheme(), "red": red}, "red")

	l := r.Frame(m, sh, frameTime)
	if l[0].Color != draw.RGB(0x11, 0, 0) {
		t.Fatalf("expected red background, got %v", l[0].Color)
	}
	if palette.Background != draw.RGB(0xaa, 0, 0) {
		t.Fatalf("expected content palette to follow the theme, got %v", palette.Background)
	}

	sh.SetTheme("blue")
	r.Frame(m, sh, frameTime)
	if palette.Background != DefaultTheme().Content {
		t.Fatalf("expected palette back to blue, got %v", palette.Background)
	}
}
