package hittest

import (
	"testing"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/wm"
)

func newScene() Scene {
	return Scene{
		WM:      wm.NewManager(wm.DefaultSettings()),
		Layout:  shell.DefaultLayout(),
		Metrics: DefaultMetrics(),
	}
}

func pt(x, y int) geom.Point { return geom.Point{X: x, Y: y} }

func TestMetrics_ButtonsRightToLeft(t *testing.T) {
	m := DefaultMetrics()
	w := geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}

	if got := m.CloseButton(w); got != (geom.Rect{X: 677, Y: 108, Width: 15, Height: 15}) {
		t.Fatalf("close = %v", got)
	}
	if got := m.MaximizeButton(w); got.X != 677-23 {
		t.Fatalf("maximize = %v", got)
	}
	if got := m.MinimizeButton(w); got.X != 677-46 {
		t.Fatalf("minimize = %v", got)
	}
	if got := m.ResizeHandle(w); got != (geom.Rect{X: 680, Y: 480, Width: 20, Height: 20}) {
		t.Fatalf("resize = %v", got)
	}
	if got := m.ContentArea(w, true); got.Y != 155 || got.Height != 345 {
		t.Fatalf("content = %v", got)
	}
}

func TestMetrics_HandleSize(t *testing.T) {
	m := DefaultMetrics()
	m.HandleSize = 8
	w := geom.Rect{X: 0, Y: 0, Width: 200, Height: 100}
	if got := m.ResizeHandle(w); got != (geom.Rect{X: 192, Y: 92, Width: 8, Height: 8}) {
		t.Fatalf("resize = %v", got)
	}
}

func TestMetrics_TabWidth(t *testing.T) {
	m := DefaultMetrics()
	tests := []struct {
		width, n, want int
	}{
		{600, 1, 120},
		{600, 5, 120},
		{600, 6, 100},
		{600, 0, 0},
	}
	for _, tt := range tests {
		if got := m.TabWidth(geom.Rect{Width: tt.width}, tt.n); got != tt.want {
			t.Fatalf("TabWidth(%d, %d) = %d, want %d", tt.width, tt.n, got, tt.want)
		}
	}
}

func TestResolve_WindowRegions(t *testing.T) {
	s := newScene()
	id := s.WM.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}, "A", wm.KindTerminal)

	tests := []struct {
		name string
		p    geom.Point
		want Target
	}{
		{"close", pt(680, 110), Target{Kind: WindowControl, Window: id, Control: Close}},
		{"maximize", pt(660, 110), Target{Kind: WindowControl, Window: id, Control: Maximize}},
		{"minimize", pt(635, 110), Target{Kind: WindowControl, Window: id, Control: Minimize}},
		{"title bar", pt(200, 110), Target{Kind: TitleBar, Window: id}},
		{"resize", pt(695, 495), Target{Kind: ResizeHandle, Window: id}},
		{"body", pt(300, 300), Target{Kind: WindowBody, Window: id}},
		{"desktop", pt(900, 600), Target{Kind: None}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.p, s); got != tt.want {
				t.Fatalf("Resolve(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestResolve_TabStrip(t *testing.T) {
	s := newScene()
	a := s.WM.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}, "A", wm.KindTerminal)
	s.WM.AddTab(a, s.WM.CreateWindow(geom.Rect{Width: 300, Height: 300}, "B", wm.KindTerminal))
	s.WM.AddTab(a, s.WM.CreateWindow(geom.Rect{Width: 300, Height: 300}, "C", wm.KindTerminal))

	if got := Resolve(pt(110, 140), s); got != (Target{Kind: TabStrip, Window: a, Index: 0}) {
		t.Fatalf("first tab = %v", got)
	}
	if got := Resolve(pt(230, 140), s); got != (Target{Kind: TabStrip, Window: a, Index: 1}) {
		t.Fatalf("second tab = %v", got)
	}
	if got := Resolve(pt(500, 140), s); got.Kind != TitleBar {
		t.Fatalf("strip past the tabs = %v", got)
	}
	if got := Resolve(pt(300, 160), s); got.Kind != WindowBody {
		t.Fatalf("below the strip = %v", got)
	}
}

func TestResolve_FrontmostWinsOnOverlap(t *testing.T) {
	s := newScene()
	a := s.WM.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}, "A", wm.KindTerminal)
	b := s.WM.CreateWindow(geom.Rect{X: 200, Y: 200, Width: 400, Height: 300}, "B", wm.KindTerminal)
	p := pt(300, 300)

	if got := Resolve(p, s); got.Window != b {
		t.Fatalf("expected b, got %v", got)
	}
	s.WM.BringToFront(a)
	if got := Resolve(p, s); got.Window != a {
		t.Fatalf("expected a after raising it, got %v", got)
	}
	s.WM.Minimize(a)
	if got := Resolve(p, s); got.Window != b {
		t.Fatalf("minimized windows must not take hits, got %v", got)
	}
}

func TestResolve_TabsDoNotTakeHits(t *testing.T) {
	s := newScene()
	a := s.WM.CreateWindow(geom.Rect{X: 0, Y: 0, Width: 300, Height: 300}, "A", wm.KindTerminal)
	b := s.WM.CreateWindow(geom.Rect{X: 500, Y: 300, Width: 300, Height: 300}, "B", wm.KindTerminal)
	s.WM.AddTab(a, b)

	if got := Resolve(pt(600, 400), s); got.Kind != None {
		t.Fatalf("tab geometry must be ignored, got %v", got)
	}
}

func TestResolve_TaskbarBeforeWindows(t *testing.T) {
	s := newScene()
	id := s.WM.CreateWindow(geom.Rect{X: 0, Y: 500, Width: 800, Height: 400}, "tall", wm.KindTerminal)

	tests := []struct {
		p    geom.Point
		want Target
	}{
		{pt(20, 750), Target{Kind: StartButton}},
		{pt(100, 750), Target{Kind: TaskbarButton, Window: id}},
		{pt(600, 750), Target{Kind: TaskbarStrip}},
		{pt(600, 700), Target{Kind: WindowBody, Window: id}},
	}
	for _, tt := range tests {
		if got := Resolve(tt.p, s); got != tt.want {
			t.Fatalf("Resolve(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestResolve_MenusFirst(t *testing.T) {
	s := newScene()
	id := s.WM.CreateWindow(geom.Rect{X: 0, Y: 0, Width: 800, Height: 700}, "big", wm.KindTerminal)

	s.WM.OpenContextMenu(pt(100, 100))
	if got := Resolve(pt(110, 105), s); got != (Target{Kind: MenuItem, Menu: wm.MenuContext, Index: 0}) {
		t.Fatalf("context item = %v", got)
	}
	// Third row is a separator.
	if got := Resolve(pt(110, 100+60+5), s); got != (Target{Kind: MenuItem, Menu: wm.MenuContext, Index: -1}) {
		t.Fatalf("separator = %v", got)
	}
	if got := Resolve(pt(500, 500), s); got.Window != id {
		t.Fatalf("outside the menu should fall through, got %v", got)
	}

	s.WM.OpenStartMenu()
	menu := s.Layout.StartMenu(s.WM.Workspace())
	if got := Resolve(menu.ItemRect(3).Origin(), s); got != (Target{Kind: MenuItem, Menu: wm.MenuStart, Index: 3}) {
		t.Fatalf("start item = %v", got)
	}
}

func TestResolve_DesktopIcons(t *testing.T) {
	s := newScene()
	if got := Resolve(pt(50, 130), s); got != (Target{Kind: DesktopIcon, Index: 1}) {
		t.Fatalf("icon = %v", got)
	}
	s.WM.CreateWindow(geom.Rect{X: 0, Y: 0, Width: 300, Height: 300}, "cover", wm.KindTerminal)
	if got := Resolve(pt(50, 130), s); got.Kind != WindowBody {
		t.Fatalf("windows cover icons, got %v", got)
	}
}
