package input

import (
	"testing"
	"time"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/hittest"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/wm"
)

type fakeContent struct {
	keys     []Event
	pointers []Pointer
	target   []wm.ID
	effect   Effect
}

func (f *fakeContent) AcceptsText(w *wm.Window) bool {
	return w.Kind() == wm.KindTerminal || w.Kind() == wm.KindBrowser
}

func (f *fakeContent) HandleKey(w *wm.Window, ev Event) Effect {
	f.keys = append(f.keys, ev)
	f.target = append(f.target, w.ID())
	return f.effect
}

func (f *fakeContent) HandlePointer(w *wm.Window, p Pointer) Effect {
	f.pointers = append(f.pointers, p)
	f.target = append(f.target, w.ID())
	return f.effect
}

type fixture struct {
	wm      *wm.Manager
	shell   *shell.Shell
	content *fakeContent
	router  *Router
	clock   int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		wm:      wm.NewManager(wm.DefaultSettings()),
		shell:   shell.New(shell.DefaultLayout(), []string{"blue", "dark"}, "blue"),
		content: &fakeContent{},
		clock:   10_000,
	}
	f.router = NewRouter(f.wm, f.shell, hittest.DefaultMetrics(), f.content, NewDoubleClick(400*time.Millisecond, 4))
	return f
}

// step advances the clock far enough that presses never pair up.
func (f *fixture) step() int64 {
	f.clock += 1000
	return f.clock
}

func (f *fixture) press(x, y int, b Button) bool {
	return f.router.Dispatch(Event{Kind: PointerDown, Pos: geom.Point{X: x, Y: y}, Button: b, Time: f.step()})
}

func (f *fixture) move(x, y int) {
	f.router.Dispatch(Event{Kind: PointerMove, Pos: geom.Point{X: x, Y: y}, Time: f.clock})
}

func (f *fixture) release(x, y int) {
	f.router.Dispatch(Event{Kind: PointerUp, Pos: geom.Point{X: x, Y: y}, Button: ButtonLeft, Time: f.clock})
}

func (f *fixture) check(t *testing.T) {
	t.Helper()
	if err := f.wm.Check(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestDoubleClick(t *testing.T) {
	target := hittest.Target{Kind: hittest.TitleBar, Window: 1}
	other := hittest.Target{Kind: hittest.TitleBar, Window: 2}
	p := geom.Point{X: 10, Y: 10}

	tests := []struct {
		name   string
		second hittest.Target
		pos    geom.Point
		delta  int64
		want   bool
	}{
		{"same target in time", target, p, 300, true},
		{"at the limit", target, p, 400, true},
		{"too slow", target, p, 401, false},
		{"different target", other, p, 100, false},
		{"moved too far", target, geom.Point{X: 20, Y: 10}, 100, false},
		{"within slop", target, geom.Point{X: 13, Y: 7}, 100, true},
		{"clock went backwards", target, p, -5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDoubleClick(400*time.Millisecond, 4)
			if d.Click(target, p, 1000) {
				t.Fatalf("first press cannot be a double click")
			}
			if got := d.Click(tt.second, tt.pos, 1000+tt.delta); got != tt.want {
				t.Fatalf("second press = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDoubleClick_ThirdPressStartsOver(t *testing.T) {
	d := NewDoubleClick(0, 4)
	target := hittest.Target{Kind: hittest.DesktopIcon}
	p := geom.Point{X: 1, Y: 1}
	d.Click(target, p, 0)
	if !d.Click(target, p, 100) {
		t.Fatalf("expected double click")
	}
	if d.Click(target, p, 200) {
		t.Fatalf("third press must not pair with the second")
	}
}

func TestRouter_DragMovesAndReleaseEnds(t *testing.T) {
	f := newFixture(t)
	id := f.wm.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}, "A", wm.KindTerminal)

	f.press(200, 110, ButtonLeft)
	if tx := f.wm.Transaction(); tx.Kind != wm.TxDragging || tx.WindowID != id {
		t.Fatalf("expected drag of %d, got %+v", id, tx)
	}
	f.move(300, 210)
	if got := f.wm.Window(id).Geometry().Origin(); got != (geom.Point{X: 200, Y: 200}) {
		t.Fatalf("origin = %v", got)
	}
	// Presses during a transaction are swallowed.
	if f.press(900, 600, ButtonRight) {
		t.Fatalf("press during drag must be ignored")
	}
	f.release(300, 210)
	if f.wm.Transaction().Active() {
		t.Fatalf("release must end the drag")
	}
	f.move(500, 500)
	if got := f.wm.Window(id).Geometry().Origin(); got != (geom.Point{X: 200, Y: 200}) {
		t.Fatalf("moves after release must not drag, origin = %v", got)
	}
	f.check(t)
}

func TestRouter_ResizeFromOrigin(t *testing.T) {
	f := newFixture(t)
	id := f.wm.CreateWindow(geom.Rect{X: 0, Y: 0, Width: 600, Height: 400}, "A", wm.KindTerminal)

	f.press(595, 395, ButtonLeft)
	if f.wm.Transaction().Kind != wm.TxResizing {
		t.Fatalf("expected resize, got %+v", f.wm.Transaction())
	}
	f.move(50, 50)
	if got := f.wm.Window(id).Geometry(); got.Width != 200 || got.Height != 150 {
		t.Fatalf("expected clamp to 200x150, got %v", got)
	}
	f.release(50, 50)
	f.check(t)
}

func TestRouter_TitleBarDoubleClickMaximizes(t *testing.T) {
	f := newFixture(t)
	id := f.wm.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}, "A", wm.KindTerminal)

	down := func(ms int64) {
		f.router.Dispatch(Event{Kind: PointerDown, Pos: geom.Point{X: 200, Y: 110}, Button: ButtonLeft, Time: ms})
		f.router.Dispatch(Event{Kind: PointerUp, Pos: geom.Point{X: 200, Y: 110}, Button: ButtonLeft, Time: ms + 50})
	}
	down(1000)
	down(1200)
	if !f.wm.Window(id).Maximized() {
		t.Fatalf("expected double click to maximize")
	}
	f.check(t)
}

func TestRouter_TitleBarDoubleClickRestores(t *testing.T) {
	f := newFixture(t)
	orig := geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}
	id := f.wm.CreateWindow(orig, "A", wm.KindTerminal)
	f.wm.ToggleMaximize(id)

	click := func(ms int64) {
		f.router.Dispatch(Event{Kind: PointerDown, Pos: geom.Point{X: 200, Y: 10}, Button: ButtonLeft, Time: ms})
		f.router.Dispatch(Event{Kind: PointerUp, Pos: geom.Point{X: 200, Y: 10}, Button: ButtonLeft, Time: ms + 50})
	}
	click(1000)
	if !f.wm.Window(id).Maximized() {
		t.Fatalf("a press without movement must keep the window maximized")
	}
	click(1100)
	w := f.wm.Window(id)
	if w.Maximized() || w.Geometry() != orig {
		t.Fatalf("expected restore to %v, got %v maximized=%v", orig, w.Geometry(), w.Maximized())
	}
	f.check(t)
}

func TestRouter_TitleBarClickThenMaximizeButtonRestores(t *testing.T) {
	f := newFixture(t)
	orig := geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}
	id := f.wm.CreateWindow(orig, "A", wm.KindTerminal)
	f.wm.ToggleMaximize(id)

	f.press(200, 10, ButtonLeft)
	f.release(200, 10)

	btn := hittest.DefaultMetrics().MaximizeButton(f.wm.Window(id).Geometry())
	f.press(btn.X+2, btn.Y+2, ButtonLeft)
	w := f.wm.Window(id)
	if w.Maximized() || w.Geometry() != orig {
		t.Fatalf("expected restore to %v, got %v maximized=%v", orig, w.Geometry(), w.Maximized())
	}
	f.check(t)
}

func TestRouter_DraggingMaximizedWindowDropsFlag(t *testing.T) {
	f := newFixture(t)
	id := f.wm.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}, "A", wm.KindTerminal)
	f.wm.ToggleMaximize(id)

	f.press(200, 10, ButtonLeft)
	f.move(260, 60)
	f.release(260, 60)
	w := f.wm.Window(id)
	if w.Maximized() {
		t.Fatalf("a moved window must not stay maximized")
	}
	if got := w.Geometry(); got.X != 60 || got.Y != 50 || got.Width != 1024 {
		t.Fatalf("expected the maximized size dragged to (60,50), got %v", got)
	}
	f.check(t)
}

func TestRouter_WindowControls(t *testing.T) {
	f := newFixture(t)
	a := f.wm.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}, "A", wm.KindTerminal)

	f.press(660, 110, ButtonLeft)
	if !f.wm.Window(a).Maximized() {
		t.Fatalf("maximize button did not maximize")
	}
	g := f.wm.Window(a).Geometry()
	closeBtn := hittest.DefaultMetrics().CloseButton(g)
	minBtn := hittest.DefaultMetrics().MinimizeButton(g)

	f.press(minBtn.X+2, minBtn.Y+2, ButtonLeft)
	if !f.wm.Window(a).Minimized() {
		t.Fatalf("minimize button did not minimize")
	}
	if _, ok := f.wm.ActiveID(); ok {
		t.Fatalf("expected no active window")
	}

	// The taskbar keeps a restore button for it.
	f.press(100, 745, ButtonLeft)
	if f.wm.Window(a).Minimized() {
		t.Fatalf("taskbar button did not restore")
	}
	f.press(closeBtn.X+2, closeBtn.Y+2, ButtonLeft)
	if f.wm.Window(a) != nil {
		t.Fatalf("close button did not close")
	}
	f.check(t)
}

func TestRouter_BodyClickFocusesAndForwards(t *testing.T) {
	f := newFixture(t)
	a := f.wm.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}, "A", wm.KindTerminal)
	f.wm.CreateWindow(geom.Rect{X: 600, Y: 100, Width: 300, Height: 300}, "B", wm.KindTerminal)

	f.press(150, 200, ButtonLeft)
	if id, _ := f.wm.ActiveID(); id != a {
		t.Fatalf("expected a active, got %d", id)
	}
	if z := f.wm.ZOrder(); z[len(z)-1] != a {
		t.Fatalf("expected a raised, z=%v", z)
	}
	if len(f.content.pointers) != 1 || f.content.pointers[0].Local != (geom.Point{X: 50, Y: 70}) {
		t.Fatalf("expected content-local point (50,70), got %+v", f.content.pointers)
	}
}

func TestRouter_TabStripSwitchesAndMiddleDetaches(t *testing.T) {
	f := newFixture(t)
	a := f.wm.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}, "A", wm.KindTerminal)
	b := f.wm.CreateWindow(geom.Rect{Width: 300, Height: 300}, "B", wm.KindBrowser)
	c := f.wm.CreateWindow(geom.Rect{Width: 300, Height: 300}, "C", wm.KindTerminal)
	f.wm.AddTab(a, b)
	f.wm.AddTab(a, c)

	f.press(110, 140, ButtonLeft)
	if got := f.wm.Window(a).Tabs().ActiveIndex(); got != 0 {
		t.Fatalf("expected tab 0 selected, got %d", got)
	}

	// Body clicks go to the selected tab's content.
	f.press(300, 300, ButtonLeft)
	if last := f.content.target[len(f.content.target)-1]; last != b {
		t.Fatalf("expected selected tab %d to receive the click, got %d", b, last)
	}

	f.press(230, 140, ButtonMiddle)
	if f.wm.Window(c).IsTab() {
		t.Fatalf("middle click should detach the tab")
	}
	f.check(t)
}

func TestRouter_MenuOutsideClickClosesAndRedispatches(t *testing.T) {
	f := newFixture(t)
	a := f.wm.CreateWindow(geom.Rect{X: 100, Y: 100, Width: 400, Height: 300}, "A", wm.KindTerminal)
	f.wm.CreateWindow(geom.Rect{X: 600, Y: 100, Width: 300, Height: 300}, "B", wm.KindTerminal)

	f.press(800, 600, ButtonRight)
	if f.wm.Menu().Kind != wm.MenuContext {
		t.Fatalf("right click on the desktop should open the context menu")
	}

	f.press(150, 200, ButtonLeft)
	if f.wm.Menu().Open() {
		t.Fatalf("outside click should close the menu")
	}
	if id, _ := f.wm.ActiveID(); id != a {
		t.Fatalf("the same click should reach window a, active=%d", id)
	}
}

func TestRouter_MenuItemRunsAction(t *testing.T) {
	f := newFixture(t)
	var ran []shell.Action
	f.router.OnAction = func(a shell.Action, _ *shell.Context, ok bool) {
		if ok {
			ran = append(ran, a)
		}
	}

	f.press(20, 745, ButtonLeft)
	if f.wm.Menu().Kind != wm.MenuStart {
		t.Fatalf("start button should open the start menu")
	}
	menu := f.shell.Layout.StartMenu(f.wm.Workspace())
	item := menu.ItemRect(1)
	f.press(item.X+10, item.Y+10, ButtonLeft)

	if f.wm.Menu().Open() {
		t.Fatalf("running an item must close the menu")
	}
	if len(ran) != 1 || ran[0] != shell.ActionNewFileManager {
		t.Fatalf("ran = %v", ran)
	}
	if w := f.wm.Active(); w == nil || w.Kind() != wm.KindFileManager {
		t.Fatalf("expected a file manager window")
	}
}

func TestRouter_SeparatorKeepsMenuOpen(t *testing.T) {
	f := newFixture(t)
	f.wm.OpenStartMenu()
	sep := f.shell.Layout.StartMenu(f.wm.Workspace()).ItemRect(4)
	f.press(sep.X+10, sep.Y+2, ButtonLeft)
	if f.wm.Menu().Kind != wm.MenuStart {
		t.Fatalf("separator click must be a no-op")
	}
}

func TestRouter_StartButtonClosesOpenStartMenu(t *testing.T) {
	f := newFixture(t)
	f.press(20, 745, ButtonLeft)
	f.press(20, 745, ButtonLeft)
	if f.wm.Menu().Open() {
		t.Fatalf("second start button press should close the menu")
	}
}

func TestRouter_IconDoubleClickLaunches(t *testing.T) {
	f := newFixture(t)
	click := func(ms int64) {
		f.router.Dispatch(Event{Kind: PointerDown, Pos: geom.Point{X: 60, Y: 210}, Button: ButtonLeft, Time: ms})
	}
	click(1000)
	if f.shell.SelectedIcon != 2 || f.wm.Len() != 0 {
		t.Fatalf("single click should only select, icon=%d windows=%d", f.shell.SelectedIcon, f.wm.Len())
	}
	click(1100)
	if w := f.wm.Active(); w == nil || w.Kind() != wm.KindBrowser {
		t.Fatalf("double click should launch the browser")
	}
}

func TestRouter_KeysGoToActiveTextWindow(t *testing.T) {
	f := newFixture(t)
	f.wm.CreateWindow(geom.Rect{X: 0, Y: 0, Width: 300, Height: 300}, "term", wm.KindTerminal)
	settings := f.wm.CreateWindow(geom.Rect{X: 400, Y: 0, Width: 300, Height: 300}, "settings", wm.KindSettings)

	key := Event{Kind: KeyDown, Key: KeyRune, Rune: 'x', Time: f.step()}
	if f.router.Dispatch(key) {
		t.Fatalf("settings does not take text")
	}
	f.wm.Minimize(settings)
	if !f.router.Dispatch(key) {
		t.Fatalf("terminal should take text")
	}
	if len(f.content.keys) != 1 {
		t.Fatalf("expected one key delivered, got %d", len(f.content.keys))
	}
}

func TestRouter_ContentEffects(t *testing.T) {
	f := newFixture(t)
	id := f.wm.CreateWindow(geom.Rect{X: 0, Y: 0, Width: 300, Height: 300}, "term", wm.KindTerminal)

	f.content.effect = Effect{Title: "renamed"}
	f.router.Dispatch(Event{Kind: KeyDown, Key: KeyEnter, Time: f.step()})
	if got := f.wm.Window(id).Title(); got != "renamed" {
		t.Fatalf("title = %q", got)
	}

	f.content.effect = Effect{Close: true}
	f.router.Dispatch(Event{Kind: KeyDown, Key: KeyEnter, Time: f.step()})
	if f.wm.Window(id) != nil {
		t.Fatalf("close effect should close the window")
	}
}

func TestRouter_EscapeClosesMenu(t *testing.T) {
	f := newFixture(t)
	f.wm.OpenContextMenu(geom.Point{X: 10, Y: 10})
	if !f.router.Dispatch(Event{Kind: KeyDown, Key: KeyEscape}) || f.wm.Menu().Open() {
		t.Fatalf("escape should close the menu")
	}
}

func TestRouter_CommandEvent(t *testing.T) {
	f := newFixture(t)
	if !f.router.Dispatch(Event{Kind: Command, Action: shell.ActionNewTerminal}) {
		t.Fatalf("command should run")
	}
	if f.wm.Len() != 1 {
		t.Fatalf("expected a terminal window")
	}
}
