package input

import (
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/hittest"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/wm"
)

// Effect is what content asks of the window manager after handling input.
type Effect struct {
	// Close requests that the content's window be closed.
	Close bool
	// Title, when set, renames the content's window.
	Title string
}

// ContentHandler is the content side of input: text editing and clicks
// inside a window body. Implementations only touch the window's own
// content state.
type ContentHandler interface {
	AcceptsText(w *wm.Window) bool
	HandleKey(w *wm.Window, ev Event) Effect
	HandlePointer(w *wm.Window, p Pointer) Effect
}

// Router applies input events to the desktop in a fixed precedence: open
// menus, the taskbar, windows front to back, desktop icons.
type Router struct {
	wm      *wm.Manager
	shell   *shell.Shell
	metrics hittest.Metrics
	content ContentHandler
	clicks  *DoubleClick

	// OnAction, when set, is called after every executed shell action.
	OnAction func(a shell.Action, ctx *shell.Context, ok bool)
}

// NewRouter wires a router to the scene it drives. content may be nil.
func NewRouter(m *wm.Manager, sh *shell.Shell, metrics hittest.Metrics, content ContentHandler, clicks *DoubleClick) *Router {
	if clicks == nil {
		clicks = NewDoubleClick(0, 4)
	}
	return &Router{wm: m, shell: sh, metrics: metrics, content: content, clicks: clicks}
}

// SetMetrics replaces the decoration sizes after a config reload.
func (r *Router) SetMetrics(m hittest.Metrics) {
	r.metrics = m
}

// Scene returns the hit test view of the desktop.
func (r *Router) Scene() hittest.Scene {
	return hittest.Scene{WM: r.wm, Layout: r.shell.Layout, Metrics: r.metrics}
}

// Dispatch applies one event and reports whether the scene may have changed.
func (r *Router) Dispatch(ev Event) bool {
	switch ev.Kind {
	case PointerDown:
		if r.wm.Transaction().Active() {
			return false
		}
		return r.pointerDown(ev)
	case PointerMove:
		if !r.wm.Transaction().Active() {
			return false
		}
		r.wm.UpdateTransaction(ev.Pos)
		return true
	case PointerUp:
		return r.wm.EndTransaction()
	case KeyDown:
		return r.keyDown(ev)
	case Command:
		return r.Execute(ev.Action, ev.Pos, ev.Time)
	default:
		return false
	}
}

// Execute runs a shell action through the command table.
func (r *Router) Execute(a shell.Action, at geom.Point, ms int64) bool {
	ctx := &shell.Context{WM: r.wm, Shell: r.shell, At: at, Now: Event{Time: ms}.At()}
	ok := shell.Execute(a, ctx)
	if r.OnAction != nil {
		r.OnAction(a, ctx, ok)
	}
	return ok
}

func (r *Router) pointerDown(ev Event) bool {
	target := hittest.Resolve(ev.Pos, r.Scene())

	if menu := r.wm.Menu(); menu.Open() && target.Kind != hittest.MenuItem {
		r.wm.CloseMenu()
		r.clicks.Reset()
		// The start button would reopen the menu it just closed.
		if target.Kind == hittest.StartButton && menu.Kind == wm.MenuStart {
			return true
		}
		r.pointerDown(ev)
		return true
	}

	double := false
	if ev.Button == ButtonLeft {
		double = r.clicks.Click(target, ev.Pos, ev.Time)
	}

	switch target.Kind {
	case hittest.MenuItem:
		return r.menuItem(target, ev)
	case hittest.StartButton:
		r.wm.ToggleStartMenu()
		return true
	case hittest.TaskbarButton:
		return r.wm.Restore(target.Window)
	case hittest.TaskbarStrip:
		return false
	case hittest.WindowControl:
		return r.control(target)
	case hittest.TitleBar:
		r.focus(target.Window)
		if ev.Button != ButtonLeft {
			return true
		}
		if double {
			r.wm.ToggleMaximize(target.Window)
			return true
		}
		r.wm.BeginDrag(target.Window, ev.Pos)
		return true
	case hittest.ResizeHandle:
		r.focus(target.Window)
		if ev.Button == ButtonLeft {
			r.wm.BeginResize(target.Window)
		}
		return true
	case hittest.TabStrip:
		if ev.Button == ButtonMiddle {
			return r.wm.RemoveTab(target.Window, target.Index)
		}
		r.wm.SwitchTab(target.Window, target.Index)
		r.focus(target.Window)
		return true
	case hittest.WindowBody:
		r.focus(target.Window)
		r.forwardPointer(target.Window, ev, double)
		return true
	case hittest.DesktopIcon:
		if ev.Button == ButtonRight {
			r.wm.OpenContextMenu(ev.Pos)
			return true
		}
		r.shell.SelectedIcon = target.Index
		if double {
			icons := r.shell.Layout.Icons()
			r.Execute(icons[target.Index].Action, ev.Pos, ev.Time)
		}
		return true
	default:
		if ev.Button == ButtonRight {
			r.wm.OpenContextMenu(ev.Pos)
			return true
		}
		if r.shell.SelectedIcon >= 0 {
			r.shell.SelectedIcon = -1
			return true
		}
		return false
	}
}

func (r *Router) menuItem(target hittest.Target, ev Event) bool {
	if target.Index < 0 || ev.Button != ButtonLeft {
		return false
	}
	menu, ok := r.shell.Layout.OpenMenu(r.wm)
	if !ok || target.Index >= len(menu.Items) {
		return false
	}
	action := menu.Items[target.Index].Action
	at := r.wm.Menu().At
	r.wm.CloseMenu()
	r.Execute(action, at, ev.Time)
	return true
}

func (r *Router) control(target hittest.Target) bool {
	switch target.Control {
	case hittest.Close:
		return r.wm.CloseWindow(target.Window)
	case hittest.Maximize:
		return r.wm.ToggleMaximize(target.Window)
	case hittest.Minimize:
		return r.wm.Minimize(target.Window)
	default:
		return false
	}
}

func (r *Router) focus(id wm.ID) {
	r.wm.SetActive(id)
	r.wm.BringToFront(id)
}

func (r *Router) forwardPointer(id wm.ID, ev Event, double bool) {
	if r.content == nil {
		return
	}
	host := r.wm.Window(id)
	target := r.wm.ContentWindow(id)
	area := r.metrics.ContentArea(host.Geometry(), host.Tabs() != nil)
	if !area.Contains(ev.Pos) {
		return
	}
	eff := r.content.HandlePointer(target, Pointer{
		Local:  ev.Pos.Sub(area.Origin()),
		Button: ev.Button,
		Double: double,
		Time:   ev.Time,
	})
	r.apply(target, eff)
}

func (r *Router) keyDown(ev Event) bool {
	if ev.Key == KeyEscape && r.wm.Menu().Open() {
		return r.wm.CloseMenu()
	}
	active, ok := r.wm.ActiveID()
	if !ok || r.content == nil {
		return false
	}
	target := r.wm.ContentWindow(active)
	if target == nil || !r.content.AcceptsText(target) {
		return false
	}
	r.apply(target, r.content.HandleKey(target, ev))
	return true
}

func (r *Router) apply(w *wm.Window, eff Effect) {
	if eff.Title != "" && eff.Title != w.Title() {
		r.wm.SetTitle(w.ID(), eff.Title)
	}
	if eff.Close {
		r.wm.CloseWindow(w.ID())
	}
}
