// Package hittest maps a screen point to the interactive element under it.
// It reads the scene and never changes it.
package hittest

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/wm"
)

// Kind identifies what a point resolved to.
type Kind int

const (
	None Kind = iota
	DesktopIcon
	StartButton
	TaskbarButton
	TaskbarStrip
	MenuItem
	WindowControl
	TitleBar
	TabStrip
	ResizeHandle
	WindowBody
)

var kindNames = [...]string{
	None:          "none",
	DesktopIcon:   "desktop_icon",
	StartButton:   "start_button",
	TaskbarButton: "taskbar_button",
	TaskbarStrip:  "taskbar_strip",
	MenuItem:      "menu_item",
	WindowControl: "window_control",
	TitleBar:      "title_bar",
	TabStrip:      "tab_strip",
	ResizeHandle:  "resize_handle",
	WindowBody:    "window_body",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Control is a title bar button.
type Control int

const (
	Close Control = iota + 1
	Maximize
	Minimize
)

func (c Control) String() string {
	switch c {
	case Close:
		return "close"
	case Maximize:
		return "maximize"
	case Minimize:
		return "minimize"
	default:
		return "none"
	}
}

// Target is the resolved element. Window is set for window and taskbar
// button hits, Index for menu items (-1 on a separator), tabs and icons,
// Menu for menu hits and Control for window controls.
type Target struct {
	Kind    Kind
	Window  wm.ID
	Index   int
	Menu    wm.MenuKind
	Control Control
}

func (t Target) String() string {
	switch t.Kind {
	case MenuItem:
		return fmt.Sprintf("%s(%s,%d)", t.Kind, t.Menu, t.Index)
	case WindowControl:
		return fmt.Sprintf("%s(%d,%s)", t.Kind, t.Window, t.Control)
	case TabStrip:
		return fmt.Sprintf("%s(%d,%d)", t.Kind, t.Window, t.Index)
	case DesktopIcon:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Index)
	case None, StartButton, TaskbarStrip:
		return t.Kind.String()
	default:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Window)
	}
}

// Scene bundles what Resolve reads.
type Scene struct {
	WM      *wm.Manager
	Layout  shell.Layout
	Metrics Metrics
}

// Resolve returns the topmost interactive element at p. Open menus come
// first, then the taskbar, then windows front to back, then desktop icons.
func Resolve(p geom.Point, s Scene) Target {
	if menu, ok := s.Layout.OpenMenu(s.WM); ok {
		if idx, in := menu.ItemAt(p); in {
			return Target{Kind: MenuItem, Menu: menu.Kind, Index: idx}
		}
	}

	bar := s.Layout.Taskbar(s.WM)
	if bar.Bounds.Contains(p) {
		if bar.Start.Contains(p) {
			return Target{Kind: StartButton}
		}
		if btn, ok := bar.ButtonAt(p); ok {
			return Target{Kind: TaskbarButton, Window: btn.Window}
		}
		return Target{Kind: TaskbarStrip}
	}

	z := s.WM.ZOrder()
	for i := len(z) - 1; i >= 0; i-- {
		w := s.WM.Window(z[i])
		if !w.Shown() || !w.Geometry().Contains(p) {
			continue
		}
		return s.resolveWindow(p, w)
	}

	for i, icon := range s.Layout.Icons() {
		if icon.Bounds.Contains(p) {
			return Target{Kind: DesktopIcon, Index: i}
		}
	}
	return Target{Kind: None}
}

func (s Scene) resolveWindow(p geom.Point, w *wm.Window) Target {
	g := w.Geometry()
	id := w.ID()
	m := s.Metrics

	switch {
	case m.CloseButton(g).Contains(p):
		return Target{Kind: WindowControl, Window: id, Control: Close}
	case m.MaximizeButton(g).Contains(p):
		return Target{Kind: WindowControl, Window: id, Control: Maximize}
	case m.MinimizeButton(g).Contains(p):
		return Target{Kind: WindowControl, Window: id, Control: Minimize}
	case m.ResizeHandle(g).Contains(p):
		return Target{Kind: ResizeHandle, Window: id}
	}

	if tabs := w.Tabs(); tabs != nil && m.TabStrip(g).Contains(p) {
		n := tabs.Len()
		for i := 0; i < n; i++ {
			if m.TabRect(g, i, n).Contains(p) {
				return Target{Kind: TabStrip, Window: id, Index: i}
			}
		}
		// Strip space past the last tab belongs to the title bar row.
		return Target{Kind: TitleBar, Window: id}
	}
	if m.TitleBar(g).Contains(p) {
		return Target{Kind: TitleBar, Window: id}
	}
	return Target{Kind: WindowBody, Window: id}
}
