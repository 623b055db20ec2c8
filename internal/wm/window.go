// Package wm owns the desktop's window model: top-level windows in z-order,
// tab groups, the active window, the pointer transaction and the overlay menu
// state. Every operation is total: bad ids or indices report false and leave
// the model untouched.
package wm

import (
	"fmt"
	"strings"

	"github.com/1broseidon/deskshell/internal/geom"
)

// ID identifies a window. IDs are assigned from 1 upward and never reused.
type ID uint64

// ContentKind selects what a window displays.
type ContentKind int

const (
	KindDefault ContentKind = iota
	KindTerminal
	KindFileManager
	KindBrowser
	KindSettings
)

// ContentKinds lists the closed set of kinds in menu order.
var ContentKinds = []ContentKind{KindTerminal, KindFileManager, KindBrowser, KindSettings, KindDefault}

func (k ContentKind) String() string {
	switch k {
	case KindTerminal:
		return "terminal"
	case KindFileManager:
		return "file_manager"
	case KindBrowser:
		return "browser"
	case KindSettings:
		return "settings"
	case KindDefault:
		return "default"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseContentKind converts a config or command-line name to a ContentKind.
func ParseContentKind(s string) (ContentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "terminal", "term":
		return KindTerminal, nil
	case "file_manager", "filemanager", "files":
		return KindFileManager, nil
	case "browser", "web":
		return KindBrowser, nil
	case "settings":
		return KindSettings, nil
	case "default", "":
		return KindDefault, nil
	}
	return KindDefault, fmt.Errorf("unknown content kind %q", s)
}

// Window is a single desktop window. Fields that carry model invariants are
// read through accessors; only Content may be written by collaborators.
type Window struct {
	id        ID
	geometry  geom.Rect
	saved     geom.Rect
	title     string
	kind      ContentKind
	visible   bool
	minimized bool
	maximized bool
	tabs      *TabGroup
	isTab     bool
	parent    ID

	// Content is the per-kind transient state (input line, selection, ...).
	// The window manager never reads it.
	Content any
}

func (w *Window) ID() ID                   { return w.id }
func (w *Window) Geometry() geom.Rect      { return w.geometry }
func (w *Window) SavedGeometry() geom.Rect { return w.saved }
func (w *Window) Title() string            { return w.title }
func (w *Window) Kind() ContentKind        { return w.kind }
func (w *Window) Visible() bool            { return w.visible }
func (w *Window) Minimized() bool          { return w.minimized }
func (w *Window) Maximized() bool          { return w.maximized }
func (w *Window) IsTab() bool              { return w.isTab }

// ParentID returns the owning window of a tab.
func (w *Window) ParentID() (ID, bool) {
	return w.parent, w.isTab
}

// Tabs returns the window's tab group, or nil when it hosts no tabs.
func (w *Window) Tabs() *TabGroup {
	if w.tabs == nil || len(w.tabs.children) == 0 {
		return nil
	}
	return w.tabs
}

// Shown reports whether the window takes part in painting and hit-testing.
func (w *Window) Shown() bool {
	return w.visible && !w.minimized && !w.isTab
}

// TabGroup is the ordered list of tabs hosted by a window.
type TabGroup struct {
	children []ID
	active   int
	// bonus is the tab-strip height added to the owner when the group formed.
	bonus int
}

// Len returns the number of tabs.
func (g *TabGroup) Len() int {
	if g == nil {
		return 0
	}
	return len(g.children)
}

// Children returns a copy of the tab ids in insertion order.
func (g *TabGroup) Children() []ID {
	if g == nil {
		return nil
	}
	out := make([]ID, len(g.children))
	copy(out, g.children)
	return out
}

// ActiveIndex returns the selected tab index, or -1 for an empty group.
func (g *TabGroup) ActiveIndex() int {
	if g.Len() == 0 {
		return -1
	}
	return g.active
}

// Active returns the selected tab's id.
func (g *TabGroup) Active() (ID, bool) {
	if g.Len() == 0 {
		return 0, false
	}
	return g.children[g.active], true
}

func (g *TabGroup) indexOf(id ID) int {
	for i, c := range g.children {
		if c == id {
			return i
		}
	}
	return -1
}
