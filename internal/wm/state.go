package wm

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/geom"
)

// TransactionKind identifies the pointer transaction in progress.
type TransactionKind int

const (
	TxNone TransactionKind = iota
	TxDragging
	TxResizing
)

func (k TransactionKind) String() string {
	switch k {
	case TxNone:
		return "none"
	case TxDragging:
		return "dragging"
	case TxResizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Transaction is the drag or resize scoped to one window until pointer release.
type Transaction struct {
	Kind     TransactionKind
	WindowID ID
	// GrabOffset is the pointer position relative to the window origin when
	// a drag started.
	GrabOffset geom.Point
}

// Active reports whether a drag or resize is in progress.
func (t Transaction) Active() bool {
	return t.Kind != TxNone
}

// MenuKind identifies which overlay menu is open.
type MenuKind int

const (
	MenuNone MenuKind = iota
	MenuStart
	MenuContext
)

func (k MenuKind) String() string {
	switch k {
	case MenuNone:
		return "none"
	case MenuStart:
		return "start"
	case MenuContext:
		return "context"
	default:
		return "unknown"
	}
}

// MenuState is the overlay menu currently open. At is only meaningful for
// the context menu.
type MenuState struct {
	Kind MenuKind
	At   geom.Point
}

// Open reports whether any menu is open.
func (s MenuState) Open() bool {
	return s.Kind != MenuNone
}

// Op names a committed change to the window model.
type Op string

const (
	OpCreate     Op = "create"
	OpClose      Op = "close"
	OpMinimize   Op = "minimize"
	OpRestore    Op = "restore"
	OpMaximize   Op = "maximize"
	OpUnmaximize Op = "unmaximize"
	OpFocus      Op = "focus"
	OpTabAdd     Op = "tab_add"
	OpTabRemove  Op = "tab_remove"
	OpTabSwitch  Op = "tab_switch"
	OpMove       Op = "move"
	OpResize     Op = "resize"
	OpTitle      Op = "title"
	OpArrange    Op = "arrange"
)

// Change describes one committed operation. Parent and Index are set for tab
// operations.
type Change struct {
	Op       Op
	Window   ID
	Parent   ID
	Index    int
	Geometry geom.Rect
}

func (c Change) String() string {
	switch c.Op {
	case OpTabAdd, OpTabRemove, OpTabSwitch:
		return fmt.Sprintf("%s window=%d parent=%d index=%d", c.Op, c.Window, c.Parent, c.Index)
	default:
		return fmt.Sprintf("%s window=%d geometry=%v", c.Op, c.Window, c.Geometry)
	}
}

// Settings holds the screen and chrome dimensions the manager enforces.
type Settings struct {
	ScreenWidth    int
	ScreenHeight   int
	TaskbarHeight  int
	TitleBarHeight int
	TabHeight      int
	MinWidth       int
	MinHeight      int
	// KeepVisible is how much of a dragged title bar must stay on screen.
	KeepVisible int
}

// DefaultSettings matches a 1024x768 desktop with a 40px taskbar.
func DefaultSettings() Settings {
	return Settings{
		ScreenWidth:    1024,
		ScreenHeight:   768,
		TaskbarHeight:  40,
		TitleBarHeight: 30,
		TabHeight:      25,
		MinWidth:       200,
		MinHeight:      150,
		KeepVisible:    100,
	}
}
