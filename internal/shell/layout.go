// Package shell holds the desktop chrome around the windows: the taskbar,
// the start and context menus, the desktop icons and the command table that
// runs their actions.
package shell

import (
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/wm"
)

// Layout holds the chrome dimensions.
type Layout struct {
	TaskbarHeight    int
	StartButtonWidth int
	ButtonWidth      int
	ButtonSpacing    int
	ClockWidth       int
	ClockFormat      string

	MenuWidth         int
	StartItemHeight   int
	ContextItemHeight int
	SeparatorHeight   int
	IconSize          int
	IconLabelHeight   int
	IconColumnX       int
	IconRowStart      int
	IconRowStep       int
}

// DefaultLayout matches the classic desktop proportions.
func DefaultLayout() Layout {
	return Layout{
		TaskbarHeight:     40,
		StartButtonWidth:  80,
		ButtonWidth:       160,
		ButtonSpacing:     5,
		ClockWidth:        100,
		ClockFormat:       "15:04",
		MenuWidth:         200,
		StartItemHeight:   40,
		ContextItemHeight: 30,
		SeparatorHeight:   10,
		IconSize:          64,
		IconLabelHeight:   20,
		IconColumnX:       40,
		IconRowStart:      40,
		IconRowStep:       80,
	}
}

// Item is one menu row. Separator rows have no action.
type Item struct {
	Label     string
	Action    Action
	Separator bool
}

var startItems = []Item{
	{Label: "Terminal", Action: ActionNewTerminal},
	{Label: "File Manager", Action: ActionNewFileManager},
	{Label: "Web Browser", Action: ActionNewBrowser},
	{Label: "Settings", Action: ActionNewSettings},
	{Separator: true},
	{Label: "Log Out", Action: ActionLogOut},
}

var contextItems = []Item{
	{Label: "New Window", Action: ActionNewWindow},
	{Label: "Create Tab", Action: ActionCreateTab},
	{Separator: true},
	{Label: "Tile Windows", Action: ActionTileWindows},
	{Label: "Cascade Windows", Action: ActionCascadeWindows},
	{Separator: true},
	{Label: "Change Background", Action: ActionChangeBackground},
	{Label: "Properties", Action: ActionProperties},
}

// Menu is a laid out overlay menu.
type Menu struct {
	Kind   wm.MenuKind
	Bounds geom.Rect
	Items  []Item
	rows   []geom.Rect
}

// ItemRect returns the rectangle of row i.
func (m Menu) ItemRect(i int) geom.Rect {
	if i < 0 || i >= len(m.rows) {
		return geom.Rect{}
	}
	return m.rows[i]
}

// ItemAt returns the row under p. Separators report index -1; ok is false
// when p is outside the menu.
func (m Menu) ItemAt(p geom.Point) (index int, ok bool) {
	if !m.Bounds.Contains(p) {
		return -1, false
	}
	for i, r := range m.rows {
		if r.Contains(p) {
			if m.Items[i].Separator {
				return -1, true
			}
			return i, true
		}
	}
	return -1, true
}

func (l Layout) buildMenu(kind wm.MenuKind, items []Item, at geom.Point, itemHeight int) Menu {
	m := Menu{Kind: kind, Items: items, rows: make([]geom.Rect, len(items))}
	y := 0
	for i, it := range items {
		h := itemHeight
		if it.Separator {
			h = l.SeparatorHeight
		}
		m.rows[i] = geom.Rect{X: 0, Y: y, Width: l.MenuWidth, Height: h}
		y += h
	}
	m.Bounds = geom.Rect{X: at.X, Y: at.Y, Width: l.MenuWidth, Height: y}
	for i := range m.rows {
		m.rows[i].X += at.X
		m.rows[i].Y += at.Y
	}
	return m
}

// StartMenu lays out the start menu so its bottom-left corner sits on the
// taskbar's top-left corner.
func (l Layout) StartMenu(workspace geom.Rect) Menu {
	height := 0
	for _, it := range startItems {
		if it.Separator {
			height += l.SeparatorHeight
		} else {
			height += l.StartItemHeight
		}
	}
	return l.buildMenu(wm.MenuStart, startItems, geom.Point{X: workspace.X, Y: workspace.Bottom() - height}, l.StartItemHeight)
}

// ContextMenu lays out the context menu at p, shifted to stay inside the
// workspace.
func (l Layout) ContextMenu(p geom.Point, workspace geom.Rect) Menu {
	m := l.buildMenu(wm.MenuContext, contextItems, geom.Point{}, l.ContextItemHeight)
	x := geom.Clamp(p.X, workspace.X, workspace.Right()-m.Bounds.Width)
	y := geom.Clamp(p.Y, workspace.Y, workspace.Bottom()-m.Bounds.Height)
	return l.buildMenu(wm.MenuContext, contextItems, geom.Point{X: x, Y: y}, l.ContextItemHeight)
}

// OpenMenu lays out whichever menu the manager has open.
func (l Layout) OpenMenu(m *wm.Manager) (Menu, bool) {
	state := m.Menu()
	switch state.Kind {
	case wm.MenuStart:
		return l.StartMenu(m.Workspace()), true
	case wm.MenuContext:
		return l.ContextMenu(state.At, m.Workspace()), true
	default:
		return Menu{}, false
	}
}

// Icon is a desktop shortcut.
type Icon struct {
	Label  string
	Action Action
	Kind   wm.ContentKind
	// Bounds covers the picture and the label band below it.
	Bounds geom.Rect
}

// Picture returns the square image area of the icon.
func (i Icon) Picture() geom.Rect {
	r := i.Bounds
	r.Height = r.Width
	return r
}

var iconDefs = []struct {
	label  string
	action Action
	kind   wm.ContentKind
}{
	{"Terminal", ActionNewTerminal, wm.KindTerminal},
	{"Files", ActionNewFileManager, wm.KindFileManager},
	{"Browser", ActionNewBrowser, wm.KindBrowser},
	{"Settings", ActionNewSettings, wm.KindSettings},
}

// Icons returns the desktop icons in column order.
func (l Layout) Icons() []Icon {
	out := make([]Icon, len(iconDefs))
	for i, d := range iconDefs {
		out[i] = Icon{
			Label:  d.label,
			Action: d.action,
			Kind:   d.kind,
			Bounds: geom.Rect{
				X:      l.IconColumnX,
				Y:      l.IconRowStart + i*l.IconRowStep,
				Width:  l.IconSize,
				Height: l.IconSize + l.IconLabelHeight,
			},
		}
	}
	return out
}
