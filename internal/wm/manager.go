package wm

import (
	"sort"

	"github.com/1broseidon/deskshell/internal/arrange"
	"github.com/1broseidon/deskshell/internal/geom"
)

// Manager owns the z-ordered window list, the active window reference, the
// pointer transaction and the menu state. It is not safe for concurrent use;
// the desktop loop is its only caller.
type Manager struct {
	settings  Settings
	windows   map[ID]*Window
	zOrder    []ID // back-to-front; last element is frontmost
	active    ID   // 0 when no window is active
	nextID    ID
	tx        Transaction
	menu      MenuState
	observers []func(Change)
}

// NewManager creates an empty desktop.
func NewManager(settings Settings) *Manager {
	return &Manager{
		settings: settings,
		windows:  make(map[ID]*Window),
	}
}

// Settings returns the dimensions in effect.
func (m *Manager) Settings() Settings {
	return m.settings
}

// SetSettings applies new dimensions, re-clamping every window to the new
// minimums and re-fitting maximized windows to the new workspace.
func (m *Manager) SetSettings(s Settings) {
	m.settings = s
	for _, w := range m.windows {
		w.saved = m.clampSize(w.saved)
		if w.maximized {
			w.geometry = m.clampSize(m.Workspace())
			continue
		}
		w.geometry = m.clampSize(w.geometry)
	}
}

// Observe registers fn to be called after every committed change.
func (m *Manager) Observe(fn func(Change)) {
	if fn != nil {
		m.observers = append(m.observers, fn)
	}
}

func (m *Manager) emit(c Change) {
	for _, fn := range m.observers {
		fn(c)
	}
}

// Workspace is the screen minus the taskbar strip.
func (m *Manager) Workspace() geom.Rect {
	return geom.Rect{
		X:      0,
		Y:      0,
		Width:  m.settings.ScreenWidth,
		Height: m.settings.ScreenHeight - m.settings.TaskbarHeight,
	}
}

// Window returns the window with the given id, or nil.
func (m *Manager) Window(id ID) *Window {
	return m.windows[id]
}

// Len returns the number of windows, tabs included.
func (m *Manager) Len() int {
	return len(m.windows)
}

// Windows returns the top-level windows back-to-front.
func (m *Manager) Windows() []*Window {
	out := make([]*Window, 0, len(m.zOrder))
	for _, id := range m.zOrder {
		out = append(out, m.windows[id])
	}
	return out
}

// ZOrder returns a copy of the top-level ids back-to-front.
func (m *Manager) ZOrder() []ID {
	out := make([]ID, len(m.zOrder))
	copy(out, m.zOrder)
	return out
}

// TopLevel returns the top-level windows in creation order.
func (m *Manager) TopLevel() []*Window {
	out := m.Windows()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// TabWindows returns the tabs hosted by parent in tab order.
func (m *Manager) TabWindows(parent ID) []*Window {
	p := m.windows[parent]
	if p == nil || p.tabs == nil {
		return nil
	}
	out := make([]*Window, 0, len(p.tabs.children))
	for _, id := range p.tabs.children {
		out = append(out, m.windows[id])
	}
	return out
}

// ActiveID returns the active window id.
func (m *Manager) ActiveID() (ID, bool) {
	return m.active, m.active != 0
}

// Active returns the active window, or nil.
func (m *Manager) Active() *Window {
	if m.active == 0 {
		return nil
	}
	return m.windows[m.active]
}

// ContentWindow returns the window whose content fills id's body: the
// selected tab when id hosts tabs, otherwise id itself.
func (m *Manager) ContentWindow(id ID) *Window {
	w := m.windows[id]
	if w == nil {
		return nil
	}
	if child, ok := w.Tabs().Active(); ok {
		return m.windows[child]
	}
	return w
}

// Transaction returns the pointer transaction in progress.
func (m *Manager) Transaction() Transaction {
	return m.tx
}

// Menu returns the overlay menu state.
func (m *Manager) Menu() MenuState {
	return m.menu
}

// CreateWindow adds a top-level window at the front of the z-order and makes
// it active. The size is clamped to the minimums.
func (m *Manager) CreateWindow(g geom.Rect, title string, kind ContentKind) ID {
	m.nextID++
	id := m.nextID
	w := &Window{
		id:       id,
		geometry: m.clampSize(g),
		title:    title,
		kind:     kind,
		visible:  true,
	}
	m.windows[id] = w
	m.zOrder = append(m.zOrder, id)
	m.active = id
	m.emit(Change{Op: OpCreate, Window: id, Geometry: w.geometry})
	return id
}

// CloseWindow destroys a window. Closing a tab removes it from its parent's
// group first; closing a tab host discards its tabs with it.
func (m *Manager) CloseWindow(id ID) bool {
	w := m.windows[id]
	if w == nil {
		return false
	}

	if w.isTab {
		parent := m.windows[w.parent]
		index := parent.tabs.indexOf(id)
		m.detachTab(parent, index)
		delete(m.windows, id)
		m.dropTransaction(id)
		m.emit(Change{Op: OpClose, Window: id, Parent: parent.id, Index: index})
		return true
	}

	if w.tabs != nil {
		for _, child := range w.tabs.children {
			delete(m.windows, child)
			m.dropTransaction(child)
		}
		w.tabs = nil
	}
	m.removeFromZ(id)
	delete(m.windows, id)
	m.dropTransaction(id)
	if m.active == id {
		m.active = m.frontmostShown()
	}
	m.emit(Change{Op: OpClose, Window: id, Geometry: w.geometry})
	return true
}

// Minimize hides a top-level window. It keeps its z-order slot so the
// taskbar can restore it.
func (m *Manager) Minimize(id ID) bool {
	w := m.topLevel(id)
	if w == nil || w.minimized {
		return false
	}
	w.minimized = true
	m.dropTransaction(id)
	if m.active == id {
		m.active = m.frontmostShown()
	}
	m.emit(Change{Op: OpMinimize, Window: id, Geometry: w.geometry})
	return true
}

// Restore un-minimizes a window, raises it and makes it active.
func (m *Manager) Restore(id ID) bool {
	w := m.topLevel(id)
	if w == nil {
		return false
	}
	w.minimized = false
	w.visible = true
	m.raise(id)
	m.active = id
	m.emit(Change{Op: OpRestore, Window: id, Geometry: w.geometry})
	return true
}

// ToggleMaximize fills the workspace with the window, or puts back the exact
// geometry it had before.
func (m *Manager) ToggleMaximize(id ID) bool {
	w := m.topLevel(id)
	if w == nil {
		return false
	}
	if w.maximized {
		w.geometry = w.saved
		w.maximized = false
		m.emit(Change{Op: OpUnmaximize, Window: id, Geometry: w.geometry})
		return true
	}
	w.saved = w.geometry
	w.geometry = m.clampSize(m.Workspace())
	w.maximized = true
	m.emit(Change{Op: OpMaximize, Window: id, Geometry: w.geometry})
	return true
}

// BringToFront moves a top-level window to the end of the z-order. It
// reports false when the window is unknown or already frontmost.
func (m *Manager) BringToFront(id ID) bool {
	if m.topLevel(id) == nil {
		return false
	}
	if len(m.zOrder) > 0 && m.zOrder[len(m.zOrder)-1] == id {
		return false
	}
	m.raise(id)
	return true
}

// SetActive focuses a shown top-level window.
func (m *Manager) SetActive(id ID) bool {
	w := m.topLevel(id)
	if w == nil || !w.Shown() {
		return false
	}
	if m.active != id {
		m.active = id
		m.emit(Change{Op: OpFocus, Window: id, Geometry: w.geometry})
	}
	return true
}

// AddTab moves child into parent's tab group and selects it.
func (m *Manager) AddTab(parentID, childID ID) bool {
	parent := m.windows[parentID]
	child := m.windows[childID]
	if parent == nil || child == nil || parentID == childID {
		return false
	}
	if parent.isTab || child.isTab || child.tabs != nil {
		return false
	}

	m.removeFromZ(childID)
	m.dropTransaction(childID)
	if child.maximized {
		child.geometry = child.saved
		child.maximized = false
	}
	child.minimized = false
	child.isTab = true
	child.parent = parentID

	if parent.tabs == nil {
		parent.tabs = &TabGroup{bonus: m.settings.TabHeight}
		if parent.maximized {
			parent.saved.Height += parent.tabs.bonus
		} else {
			parent.geometry.Height += parent.tabs.bonus
		}
	}
	parent.tabs.children = append(parent.tabs.children, childID)
	parent.tabs.active = len(parent.tabs.children) - 1

	if m.active == childID {
		m.active = 0
		if parent.Shown() {
			m.active = parentID
		} else {
			m.active = m.frontmostShown()
		}
	}
	m.emit(Change{Op: OpTabAdd, Window: childID, Parent: parentID, Index: parent.tabs.active})
	return true
}

// RemoveTab detaches the tab at index and returns it to the desktop behind
// every other window, without focusing it.
func (m *Manager) RemoveTab(parentID ID, index int) bool {
	parent := m.windows[parentID]
	if parent == nil || parent.tabs == nil || index < 0 || index >= len(parent.tabs.children) {
		return false
	}
	childID := m.detachTab(parent, index)
	child := m.windows[childID]
	child.isTab = false
	child.parent = 0
	child.visible = true
	m.zOrder = append([]ID{childID}, m.zOrder...)
	m.emit(Change{Op: OpTabRemove, Window: childID, Parent: parentID, Index: index})
	return true
}

// SwitchTab selects the tab at index.
func (m *Manager) SwitchTab(parentID ID, index int) bool {
	parent := m.windows[parentID]
	if parent == nil || parent.tabs == nil || index < 0 || index >= len(parent.tabs.children) {
		return false
	}
	parent.tabs.active = index
	m.emit(Change{Op: OpTabSwitch, Window: parent.tabs.children[index], Parent: parentID, Index: index})
	return true
}

// SetTitle renames a window or tab.
func (m *Manager) SetTitle(id ID, title string) bool {
	w := m.windows[id]
	if w == nil {
		return false
	}
	w.title = title
	m.emit(Change{Op: OpTitle, Window: id, Geometry: w.geometry})
	return true
}

// Move places a top-level window's origin, applying the drag clamp.
func (m *Manager) Move(id ID, x, y int) bool {
	w := m.topLevel(id)
	if w == nil {
		return false
	}
	w.maximized = false
	w.geometry.X, w.geometry.Y = m.clampOrigin(geom.Point{X: x, Y: y}, w.geometry.Width)
	m.emit(Change{Op: OpMove, Window: id, Geometry: w.geometry})
	return true
}

// Resize sets a top-level window's size, clamped to the minimums.
func (m *Manager) Resize(id ID, width, height int) bool {
	w := m.topLevel(id)
	if w == nil {
		return false
	}
	w.maximized = false
	w.geometry = m.clampSize(geom.Rect{X: w.geometry.X, Y: w.geometry.Y, Width: width, Height: height})
	m.emit(Change{Op: OpResize, Window: id, Geometry: w.geometry})
	return true
}

// Arrange lays out every shown top-level window, back-to-front, with the
// given strategy.
func (m *Manager) Arrange(mode arrange.Mode, opts arrange.Options) error {
	var targets []*Window
	var current []geom.Rect
	for _, id := range m.zOrder {
		w := m.windows[id]
		if !w.Shown() {
			continue
		}
		targets = append(targets, w)
		current = append(current, w.geometry)
	}
	positions, err := arrange.Positions(mode, current, m.Workspace(), opts)
	if err != nil {
		return err
	}
	for i, w := range targets {
		w.maximized = false
		w.geometry = m.clampSize(positions[i])
		m.emit(Change{Op: OpArrange, Window: w.id, Geometry: w.geometry})
	}
	return nil
}

// OpenStartMenu opens the start menu, replacing any other menu.
func (m *Manager) OpenStartMenu() {
	m.menu = MenuState{Kind: MenuStart}
}

// ToggleStartMenu opens the start menu, or closes it when already open.
func (m *Manager) ToggleStartMenu() {
	if m.menu.Kind == MenuStart {
		m.menu = MenuState{}
		return
	}
	m.OpenStartMenu()
}

// OpenContextMenu opens the context menu anchored at p.
func (m *Manager) OpenContextMenu(p geom.Point) {
	m.menu = MenuState{Kind: MenuContext, At: p}
}

// CloseMenu closes any open menu and reports whether one was open.
func (m *Manager) CloseMenu() bool {
	open := m.menu.Open()
	m.menu = MenuState{}
	return open
}

func (m *Manager) topLevel(id ID) *Window {
	w := m.windows[id]
	if w == nil || w.isTab {
		return nil
	}
	return w
}

func (m *Manager) raise(id ID) {
	m.removeFromZ(id)
	m.zOrder = append(m.zOrder, id)
}

func (m *Manager) removeFromZ(id ID) {
	for i, z := range m.zOrder {
		if z == id {
			m.zOrder = append(m.zOrder[:i], m.zOrder[i+1:]...)
			return
		}
	}
}

// frontmostShown picks the new active window after the old one went away.
func (m *Manager) frontmostShown() ID {
	for i := len(m.zOrder) - 1; i >= 0; i-- {
		if m.windows[m.zOrder[i]].Shown() {
			return m.zOrder[i]
		}
	}
	return 0
}

// detachTab removes the tab at index from parent's group and returns its id.
// An emptied group gives back its height bonus and is discarded.
func (m *Manager) detachTab(parent *Window, index int) ID {
	g := parent.tabs
	childID := g.children[index]
	g.children = append(g.children[:index], g.children[index+1:]...)
	if len(g.children) > 0 {
		g.active = min(g.active, len(g.children)-1)
		return childID
	}

	if parent.maximized {
		parent.saved.Height -= g.bonus
		parent.saved = m.clampSize(parent.saved)
	} else {
		parent.geometry.Height -= g.bonus
		parent.geometry = m.clampSize(parent.geometry)
	}
	parent.tabs = nil
	return childID
}

// dropTransaction ends a drag or resize whose window is going away or
// changing role.
func (m *Manager) dropTransaction(id ID) {
	if m.tx.Active() && m.tx.WindowID == id {
		m.tx = Transaction{}
	}
}

func (m *Manager) clampSize(r geom.Rect) geom.Rect {
	r.Width = max(r.Width, m.settings.MinWidth)
	r.Height = max(r.Height, m.settings.MinHeight)
	return r
}

// clampOrigin keeps KeepVisible pixels of the title bar on screen
// horizontally and the whole title bar inside the workspace vertically.
func (m *Manager) clampOrigin(p geom.Point, width int) (int, int) {
	ws := m.Workspace()
	keep := min(m.settings.KeepVisible, width)
	x := geom.Clamp(p.X, ws.X+keep-width, ws.Right()-keep)
	y := geom.Clamp(p.Y, ws.Y, ws.Bottom()-m.settings.TitleBarHeight)
	return x, y
}
