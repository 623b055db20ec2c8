package wm

import "github.com/1broseidon/deskshell/internal/geom"

// BeginDrag starts moving a window. pointer is the press position; the grab
// offset keeps the window fixed relative to it. A maximized window keeps its
// flag until a pointer move actually changes its geometry.
func (m *Manager) BeginDrag(id ID, pointer geom.Point) bool {
	w := m.transactionTarget(id)
	if w == nil {
		return false
	}
	m.tx = Transaction{
		Kind:       TxDragging,
		WindowID:   id,
		GrabOffset: pointer.Sub(w.geometry.Origin()),
	}
	return true
}

// BeginResize starts resizing a window from its bottom-right corner.
func (m *Manager) BeginResize(id ID) bool {
	w := m.transactionTarget(id)
	if w == nil {
		return false
	}
	m.tx = Transaction{Kind: TxResizing, WindowID: id}
	return true
}

// UpdateTransaction applies a pointer move to the window being dragged or
// resized. It is a no-op when no transaction is active.
func (m *Manager) UpdateTransaction(pointer geom.Point) {
	if !m.tx.Active() {
		return
	}
	w := m.windows[m.tx.WindowID]
	if w == nil {
		m.tx = Transaction{}
		return
	}
	g := w.geometry
	switch m.tx.Kind {
	case TxDragging:
		g.X, g.Y = m.clampOrigin(pointer.Sub(m.tx.GrabOffset), g.Width)
	case TxResizing:
		g.Width = max(m.settings.MinWidth, pointer.X-g.X)
		g.Height = max(m.settings.MinHeight, pointer.Y-g.Y)
	}
	if g == w.geometry {
		return
	}
	// A moved or resized window is no longer maximized; its current size
	// becomes the one it is dragged at.
	w.maximized = false
	w.geometry = g
}

// EndTransaction finishes the drag or resize. It reports whether one was in
// progress.
func (m *Manager) EndTransaction() bool {
	if !m.tx.Active() {
		return false
	}
	tx := m.tx
	m.tx = Transaction{}
	if w := m.windows[tx.WindowID]; w != nil {
		op := OpMove
		if tx.Kind == TxResizing {
			op = OpResize
		}
		m.emit(Change{Op: op, Window: tx.WindowID, Geometry: w.geometry})
	}
	return true
}

func (m *Manager) transactionTarget(id ID) *Window {
	if m.tx.Active() {
		return nil
	}
	w := m.topLevel(id)
	if w == nil || !w.Shown() {
		return nil
	}
	return w
}
