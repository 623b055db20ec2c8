package wm

import (
	"errors"
	"fmt"
)

// Check verifies the model invariants and returns every violation found.
// A nil result means the model is consistent.
func (m *Manager) Check() error {
	var errs []error

	seen := make(map[ID]int, len(m.zOrder))
	for _, id := range m.zOrder {
		seen[id]++
		w := m.windows[id]
		switch {
		case w == nil:
			errs = append(errs, fmt.Errorf("z-order references unknown window %d", id))
		case w.isTab:
			errs = append(errs, fmt.Errorf("tab %d appears in z-order", id))
		}
	}
	for id, n := range seen {
		if n > 1 {
			errs = append(errs, fmt.Errorf("window %d appears %d times in z-order", id, n))
		}
	}

	owner := make(map[ID]ID)
	for id, w := range m.windows {
		if w.geometry.Width < m.settings.MinWidth || w.geometry.Height < m.settings.MinHeight {
			errs = append(errs, fmt.Errorf("window %d below minimum size: %v", id, w.geometry))
		}
		if w.isTab {
			if w.tabs != nil {
				errs = append(errs, fmt.Errorf("tab %d owns a tab group", id))
			}
			continue
		}
		if seen[id] == 0 {
			errs = append(errs, fmt.Errorf("top-level window %d missing from z-order", id))
		}
		if w.tabs == nil {
			continue
		}
		if len(w.tabs.children) == 0 {
			errs = append(errs, fmt.Errorf("window %d keeps an empty tab group", id))
			continue
		}
		if w.tabs.active < 0 || w.tabs.active >= len(w.tabs.children) {
			errs = append(errs, fmt.Errorf("window %d tab index %d out of range [0,%d)", id, w.tabs.active, len(w.tabs.children)))
		}
		for _, child := range w.tabs.children {
			if prev, dup := owner[child]; dup {
				errs = append(errs, fmt.Errorf("tab %d owned by both %d and %d", child, prev, id))
			}
			owner[child] = id
			c := m.windows[child]
			if c == nil {
				errs = append(errs, fmt.Errorf("window %d lists unknown tab %d", id, child))
				continue
			}
			if !c.isTab || c.parent != id {
				errs = append(errs, fmt.Errorf("tab %d of window %d has parent %d (isTab=%v)", child, id, c.parent, c.isTab))
			}
		}
	}
	for id, w := range m.windows {
		if w.isTab {
			if _, ok := owner[id]; !ok {
				errs = append(errs, fmt.Errorf("tab %d is not listed by any group", id))
			}
		}
	}

	if m.active != 0 {
		w := m.windows[m.active]
		if w == nil || !w.Shown() {
			errs = append(errs, fmt.Errorf("active window %d is not a shown top-level window", m.active))
		}
	}

	if m.tx.Active() {
		w := m.windows[m.tx.WindowID]
		if w == nil || !w.Shown() {
			errs = append(errs, fmt.Errorf("%s transaction targets window %d which is not a shown top-level window", m.tx.Kind, m.tx.WindowID))
		}
	}

	return errors.Join(errs...)
}
