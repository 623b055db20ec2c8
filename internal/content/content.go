// Package content draws window interiors and handles the input that lands
// inside them. Each content kind has one Handler; per-window state lives in
// wm.Window.Content and is only touched by that window's handler.
package content

import (
	"log/slog"
	"time"

	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/wm"
)

// Handler renders a window's content area. area is in screen coordinates.
type Handler interface {
	Render(w *wm.Window, area geom.Rect, now time.Time) draw.List
}

// TextHandler is implemented by content that takes keyboard input.
type TextHandler interface {
	AcceptsText(w *wm.Window) bool
	HandleKey(w *wm.Window, ev input.Event) input.Effect
}

// PointerHandler is implemented by content that reacts to clicks.
type PointerHandler interface {
	HandlePointer(w *wm.Window, p input.Pointer) input.Effect
}

// Palette is the subset of the theme content draws with.
type Palette struct {
	Background draw.Color
	Text       draw.Color
	Muted      draw.Color
	Accent     draw.Color
	Selection  draw.Color
	Panel      draw.Color
}

// Registry dispatches to the handler registered for a window's kind. It
// implements input.ContentHandler.
type Registry struct {
	handlers map[wm.ContentKind]Handler
	fallback Handler
	logger   *slog.Logger
	warned   map[wm.ContentKind]bool
}

// NewRegistry creates an empty registry; unregistered kinds render blank.
func NewRegistry(palette *Palette, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		handlers: make(map[wm.ContentKind]Handler),
		fallback: Blank{Palette: palette},
		logger:   logger,
		warned:   make(map[wm.ContentKind]bool),
	}
}

// Register installs h for kind, replacing any previous handler.
func (r *Registry) Register(kind wm.ContentKind, h Handler) {
	r.handlers[kind] = h
}

// Handler returns the handler for kind, or the blank fallback.
func (r *Registry) Handler(kind wm.ContentKind) Handler {
	if h, ok := r.handlers[kind]; ok {
		return h
	}
	if !r.warned[kind] {
		r.warned[kind] = true
		r.logger.Warn("no content handler, using blank content", "kind", kind.String())
	}
	return r.fallback
}

// Render draws w's content clipped to area.
func (r *Registry) Render(w *wm.Window, area geom.Rect, now time.Time) draw.List {
	if area.Empty() {
		return nil
	}
	return r.Handler(w.Kind()).Render(w, area, now).Clip(area)
}

func (r *Registry) AcceptsText(w *wm.Window) bool {
	th, ok := r.Handler(w.Kind()).(TextHandler)
	return ok && th.AcceptsText(w)
}

func (r *Registry) HandleKey(w *wm.Window, ev input.Event) input.Effect {
	if th, ok := r.Handler(w.Kind()).(TextHandler); ok {
		return th.HandleKey(w, ev)
	}
	return input.Effect{}
}

func (r *Registry) HandlePointer(w *wm.Window, p input.Pointer) input.Effect {
	if ph, ok := r.Handler(w.Kind()).(PointerHandler); ok {
		return ph.HandlePointer(w, p)
	}
	return input.Effect{}
}

// Blank fills the content area. It stands in for kinds with no handler.
type Blank struct {
	Palette *Palette
}

func (b Blank) Render(_ *wm.Window, area geom.Rect, _ time.Time) draw.List {
	var l draw.List
	if b.Palette != nil {
		l.Fill(area, b.Palette.Background)
	}
	return l
}

var _ input.ContentHandler = (*Registry)(nil)
