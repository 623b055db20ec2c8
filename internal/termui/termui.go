// Package termui shows the desktop inside a terminal. The virtual screen is
// scaled onto character cells and terminal mouse and key input is scaled back.
package termui

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/input"
)

const eventBuffer = 64

var errClosed = errors.New("terminal frontend is closed")

// Options configures the terminal frontend.
type Options struct {
	// Width and Height are the virtual screen size in pixels.
	Width  int
	Height int
	Logger *slog.Logger
}

// Frontend is a desktop frontend drawn with tcell.
type Frontend struct {
	screen tcell.Screen
	width  int
	height int
	logger *slog.Logger

	mu     sync.Mutex
	scale  scale
	closed bool

	mouse     mouseState
	events    chan input.Event
	done      chan struct{}
	closeOnce sync.Once
}

// Open takes over the controlling terminal.
func Open(opts Options) (*Frontend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to open terminal: %w", err)
	}
	return New(screen, opts)
}

// New runs the frontend on an existing screen, which it initializes and
// eventually finalizes.
func New(screen tcell.Screen, opts Options) (*Frontend, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", opts.Width, opts.Height)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	f := &Frontend{
		screen: screen,
		width:  opts.Width,
		height: opts.Height,
		logger: logger,
		events: make(chan input.Event, eventBuffer),
		done:   make(chan struct{}),
	}
	cols, rows := screen.Size()
	f.scale = newScale(f.width, f.height, cols, rows)

	go f.poll()
	return f, nil
}

// Name identifies the frontend in status output.
func (f *Frontend) Name() string {
	return config.FrontendTerminal
}

// Events delivers translated input. It is closed when the screen is
// finalized.
func (f *Frontend) Events() <-chan input.Event {
	return f.events
}

// Present rasterizes frame onto the terminal.
func (f *Frontend) Present(frame draw.List) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errClosed
	}
	g := newGrid(f.scale)
	g.paint(frame)
	g.show(f.screen)
	return nil
}

// Close restores the terminal.
func (f *Frontend) Close() error {
	f.closeOnce.Do(func() {
		close(f.done)
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		f.screen.Fini()
	})
	return nil
}

func (f *Frontend) poll() {
	defer close(f.events)
	for {
		ev := f.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			cols, rows := ev.Size()
			f.mu.Lock()
			f.scale = newScale(f.width, f.height, cols, rows)
			f.mu.Unlock()
			f.logger.Debug("terminal resized", "cols", cols, "rows", rows)
		case *tcell.EventMouse:
			f.mu.Lock()
			s := f.scale
			f.mu.Unlock()
			x, y := ev.Position()
			for _, out := range f.mouse.translate(s.point(x, y), ev.Buttons(), ev.When().UnixMilli()) {
				f.emit(out)
			}
		case *tcell.EventKey:
			if out, ok := translateKey(ev.Key(), ev.Rune()); ok {
				out.Time = ev.When().UnixMilli()
				f.emit(out)
			}
		}
	}
}

func (f *Frontend) emit(ev input.Event) {
	select {
	case f.events <- ev:
	case <-f.done:
	}
}
