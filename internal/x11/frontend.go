// Package x11 shows the desktop in a single X11 window. Frames are painted
// into a pixmap and copied to the window; pointer, key and hotkey events are
// translated into input events for the desktop loop.
package x11

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/shell"
)

const (
	windowTitle   = "deskshell"
	eventBuffer   = 64
	closeDeadline = time.Second
)

var errClosed = errors.New("x11 frontend is closed")

// fontNames are tried in order; every X server ships at least one of them.
var fontNames = []string{"fixed", "9x15", "8x13", "6x13"}

// Options configures the X11 frontend.
type Options struct {
	// Display overrides $DISPLAY.
	Display string
	Width   int
	Height  int
	Hotkeys config.HotkeyConfig
	Logger  *slog.Logger
}

// Frontend is a desktop frontend backed by one X11 window.
type Frontend struct {
	conn   *Connection
	win    *xwindow.Window
	logger *slog.Logger

	width, height int

	mu       sync.Mutex
	pixmap   xproto.Pixmap
	gc       xproto.Gcontext
	font     xproto.Font
	baseline int
	closed   bool

	deleteAtom xproto.Atom

	events    chan input.Event
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// Open connects to the X server, maps the desktop window and starts the X
// event loop.
func Open(opts Options) (*Frontend, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", opts.Width, opts.Height)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := NewConnection(opts.Display)
	if err != nil {
		return nil, err
	}

	f := &Frontend{
		conn:     conn,
		logger:   logger,
		width:    opts.Width,
		height:   opts.Height,
		events:   make(chan input.Event, eventBuffer),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	if err := f.createWindow(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := f.createSurface(); err != nil {
		f.win.Destroy()
		conn.Close()
		return nil, err
	}
	f.connectHandlers()

	hk := newHotkeys(conn.XUtil, conn.Root, f.emit, logger)
	hk.Register(opts.Hotkeys)

	f.win.Map()

	go func() {
		defer close(f.loopDone)
		defer close(f.events)
		conn.EventLoop()
	}()

	logger.Info("x11 frontend ready", "display", opts.Display, "width", opts.Width, "height", opts.Height)
	return f, nil
}

// Name identifies the frontend in status output.
func (f *Frontend) Name() string {
	return config.FrontendX11
}

// Events delivers translated input. It is closed once the X event loop ends.
func (f *Frontend) Events() <-chan input.Event {
	return f.events
}

func (f *Frontend) createWindow() error {
	xu := f.conn.XUtil

	win, err := xwindow.Generate(xu)
	if err != nil {
		return fmt.Errorf("failed to allocate window id: %w", err)
	}
	mask := uint32(xproto.EventMaskExposure |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskPointerMotion |
		xproto.EventMaskKeyPress |
		xproto.EventMaskStructureNotify)
	// Value list order follows the bit positions of the mask (low to high).
	if err := win.CreateChecked(f.conn.Root, 0, 0, f.width, f.height,
		xproto.CwBackPixel|xproto.CwEventMask, 0, mask); err != nil {
		return fmt.Errorf("failed to create desktop window: %w", err)
	}
	f.win = win

	if err := ewmh.WmNameSet(xu, win.Id, windowTitle); err != nil {
		f.logger.Warn("failed to set _NET_WM_NAME", "error", err)
	}
	if err := icccm.WmNameSet(xu, win.Id, windowTitle); err != nil {
		f.logger.Warn("failed to set WM_NAME", "error", err)
	}
	if err := icccm.WmClassSet(xu, win.Id, &icccm.WmClass{Instance: "deskshell", Class: "Deskshell"}); err != nil {
		f.logger.Warn("failed to set WM_CLASS", "error", err)
	}

	// The desktop lays out on a fixed virtual screen.
	hints := &icccm.NormalHints{
		Flags:     icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		MinWidth:  uint(f.width),
		MinHeight: uint(f.height),
		MaxWidth:  uint(f.width),
		MaxHeight: uint(f.height),
	}
	if err := icccm.WmNormalHintsSet(xu, win.Id, hints); err != nil {
		f.logger.Warn("failed to set WM_NORMAL_HINTS", "error", err)
	}

	if err := icccm.WmProtocolsSet(xu, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		f.logger.Warn("failed to set WM_PROTOCOLS", "error", err)
	} else if atom, err := xprop.Atm(xu, "WM_DELETE_WINDOW"); err == nil {
		f.deleteAtom = atom
	}
	return nil
}

func (f *Frontend) createSurface() error {
	xu := f.conn.XUtil
	conn := xu.Conn()

	pid, err := xproto.NewPixmapId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate pixmap id: %w", err)
	}
	if err := xproto.CreatePixmapChecked(conn, xu.Screen().RootDepth, pid,
		xproto.Drawable(f.win.Id), uint16(f.width), uint16(f.height)).Check(); err != nil {
		return fmt.Errorf("failed to create back buffer: %w", err)
	}
	f.pixmap = pid

	fontID, err := xproto.NewFontId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate font id: %w", err)
	}
	opened := false
	for _, name := range fontNames {
		if err := xproto.OpenFontChecked(conn, fontID, uint16(len(name)), name).Check(); err == nil {
			opened = true
			break
		}
	}
	if !opened {
		return fmt.Errorf("failed to open any of the core fonts %v", fontNames)
	}
	f.font = fontID
	f.baseline = textBaseline(conn, fontID)

	gcID, err := xproto.NewGcontextId(conn)
	if err != nil {
		return fmt.Errorf("failed to allocate graphics context id: %w", err)
	}
	if err := xproto.CreateGCChecked(
		conn,
		gcID,
		xproto.Drawable(f.pixmap),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{0xffffff, 0, uint32(fontID), 0},
	).Check(); err != nil {
		return fmt.Errorf("failed to create graphics context: %w", err)
	}
	f.gc = gcID
	return nil
}

// textBaseline centres the font's line box in a draw.LineHeight row.
func textBaseline(conn *xgb.Conn, font xproto.Font) int {
	reply, err := xproto.QueryFont(conn, xproto.Fontable(font)).Reply()
	if err != nil || reply == nil {
		return draw.LineHeight - 4
	}
	ascent, descent := int(reply.FontAscent), int(reply.FontDescent)
	return (draw.LineHeight-ascent-descent)/2 + ascent
}

func (f *Frontend) connectHandlers() {
	xu := f.conn.XUtil
	id := f.win.Id

	xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			f.copyToWindow()
		}
	}).Connect(xu, id)

	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		f.emit(input.Event{
			Kind:   input.PointerDown,
			Pos:    geom.Point{X: int(ev.EventX), Y: int(ev.EventY)},
			Button: translateButton(ev.Detail),
			Time:   int64(ev.Time),
		})
	}).Connect(xu, id)

	xevent.ButtonReleaseFun(func(xu *xgbutil.XUtil, ev xevent.ButtonReleaseEvent) {
		b := translateButton(ev.Detail)
		if b == input.WheelUp || b == input.WheelDown {
			return
		}
		f.emit(input.Event{
			Kind:   input.PointerUp,
			Pos:    geom.Point{X: int(ev.EventX), Y: int(ev.EventY)},
			Button: b,
			Time:   int64(ev.Time),
		})
	}).Connect(xu, id)

	xevent.MotionNotifyFun(func(xu *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		f.emit(input.Event{
			Kind: input.PointerMove,
			Pos:  geom.Point{X: int(ev.EventX), Y: int(ev.EventY)},
			Time: int64(ev.Time),
		})
	}).Connect(xu, id)

	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		name := keybind.LookupString(xu, ev.State, ev.Detail)
		key, r, ok := translateKey(name)
		if !ok {
			return
		}
		f.emit(input.Event{
			Kind: input.KeyDown,
			Key:  key,
			Rune: r,
			Time: int64(ev.Time),
		})
	}).Connect(xu, id)

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if f.deleteAtom == 0 || ev.Format != 32 || len(ev.Data.Data32) == 0 {
			return
		}
		if xproto.Atom(ev.Data.Data32[0]) == f.deleteAtom {
			f.logger.Info("desktop window closed by the window manager")
			f.emit(input.Event{Kind: input.Command, Action: shell.ActionLogOut})
		}
	}).Connect(xu, id)
}

// emit hands ev to the desktop loop, giving up once the frontend closes.
func (f *Frontend) emit(ev input.Event) {
	select {
	case f.events <- ev:
	case <-f.done:
	}
}

// Present paints frame into the back buffer and copies it to the window.
func (f *Frontend) Present(frame draw.List) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errClosed
	}

	conn := f.conn.XUtil.Conn()
	dst := xproto.Drawable(f.pixmap)
	fg, set := uint32(0), false
	for _, p := range frame {
		if px := p.Color.Pixel(); !set || px != fg {
			xproto.ChangeGC(conn, f.gc, xproto.GcForeground, []uint32{px})
			fg, set = px, true
		}
		switch p.Op {
		case draw.FillRect:
			xproto.PolyFillRectangle(conn, dst, f.gc, []xproto.Rectangle{rectangle(p.Rect, 0)})
		case draw.StrokeRect:
			// Outlines cover width+1 by height+1 pixels.
			xproto.PolyRectangle(conn, dst, f.gc, []xproto.Rectangle{rectangle(p.Rect, 1)})
		case draw.Line:
			xproto.PolyLine(conn, xproto.CoordModeOrigin, dst, f.gc, []xproto.Point{
				{X: int16(p.From.X), Y: int16(p.From.Y)},
				{X: int16(p.To.X), Y: int16(p.To.Y)},
			})
		case draw.Text:
			xproto.PolyText8(conn, dst, f.gc, int16(p.From.X), int16(p.From.Y+f.baseline), textItems(p.Text))
		}
	}

	if err := xproto.CopyAreaChecked(conn, dst, xproto.Drawable(f.win.Id), f.gc,
		0, 0, 0, 0, uint16(f.width), uint16(f.height)).Check(); err != nil {
		return fmt.Errorf("failed to present frame: %w", err)
	}
	return nil
}

func (f *Frontend) copyToWindow() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	xproto.CopyArea(f.conn.XUtil.Conn(), xproto.Drawable(f.pixmap), xproto.Drawable(f.win.Id), f.gc,
		0, 0, 0, 0, uint16(f.width), uint16(f.height))
}

func rectangle(r geom.Rect, shrink int) xproto.Rectangle {
	w, h := r.Width-shrink, r.Height-shrink
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return xproto.Rectangle{X: int16(r.X), Y: int16(r.Y), Width: uint16(w), Height: uint16(h)}
}

// Close stops the event loop, frees the X resources and disconnects.
func (f *Frontend) Close() error {
	f.closeOnce.Do(func() {
		close(f.done)

		f.mu.Lock()
		f.closed = true
		conn := f.conn.XUtil.Conn()
		xproto.FreeGC(conn, f.gc)
		xproto.CloseFont(conn, f.font)
		xproto.FreePixmap(conn, f.pixmap)
		f.mu.Unlock()

		// Destroying the window wakes the loop so it sees the quit flag.
		f.conn.Quit()
		f.win.Destroy()

		select {
		case <-f.loopDone:
		case <-time.After(closeDeadline):
			f.logger.Warn("x11 event loop did not stop in time")
		}
		f.conn.Close()
	})
	return nil
}
