// Package daemon runs the desktop: one goroutine owns the window manager,
// the shell and all content state, and everything else reaches it through
// channels.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/deskshell/internal/arrange"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/hittest"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/journal"
	"github.com/1broseidon/deskshell/internal/render"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/wm"
)

// Frontend shows frames and produces input. Events is closed when the
// display goes away.
type Frontend interface {
	Name() string
	Events() <-chan input.Event
	Present(frame draw.List) error
	Close() error
}

// Options holds the collaborators of a Desktop. Everything but Config is
// optional.
type Options struct {
	Config *config.LoadResult
	// ConfigPath is re-read on reload and written by a saved theme change.
	ConfigPath string
	Frontend   Frontend
	Server     *ipc.Server
	Logger     *slog.Logger
	Journal    *journal.Journal
	// Now defaults to time.Now.
	Now func() time.Time
	// Session tags this run; a fresh id is generated when empty.
	Session string
	User    string
	Host    string
}

// NewSessionID returns a fresh id for tagging one desktop run.
func NewSessionID() string {
	return uuid.New().String()
}

// Desktop is the single owner of the desktop state.
type Desktop struct {
	cfg        *config.Config
	configPath string
	files      []string
	watch      *configWatcher

	wm       *wm.Manager
	shell    *shell.Shell
	router   *input.Router
	clicks   *input.DoubleClick
	registry *content.Registry
	palette  *content.Palette
	terminal *content.Terminal
	renderer *render.Renderer

	frontend Frontend
	server   *ipc.Server
	logger   *slog.Logger
	journal  *journal.Journal
	now      func() time.Time

	session string
	started time.Time
	reloads chan struct{}
	ticks   chan time.Duration
	frame   draw.List
}

// New builds a desktop from a loaded configuration.
func New(opts Options) (*Desktop, error) {
	if opts.Config == nil || opts.Config.Config == nil {
		return nil, fmt.Errorf("desktop requires a configuration")
	}
	d := &Desktop{
		configPath: opts.ConfigPath,
		frontend:   opts.Frontend,
		server:     opts.Server,
		logger:     opts.Logger,
		journal:    opts.Journal,
		now:        opts.Now,
		session:    opts.Session,
		reloads:    make(chan struct{}, 1),
		ticks:      make(chan time.Duration, 1),
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.session == "" {
		d.session = NewSessionID()
	}
	if d.configPath == "" {
		d.configPath = opts.Config.Path
	}
	d.started = d.now()

	user, host := opts.User, opts.Host
	if user == "" {
		user = "user"
	}
	if host == "" {
		host = "deskshell"
	}

	cfg := opts.Config.Config
	d.wm = wm.NewManager(wm.DefaultSettings())
	d.shell = shell.New(shell.DefaultLayout(), cfg.ThemeNames(), cfg.Theme)
	d.palette = &content.Palette{}
	d.registry = content.NewRegistry(d.palette, d.logger)

	fs := content.DefaultFS(user)
	d.terminal = &content.Terminal{
		Palette: d.palette,
		NewProcessor: func() content.CommandProcessor {
			return content.NewSession(fs, user, host, d.now)
		},
	}
	d.registry.Register(wm.KindTerminal, d.terminal)
	d.registry.Register(wm.KindFileManager, &content.FileManager{Palette: d.palette, FS: fs})
	d.registry.Register(wm.KindBrowser, &content.Browser{Palette: d.palette})
	d.registry.Register(wm.KindSettings, &content.Settings{
		Palette:     d.palette,
		Themes:      d.shell.Themes,
		Current:     d.shell.Theme,
		SelectTheme: func(name string) { d.shell.SetTheme(name) },
		Info:        d.info,
	})

	d.clicks = input.NewDoubleClick(0, 0)
	d.router = input.NewRouter(d.wm, d.shell, hittest.DefaultMetrics(), d.registry, d.clicks)
	d.router.OnAction = d.recordAction
	d.renderer = render.New(d.shell.Layout, hittest.DefaultMetrics(), d.registry, d.palette, nil)

	if err := d.apply(cfg); err != nil {
		return nil, err
	}
	d.files = opts.Config.Files
	d.wm.Observe(d.recordChange)
	return d, nil
}

// Session returns the id tagging this run in the journal.
func (d *Desktop) Session() string {
	return d.session
}

// Manager exposes the window model to the loop goroutine's callers, such as
// tests driving the desktop directly.
func (d *Desktop) Manager() *wm.Manager {
	return d.wm
}

// Shell returns the chrome state.
func (d *Desktop) Shell() *shell.Shell {
	return d.shell
}

// Config returns the configuration in effect.
func (d *Desktop) Config() *config.Config {
	return d.cfg
}

// apply pushes cfg into every component. On error nothing is changed.
func (d *Desktop) apply(cfg *config.Config) error {
	themes, err := render.ParseThemes(cfg.Themes)
	if err != nil {
		return fmt.Errorf("invalid themes: %w", err)
	}
	launchers := make(map[wm.ContentKind]shell.Launcher, len(cfg.Launchers))
	for name, l := range cfg.Launchers {
		kind, err := wm.ParseContentKind(name)
		if err != nil {
			return fmt.Errorf("invalid launcher: %w", err)
		}
		launchers[kind] = shell.Launcher{
			Title:    l.Title,
			Geometry: geom.Rect{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height},
		}
	}

	d.wm.SetSettings(wm.Settings{
		ScreenWidth:    cfg.Screen.Width,
		ScreenHeight:   cfg.Screen.Height,
		TaskbarHeight:  cfg.Taskbar.Height,
		TitleBarHeight: cfg.Window.TitlebarHeight,
		TabHeight:      cfg.Window.TabHeight,
		MinWidth:       cfg.Window.MinWidth,
		MinHeight:      cfg.Window.MinHeight,
		KeepVisible:    cfg.Window.KeepVisible,
	})

	layout := shell.DefaultLayout()
	layout.TaskbarHeight = cfg.Taskbar.Height
	layout.StartButtonWidth = cfg.Taskbar.StartButtonWidth
	layout.ButtonWidth = cfg.Taskbar.ButtonWidth
	layout.ButtonSpacing = cfg.Taskbar.ButtonSpacing
	layout.ClockFormat = cfg.Taskbar.ClockFormat

	metrics := hittest.Metrics{
		TitleBarHeight: cfg.Window.TitlebarHeight,
		TabHeight:      cfg.Window.TabHeight,
		ButtonSize:     cfg.Window.ButtonSize,
		ButtonMargin:   cfg.Window.ButtonMargin,
		HandleSize:     cfg.Window.ResizeHandle,
		TabMaxWidth:    cfg.Window.TabMaxWidth,
	}

	// A reload keeps a theme picked at runtime unless the file changed it.
	current := cfg.Theme
	if d.cfg != nil && d.cfg.Theme == cfg.Theme {
		current = d.shell.Theme()
	}

	d.shell.Layout = layout
	for kind, l := range shell.DefaultLaunchers() {
		if _, ok := launchers[kind]; !ok {
			launchers[kind] = l
		}
	}
	d.shell.Launchers = launchers
	d.shell.Arrange = arrange.Options{Gap: cfg.Arrange.Gap, CascadeStep: cfg.Arrange.CascadeStep}
	d.shell.SetThemes(cfg.ThemeNames(), current)

	d.router.SetMetrics(metrics)
	d.clicks.Interval = time.Duration(cfg.Input.DoubleClickMS) * time.Millisecond
	d.clicks.Slop = cfg.Input.DoubleClickSlop
	d.clicks.Reset()

	d.renderer.Layout = layout
	d.renderer.Metrics = metrics
	d.renderer.SetThemes(themes)

	if d.cfg != nil && d.cfg.TickRate != cfg.TickRate {
		select {
		case d.ticks <- tickInterval(cfg.TickRate):
		default:
		}
	}
	d.cfg = cfg
	return nil
}

func tickInterval(rate int) time.Duration {
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// RequestReload schedules a config reload on the loop. Safe from any
// goroutine.
func (d *Desktop) RequestReload() {
	select {
	case d.reloads <- struct{}{}:
	default:
	}
}

// Reload re-reads the config file and applies it. A broken file leaves the
// running configuration untouched.
func (d *Desktop) Reload() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		d.journal.Log(journal.EventError, 0, map[string]any{"op": "reload", "error": err.Error()})
		return fmt.Errorf("failed to reload config: %w", err)
	}
	if err := d.apply(res.Config); err != nil {
		d.journal.Log(journal.EventError, 0, map[string]any{"op": "reload", "error": err.Error()})
		return fmt.Errorf("failed to apply config: %w", err)
	}
	d.files = res.Files
	if d.watch != nil {
		d.watch.SetFiles(d.configPath, d.files)
	}
	d.journal.Log(journal.EventReload, 0, map[string]any{"path": d.configPath, "theme": d.shell.Theme()})
	d.logger.Info("configuration reloaded", "path", d.configPath, "files", len(res.Files))
	return nil
}

// Run drives the desktop until ctx is cancelled, the frontend goes away or
// Log Out runs.
func (d *Desktop) Run(ctx context.Context) error {
	ticker := time.NewTicker(tickInterval(d.cfg.TickRate))
	defer ticker.Stop()

	var events <-chan input.Event
	if d.frontend != nil {
		events = d.frontend.Events()
	}
	var calls <-chan ipc.Call
	if d.server != nil {
		calls = d.server.Calls()
	}

	watch, err := watchConfig(d.configPath, d.files, d.RequestReload, d.logger)
	if err != nil {
		d.logger.Warn("config hot reload disabled", "error", err)
	} else {
		d.watch = watch
		defer func() {
			watch.Close()
			d.watch = nil
		}()
	}

	d.logger.Info("desktop started",
		"session", d.session,
		"frontend", d.frontendName(),
		"tick_rate", d.cfg.TickRate)
	d.journal.Log(journal.EventSession, 0, map[string]any{"state": "start", "frontend": d.frontendName()})
	defer d.journal.Log(journal.EventSession, 0, map[string]any{"state": "stop"})

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("desktop stopped")
			return nil
		case ev, ok := <-events:
			if !ok {
				d.logger.Info("frontend closed")
				return nil
			}
			d.guard("input", func() { d.HandleEvent(ev) })
		case c := <-calls:
			d.guard("ipc", func() { c.Serve(d) })
		case <-d.reloads:
			d.guard("reload", func() {
				if err := d.Reload(); err != nil {
					d.logger.Error("reload failed", "error", err)
				}
			})
		case interval := <-d.ticks:
			ticker.Reset(interval)
		case now := <-ticker.C:
			d.guard("tick", func() { d.Tick(now) })
		}
		if d.shell.QuitRequested() {
			d.logger.Info("log out requested")
			return nil
		}
	}
}

// guard runs fn and keeps the loop alive if it panics.
func (d *Desktop) guard(stage string, fn func()) {
	defer func() {
		if err := recover(); err != nil {
			d.logger.Error("desktop panic recovered", "stage", stage, "error", err)
			d.journal.Log(journal.EventError, 0, map[string]any{"stage": stage, "panic": fmt.Sprint(err)})
		}
	}()
	fn()
}

// HandleEvent routes one input event.
func (d *Desktop) HandleEvent(ev input.Event) bool {
	switch ev.Kind {
	case input.PointerDown, input.PointerMove, input.PointerUp:
		d.renderer.Pointer = ev.Pos
	}
	return d.router.Dispatch(ev)
}

// Tick paints one frame and hands it to the frontend.
func (d *Desktop) Tick(now time.Time) {
	if d.cfg.Debug.CheckInvariants {
		if err := d.wm.Check(); err != nil {
			d.logger.Error("window model invariant violated", "error", err)
		}
	}
	d.frame = d.renderer.Frame(d.wm, d.shell, now)
	if d.frontend == nil {
		return
	}
	if err := d.frontend.Present(d.frame); err != nil {
		d.logger.Warn("present failed", "error", err)
	}
}

// Frame returns the last painted frame.
func (d *Desktop) Frame() draw.List {
	return d.frame
}

func (d *Desktop) frontendName() string {
	if d.frontend == nil {
		return "headless"
	}
	return d.frontend.Name()
}

func (d *Desktop) recordChange(c wm.Change) {
	details := map[string]any{}
	switch c.Op {
	case wm.OpTabAdd, wm.OpTabRemove, wm.OpTabSwitch:
		details["parent"] = uint64(c.Parent)
		details["index"] = c.Index
	case wm.OpTitle:
		if w := d.wm.Window(c.Window); w != nil {
			details["title"] = w.Title()
		}
	default:
		details["geometry"] = c.Geometry.String()
	}
	d.journal.Log(journal.WindowEvent(string(c.Op)), uint64(c.Window), details)
}

func (d *Desktop) recordAction(a shell.Action, ctx *shell.Context, ok bool) {
	details := map[string]any{"action": a.String(), "ok": ok}
	if ctx.Launched != 0 {
		details["launched"] = uint64(ctx.Launched)
	}
	if ctx.Err != nil {
		details["error"] = ctx.Err.Error()
		d.logger.Warn("action failed", "action", a.String(), "error", ctx.Err)
	}
	d.journal.Log(journal.EventAction, 0, details)
}

// info fills the read-only settings pages.
func (d *Desktop) info(section string) []string {
	switch section {
	case "Desktop":
		return []string{
			fmt.Sprintf("Screen: %dx%d", d.cfg.Screen.Width, d.cfg.Screen.Height),
			fmt.Sprintf("Theme: %s", d.shell.Theme()),
			fmt.Sprintf("Windows: %d", d.wm.Len()),
			fmt.Sprintf("Double click: %d ms", d.cfg.Input.DoubleClickMS),
		}
	case "System":
		host, _ := os.Hostname()
		return []string{
			"Frontend: " + d.frontendName(),
			"Host: " + host,
			"Session: " + d.session,
			"Uptime: " + d.now().Sub(d.started).Truncate(time.Second).String(),
		}
	case "About":
		return []string{
			"deskshell " + content.Version,
			"A small desktop shell with tabs, menus and a taskbar.",
		}
	default:
		return nil
	}
}
