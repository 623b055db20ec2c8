package shell

import (
	"time"

	"github.com/1broseidon/deskshell/internal/arrange"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/wm"
)

// Launcher is the initial title and geometry for a new window of one kind.
type Launcher struct {
	Title    string
	Geometry geom.Rect
}

// DefaultLaunchers returns the stock window placements.
func DefaultLaunchers() map[wm.ContentKind]Launcher {
	return map[wm.ContentKind]Launcher{
		wm.KindTerminal:    {Title: "Terminal", Geometry: geom.Rect{X: 100, Y: 100, Width: 600, Height: 400}},
		wm.KindFileManager: {Title: "File Manager", Geometry: geom.Rect{X: 150, Y: 150, Width: 700, Height: 500}},
		wm.KindBrowser:     {Title: "Web Browser", Geometry: geom.Rect{X: 200, Y: 100, Width: 800, Height: 600}},
		wm.KindSettings:    {Title: "Settings", Geometry: geom.Rect{X: 250, Y: 150, Width: 700, Height: 500}},
		wm.KindDefault:     {Title: "Window", Geometry: geom.Rect{X: 120, Y: 120, Width: 500, Height: 350}},
	}
}

// Shell is the chrome state that lives next to the window manager.
type Shell struct {
	Layout    Layout
	Launchers map[wm.ContentKind]Launcher
	Arrange   arrange.Options

	// SelectedIcon is the highlighted desktop icon, or -1.
	SelectedIcon int

	themes []string
	theme  int
	quit   bool
}

// New creates the shell. themes is the background cycle order; current
// selects the starting entry and falls back to the first.
func New(layout Layout, themes []string, current string) *Shell {
	s := &Shell{
		Layout:       layout,
		Launchers:    DefaultLaunchers(),
		Arrange:      arrange.Options{Gap: 10, CascadeStep: 30},
		SelectedIcon: -1,
		themes:       append([]string(nil), themes...),
	}
	s.SetTheme(current)
	return s
}

// Theme returns the current background theme name.
func (s *Shell) Theme() string {
	if len(s.themes) == 0 {
		return ""
	}
	return s.themes[s.theme]
}

// Themes returns the theme cycle.
func (s *Shell) Themes() []string {
	return append([]string(nil), s.themes...)
}

// SetTheme selects a theme by name.
func (s *Shell) SetTheme(name string) bool {
	for i, t := range s.themes {
		if t == name {
			s.theme = i
			return true
		}
	}
	return false
}

// SetThemes replaces the cycle, keeping the current theme when it survives.
func (s *Shell) SetThemes(themes []string, current string) {
	s.themes = append([]string(nil), themes...)
	s.theme = 0
	s.SetTheme(current)
}

// NextTheme advances the background cycle.
func (s *Shell) NextTheme() string {
	if len(s.themes) == 0 {
		return ""
	}
	s.theme = (s.theme + 1) % len(s.themes)
	return s.themes[s.theme]
}

// QuitRequested reports whether Log Out ran.
func (s *Shell) QuitRequested() bool {
	return s.quit
}

// Launch opens a window of the given kind at its launcher geometry.
func (s *Shell) Launch(m *wm.Manager, kind wm.ContentKind) wm.ID {
	l, ok := s.Launchers[kind]
	if !ok {
		l = DefaultLaunchers()[kind]
	}
	return m.CreateWindow(l.Geometry, l.Title, kind)
}

// Context is handed to every command. It is owned by the desktop loop.
type Context struct {
	WM    *wm.Manager
	Shell *Shell
	// At is the pointer position that triggered the command.
	At  geom.Point
	Now time.Time
	// Launched is set to the window a command created, if any.
	Launched wm.ID
	// Err carries a failure a command could not express as false.
	Err error
}

type command func(*Context) bool

var commands = map[Action]command{
	ActionNewTerminal:      launch(wm.KindTerminal),
	ActionNewFileManager:   launch(wm.KindFileManager),
	ActionNewBrowser:       launch(wm.KindBrowser),
	ActionNewSettings:      launch(wm.KindSettings),
	ActionNewWindow:        launch(wm.KindTerminal),
	ActionProperties:       launch(wm.KindSettings),
	ActionCreateTab:        createTab,
	ActionTileWindows:      arrangeWith(arrange.ModeGrid),
	ActionCascadeWindows:   arrangeWith(arrange.ModeCascade),
	ActionChangeBackground: changeBackground,
	ActionToggleStartMenu:  toggleStartMenu,
	ActionCloseWindow:      closeActive,
	ActionCycleWindows:     cycleWindows,
	ActionLogOut:           logOut,
}

// Execute runs an action and reports whether it changed anything.
func Execute(a Action, ctx *Context) bool {
	cmd, ok := commands[a]
	if !ok || ctx == nil || ctx.WM == nil || ctx.Shell == nil {
		return false
	}
	return cmd(ctx)
}

func launch(kind wm.ContentKind) command {
	return func(ctx *Context) bool {
		ctx.Launched = ctx.Shell.Launch(ctx.WM, kind)
		return true
	}
}

// createTab opens a terminal sized like the active window and files it as a
// tab of that window.
func createTab(ctx *Context) bool {
	parent := ctx.WM.Active()
	if parent == nil {
		return false
	}
	g := parent.Geometry()
	g.X, g.Y = 0, 0
	id := ctx.WM.CreateWindow(g, "Terminal Tab", wm.KindTerminal)
	if !ctx.WM.AddTab(parent.ID(), id) {
		ctx.WM.CloseWindow(id)
		return false
	}
	ctx.Launched = id
	return true
}

func arrangeWith(mode arrange.Mode) command {
	return func(ctx *Context) bool {
		if err := ctx.WM.Arrange(mode, ctx.Shell.Arrange); err != nil {
			ctx.Err = err
			return false
		}
		return true
	}
}

func changeBackground(ctx *Context) bool {
	return ctx.Shell.NextTheme() != ""
}

func toggleStartMenu(ctx *Context) bool {
	ctx.WM.ToggleStartMenu()
	return true
}

func closeActive(ctx *Context) bool {
	id, ok := ctx.WM.ActiveID()
	if !ok {
		return false
	}
	return ctx.WM.CloseWindow(id)
}

// cycleWindows raises the backmost shown window. With one shown window it
// is already in front and only gets focus. It fails when nothing is shown.
func cycleWindows(ctx *Context) bool {
	for _, w := range ctx.WM.Windows() {
		if !w.Shown() {
			continue
		}
		ctx.WM.BringToFront(w.ID())
		return ctx.WM.SetActive(w.ID())
	}
	return false
}

func logOut(ctx *Context) bool {
	ctx.Shell.quit = true
	return true
}
