package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScreenConfig is the virtual screen the desktop lays out on.
type ScreenConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// TaskbarConfig sizes the taskbar strip and its buttons.
type TaskbarConfig struct {
	Height           int    `yaml:"height"`
	StartButtonWidth int    `yaml:"start_button_width"`
	ButtonWidth      int    `yaml:"button_width"`
	ButtonSpacing    int    `yaml:"button_spacing"`
	ClockFormat      string `yaml:"clock_format"` // Go time layout
}

// WindowConfig holds window decoration metrics and size limits.
type WindowConfig struct {
	TitlebarHeight int `yaml:"titlebar_height"`
	TabHeight      int `yaml:"tab_height"`
	ButtonSize     int `yaml:"button_size"`
	ButtonMargin   int `yaml:"button_margin"`
	ResizeHandle   int `yaml:"resize_handle"`
	MinWidth       int `yaml:"min_width"`
	MinHeight      int `yaml:"min_height"`
	TabMaxWidth    int `yaml:"tab_max_width"`
	KeepVisible    int `yaml:"keep_visible"` // pixels of a dragged window kept on screen
}

// InputConfig tunes pointer handling.
type InputConfig struct {
	DoubleClickMS   int `yaml:"double_click_ms"`
	DoubleClickSlop int `yaml:"double_click_slop"`
}

// Launcher is the initial title and geometry of a window kind.
type Launcher struct {
	Title  string `yaml:"title"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// ArrangeConfig tunes the tile and cascade actions.
type ArrangeConfig struct {
	Gap         int `yaml:"gap"`
	CascadeStep int `yaml:"cascade_step"`
}

// HotkeyConfig binds global keys when the X11 frontend runs.
type HotkeyConfig struct {
	StartMenu    string `yaml:"start_menu"`
	CloseWindow  string `yaml:"close_window"`
	CycleWindows string `yaml:"cycle_windows"`
}

// LoggingConfig configures the action journal.
type LoggingConfig struct {
	// Enabled turns the journal on/off
	Enabled bool `yaml:"enabled"`
	// Level controls journal verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the journal path (default: $XDG_STATE_HOME/deskshell/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// DebugConfig holds developer switches.
type DebugConfig struct {
	// CheckInvariants verifies the window model after every loop tick.
	CheckInvariants bool `yaml:"check_invariants"`
}

const (
	FrontendX11      = "x11"
	FrontendTerminal = "terminal"
)

// Config is the effective desktop configuration.
type Config struct {
	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`
	Frontend   string `yaml:"frontend"`

	Screen  ScreenConfig  `yaml:"screen"`
	Taskbar TaskbarConfig `yaml:"taskbar"`
	Window  WindowConfig  `yaml:"window"`
	Input   InputConfig   `yaml:"input"`

	// TickRate is the number of loop ticks per second.
	TickRate int `yaml:"tick_rate"`

	Theme  string                       `yaml:"theme"`
	Themes map[string]map[string]string `yaml:"themes"`

	Launchers map[string]Launcher `yaml:"launchers"`
	Arrange   ArrangeConfig       `yaml:"arrange"`
	Hotkeys   HotkeyConfig        `yaml:"hotkeys"`

	LogLevel string        `yaml:"log_level"`
	Logging  LoggingConfig `yaml:"logging"`
	Debug    DebugConfig   `yaml:"debug"`
}

// DefaultConfig returns the builtin configuration.
func DefaultConfig() *Config {
	return &Config{
		Frontend: FrontendX11,
		Screen:   ScreenConfig{Width: 1024, Height: 768},
		Taskbar: TaskbarConfig{
			Height:           40,
			StartButtonWidth: 80,
			ButtonWidth:      160,
			ButtonSpacing:    5,
			ClockFormat:      "15:04",
		},
		Window: WindowConfig{
			TitlebarHeight: 30,
			TabHeight:      25,
			ButtonSize:     15,
			ButtonMargin:   8,
			ResizeHandle:   20,
			MinWidth:       200,
			MinHeight:      150,
			TabMaxWidth:    120,
			KeepVisible:    100,
		},
		Input:     InputConfig{DoubleClickMS: 400, DoubleClickSlop: 4},
		TickRate:  60,
		Theme:     DefaultTheme,
		Themes:    BuiltinThemes(),
		Launchers: BuiltinLaunchers(),
		Arrange:   ArrangeConfig{Gap: 10, CascadeStep: 30},
		Hotkeys: HotkeyConfig{
			StartMenu:    "Mod4-space",
			CloseWindow:  "Mod4-q",
			CycleWindows: "Mod4-Tab",
		},
		LogLevel: "info",
		Logging: LoggingConfig{
			Enabled:   false,
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  3,
		},
	}
}

// ThemeNames returns the theme names sorted, which is the order Change
// Background cycles through.
func (c *Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes c to the default config path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo validates c and writes it to path. Builtin themes and launchers are
// left out unless they were changed.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Themes = themesForSave(c.Themes)
	save.Launchers = launchersForSave(c.Launchers)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func themesForSave(themes map[string]map[string]string) map[string]map[string]string {
	builtin := BuiltinThemes()
	out := make(map[string]map[string]string)
	for name, colors := range themes {
		base, ok := builtin[name]
		if !ok {
			out[name] = colors
			continue
		}
		diff := make(map[string]string)
		for key, value := range colors {
			if base[key] != value {
				diff[key] = value
			}
		}
		if len(diff) > 0 {
			out[name] = diff
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func launchersForSave(launchers map[string]Launcher) map[string]Launcher {
	builtin := BuiltinLaunchers()
	out := make(map[string]Launcher)
	for kind, l := range launchers {
		if base, ok := builtin[kind]; ok && base == l {
			continue
		}
		out[kind] = l
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var hexColor = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// Validate checks value ranges and cross references.
func (c *Config) Validate() error {
	switch c.Frontend {
	case FrontendX11, FrontendTerminal:
	default:
		return &ValidationError{Path: "frontend", Err: fmt.Errorf("frontend must be one of: x11, terminal")}
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return &ValidationError{Path: "screen", Err: fmt.Errorf("screen width and height must be > 0")}
	}
	if c.Taskbar.Height < 0 || c.Taskbar.Height >= c.Screen.Height {
		return &ValidationError{Path: "taskbar.height", Err: fmt.Errorf("taskbar height must be >= 0 and below the screen height")}
	}
	if c.Taskbar.StartButtonWidth <= 0 || c.Taskbar.ButtonWidth <= 0 || c.Taskbar.ButtonSpacing < 0 {
		return &ValidationError{Path: "taskbar", Err: fmt.Errorf("taskbar button widths must be > 0 and spacing >= 0")}
	}
	if strings.TrimSpace(c.Taskbar.ClockFormat) == "" {
		return &ValidationError{Path: "taskbar.clock_format", Err: fmt.Errorf("clock_format must not be empty")}
	}

	w := c.Window
	for _, f := range []struct {
		path  string
		value int
	}{
		{"window.titlebar_height", w.TitlebarHeight},
		{"window.tab_height", w.TabHeight},
		{"window.button_size", w.ButtonSize},
		{"window.resize_handle", w.ResizeHandle},
		{"window.min_width", w.MinWidth},
		{"window.min_height", w.MinHeight},
		{"window.tab_max_width", w.TabMaxWidth},
	} {
		if f.value <= 0 {
			return &ValidationError{Path: f.path, Err: fmt.Errorf("must be > 0")}
		}
	}
	if w.ButtonMargin < 0 {
		return &ValidationError{Path: "window.button_margin", Err: fmt.Errorf("must be >= 0")}
	}
	if w.KeepVisible < 0 {
		return &ValidationError{Path: "window.keep_visible", Err: fmt.Errorf("must be >= 0")}
	}
	if w.MinHeight <= w.TitlebarHeight+w.TabHeight {
		return &ValidationError{Path: "window.min_height", Err: fmt.Errorf("min_height must exceed titlebar_height + tab_height")}
	}

	if c.Input.DoubleClickMS <= 0 {
		return &ValidationError{Path: "input.double_click_ms", Err: fmt.Errorf("must be > 0")}
	}
	if c.Input.DoubleClickSlop < 0 {
		return &ValidationError{Path: "input.double_click_slop", Err: fmt.Errorf("must be >= 0")}
	}
	if c.TickRate < 1 || c.TickRate > 240 {
		return &ValidationError{Path: "tick_rate", Err: fmt.Errorf("tick_rate must be between 1 and 240")}
	}

	if len(c.Themes) == 0 {
		return &ValidationError{Path: "themes", Err: fmt.Errorf("themes must not be empty")}
	}
	if _, ok := c.Themes[c.Theme]; !ok {
		return &ValidationError{Path: "theme", Err: fmt.Errorf("theme %q not found in themes", c.Theme)}
	}
	known := make(map[string]bool, len(ThemeColorKeys))
	for _, k := range ThemeColorKeys {
		known[k] = true
	}
	for name, colors := range c.Themes {
		for key, value := range colors {
			if !known[key] {
				return &ValidationError{Path: "themes." + name + "." + key, Err: fmt.Errorf("unknown theme color")}
			}
			if !hexColor.MatchString(value) {
				return &ValidationError{Path: "themes." + name + "." + key, Err: fmt.Errorf("color %q must be #rrggbb", value)}
			}
		}
	}

	for kind, l := range c.Launchers {
		if !isLauncherKind(kind) {
			return &ValidationError{Path: "launchers." + kind, Err: fmt.Errorf("unknown window kind (want one of: %s)", strings.Join(LauncherKinds, ", "))}
		}
		if strings.TrimSpace(l.Title) == "" {
			return &ValidationError{Path: "launchers." + kind + ".title", Err: fmt.Errorf("title must not be empty")}
		}
		if l.Width <= 0 || l.Height <= 0 {
			return &ValidationError{Path: "launchers." + kind, Err: fmt.Errorf("width and height must be > 0")}
		}
	}

	if c.Arrange.Gap < 0 {
		return &ValidationError{Path: "arrange.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	if c.Arrange.CascadeStep <= 0 {
		return &ValidationError{Path: "arrange.cascade_step", Err: fmt.Errorf("cascade_step must be > 0")}
	}

	if !isLevel(c.LogLevel) {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Logging.Level != "" && !isLevel(c.Logging.Level) {
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging", Err: fmt.Errorf("max_size_mb and max_files must be >= 0")}
	}
	return nil
}

func isLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func isLauncherKind(kind string) bool {
	for _, k := range LauncherKinds {
		if k == kind {
			return true
		}
	}
	return false
}
