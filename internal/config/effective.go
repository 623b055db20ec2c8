package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// BuildEffectiveConfig applies raw over DefaultConfig. Range checks are left
// to Validate.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	setString(&cfg.Display, raw.Display)
	setString(&cfg.XAuthority, raw.XAuthority)
	setString(&cfg.Frontend, raw.Frontend)

	if s := raw.Screen; s != nil {
		setInt(&cfg.Screen.Width, s.Width)
		setInt(&cfg.Screen.Height, s.Height)
	}
	if t := raw.Taskbar; t != nil {
		setInt(&cfg.Taskbar.Height, t.Height)
		setInt(&cfg.Taskbar.StartButtonWidth, t.StartButtonWidth)
		setInt(&cfg.Taskbar.ButtonWidth, t.ButtonWidth)
		setInt(&cfg.Taskbar.ButtonSpacing, t.ButtonSpacing)
		setString(&cfg.Taskbar.ClockFormat, t.ClockFormat)
	}
	if w := raw.Window; w != nil {
		setInt(&cfg.Window.TitlebarHeight, w.TitlebarHeight)
		setInt(&cfg.Window.TabHeight, w.TabHeight)
		setInt(&cfg.Window.ButtonSize, w.ButtonSize)
		setInt(&cfg.Window.ButtonMargin, w.ButtonMargin)
		setInt(&cfg.Window.ResizeHandle, w.ResizeHandle)
		setInt(&cfg.Window.MinWidth, w.MinWidth)
		setInt(&cfg.Window.MinHeight, w.MinHeight)
		setInt(&cfg.Window.TabMaxWidth, w.TabMaxWidth)
		setInt(&cfg.Window.KeepVisible, w.KeepVisible)
	}
	if in := raw.Input; in != nil {
		setInt(&cfg.Input.DoubleClickMS, in.DoubleClickMS)
		setInt(&cfg.Input.DoubleClickSlop, in.DoubleClickSlop)
	}
	setInt(&cfg.TickRate, raw.TickRate)
	setString(&cfg.Theme, raw.Theme)

	for name, colors := range raw.Themes {
		// A partial theme starts from the builtin of the same name, or from
		// the default theme when the name is new.
		base, ok := cfg.Themes[name]
		if !ok {
			base = cfg.Themes[DefaultTheme]
		}
		merged := make(map[string]string, len(base)+len(colors))
		for k, v := range base {
			merged[k] = v
		}
		for k, v := range colors {
			merged[k] = v
		}
		cfg.Themes[name] = merged
	}

	for kind, rl := range raw.Launchers {
		l, ok := cfg.Launchers[kind]
		if !ok {
			return nil, &ValidationError{Path: "launchers." + kind, Err: fmt.Errorf("unknown window kind")}
		}
		setString(&l.Title, rl.Title)
		setInt(&l.X, rl.X)
		setInt(&l.Y, rl.Y)
		setInt(&l.Width, rl.Width)
		setInt(&l.Height, rl.Height)
		cfg.Launchers[kind] = l
	}

	if a := raw.Arrange; a != nil {
		setInt(&cfg.Arrange.Gap, a.Gap)
		setInt(&cfg.Arrange.CascadeStep, a.CascadeStep)
	}
	if h := raw.Hotkeys; h != nil {
		setString(&cfg.Hotkeys.StartMenu, h.StartMenu)
		setString(&cfg.Hotkeys.CloseWindow, h.CloseWindow)
		setString(&cfg.Hotkeys.CycleWindows, h.CycleWindows)
	}
	setString(&cfg.LogLevel, raw.LogLevel)
	if lg := raw.Logging; lg != nil {
		if lg.Enabled != nil {
			cfg.Logging.Enabled = *lg.Enabled
		}
		setString(&cfg.Logging.Level, lg.Level)
		setString(&cfg.Logging.File, lg.File)
		setInt(&cfg.Logging.MaxSizeMB, lg.MaxSizeMB)
		setInt(&cfg.Logging.MaxFiles, lg.MaxFiles)
	}
	if d := raw.Debug; d != nil && d.CheckInvariants != nil {
		cfg.Debug.CheckInvariants = *d.CheckInvariants
	}

	return cfg, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
