package config

import (
	"fmt"
	"sort"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	frontend
//	screen.width
//	taskbar.clock_format
//	window.titlebar_height
//	input.double_click_ms
//	tick_rate
//	theme
//	themes.<name>
//	themes.<name>.<color>
//	launchers.<kind>.width
//	arrange.gap
//	hotkeys.start_menu
//	logging.max_files
//	debug.check_invariants
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	parts := strings.Split(path, ".")
	if len(parts) >= 2 {
		switch parts[0] {
		case "themes":
			if _, ok := BuiltinThemes()[parts[1]]; ok {
				return value, Source{Kind: SourceBuiltin, Name: parts[1]}, nil
			}
			return value, Source{Kind: SourceBuiltin, Name: DefaultTheme}, nil
		case "launchers":
			return value, Source{Kind: SourceBuiltin, Name: parts[1]}, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Paths lists every leaf path Explain accepts for cfg, sorted.
func Paths(cfg *Config) []string {
	var out []string
	for p := range scalarPaths {
		out = append(out, p)
	}
	for name, colors := range cfg.Themes {
		for key := range colors {
			out = append(out, "themes."+name+"."+key)
		}
	}
	for kind := range cfg.Launchers {
		for _, f := range []string{"title", "x", "y", "width", "height"} {
			out = append(out, "launchers."+kind+"."+f)
		}
	}
	sort.Strings(out)
	return out
}

var scalarPaths = map[string]func(*Config) any{
	"display":                    func(c *Config) any { return c.Display },
	"xauthority":                 func(c *Config) any { return c.XAuthority },
	"frontend":                   func(c *Config) any { return c.Frontend },
	"screen.width":               func(c *Config) any { return c.Screen.Width },
	"screen.height":              func(c *Config) any { return c.Screen.Height },
	"taskbar.height":             func(c *Config) any { return c.Taskbar.Height },
	"taskbar.start_button_width": func(c *Config) any { return c.Taskbar.StartButtonWidth },
	"taskbar.button_width":       func(c *Config) any { return c.Taskbar.ButtonWidth },
	"taskbar.button_spacing":     func(c *Config) any { return c.Taskbar.ButtonSpacing },
	"taskbar.clock_format":       func(c *Config) any { return c.Taskbar.ClockFormat },
	"window.titlebar_height":     func(c *Config) any { return c.Window.TitlebarHeight },
	"window.tab_height":          func(c *Config) any { return c.Window.TabHeight },
	"window.button_size":         func(c *Config) any { return c.Window.ButtonSize },
	"window.button_margin":       func(c *Config) any { return c.Window.ButtonMargin },
	"window.resize_handle":       func(c *Config) any { return c.Window.ResizeHandle },
	"window.min_width":           func(c *Config) any { return c.Window.MinWidth },
	"window.min_height":          func(c *Config) any { return c.Window.MinHeight },
	"window.tab_max_width":       func(c *Config) any { return c.Window.TabMaxWidth },
	"window.keep_visible":        func(c *Config) any { return c.Window.KeepVisible },
	"input.double_click_ms":      func(c *Config) any { return c.Input.DoubleClickMS },
	"input.double_click_slop":    func(c *Config) any { return c.Input.DoubleClickSlop },
	"tick_rate":                  func(c *Config) any { return c.TickRate },
	"theme":                      func(c *Config) any { return c.Theme },
	"arrange.gap":                func(c *Config) any { return c.Arrange.Gap },
	"arrange.cascade_step":       func(c *Config) any { return c.Arrange.CascadeStep },
	"hotkeys.start_menu":         func(c *Config) any { return c.Hotkeys.StartMenu },
	"hotkeys.close_window":       func(c *Config) any { return c.Hotkeys.CloseWindow },
	"hotkeys.cycle_windows":      func(c *Config) any { return c.Hotkeys.CycleWindows },
	"log_level":                  func(c *Config) any { return c.LogLevel },
	"logging.enabled":            func(c *Config) any { return c.Logging.Enabled },
	"logging.level":              func(c *Config) any { return c.Logging.Level },
	"logging.file":               func(c *Config) any { return c.Logging.File },
	"logging.max_size_mb":        func(c *Config) any { return c.Logging.MaxSizeMB },
	"logging.max_files":          func(c *Config) any { return c.Logging.MaxFiles },
	"debug.check_invariants":     func(c *Config) any { return c.Debug.CheckInvariants },
}

func lookupValue(cfg *Config, path string) (any, error) {
	if get, ok := scalarPaths[path]; ok {
		return get(cfg), nil
	}

	parts := strings.Split(path, ".")
	switch parts[0] {
	case "themes":
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		colors, ok := cfg.Themes[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown theme: %s", parts[1])
		}
		if len(parts) == 2 {
			return colors, nil
		}
		v, ok := colors[parts[2]]
		if !ok {
			return nil, fmt.Errorf("unknown theme color: %s", parts[2])
		}
		return v, nil
	case "launchers":
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		l, ok := cfg.Launchers[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown launcher: %s", parts[1])
		}
		if len(parts) == 2 {
			return l, nil
		}
		switch parts[2] {
		case "title":
			return l.Title, nil
		case "x":
			return l.X, nil
		case "y":
			return l.Y, nil
		case "width":
			return l.Width, nil
		case "height":
			return l.Height, nil
		}
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
