package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawScreen struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawTaskbar struct {
	Height           *int    `yaml:"height"`
	StartButtonWidth *int    `yaml:"start_button_width"`
	ButtonWidth      *int    `yaml:"button_width"`
	ButtonSpacing    *int    `yaml:"button_spacing"`
	ClockFormat      *string `yaml:"clock_format"`
}

type RawWindow struct {
	TitlebarHeight *int `yaml:"titlebar_height"`
	TabHeight      *int `yaml:"tab_height"`
	ButtonSize     *int `yaml:"button_size"`
	ButtonMargin   *int `yaml:"button_margin"`
	ResizeHandle   *int `yaml:"resize_handle"`
	MinWidth       *int `yaml:"min_width"`
	MinHeight      *int `yaml:"min_height"`
	TabMaxWidth    *int `yaml:"tab_max_width"`
	KeepVisible    *int `yaml:"keep_visible"`
}

type RawInput struct {
	DoubleClickMS   *int `yaml:"double_click_ms"`
	DoubleClickSlop *int `yaml:"double_click_slop"`
}

type RawLauncher struct {
	Title  *string `yaml:"title"`
	X      *int    `yaml:"x"`
	Y      *int    `yaml:"y"`
	Width  *int    `yaml:"width"`
	Height *int    `yaml:"height"`
}

type RawArrange struct {
	Gap         *int `yaml:"gap"`
	CascadeStep *int `yaml:"cascade_step"`
}

type RawHotkeys struct {
	StartMenu    *string `yaml:"start_menu"`
	CloseWindow  *string `yaml:"close_window"`
	CycleWindows *string `yaml:"cycle_windows"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawDebug struct {
	CheckInvariants *bool `yaml:"check_invariants"`
}

type RawConfig struct {
	Include    IncludeList                  `yaml:"include"`
	Display    *string                      `yaml:"display"`
	XAuthority *string                      `yaml:"xauthority"`
	Frontend   *string                      `yaml:"frontend"`
	Screen     *RawScreen                   `yaml:"screen"`
	Taskbar    *RawTaskbar                  `yaml:"taskbar"`
	Window     *RawWindow                   `yaml:"window"`
	Input      *RawInput                    `yaml:"input"`
	TickRate   *int                         `yaml:"tick_rate"`
	Theme      *string                      `yaml:"theme"`
	Themes     map[string]map[string]string `yaml:"themes"`
	Launchers  map[string]RawLauncher       `yaml:"launchers"`
	Arrange    *RawArrange                  `yaml:"arrange"`
	Hotkeys    *RawHotkeys                  `yaml:"hotkeys"`
	LogLevel   *string                      `yaml:"log_level"`
	Logging    *RawLoggingConfig            `yaml:"logging"`
	Debug      *RawDebug                    `yaml:"debug"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.Frontend != nil {
		out.Frontend = overlay.Frontend
	}
	if overlay.Screen != nil {
		if out.Screen == nil {
			out.Screen = &RawScreen{}
		}
		merged := *out.Screen
		setIf(&merged.Width, overlay.Screen.Width)
		setIf(&merged.Height, overlay.Screen.Height)
		out.Screen = &merged
	}
	if overlay.Taskbar != nil {
		if out.Taskbar == nil {
			out.Taskbar = &RawTaskbar{}
		}
		merged := *out.Taskbar
		setIf(&merged.Height, overlay.Taskbar.Height)
		setIf(&merged.StartButtonWidth, overlay.Taskbar.StartButtonWidth)
		setIf(&merged.ButtonWidth, overlay.Taskbar.ButtonWidth)
		setIf(&merged.ButtonSpacing, overlay.Taskbar.ButtonSpacing)
		setIf(&merged.ClockFormat, overlay.Taskbar.ClockFormat)
		out.Taskbar = &merged
	}
	if overlay.Window != nil {
		if out.Window == nil {
			out.Window = &RawWindow{}
		}
		merged := mergeRawWindow(*out.Window, *overlay.Window)
		out.Window = &merged
	}
	if overlay.Input != nil {
		if out.Input == nil {
			out.Input = &RawInput{}
		}
		merged := *out.Input
		setIf(&merged.DoubleClickMS, overlay.Input.DoubleClickMS)
		setIf(&merged.DoubleClickSlop, overlay.Input.DoubleClickSlop)
		out.Input = &merged
	}
	if overlay.TickRate != nil {
		out.TickRate = overlay.TickRate
	}
	if overlay.Theme != nil {
		out.Theme = overlay.Theme
	}

	if overlay.Themes != nil {
		themes := make(map[string]map[string]string, len(out.Themes)+len(overlay.Themes))
		for name, colors := range out.Themes {
			themes[name] = colors
		}
		for name, colors := range overlay.Themes {
			merged := make(map[string]string, len(themes[name])+len(colors))
			for k, v := range themes[name] {
				merged[k] = v
			}
			for k, v := range colors {
				merged[k] = v
			}
			themes[name] = merged
		}
		out.Themes = themes
	}

	if overlay.Launchers != nil {
		launchers := make(map[string]RawLauncher, len(out.Launchers)+len(overlay.Launchers))
		for kind, l := range out.Launchers {
			launchers[kind] = l
		}
		for kind, l := range overlay.Launchers {
			launchers[kind] = mergeRawLauncher(launchers[kind], l)
		}
		out.Launchers = launchers
	}

	if overlay.Arrange != nil {
		if out.Arrange == nil {
			out.Arrange = &RawArrange{}
		}
		merged := *out.Arrange
		setIf(&merged.Gap, overlay.Arrange.Gap)
		setIf(&merged.CascadeStep, overlay.Arrange.CascadeStep)
		out.Arrange = &merged
	}
	if overlay.Hotkeys != nil {
		if out.Hotkeys == nil {
			out.Hotkeys = &RawHotkeys{}
		}
		merged := *out.Hotkeys
		setIf(&merged.StartMenu, overlay.Hotkeys.StartMenu)
		setIf(&merged.CloseWindow, overlay.Hotkeys.CloseWindow)
		setIf(&merged.CycleWindows, overlay.Hotkeys.CycleWindows)
		out.Hotkeys = &merged
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		merged := *out.Logging
		setIf(&merged.Enabled, overlay.Logging.Enabled)
		setIf(&merged.Level, overlay.Logging.Level)
		setIf(&merged.File, overlay.Logging.File)
		setIf(&merged.MaxSizeMB, overlay.Logging.MaxSizeMB)
		setIf(&merged.MaxFiles, overlay.Logging.MaxFiles)
		out.Logging = &merged
	}
	if overlay.Debug != nil {
		if out.Debug == nil {
			out.Debug = &RawDebug{}
		}
		merged := *out.Debug
		setIf(&merged.CheckInvariants, overlay.Debug.CheckInvariants)
		out.Debug = &merged
	}

	return out
}

// setIf overwrites *dst when the overlay value is present.
func setIf[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func mergeRawWindow(base RawWindow, overlay RawWindow) RawWindow {
	out := base
	setIf(&out.TitlebarHeight, overlay.TitlebarHeight)
	setIf(&out.TabHeight, overlay.TabHeight)
	setIf(&out.ButtonSize, overlay.ButtonSize)
	setIf(&out.ButtonMargin, overlay.ButtonMargin)
	setIf(&out.ResizeHandle, overlay.ResizeHandle)
	setIf(&out.MinWidth, overlay.MinWidth)
	setIf(&out.MinHeight, overlay.MinHeight)
	setIf(&out.TabMaxWidth, overlay.TabMaxWidth)
	setIf(&out.KeepVisible, overlay.KeepVisible)
	return out
}

func mergeRawLauncher(base RawLauncher, overlay RawLauncher) RawLauncher {
	out := base
	setIf(&out.Title, overlay.Title)
	setIf(&out.X, overlay.X)
	setIf(&out.Y, overlay.Y)
	setIf(&out.Width, overlay.Width)
	setIf(&out.Height, overlay.Height)
	return out
}
