package mcp

import "github.com/1broseidon/deskshell/internal/ipc"

// WindowRef addresses one window.
type WindowRef struct {
	ID uint64 `json:"id" jsonschema:"Window id as reported by list_windows"`
}

// StatusInput is the input for the desktop_status tool.
type StatusInput struct{}

// StatusOutput is the output for the desktop_status tool.
type StatusOutput struct {
	Session       string `json:"session"`
	Frontend      string `json:"frontend"`
	Theme         string `json:"theme"`
	WindowCount   int    `json:"window_count"`
	ActiveWindow  uint64 `json:"active_window,omitempty"`
	Menu          string `json:"menu"`
	Transaction   string `json:"transaction"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeTabs bool `json:"include_tabs,omitempty" jsonschema:"Also list windows living as tabs inside another window (default: false)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	Kind   string `json:"kind" jsonschema:"Content kind: terminal, file_manager, browser, settings or default"`
	Title  string `json:"title,omitempty" jsonschema:"Window title (default: the launcher title for the kind)"`
	X      *int   `json:"x,omitempty" jsonschema:"Left edge in pixels"`
	Y      *int   `json:"y,omitempty" jsonschema:"Top edge in pixels"`
	Width  *int   `json:"width,omitempty" jsonschema:"Width in pixels; clamped to the minimum window size"`
	Height *int   `json:"height,omitempty" jsonschema:"Height in pixels; clamped to the minimum window size"`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	ID uint64 `json:"id"`
}

// WindowOpInput is the input for the single-window tools.
type WindowOpInput struct {
	ID uint64 `json:"id" jsonschema:"Window id as reported by list_windows"`
}

// WindowOpOutput echoes the window a tool acted on.
type WindowOpOutput struct {
	ID     uint64         `json:"id"`
	Window ipc.WindowInfo `json:"window"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	ID uint64 `json:"id" jsonschema:"Window id"`
	X  int    `json:"x" jsonschema:"New left edge in pixels"`
	Y  int    `json:"y" jsonschema:"New top edge in pixels"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	ID     uint64 `json:"id" jsonschema:"Window id"`
	Width  int    `json:"width" jsonschema:"New width in pixels"`
	Height int    `json:"height" jsonschema:"New height in pixels"`
}

// SetTitleInput is the input for the set_title tool.
type SetTitleInput struct {
	ID    uint64 `json:"id" jsonschema:"Window id"`
	Title string `json:"title" jsonschema:"New title"`
}

// AddTabInput is the input for the add_tab tool.
type AddTabInput struct {
	Parent uint64 `json:"parent" jsonschema:"Window that receives the tab"`
	Child  uint64 `json:"child" jsonschema:"Top-level window to move into the parent's tab group"`
}

// TabIndexInput is the input for the remove_tab and switch_tab tools.
type TabIndexInput struct {
	Parent uint64 `json:"parent" jsonschema:"Window that owns the tab group"`
	Index  int    `json:"index" jsonschema:"Zero-based tab index"`
}

// ArrangeInput is the input for the arrange_windows tool.
type ArrangeInput struct {
	Mode string `json:"mode" jsonschema:"grid, columns, rows or cascade"`
}

// RunActionInput is the input for the run_action tool.
type RunActionInput struct {
	Action string `json:"action" jsonschema:"Desktop action name, e.g. new_terminal, tile_windows, change_background, toggle_start_menu"`
	X      int    `json:"x,omitempty" jsonschema:"Pointer x position the action runs at (default: 0)"`
	Y      int    `json:"y,omitempty" jsonschema:"Pointer y position the action runs at (default: 0)"`
}

// RunActionOutput is the output for the run_action tool.
type RunActionOutput struct {
	Action   string `json:"action"`
	Launched uint64 `json:"launched,omitempty"`
}

// ExecInput is the input for the exec_terminal tool.
type ExecInput struct {
	ID   uint64 `json:"id" jsonschema:"Terminal window id"`
	Line string `json:"line" jsonschema:"Command line typed into the terminal followed by Enter"`
}

// ExecOutput is the output for the exec_terminal tool.
type ExecOutput struct {
	Output []string `json:"output"`
	Closed bool     `json:"closed,omitempty"`
}

// SetThemeInput is the input for the set_theme tool.
type SetThemeInput struct {
	Name string `json:"name" jsonschema:"Theme name as reported by list_themes"`
	Save bool   `json:"save,omitempty" jsonschema:"Also write the theme to the config file (default: false)"`
}

// ListThemesInput is the input for the list_themes tool.
type ListThemesInput struct{}

// ThemesOutput is the output for the theme tools.
type ThemesOutput struct {
	Themes  []string `json:"themes"`
	Current string   `json:"current"`
}
