package shell

import (
	"fmt"
	"strings"
)

// Action is a command the shell can run. Menu items, desktop icons, hotkeys,
// IPC and MCP all name actions instead of carrying callbacks.
type Action int

const (
	ActionNone Action = iota
	ActionNewTerminal
	ActionNewFileManager
	ActionNewBrowser
	ActionNewSettings
	ActionNewWindow
	ActionCreateTab
	ActionTileWindows
	ActionCascadeWindows
	ActionChangeBackground
	ActionProperties
	ActionToggleStartMenu
	ActionCloseWindow
	ActionCycleWindows
	ActionLogOut
)

var actionNames = map[Action]string{
	ActionNone:             "none",
	ActionNewTerminal:      "new_terminal",
	ActionNewFileManager:   "new_file_manager",
	ActionNewBrowser:       "new_browser",
	ActionNewSettings:      "new_settings",
	ActionNewWindow:        "new_window",
	ActionCreateTab:        "create_tab",
	ActionTileWindows:      "tile_windows",
	ActionCascadeWindows:   "cascade_windows",
	ActionChangeBackground: "change_background",
	ActionProperties:       "properties",
	ActionToggleStartMenu:  "toggle_start_menu",
	ActionCloseWindow:      "close_window",
	ActionCycleWindows:     "cycle_windows",
	ActionLogOut:           "log_out",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Actions returns every runnable action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, len(actionNames)-1)
	for a := ActionNewTerminal; a <= ActionLogOut; a++ {
		out = append(out, a)
	}
	return out
}

// ParseAction resolves an action name. Dashes and case are ignored.
func ParseAction(s string) (Action, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for a, n := range actionNames {
		if a != ActionNone && n == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}
