// Package mcp exposes the running desktop to MCP clients over stdio. Every
// tool forwards to the daemon through the IPC socket, so the MCP server can
// run as a separate process started by the client.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/content"
	"github.com/1broseidon/deskshell/internal/ipc"
)

const ServerName = "deskshell"

// Client is the part of the IPC client the tools use.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	NewWindow(p ipc.NewWindowPayload) (uint64, error)
	CloseWindow(id uint64) error
	Minimize(id uint64) error
	Restore(id uint64) error
	ToggleMaximize(id uint64) error
	Focus(id uint64) error
	Move(id uint64, x, y int) error
	Resize(id uint64, width, height int) error
	SetTitle(id uint64, title string) error
	AddTab(parent, child uint64) error
	RemoveTab(parent uint64, index int) error
	SwitchTab(parent uint64, index int) error
	Arrange(mode string) error
	RunAction(p ipc.ActionPayload) (uint64, error)
	Exec(id uint64, line string) (*ipc.ExecData, error)
	SetTheme(name string, save bool) error
	ListThemes() (*ipc.ThemesData, error)
}

// Server is the MCP server for desktop control.
type Server struct {
	mcpServer *mcpsdk.Server
	client    Client
	logger    *slog.Logger
}

// NewServer creates an MCP server that drives the desktop through client.
func NewServer(client Client, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{client: client, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: content.Version,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "desktop_status",
		Description: "Report the running desktop: session id, frontend, theme, window count, active window, open menu and the drag or resize in progress.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List desktop windows bottom to top with geometry, state and tab group. Windows living as tabs are omitted unless include_tabs is set.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_window",
		Description: "Open a new window of the given content kind. The new window becomes active and topmost. Returns its id.",
	}, s.handleOpenWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. Closing a tab group closes every tab in it.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Raise a window to the top and make it active. A minimized window is restored first.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window to the taskbar.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a minimized window and make it active.",
	}, s.handleRestoreWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Toggle a window between maximized (filling the workspace above the taskbar) and its saved geometry.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window so its top-left corner is at x,y.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. Sizes below the minimum window size are clamped.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_title",
		Description: "Change a window's title.",
	}, s.handleSetTitle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "add_tab",
		Description: "Move a top-level window into another window's tab group and make it the selected tab.",
	}, s.handleAddTab)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_tab",
		Description: "Detach the tab at index from a tab group back into a top-level window.",
	}, s.handleRemoveTab)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "switch_tab",
		Description: "Select the tab at index inside a tab group.",
	}, s.handleSwitchTab)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "arrange_windows",
		Description: "Arrange all visible top-level windows. Mode grid, columns or rows tiles them over the workspace; cascade offsets them diagonally.",
	}, s.handleArrange)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "run_action",
		Description: "Run a desktop action as if chosen from a menu, such as new_terminal, tile_windows or change_background. Returns the id of any window the action opened.",
	}, s.handleRunAction)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "exec_terminal",
		Description: "Type a command line into a terminal window and return the lines it printed. The simulated terminal understands help, ls, cd, pwd, cat, echo, clear, date, uname, version, whoami and exit.",
	}, s.handleExec)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_theme",
		Description: "Switch the desktop color theme, optionally saving it to the config file.",
	}, s.handleSetTheme)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_themes",
		Description: "List the available color themes and the current one.",
	}, s.handleListThemes)
}
