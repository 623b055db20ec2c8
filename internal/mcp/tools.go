package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/arrange"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/shell"
)

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, s.fail("desktop_status", err)
	}
	return nil, StatusOutput{
		Session:       st.Session,
		Frontend:      st.Frontend,
		Theme:         st.Theme,
		WindowCount:   st.WindowCount,
		ActiveWindow:  st.ActiveWindow,
		Menu:          st.Menu,
		Transaction:   st.Transaction,
		UptimeSeconds: st.UptimeSeconds,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, s.fail("list_windows", err)
	}
	out := ListWindowsOutput{Windows: make([]ipc.WindowInfo, 0, len(windows))}
	for _, w := range windows {
		if w.Parent != 0 && !args.IncludeTabs {
			continue
		}
		out.Windows = append(out.Windows, w)
	}
	return nil, out, nil
}

func (s *Server) handleOpenWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenWindowInput) (*mcpsdk.CallToolResult, OpenWindowOutput, error) {
	kind := strings.TrimSpace(args.Kind)
	if kind == "" {
		return nil, OpenWindowOutput{}, fmt.Errorf("kind is required")
	}
	id, err := s.client.NewWindow(ipc.NewWindowPayload{
		Kind:   kind,
		Title:  args.Title,
		X:      args.X,
		Y:      args.Y,
		Width:  args.Width,
		Height: args.Height,
	})
	if err != nil {
		return nil, OpenWindowOutput{}, s.fail("open_window", err)
	}
	s.logger.Info("mcp opened window", "id", id, "kind", kind)
	return nil, OpenWindowOutput{ID: id}, nil
}

func (s *Server) handleCloseWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowOpInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	if err := s.client.CloseWindow(args.ID); err != nil {
		return nil, WindowOpOutput{}, s.fail("close_window", err)
	}
	return nil, WindowOpOutput{ID: args.ID}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowOpInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("focus_window", args.ID, s.client.Focus)
}

func (s *Server) handleMinimizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowOpInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("minimize_window", args.ID, s.client.Minimize)
}

func (s *Server) handleRestoreWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowOpInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("restore_window", args.ID, s.client.Restore)
}

func (s *Server) handleMaximizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowOpInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("maximize_window", args.ID, s.client.ToggleMaximize)
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("move_window", args.ID, func(id uint64) error {
		return s.client.Move(id, args.X, args.Y)
	})
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	if args.Width <= 0 || args.Height <= 0 {
		return nil, WindowOpOutput{}, fmt.Errorf("width and height must be positive")
	}
	return s.windowOp("resize_window", args.ID, func(id uint64) error {
		return s.client.Resize(id, args.Width, args.Height)
	})
}

func (s *Server) handleSetTitle(_ context.Context, _ *mcpsdk.CallToolRequest, args SetTitleInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("set_title", args.ID, func(id uint64) error {
		return s.client.SetTitle(id, args.Title)
	})
}

func (s *Server) handleAddTab(_ context.Context, _ *mcpsdk.CallToolRequest, args AddTabInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	if args.Parent == args.Child {
		return nil, WindowOpOutput{}, fmt.Errorf("a window cannot be a tab of itself")
	}
	return s.windowOp("add_tab", args.Parent, func(id uint64) error {
		return s.client.AddTab(id, args.Child)
	})
}

func (s *Server) handleRemoveTab(_ context.Context, _ *mcpsdk.CallToolRequest, args TabIndexInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("remove_tab", args.Parent, func(id uint64) error {
		return s.client.RemoveTab(id, args.Index)
	})
}

func (s *Server) handleSwitchTab(_ context.Context, _ *mcpsdk.CallToolRequest, args TabIndexInput) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	return s.windowOp("switch_tab", args.Parent, func(id uint64) error {
		return s.client.SwitchTab(id, args.Index)
	})
}

func (s *Server) handleArrange(_ context.Context, _ *mcpsdk.CallToolRequest, args ArrangeInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	mode, err := arrange.ParseMode(args.Mode)
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	if err := s.client.Arrange(string(mode)); err != nil {
		return nil, ListWindowsOutput{}, s.fail("arrange_windows", err)
	}
	return s.handleListWindows(context.Background(), nil, ListWindowsInput{})
}

func (s *Server) handleRunAction(_ context.Context, _ *mcpsdk.CallToolRequest, args RunActionInput) (*mcpsdk.CallToolResult, RunActionOutput, error) {
	action, err := shell.ParseAction(args.Action)
	if err != nil {
		return nil, RunActionOutput{}, err
	}
	launched, err := s.client.RunAction(ipc.ActionPayload{Action: action.String(), X: args.X, Y: args.Y})
	if err != nil {
		return nil, RunActionOutput{}, s.fail("run_action", err)
	}
	s.logger.Info("mcp ran action", "action", action.String(), "launched", launched)
	return nil, RunActionOutput{Action: action.String(), Launched: launched}, nil
}

func (s *Server) handleExec(_ context.Context, _ *mcpsdk.CallToolRequest, args ExecInput) (*mcpsdk.CallToolResult, ExecOutput, error) {
	data, err := s.client.Exec(args.ID, args.Line)
	if err != nil {
		return nil, ExecOutput{}, s.fail("exec_terminal", err)
	}
	out := ExecOutput{Output: data.Output, Closed: data.Closed}
	if out.Output == nil {
		out.Output = []string{}
	}
	return nil, out, nil
}

func (s *Server) handleSetTheme(_ context.Context, _ *mcpsdk.CallToolRequest, args SetThemeInput) (*mcpsdk.CallToolResult, ThemesOutput, error) {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return nil, ThemesOutput{}, fmt.Errorf("name is required")
	}
	if err := s.client.SetTheme(name, args.Save); err != nil {
		return nil, ThemesOutput{}, s.fail("set_theme", err)
	}
	return s.handleListThemes(context.Background(), nil, ListThemesInput{})
}

func (s *Server) handleListThemes(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListThemesInput) (*mcpsdk.CallToolResult, ThemesOutput, error) {
	data, err := s.client.ListThemes()
	if err != nil {
		return nil, ThemesOutput{}, s.fail("list_themes", err)
	}
	return nil, ThemesOutput{Themes: data.Themes, Current: data.Current}, nil
}

// windowOp runs op on id and reports the window's state afterwards.
func (s *Server) windowOp(tool string, id uint64, op func(uint64) error) (*mcpsdk.CallToolResult, WindowOpOutput, error) {
	if err := op(id); err != nil {
		return nil, WindowOpOutput{}, s.fail(tool, err)
	}
	out := WindowOpOutput{ID: id}
	windows, err := s.client.ListWindows()
	if err != nil {
		return nil, out, s.fail(tool, err)
	}
	for _, w := range windows {
		if w.ID == id {
			out.Window = w
			break
		}
	}
	return nil, out, nil
}

func (s *Server) fail(tool string, err error) error {
	s.logger.Warn("mcp tool failed", "tool", tool, "error", err)
	return fmt.Errorf("%s: %w", tool, err)
}
