package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/deskshell/internal/ipc"
)

type fakeClient struct {
	windows []ipc.WindowInfo
	themes  ipc.ThemesData
	calls   []string
	failOn  string
}

func (f *fakeClient) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failOn != "" && strings.HasPrefix(call, f.failOn) {
		return errors.New("window not found")
	}
	return nil
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	return &ipc.StatusData{Session: "s1", Frontend: "headless", Theme: f.themes.Current, WindowCount: len(f.windows), DaemonRunning: true}, nil
}

func (f *fakeClient) ListWindows() ([]ipc.WindowInfo, error) { return f.windows, nil }

func (f *fakeClient) NewWindow(p ipc.NewWindowPayload) (uint64, error) {
	if err := f.record("new " + p.Kind); err != nil {
		return 0, err
	}
	id := uint64(len(f.windows) + 1)
	f.windows = append(f.windows, ipc.WindowInfo{ID: id, Kind: p.Kind, Title: p.Title})
	return id, nil
}

func (f *fakeClient) CloseWindow(id uint64) error    { return f.record(fmt.Sprintf("close %d", id)) }
func (f *fakeClient) Minimize(id uint64) error       { return f.record(fmt.Sprintf("minimize %d", id)) }
func (f *fakeClient) Restore(id uint64) error        { return f.record(fmt.Sprintf("restore %d", id)) }
func (f *fakeClient) ToggleMaximize(id uint64) error { return f.record(fmt.Sprintf("maximize %d", id)) }
func (f *fakeClient) Focus(id uint64) error          { return f.record(fmt.Sprintf("focus %d", id)) }

func (f *fakeClient) Move(id uint64, x, y int) error {
	return f.record(fmt.Sprintf("move %d %d %d", id, x, y))
}

func (f *fakeClient) Resize(id uint64, width, height int) error {
	return f.record(fmt.Sprintf("resize %d %d %d", id, width, height))
}

func (f *fakeClient) SetTitle(id uint64, title string) error {
	return f.record(fmt.Sprintf("title %d %s", id, title))
}

func (f *fakeClient) AddTab(parent, child uint64) error {
	return f.record(fmt.Sprintf("add_tab %d %d", parent, child))
}

func (f *fakeClient) RemoveTab(parent uint64, index int) error {
	return f.record(fmt.Sprintf("remove_tab %d %d", parent, index))
}

func (f *fakeClient) SwitchTab(parent uint64, index int) error {
	return f.record(fmt.Sprintf("switch_tab %d %d", parent, index))
}

func (f *fakeClient) Arrange(mode string) error { return f.record("arrange " + mode) }

func (f *fakeClient) RunAction(p ipc.ActionPayload) (uint64, error) {
	if err := f.record(fmt.Sprintf("action %s %d %d", p.Action, p.X, p.Y)); err != nil {
		return 0, err
	}
	if p.Action == "new_terminal" {
		return 7, nil
	}
	return 0, nil
}

func (f *fakeClient) Exec(id uint64, line string) (*ipc.ExecData, error) {
	if err := f.record(fmt.Sprintf("exec %d %s", id, line)); err != nil {
		return nil, err
	}
	if line == "exit" {
		return &ipc.ExecData{Output: []string{"logout"}, Closed: true}, nil
	}
	return &ipc.ExecData{Output: []string{"/home/user"}}, nil
}

func (f *fakeClient) SetTheme(name string, save bool) error {
	if err := f.record(fmt.Sprintf("theme %s %t", name, save)); err != nil {
		return err
	}
	f.themes.Current = name
	return nil
}

func (f *fakeClient) ListThemes() (*ipc.ThemesData, error) {
	t := f.themes
	return &t, nil
}

func connect(t *testing.T, client Client) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	s := NewServer(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ss, err := s.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { _ = ss.Close() })

	cs, err := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil).Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

// call runs a tool and decodes its JSON text result into out.
func call(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any, out any) *mcpsdk.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("CallTool(%s): empty content", name)
	}
	text, ok := res.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("CallTool(%s): content is %T", name, res.Content[0])
	}
	if out != nil && !res.IsError {
		if err := json.Unmarshal([]byte(text.Text), out); err != nil {
			t.Fatalf("decode %s result %q: %v", name, text.Text, err)
		}
	}
	return res
}

func errorText(res *mcpsdk.CallToolResult) string {
	if len(res.Content) == 0 {
		return ""
	}
	if text, ok := res.Content[0].(*mcpsdk.TextContent); ok {
		return text.Text
	}
	return ""
}

func TestTools_Listed(t *testing.T) {
	cs := connect(t, &fakeClient{})
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"desktop_status", "list_windows", "open_window", "close_window", "focus_window",
		"minimize_window", "restore_window", "maximize_window", "move_window", "resize_window",
		"set_title", "add_tab", "remove_tab", "switch_tab", "arrange_windows", "run_action",
		"exec_terminal", "set_theme", "list_themes",
	} {
		if !names[want] {
			t.Errorf("tool %q not registered", want)
		}
	}
}

func TestStatus(t *testing.T) {
	fc := &fakeClient{themes: ipc.ThemesData{Current: "blue"}}
	cs := connect(t, fc)

	var out StatusOutput
	call(t, cs, "desktop_status", map[string]any{}, &out)
	if out.Session != "s1" || out.Theme != "blue" || out.Frontend != "headless" {
		t.Fatalf("unexpected status %+v", out)
	}
}

func TestListWindows_HidesTabsByDefault(t *testing.T) {
	fc := &fakeClient{windows: []ipc.WindowInfo{
		{ID: 1, Title: "Parent", Tabs: []uint64{2}},
		{ID: 2, Title: "Child", Parent: 1},
		{ID: 3, Title: "Other"},
	}}
	cs := connect(t, fc)

	var out ListWindowsOutput
	call(t, cs, "list_windows", map[string]any{}, &out)
	if len(out.Windows) != 2 || out.Windows[0].ID != 1 || out.Windows[1].ID != 3 {
		t.Fatalf("unexpected windows %+v", out.Windows)
	}

	out = ListWindowsOutput{}
	call(t, cs, "list_windows", map[string]any{"include_tabs": true}, &out)
	if len(out.Windows) != 3 {
		t.Fatalf("expected tabs included, got %+v", out.Windows)
	}
}

func TestOpenWindow(t *testing.T) {
	fc := &fakeClient{}
	cs := connect(t, fc)

	var out OpenWindowOutput
	call(t, cs, "open_window", map[string]any{"kind": "terminal", "title": "Shell", "width": 500}, &out)
	if out.ID != 1 {
		t.Fatalf("ID = %d, want 1", out.ID)
	}
	if fc.calls[0] != "new terminal" {
		t.Fatalf("unexpected calls %v", fc.calls)
	}

	res := call(t, cs, "open_window", map[string]any{"kind": " "}, nil)
	if !res.IsError || !strings.Contains(errorText(res), "kind is required") {
		t.Fatalf("expected kind error, got %q", errorText(res))
	}
}

func TestWindowTools(t *testing.T) {
	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"close_window", map[string]any{"id": 4}, "close 4"},
		{"focus_window", map[string]any{"id": 4}, "focus 4"},
		{"minimize_window", map[string]any{"id": 4}, "minimize 4"},
		{"restore_window", map[string]any{"id": 4}, "restore 4"},
		{"maximize_window", map[string]any{"id": 4}, "maximize 4"},
		{"move_window", map[string]any{"id": 4, "x": 10, "y": 20}, "move 4 10 20"},
		{"resize_window", map[string]any{"id": 4, "width": 300, "height": 200}, "resize 4 300 200"},
		{"set_title", map[string]any{"id": 4, "title": "Notes"}, "title 4 Notes"},
		{"add_tab", map[string]any{"parent": 4, "child": 5}, "add_tab 4 5"},
		{"remove_tab", map[string]any{"parent": 4, "index": 1}, "remove_tab 4 1"},
		{"switch_tab", map[string]any{"parent": 4, "index": 0}, "switch_tab 4 0"},
		{"arrange_windows", map[string]any{"mode": "Columns"}, "arrange columns"},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			fc := &fakeClient{windows: []ipc.WindowInfo{{ID: 4, Title: "Four"}}}
			cs := connect(t, fc)

			res := call(t, cs, tt.tool, tt.args, nil)
			if res.IsError {
				t.Fatalf("%s failed: %s", tt.tool, errorText(res))
			}
			if len(fc.calls) != 1 || fc.calls[0] != tt.want {
				t.Fatalf("calls = %v, want [%s]", fc.calls, tt.want)
			}
		})
	}
}

func TestWindowOp_ReportsWindow(t *testing.T) {
	fc := &fakeClient{windows: []ipc.WindowInfo{{ID: 4, Title: "Four", Minimized: true}}}
	cs := connect(t, fc)

	var out WindowOpOutput
	call(t, cs, "minimize_window", map[string]any{"id": 4}, &out)
	if out.ID != 4 || out.Window.Title != "Four" || !out.Window.Minimized {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestToolErrors(t *testing.T) {
	tests := []struct {
		name   string
		tool   string
		args   map[string]any
		failOn string
		want   string
	}{
		{"daemon error", "focus_window", map[string]any{"id": 9}, "focus", "focus_window: window not found"},
		{"bad arrange mode", "arrange_windows", map[string]any{"mode": "spiral"}, "", "unknown arrange mode"},
		{"self tab", "add_tab", map[string]any{"parent": 2, "child": 2}, "", "tab of itself"},
		{"bad size", "resize_window", map[string]any{"id": 2, "width": 0, "height": 10}, "", "must be positive"},
		{"unknown action", "run_action", map[string]any{"action": "explode"}, "", "unknown action"},
		{"empty theme", "set_theme", map[string]any{"name": ""}, "", "name is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{failOn: tt.failOn}
			cs := connect(t, fc)

			res := call(t, cs, tt.tool, tt.args, nil)
			if !res.IsError {
				t.Fatalf("expected error result")
			}
			if got := errorText(res); !strings.Contains(got, tt.want) {
				t.Fatalf("error %q does not contain %q", got, tt.want)
			}
		})
	}
}

func TestRunAction(t *testing.T) {
	fc := &fakeClient{}
	cs := connect(t, fc)

	var out RunActionOutput
	call(t, cs, "run_action", map[string]any{"action": "New-Terminal", "x": 5, "y": 6}, &out)
	if out.Action != "new_terminal" || out.Launched != 7 {
		t.Fatalf("unexpected output %+v", out)
	}
	if fc.calls[0] != "action new_terminal 5 6" {
		t.Fatalf("unexpected calls %v", fc.calls)
	}
}

func TestExec(t *testing.T) {
	fc := &fakeClient{}
	cs := connect(t, fc)

	var out ExecOutput
	call(t, cs, "exec_terminal", map[string]any{"id": 3, "line": "pwd"}, &out)
	if len(out.Output) != 1 || out.Output[0] != "/home/user" || out.Closed {
		t.Fatalf("unexpected output %+v", out)
	}

	out = ExecOutput{}
	call(t, cs, "exec_terminal", map[string]any{"id": 3, "line": "exit"}, &out)
	if !out.Closed {
		t.Fatalf("expected terminal closed, got %+v", out)
	}
}

func TestThemes(t *testing.T) {
	fc := &fakeClient{themes: ipc.ThemesData{Themes: []string{"blue", "dark"}, Current: "blue"}}
	cs := connect(t, fc)

	var out ThemesOutput
	call(t, cs, "set_theme", map[string]any{"name": "dark", "save": true}, &out)
	if out.Current != "dark" || len(out.Themes) != 2 {
		t.Fatalf("unexpected themes %+v", out)
	}
	if fc.calls[0] != "theme dark true" {
		t.Fatalf("unexpected calls %v", fc.calls)
	}
}
