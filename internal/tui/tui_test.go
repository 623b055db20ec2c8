package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/deskshell/internal/ipc"
)

type fakeClient struct {
	down    bool
	windows []ipc.WindowInfo
	themes  ipc.ThemesData
	calls   []string
	failOn  string
}

func (f *fakeClient) record(call string) error {
	f.calls = append(f.calls, call)
	if call == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.down {
		return nil, errors.New("daemon not running")
	}
	return &ipc.StatusData{Frontend: "x11", Theme: f.themes.Current, WindowCount: len(f.windows), Menu: "none", Transaction: "none"}, nil
}

func (f *fakeClient) ListWindows() ([]ipc.WindowInfo, error) { return f.windows, nil }
func (f *fakeClient) ListThemes() (*ipc.ThemesData, error)   { return &f.themes, nil }

func (f *fakeClient) NewWindow(p ipc.NewWindowPayload) (uint64, error) {
	return 9, f.record("new " + p.Kind)
}

func (f *fakeClient) CloseWindow(id uint64) error    { return f.record("close " + idString(id)) }
func (f *fakeClient) Minimize(id uint64) error       { return f.record("minimize " + idString(id)) }
func (f *fakeClient) Restore(id uint64) error        { return f.record("restore " + idString(id)) }
func (f *fakeClient) ToggleMaximize(id uint64) error { return f.record("maximize " + idString(id)) }
func (f *fakeClient) Focus(id uint64) error          { return f.record("focus " + idString(id)) }

func (f *fakeClient) SetTitle(id uint64, title string) error {
	return f.record("title " + idString(id) + " " + title)
}

func (f *fakeClient) SetTheme(name string, save bool) error {
	call := "theme " + name
	if save {
		call += " save"
	}
	return f.record(call)
}

func idString(id uint64) string {
	return string(rune('0' + id))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(c *fakeClient) model {
	m := newModel(c)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(model)
}

func press(t *testing.T, m model, keys ...string) model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(model)
	}
	return m
}

func sampleClient() *fakeClient {
	return &fakeClient{
		windows: []ipc.WindowInfo{
			{ID: 1, Title: "Terminal", Kind: "terminal", Tabs: []uint64{3}},
			{ID: 2, Title: "Browser", Kind: "browser", Active: true},
			{ID: 3, Title: "Terminal Tab", Kind: "terminal", Parent: 1, Z: -1},
		},
		themes: ipc.ThemesData{Themes: []string{"blue", "dark", "green"}, Current: "dark"},
	}
}

func TestOrderForList(t *testing.T) {
	got := orderForList(sampleClient().windows)
	var ids []uint64
	for _, w := range got {
		ids = append(ids, w.ID)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 3 || ids[2] != 2 {
		t.Fatalf("expected tabs under their parent, got %v", ids)
	}
}

func TestWindowsTab_Actions(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"enter"}, "focus 1"},
		{[]string{"m"}, "minimize 1"},
		{[]string{"down", "x"}, "close 3"},
		{[]string{"down", "down", "z"}, "maximize 2"},
		{[]string{"r"}, "restore 1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := sampleClient()
			m := press(t, newTestModel(c), tt.keys...)
			if len(c.calls) != 1 || c.calls[0] != tt.want {
				t.Fatalf("expected call %q, got %v", tt.want, c.calls)
			}
			if !strings.Contains(m.windowsTab.statusText, "\"") {
				t.Fatalf("expected a status naming the window, got %q", m.windowsTab.statusText)
			}
		})
	}
}

func TestWindowsTab_ErrorStatus(t *testing.T) {
	c := sampleClient()
	c.failOn = "close 1"
	m := press(t, newTestModel(c), "x")
	if m.windowsTab.statusText != "error: boom" {
		t.Fatalf("unexpected status %q", m.windowsTab.statusText)
	}
}

func TestWindowsTab_Rename(t *testing.T) {
	c := sampleClient()
	m := press(t, newTestModel(c), "down", "down", "t")
	if !m.windowsTab.renaming || m.windowsTab.rename.Value() != "Browser" {
		t.Fatalf("expected the editor prefilled with the title, got %q", m.windowsTab.rename.Value())
	}

	// Keys go to the editor, not to the tab switcher or quit.
	m = press(t, m, "ctrl+u", "q", "enter")
	if m.windowsTab.renaming {
		t.Fatalf("expected the editor to close")
	}
	if len(c.calls) != 1 || c.calls[0] != "title 2 q" {
		t.Fatalf("unexpected calls %v", c.calls)
	}

	m = press(t, m, "t", "esc")
	if m.windowsTab.renaming || len(c.calls) != 1 {
		t.Fatalf("escape should cancel without a call, calls %v", c.calls)
	}
}

func TestThemesTab_Apply(t *testing.T) {
	c := sampleClient()
	m := press(t, newTestModel(c), "2")
	if m.activeTab != TabThemes {
		t.Fatalf("expected the themes tab")
	}
	if got := m.themesTab.selectedName(); got != "dark" {
		t.Fatalf("expected the current theme selected, got %q", got)
	}

	m = press(t, m, "down", "s")
	if len(c.calls) != 1 || c.calls[0] != "theme green save" {
		t.Fatalf("unexpected calls %v", c.calls)
	}
	if m.themesTab.statusText != "applied and saved: green" {
		t.Fatalf("unexpected status %q", m.themesTab.statusText)
	}
}

func TestModel_TabCycleAndQuit(t *testing.T) {
	m := press(t, newTestModel(sampleClient()), "tab")
	if m.activeTab != TabThemes {
		t.Fatalf("expected tab to advance")
	}
	m = press(t, m, "tab")
	if m.activeTab != TabWindows {
		t.Fatalf("expected tab to wrap")
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatalf("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestModel_DesktopDown(t *testing.T) {
	m := newTestModel(&fakeClient{down: true})
	if m.status != nil {
		t.Fatalf("expected no status")
	}
	if !strings.Contains(m.View(), "desktop not running") {
		t.Fatalf("expected the status bar to say the desktop is down")
	}
	// Window actions with nothing selected are no-ops.
	press(t, m, "x")
}

func TestModel_ViewShowsStatus(t *testing.T) {
	view := newTestModel(sampleClient()).View()
	for _, want := range []string{"desktop running", "frontend:x11", "theme:dark", "windows:3", "Browser [2]"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestWindowForm_Payload(t *testing.T) {
	f := newWindowForm(60)
	f.fKind = "browser"
	f.fTitle = "  Docs "
	f.fWidth = "640"
	p, err := f.payload()
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Kind != "browser" || p.Title != "Docs" || p.Width == nil || *p.Width != 640 || p.Height != nil {
		t.Fatalf("unexpected payload %+v", p)
	}

	f.fHeight = "tall"
	if _, err := f.payload(); err == nil {
		t.Fatalf("expected an invalid height error")
	}
}

func TestOptionalSize(t *testing.T) {
	for _, s := range []string{"", " ", "1", "800"} {
		if err := optionalSize(s); err != nil {
			t.Errorf("optionalSize(%q): %v", s, err)
		}
	}
	for _, s := range []string{"0", "-5", "abc"} {
		if err := optionalSize(s); err == nil {
			t.Errorf("optionalSize(%q) accepted", s)
		}
	}
}
