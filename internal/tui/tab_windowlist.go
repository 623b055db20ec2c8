package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/ipc"
)

// windowItem implements list.Item for the window list.
type windowItem struct {
	info ipc.WindowInfo
}

func (i windowItem) Title() string {
	prefix := "  "
	if i.info.Active {
		prefix = "* "
	}
	if i.info.Parent != 0 {
		prefix += "  └ "
	}
	return fmt.Sprintf("%s%s [%d]", prefix, i.info.Title, i.info.ID)
}

func (i windowItem) Description() string {
	var flags []string
	if i.info.Minimized {
		flags = append(flags, "minimized")
	}
	if i.info.Maximized {
		flags = append(flags, "maximized")
	}
	if n := len(i.info.Tabs); n > 0 {
		flags = append(flags, fmt.Sprintf("%d tabs", n))
	}
	desc := fmt.Sprintf("%s  %dx%d at %d,%d", i.info.Kind, i.info.Width, i.info.Height, i.info.X, i.info.Y)
	if len(flags) > 0 {
		desc += "  " + strings.Join(flags, ", ")
	}
	return desc
}

func (i windowItem) FilterValue() string { return i.info.Title }

// WindowsTab lists the desktop's windows and acts on the selected one.
type WindowsTab struct {
	list   list.Model
	client Client

	// New window form
	adding bool
	form   *windowForm

	// Title editor
	renaming bool
	renameID uint64
	rename   textinput.Model

	statusText string

	width  int
	height int
}

// NewWindowsTab creates the windows tab.
func NewWindowsTab(client Client) WindowsTab {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return WindowsTab{list: l, client: client}
}

// SetWindows replaces the listed windows, keeping the selection on the same
// window when it still exists.
func (wt *WindowsTab) SetWindows(windows []ipc.WindowInfo) {
	selected, hadSelection := wt.selected()

	items := make([]list.Item, 0, len(windows))
	index := 0
	for _, w := range orderForList(windows) {
		if hadSelection && w.ID == selected.ID {
			index = len(items)
		}
		items = append(items, windowItem{info: w})
	}
	wt.list.SetItems(items)
	if len(items) > 0 {
		wt.list.Select(index)
	}
}

// orderForList puts each window's tabs directly under it.
func orderForList(windows []ipc.WindowInfo) []ipc.WindowInfo {
	byID := make(map[uint64]ipc.WindowInfo, len(windows))
	for _, w := range windows {
		byID[w.ID] = w
	}
	out := make([]ipc.WindowInfo, 0, len(windows))
	for _, w := range windows {
		if w.Parent != 0 {
			continue
		}
		out = append(out, w)
		for _, id := range w.Tabs {
			if tab, ok := byID[id]; ok {
				out = append(out, tab)
			}
		}
	}
	return out
}

func (wt WindowsTab) selected() (ipc.WindowInfo, bool) {
	item, ok := wt.list.SelectedItem().(windowItem)
	if !ok {
		return ipc.WindowInfo{}, false
	}
	return item.info, true
}

// capturing reports whether a form or editor owns the keyboard.
func (wt WindowsTab) capturing() bool {
	return wt.adding || wt.renaming
}

// Update implements tea.Model.
func (wt WindowsTab) Update(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if wt.adding {
		return wt.updateAdding(msg)
	}
	if wt.renaming {
		return wt.updateRenaming(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		wt.width = msg.Width
		wt.height = msg.Height
		wt.updateListSize()
		return wt, nil

	case statusMsg:
		wt.statusText = msg.text
		return wt, clearStatusAfter()

	case clearStatusMsg:
		wt.statusText = ""
		return wt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			wt.form = newWindowForm(wt.width - 4)
			wt.adding = true
			return wt, wt.form.form.Init()
		case "t":
			w, ok := wt.selected()
			if !ok {
				return wt, nil
			}
			wt.rename = textinput.New()
			wt.rename.Prompt = "title: "
			wt.rename.CharLimit = 120
			wt.rename.SetValue(w.Title)
			wt.renameID = w.ID
			wt.renaming = true
			return wt, wt.rename.Focus()
		case "enter", "f":
			return wt.act("focused", wt.client.Focus)
		case "m":
			return wt.act("minimized", wt.client.Minimize)
		case "r":
			return wt.act("restored", wt.client.Restore)
		case "z":
			return wt.act("toggled maximize on", wt.client.ToggleMaximize)
		case "x", "delete":
			return wt.act("closed", wt.client.CloseWindow)
		}
	}

	var cmd tea.Cmd
	wt.list, cmd = wt.list.Update(msg)
	return wt, cmd
}

func (wt WindowsTab) updateAdding(msg tea.Msg) (WindowsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			wt.adding = false
			wt.form = nil
			return wt, nil
		}
	case tea.WindowSizeMsg:
		wt.width = msg.Width
		wt.height = msg.Height
		wt.updateListSize()
	}

	form, cmd := wt.form.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		wt.form.form = f
	}

	switch wt.form.form.State {
	case huh.StateCompleted:
		p, err := wt.form.payload()
		wt.adding = false
		wt.form = nil
		if err == nil {
			var id uint64
			id, err = wt.client.NewWindow(p)
			wt.statusText = resultText(fmt.Sprintf("opened window %d", id), err)
		} else {
			wt.statusText = resultText("", err)
		}
		return wt, tea.Batch(clearStatusAfter(), refresh)
	case huh.StateAborted:
		wt.adding = false
		wt.form = nil
		return wt, nil
	}
	return wt, cmd
}

func (wt WindowsTab) updateRenaming(msg tea.Msg) (WindowsTab, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			wt.renaming = false
			return wt, nil
		case "enter":
			wt.renaming = false
			title := strings.TrimSpace(wt.rename.Value())
			if title == "" {
				wt.statusText = "error: title cannot be empty"
				return wt, clearStatusAfter()
			}
			err := wt.client.SetTitle(wt.renameID, title)
			wt.statusText = resultText(fmt.Sprintf("renamed to %q", title), err)
			return wt, tea.Batch(clearStatusAfter(), refresh)
		}
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		wt.width = ws.Width
		wt.height = ws.Height
		wt.updateListSize()
		return wt, nil
	}

	var cmd tea.Cmd
	wt.rename, cmd = wt.rename.Update(msg)
	return wt, cmd
}

// act runs op on the selected window and schedules a refresh.
func (wt WindowsTab) act(verb string, op func(uint64) error) (WindowsTab, tea.Cmd) {
	w, ok := wt.selected()
	if !ok {
		return wt, nil
	}
	err := op(w.ID)
	wt.statusText = resultText(fmt.Sprintf("%s %q", verb, w.Title), err)
	return wt, tea.Batch(clearStatusAfter(), refresh)
}

func (wt *WindowsTab) updateListSize() {
	// Reserve 2 lines for the status line at the bottom of the tab
	h := wt.height - 2
	if h < 1 {
		h = 1
	}
	wt.list.SetSize(wt.width, h)
}

// View implements tea.Model.
func (wt WindowsTab) View() string {
	if wt.width == 0 || wt.height == 0 {
		return ""
	}
	if wt.adding && wt.form != nil {
		return lipgloss.NewStyle().Padding(0, 2).Render(wt.form.form.View())
	}

	body := wt.list.View()
	if len(wt.list.Items()) == 0 {
		body = lipgloss.NewStyle().
			Width(wt.width).
			Height(wt.height-2).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center).
			Render("no windows (press n to open one)")
	}
	if wt.renaming {
		return lipgloss.JoinVertical(lipgloss.Left, body,
			renderTabStatus(wt.rename.View(), "enter:save  esc:cancel", wt.width))
	}
	status := renderTabStatus(wt.statusText, "enter:focus  m:min  r:restore  z:max  x:close  t:title  n:new", wt.width)
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}
