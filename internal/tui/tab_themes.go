package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/ipc"
)

// themeItem implements list.Item for the theme picker.
type themeItem struct {
	name    string
	current bool
}

func (i themeItem) Title() string {
	if i.current {
		return "* " + i.name
	}
	return "  " + i.name
}

func (i themeItem) Description() string { return "" }
func (i themeItem) FilterValue() string { return i.name }

// ThemesTab switches the desktop theme.
type ThemesTab struct {
	list   list.Model
	client Client

	statusText string

	width  int
	height int
}

// NewThemesTab creates the themes tab.
func NewThemesTab(client Client) ThemesTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Themes"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return ThemesTab{list: l, client: client}
}

// SetThemes replaces the listed themes and selects the current one.
func (tt *ThemesTab) SetThemes(data *ipc.ThemesData) {
	if data == nil {
		tt.list.SetItems(nil)
		return
	}
	items := make([]list.Item, 0, len(data.Themes))
	index := 0
	for i, name := range data.Themes {
		if name == data.Current {
			index = i
		}
		items = append(items, themeItem{name: name, current: name == data.Current})
	}
	tt.list.SetItems(items)
	if len(items) > 0 {
		tt.list.Select(index)
	}
}

func (tt ThemesTab) selectedName() string {
	item, ok := tt.list.SelectedItem().(themeItem)
	if !ok {
		return ""
	}
	return item.name
}

// Update implements tea.Model.
func (tt ThemesTab) Update(msg tea.Msg) (ThemesTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tt.width = msg.Width
		tt.height = msg.Height
		h := tt.height - 2
		if h < 1 {
			h = 1
		}
		tt.list.SetSize(tt.width, h)
		return tt, nil

	case statusMsg:
		tt.statusText = msg.text
		return tt, clearStatusAfter()

	case clearStatusMsg:
		tt.statusText = ""
		return tt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "a":
			return tt.apply(false)
		case "s":
			return tt.apply(true)
		}
	}

	var cmd tea.Cmd
	tt.list, cmd = tt.list.Update(msg)
	return tt, cmd
}

func (tt ThemesTab) apply(save bool) (ThemesTab, tea.Cmd) {
	name := tt.selectedName()
	if name == "" {
		return tt, nil
	}
	err := tt.client.SetTheme(name, save)
	ok := fmt.Sprintf("applied: %s", name)
	if save {
		ok = fmt.Sprintf("applied and saved: %s", name)
	}
	tt.statusText = resultText(ok, err)
	return tt, tea.Batch(clearStatusAfter(), refresh)
}

// View implements tea.Model.
func (tt ThemesTab) View() string {
	if tt.width == 0 || tt.height == 0 {
		return ""
	}
	status := renderTabStatus(tt.statusText, "enter/a:apply  s:apply and save", tt.width)
	return lipgloss.JoinVertical(lipgloss.Left, tt.list.View(), status)
}
