package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/deskshell/internal/ipc"
)

const pollInterval = time.Second

// refreshMsg asks the model to reload desktop state.
type refreshMsg struct{}

func refresh() tea.Msg { return refreshMsg{} }

// pollMsg drives the periodic refresh.
type pollMsg struct{}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

// model is the root bubbletea model for the TUI.
type model struct {
	client Client

	// Tab navigation
	activeTab Tab

	// Sub-models
	windowsTab WindowsTab
	themesTab  ThemesTab

	// Desktop state; nil while the desktop does not answer
	status *ipc.StatusData

	// Terminal dimensions
	width  int
	height int
}

func newModel(client Client) model {
	m := model{
		client:     client,
		activeTab:  TabWindows,
		windowsTab: NewWindowsTab(client),
		themesTab:  NewThemesTab(client),
	}
	m.refreshState()
	return m
}

// refreshState reloads status, windows and themes from the desktop.
func (m *model) refreshState() {
	status, err := m.client.GetStatus()
	if err != nil {
		m.status = nil
		m.windowsTab.SetWindows(nil)
		m.themesTab.SetThemes(nil)
		return
	}
	m.status = status
	if windows, err := m.client.ListWindows(); err == nil {
		m.windowsTab.SetWindows(windows)
	}
	if themes, err := m.client.ListThemes(); err == nil {
		m.themesTab.SetThemes(themes)
	}
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// status bar (1) + tab bar (2 with margin) + help bar (1)
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return poll()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case refreshMsg:
		m.refreshState()
		return m, nil
	case pollMsg:
		// Skip while a form is open so it keeps its selection.
		if !m.windowsTab.capturing() {
			m.refreshState()
		}
		return m, poll()
	}

	// The new window form and the title editor consume keys; only ctrl+c
	// escapes to quit.
	if m.activeTab == TabWindows && m.windowsTab.capturing() {
		if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if ws, ok := msg.(tea.WindowSizeMsg); ok {
			return m.resize(ws), nil
		}
		var cmd tea.Cmd
		m.windowsTab, cmd = m.windowsTab.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil
		case "1":
			m.activeTab = TabWindows
			return m, nil
		case "2":
			m.activeTab = TabThemes
			return m, nil
		}

	case tea.WindowSizeMsg:
		return m.resize(msg), nil
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabWindows:
		m.windowsTab, cmd = m.windowsTab.Update(msg)
	case TabThemes:
		m.themesTab, cmd = m.themesTab.Update(msg)
	}
	return m, cmd
}

func (m model) resize(msg tea.WindowSizeMsg) model {
	m.width = msg.Width
	m.height = msg.Height
	sub := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.windowsTab, _ = m.windowsTab.Update(sub)
	m.themesTab, _ = m.themesTab.Update(sub)
	return m
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.status, m.width)
	tabBar := renderTabBar(m.activeTab, m.width)
	helpBar := renderHelpBar(m.width)

	var content string
	switch m.activeTab {
	case TabWindows:
		content = m.windowsTab.View()
	case TabThemes:
		content = m.themesTab.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
