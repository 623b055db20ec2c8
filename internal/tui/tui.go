// Package tui is an interactive inspector for a running desktop. It talks to
// the desktop over IPC only.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/1broseidon/deskshell/internal/ipc"
)

// Client is the part of ipc.Client the inspector uses.
type Client interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	NewWindow(p ipc.NewWindowPayload) (uint64, error)
	CloseWindow(id uint64) error
	Minimize(id uint64) error
	Restore(id uint64) error
	ToggleMaximize(id uint64) error
	Focus(id uint64) error
	SetTitle(id uint64, title string) error
	ListThemes() (*ipc.ThemesData, error)
	SetTheme(name string, save bool) error
}

// Run starts the inspector on the controlling terminal.
func Run(client Client) error {
	if !IsInteractive() {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())

	p := tea.NewProgram(newModel(client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// IsInteractive reports whether stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
