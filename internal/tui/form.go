package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/deskshell/internal/ipc"
)

var windowKinds = []string{"terminal", "file_manager", "browser", "settings", "default"}

// windowForm collects a new window's kind, title and optional size.
type windowForm struct {
	form *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fKind   string
	fTitle  string
	fWidth  string
	fHeight string
}

func newWindowForm(width int) *windowForm {
	f := &windowForm{fKind: windowKinds[0]}

	opts := make([]huh.Option[string], 0, len(windowKinds))
	for _, k := range windowKinds {
		opts = append(opts, huh.NewOption(k, k))
	}

	if width < 40 {
		width = 40
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Kind").
				Description("Content shown in the window").
				Options(opts...).
				Value(&f.fKind),

			huh.NewInput().
				Key("title").
				Title("Title").
				Description("Leave empty for the launcher's title").
				Value(&f.fTitle),

			huh.NewInput().
				Key("width").
				Title("Width").
				Description("Pixels; empty keeps the launcher's size").
				Validate(optionalSize).
				Value(&f.fWidth),

			huh.NewInput().
				Key("height").
				Title("Height").
				Validate(optionalSize).
				Value(&f.fHeight),
		),
	).WithWidth(width).WithShowHelp(true).WithShowErrors(true)
	return f
}

func optionalSize(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func (f *windowForm) payload() (ipc.NewWindowPayload, error) {
	p := ipc.NewWindowPayload{
		Kind:  f.fKind,
		Title: strings.TrimSpace(f.fTitle),
	}
	for _, field := range []struct {
		name string
		raw  string
		dst  **int
	}{
		{"width", f.fWidth, &p.Width},
		{"height", f.fHeight, &p.Height},
	} {
		raw := strings.TrimSpace(field.raw)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return ipc.NewWindowPayload{}, fmt.Errorf("invalid %s %q", field.name, field.raw)
		}
		*field.dst = &n
	}
	return p, nil
}

// PromptNewWindow asks for a new window's settings on the terminal.
func PromptNewWindow() (ipc.NewWindowPayload, error) {
	f := newWindowForm(60)
	if err := f.form.Run(); err != nil {
		return ipc.NewWindowPayload{}, err
	}
	return f.payload()
}
