package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/deskshell/internal/arrange"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/tui"
)

// optInt is an int flag that remembers whether it was set.
type optInt struct{ v *int }

func (o *optInt) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return strconv.Itoa(*o.v)
}

func (o *optInt) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("not an integer: %q", s)
	}
	o.v = &n
	return nil
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return id, nil
}

func parseInts(args []string, names ...string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", names[i], a)
		}
		out[i] = n
	}
	return out, nil
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell windows [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List desktop windows bottom to top.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output window details as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "windows takes no arguments")
		fs.Usage()
		return 2
	}

	windows, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(windows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printWindows(os.Stdout, windows)
	return 0
}

func printWindows(w io.Writer, windows []ipc.WindowInfo) {
	if len(windows) == 0 {
		fmt.Fprintln(w, "no windows")
		return
	}
	fmt.Fprintf(w, "%-4s %-3s %-13s %-22s %s\n", "ID", "Z", "KIND", "GEOMETRY", "TITLE")
	for _, win := range windows {
		var flags []string
		if win.Active {
			flags = append(flags, "active")
		}
		if win.Minimized {
			flags = append(flags, "minimized")
		}
		if win.Maximized {
			flags = append(flags, "maximized")
		}
		if win.Parent != 0 {
			flags = append(flags, fmt.Sprintf("tab of %d", win.Parent))
		}
		if len(win.Tabs) > 0 {
			ids := make([]string, len(win.Tabs))
			for i, id := range win.Tabs {
				ids[i] = strconv.FormatUint(id, 10)
			}
			flags = append(flags, "tabs: "+strings.Join(ids, ","))
		}
		title := win.Title
		if len(flags) > 0 {
			title += " (" + strings.Join(flags, ", ") + ")"
		}
		geometry := fmt.Sprintf("%dx%d+%d+%d", win.Width, win.Height, win.X, win.Y)
		fmt.Fprintf(w, "%-4d %-3d %-13s %-22s %s\n", win.ID, win.Z, win.Kind, geometry, title)
	}
}

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskshell window new [--kind KIND] [--title T] [--x N --y N] [--width N --height N] [--interactive]")
	fmt.Fprintln(w, "  deskshell window close <id>")
	fmt.Fprintln(w, "  deskshell window minimize <id>")
	fmt.Fprintln(w, "  deskshell window restore <id>")
	fmt.Fprintln(w, "  deskshell window maximize <id>")
	fmt.Fprintln(w, "  deskshell window focus <id>")
	fmt.Fprintln(w, "  deskshell window move <id> <x> <y>")
	fmt.Fprintln(w, "  deskshell window resize <id> <width> <height>")
	fmt.Fprintln(w, "  deskshell window title <id> <title>")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}
	if isHelp(args[0]) {
		printWindowUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()
	rest := args[1:]

	single := map[string]func(uint64) error{
		"close":    client.CloseWindow,
		"minimize": client.Minimize,
		"restore":  client.Restore,
		"maximize": client.ToggleMaximize,
		"focus":    client.Focus,
	}
	if op, ok := single[args[0]]; ok {
		if len(rest) != 1 {
			fmt.Fprintf(os.Stderr, "window %s requires <id>\n", args[0])
			return 2
		}
		id, err := parseID(rest[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		return report(op(id))
	}

	switch args[0] {
	case "new":
		return runWindowNew(client, rest)

	case "move", "resize":
		if len(rest) != 3 {
			fmt.Fprintf(os.Stderr, "window %s requires <id> and two integers\n", args[0])
			return 2
		}
		id, err := parseID(rest[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		names := []string{"x", "y"}
		if args[0] == "resize" {
			names = []string{"width", "height"}
		}
		v, err := parseInts(rest[1:], names...)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if args[0] == "move" {
			return report(client.Move(id, v[0], v[1]))
		}
		return report(client.Resize(id, v[0], v[1]))

	case "title":
		if len(rest) < 2 {
			fmt.Fprintln(os.Stderr, "window title requires <id> <title>")
			return 2
		}
		id, err := parseID(rest[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		return report(client.SetTitle(id, strings.Join(rest[1:], " ")))

	default:
		fmt.Fprintf(os.Stderr, "Unknown window subcommand: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func runWindowNew(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell window new [flags]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a window; omitted geometry comes from the launcher for the kind.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	kind := fs.String("kind", "terminal", "Content kind: terminal, file_manager, browser, settings, default")
	title := fs.String("title", "", "Window title")
	interactive := fs.Bool("interactive", false, "Fill in the window details with a form")
	var x, y, width, height optInt
	fs.Var(&x, "x", "Left edge in pixels")
	fs.Var(&y, "y", "Top edge in pixels")
	fs.Var(&width, "width", "Width in pixels")
	fs.Var(&height, "height", "Height in pixels")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "window new takes no arguments")
		fs.Usage()
		return 2
	}

	payload := ipc.NewWindowPayload{
		Kind:   *kind,
		Title:  *title,
		X:      x.v,
		Y:      y.v,
		Width:  width.v,
		Height: height.v,
	}
	if *interactive {
		p, err := tui.PromptNewWindow()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		p.X, p.Y = payload.X, payload.Y
		payload = p
	}

	id, err := client.NewWindow(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(id)
	return 0
}

func printTabUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskshell tab add <parent-id> <child-id>")
	fmt.Fprintln(w, "  deskshell tab remove <parent-id> <index>")
	fmt.Fprintln(w, "  deskshell tab switch <parent-id> <index>")
}

func runTab(args []string) int {
	if len(args) == 0 {
		printTabUsage(os.Stderr)
		return 2
	}
	if isHelp(args[0]) {
		printTabUsage(os.Stdout)
		return 0
	}
	if len(args) != 3 {
		fmt.Fprintf(os.Stderr, "tab %s requires two arguments\n\n", args[0])
		printTabUsage(os.Stderr)
		return 2
	}
	parent, err := parseID(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	switch args[0] {
	case "add":
		child, err := parseID(args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		return report(client.AddTab(parent, child))
	case "remove", "switch":
		idx, err := strconv.Atoi(args[2])
		if err != nil || idx < 0 {
			fmt.Fprintf(os.Stderr, "invalid tab index %q\n", args[2])
			return 2
		}
		if args[0] == "remove" {
			return report(client.RemoveTab(parent, idx))
		}
		return report(client.SwitchTab(parent, idx))
	default:
		fmt.Fprintf(os.Stderr, "Unknown tab subcommand: %s\n\n", args[0])
		printTabUsage(os.Stderr)
		return 2
	}
}

func runArrange(args []string) int {
	const usage = "Usage: deskshell arrange <grid|columns|rows|cascade>"
	if len(args) > 0 && isHelp(args[0]) {
		fmt.Println(usage)
		return 0
	}
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, usage)
		return 2
	}
	mode, err := arrange.ParseMode(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	return report(ipc.NewClient().Arrange(string(mode)))
}

func runAction(args []string) int {
	fs := flag.NewFlagSet("action", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell action [--x N --y N] <name>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run a desktop action as if picked from a menu.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Actions:")
		for _, a := range shell.Actions() {
			fmt.Fprintf(os.Stderr, "  %s\n", a)
		}
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	x := fs.Int("x", 0, "Pointer x the action runs at")
	y := fs.Int("y", 0, "Pointer y the action runs at")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	action, err := shell.ParseAction(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	launched, err := ipc.NewClient().RunAction(ipc.ActionPayload{Action: action.String(), X: *x, Y: *y})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if launched != 0 {
		fmt.Println(launched)
	}
	return 0
}

func runExec(args []string) int {
	usage := func(w io.Writer) {
		fmt.Fprintln(w, "Usage: deskshell exec <window-id> <line>")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Type a command line into a terminal window and print its output.")
	}
	if len(args) > 0 && isHelp(args[0]) {
		usage(os.Stdout)
		return 0
	}
	if len(args) < 2 {
		usage(os.Stderr)
		return 2
	}
	id, err := parseID(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	data, err := ipc.NewClient().Exec(id, strings.Join(args[1:], " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, line := range data.Output {
		fmt.Println(line)
	}
	if data.Closed {
		fmt.Fprintln(os.Stderr, "terminal closed")
	}
	return 0
}

func runTheme(args []string) int {
	fs := flag.NewFlagSet("theme", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell theme [--save] [name]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Switch the color theme, or list themes when no name is given.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	save := fs.Bool("save", false, "Also write the theme to the config file")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	switch fs.NArg() {
	case 0:
		data, err := client.ListThemes()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, name := range data.Themes {
			marker := "  "
			if name == data.Current {
				marker = "* "
			}
			fmt.Printf("%s%s\n", marker, name)
		}
		return 0
	case 1:
		return report(client.SetTheme(fs.Arg(0), *save))
	default:
		fs.Usage()
		return 2
	}
}

func isHelp(arg string) bool {
	return arg == "help" || arg == "-h" || arg == "--help"
}

func report(err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
