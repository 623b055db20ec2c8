package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/daemon"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/journal"
	"github.com/1broseidon/deskshell/internal/termui"
	"github.com/1broseidon/deskshell/internal/tui"
	"github.com/1broseidon/deskshell/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runDesktop(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "window":
		os.Exit(runWindow(os.Args[2:]))
	case "tab":
		os.Exit(runTab(os.Args[2:]))
	case "arrange":
		os.Exit(runArrange(os.Args[2:]))
	case "action":
		os.Exit(runAction(os.Args[2:]))
	case "exec":
		os.Exit(runExec(os.Args[2:]))
	case "theme":
		os.Exit(runTheme(os.Args[2:]))
	case "switch":
		os.Exit(runSwitch(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskshell <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Start the desktop (foreground)")
	fmt.Fprintln(w, "  status              Show desktop status")
	fmt.Fprintln(w, "  reload              Reload configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  windows             List windows")
	fmt.Fprintln(w, "  window new          Open a window")
	fmt.Fprintln(w, "  window close        Close a window")
	fmt.Fprintln(w, "  window minimize     Minimize a window")
	fmt.Fprintln(w, "  window restore      Restore a minimized window")
	fmt.Fprintln(w, "  window maximize     Toggle maximize")
	fmt.Fprintln(w, "  window focus        Raise and activate a window")
	fmt.Fprintln(w, "  window move         Move a window")
	fmt.Fprintln(w, "  window resize       Resize a window")
	fmt.Fprintln(w, "  window title        Change a window title")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tab add             Move a window into another window's tabs")
	fmt.Fprintln(w, "  tab remove          Detach a tab")
	fmt.Fprintln(w, "  tab switch          Select a tab")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  arrange             Arrange windows (grid, columns, rows, cascade)")
	fmt.Fprintln(w, "  action              Run a desktop action")
	fmt.Fprintln(w, "  exec                Type a command into a terminal window")
	fmt.Fprintln(w, "  theme               Switch color theme")
	fmt.Fprintln(w, "  switch              Open interactive window switcher")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskshell <command> --help' for command-specific options.")
}

func runDesktop(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell run [--frontend x11|terminal] [--headless] [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Start the desktop in the foreground.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	frontend := fs.String("frontend", "", "Frontend to draw on: x11 or terminal (default: from config)")
	headless := fs.Bool("headless", false, "Run without a frontend, driven only through IPC and MCP")
	path := fs.String("config", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config
	if *frontend != "" {
		cfg.Frontend = *frontend
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	lock, err := daemon.AcquireLock("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer lock.Release()

	logOut, closeLog := logOutput(cfg.Frontend, *headless)
	defer closeLog()
	logger := newLogger(logOut, cfg.LogLevel)
	session := daemon.NewSessionID()

	jrnl, err := journal.Open(journal.Config{
		Enabled:   cfg.Logging.Enabled,
		Level:     journal.ParseLevel(cfg.Logging.Level),
		FilePath:  cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
		Session:   session,
	})
	if err != nil {
		log.Printf("Warning: failed to open action journal: %v", err)
		jrnl, _ = journal.Open(journal.Config{})
	}
	defer jrnl.Close()

	server, err := ipc.NewServer()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start IPC server: %v\n", err)
		return 1
	}
	defer server.Stop()

	var fe daemon.Frontend
	if !*headless {
		fe, err = openFrontend(cfg, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer fe.Close()
	}

	userName, host := currentUser()
	desktop, err := daemon.New(daemon.Options{
		Config:     res,
		ConfigPath: res.Path,
		Frontend:   fe,
		Server:     server,
		Logger:     logger,
		Journal:    jrnl,
		Session:    session,
		User:       userName,
		Host:       host,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := desktop.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// openFrontend opens the surface the desktop draws on.
func openFrontend(cfg *config.Config, logger *slog.Logger) (daemon.Frontend, error) {
	switch cfg.Frontend {
	case config.FrontendTerminal:
		return termui.Open(termui.Options{
			Width:  cfg.Screen.Width,
			Height: cfg.Screen.Height,
			Logger: logger,
		})
	default:
		env, err := x11.ResolveDisplay(os.Environ(), cfg.Display, cfg.XAuthority)
		if err != nil {
			return nil, err
		}
		if err := env.Export(); err != nil {
			return nil, fmt.Errorf("failed to export display environment: %w", err)
		}
		return x11.Open(x11.Options{
			Display: env.Display,
			Width:   cfg.Screen.Width,
			Height:  cfg.Screen.Height,
			Hotkeys: cfg.Hotkeys,
			Logger:  logger,
		})
	}
}

// logOutput keeps the process log off stderr while the terminal frontend owns
// the screen.
func logOutput(frontend string, headless bool) (io.Writer, func()) {
	if headless || frontend != config.FrontendTerminal {
		return os.Stderr, func() {}
	}
	path := filepath.Join(xdg.StateHome, "deskshell", "deskshell.log")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("Warning: failed to create log directory: %v", err)
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		log.Printf("Warning: failed to open log file: %v", err)
		return io.Discard, func() {}
	}
	return f, func() { f.Close() }
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func currentUser() (string, string) {
	name := os.Getenv("USER")
	if name == "" {
		if u, err := user.Current(); err == nil {
			name = u.Username
		}
	}
	host, _ := os.Hostname()
	return name, host
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show desktop status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running: %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "session:        %s\n", status.Session)
	fmt.Fprintf(w, "frontend:       %s\n", status.Frontend)
	fmt.Fprintf(w, "theme:          %s\n", status.Theme)
	fmt.Fprintf(w, "window_count:   %d\n", status.WindowCount)
	fmt.Fprintf(w, "active_window:  %d\n", status.ActiveWindow)
	fmt.Fprintf(w, "menu:           %s\n", status.Menu)
	fmt.Fprintf(w, "transaction:    %s\n", status.Transaction)
	fmt.Fprintf(w, "uptime_seconds: %d\n", status.UptimeSeconds)
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskshell reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Re-read the config file in the running desktop.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSwitch(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: deskshell switch")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive window switcher for the running desktop.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  Tab, 1/2    Switch between windows and themes")
		fmt.Fprintln(os.Stderr, "  Enter, f    Focus window / apply theme")
		fmt.Fprintln(os.Stderr, "  n           Open a new window")
		fmt.Fprintln(os.Stderr, "  m, r, z     Minimize, restore, maximize")
		fmt.Fprintln(os.Stderr, "  x, Delete   Close window")
		fmt.Fprintln(os.Stderr, "  t           Edit window title")
		fmt.Fprintln(os.Stderr, "  s           Apply and save theme")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C   Quit")
		return 0
	}
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "switch takes no arguments")
		return 2
	}

	if err := tui.Run(ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  deskshell config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  deskshell config print [--path PATH] [--effective|--defaults]")
		fmt.Fprintln(os.Stderr, "  deskshell config explain [--path PATH] <yaml.path>")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		fs.Bool("effective", true, "Print effective config (default)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			cfg = res.Config
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "explain":
		fs := flag.NewFlagSet("explain", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(os.Stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		fmt.Printf("path: %s\n", queryPath)
		fmt.Printf("source: %s\n", src)
		fmt.Printf("value:\n%s", string(out))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}
