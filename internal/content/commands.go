package content

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Result is the outcome of one terminal command line.
type Result struct {
	Output []string
	// Close asks for the terminal window to be closed.
	Close bool
	// Clear wipes the scrollback before Output is appended.
	Clear bool
}

// CommandProcessor runs terminal command lines.
type CommandProcessor interface {
	Execute(line string) Result
	// Prompt is shown before the input line.
	Prompt() string
}

// Version is reported by the version command.
var Version = "dev"

type builtin struct {
	help string
	run  func(s *Session, args []string) Result
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"help":    {"Display this help message", (*Session).help},
		"clear":   {"Clear the terminal screen", func(*Session, []string) Result { return Result{Clear: true} }},
		"echo":    {"Display text", func(_ *Session, args []string) Result { return lines(strings.Join(args, " ")) }},
		"ls":      {"List files", (*Session).ls},
		"cd":      {"Change directory", (*Session).cd},
		"pwd":     {"Print working directory", func(s *Session, _ []string) Result { return lines(s.cwd) }},
		"cat":     {"Print file contents", (*Session).cat},
		"date":    {"Show the current date and time", (*Session).date},
		"uname":   {"Show system information", (*Session).uname},
		"version": {"Display deskshell version", (*Session).version},
		"whoami":  {"Print the current user", func(s *Session, _ []string) Result { return lines(s.user) }},
		"exit":    {"Close the terminal", func(*Session, []string) Result { return Result{Output: []string{"logout"}, Close: true} }},
	}
}

// Session is a CommandProcessor over an in-memory tree with its own working
// directory.
type Session struct {
	fs   *FS
	cwd  string
	user string
	host string
	now  func() time.Time
}

// NewSession starts in the tree's home directory.
func NewSession(fs *FS, user, host string, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{fs: fs, cwd: fs.Home(), user: user, host: host, now: now}
}

// Cwd returns the working directory.
func (s *Session) Cwd() string {
	return s.cwd
}

func (s *Session) Prompt() string {
	return fmt.Sprintf("%s@%s:%s$ ", s.user, s.host, s.fs.Display(s.cwd))
}

// Execute runs one command line.
func (s *Session) Execute(line string) Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Result{}
	}
	name := strings.ToLower(fields[0])
	b, ok := builtins[name]
	if !ok {
		return lines(fmt.Sprintf("Command not found: %s", name))
	}
	return b.run(s, fields[1:])
}

func lines(l ...string) Result {
	return Result{Output: l}
}

func (s *Session) help(_ []string) Result {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	out := []string{"Available commands:"}
	for _, n := range names {
		out = append(out, fmt.Sprintf("  %-8s - %s", n, builtins[n].help))
	}
	return Result{Output: out}
}

func (s *Session) ls(args []string) Result {
	target := s.cwd
	if len(args) > 0 {
		target = s.fs.Resolve(s.cwd, args[0])
	}
	n, err := s.fs.Lookup(target)
	if err != nil {
		return lines("ls: " + err.Error())
	}
	if !n.Dir {
		return lines(n.Name)
	}
	var names []string
	for _, c := range n.Children() {
		if c.Dir {
			names = append(names, c.Name+"/")
		} else {
			names = append(names, c.Name)
		}
	}
	if len(names) == 0 {
		return Result{}
	}
	return lines(strings.Join(names, "  "))
}

func (s *Session) cd(args []string) Result {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	target := s.fs.Resolve(s.cwd, arg)
	n, err := s.fs.Lookup(target)
	if err != nil {
		return lines("cd: " + err.Error())
	}
	if !n.Dir {
		return lines(fmt.Sprintf("cd: %s: not a directory", target))
	}
	s.cwd = target
	return Result{}
}

func (s *Session) cat(args []string) Result {
	if len(args) == 0 {
		return lines("usage: cat <file>")
	}
	var out []string
	for _, a := range args {
		n, err := s.fs.Lookup(s.fs.Resolve(s.cwd, a))
		switch {
		case err != nil:
			out = append(out, "cat: "+err.Error())
		case n.Dir:
			out = append(out, fmt.Sprintf("cat: %s: is a directory", a))
		case n.Data == "":
			out = append(out, fmt.Sprintf("cat: %s: binary file", a))
		default:
			out = append(out, strings.Split(n.Data, "\n")...)
		}
	}
	return Result{Output: out}
}

func (s *Session) date(_ []string) Result {
	return lines(s.now().Format("Mon Jan 2 15:04:05 MST 2006"))
}

func (s *Session) uname(args []string) Result {
	if len(args) > 0 && args[0] == "-a" {
		return lines(fmt.Sprintf("deskshell %s %s %s/%s", s.host, Version, runtime.GOOS, runtime.GOARCH))
	}
	return lines("deskshell")
}

func (s *Session) version(_ []string) Result {
	return lines("deskshell "+Version, "A small desktop shell")
}
