// Package journal writes a rotating, line oriented record of what happened
// on the desktop: window model changes, executed actions and remote calls.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// Level defines the journal verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Event is the type of a journal entry.
type Event string

const (
	EventSession Event = "SESSION"
	EventAction  Event = "ACTION"
	EventIPC     Event = "IPC"
	EventReload  Event = "RELOAD"
	EventError   Event = "ERROR"
)

// WindowEvent names the entry for a window model change such as "tab_add".
func WindowEvent(op string) Event {
	return Event(strings.ToUpper(strings.ReplaceAll(op, "_", "-")))
}

// eventLevel returns the level an event is recorded at.
func eventLevel(e Event) Level {
	switch e {
	case "MOVE", "RESIZE", "FOCUS", "TAB-SWITCH", EventIPC:
		return LevelDebug
	case EventError:
		return LevelError
	default:
		return LevelInfo
	}
}

// Config holds configuration for the journal.
type Config struct {
	Enabled   bool
	Level     Level
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
	// Session tags every entry, so interleaved runs can be told apart.
	Session string
}

// DefaultPath returns $XDG_STATE_HOME/deskshell/actions.log.
func DefaultPath() string {
	return filepath.Join(xdg.StateHome, "deskshell", "actions.log")
}

// Journal appends entries to a file and rotates it by size.
type Journal struct {
	mu          sync.Mutex
	file        *os.File
	config      Config
	currentSize int64
}

// Open creates the journal. A disabled config yields a journal that drops
// every entry.
func Open(cfg Config) (*Journal, error) {
	if !cfg.Enabled {
		return &Journal{config: cfg}, nil
	}
	if cfg.FilePath == "" {
		cfg.FilePath = DefaultPath()
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}

	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", cfg.FilePath, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat journal: %w", err)
	}

	return &Journal{
		file:        f,
		config:      cfg,
		currentSize: stat.Size(),
	}, nil
}

// Log records an event. window is omitted when zero.
func (j *Journal) Log(event Event, window uint64, details map[string]any) {
	if j == nil || !j.config.Enabled {
		return
	}
	if eventLevel(event) < j.config.Level {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return
	}

	maxBytes := int64(j.config.MaxSizeMB) * 1024 * 1024
	if j.currentSize >= maxBytes {
		if err := j.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "journal rotation failed: %v\n", err)
		}
		if j.file == nil {
			return
		}
	}

	var sb strings.Builder
	sb.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(string(event))
	sb.WriteString("]")
	if j.config.Session != "" {
		sb.WriteString(" session=")
		sb.WriteString(j.config.Session)
	}
	if window != 0 {
		fmt.Fprintf(&sb, " window=%d", window)
	}
	sb.WriteString(formatDetails(details))
	sb.WriteString("\n")

	n, err := j.file.WriteString(sb.String())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write journal entry: %v\n", err)
		return
	}
	j.currentSize += int64(n)
}

// formatDetails renders details in key order; strings are quoted.
func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		switch v := details[k].(type) {
		case string:
			fmt.Fprintf(&sb, " %s=%q", k, v)
		default:
			fmt.Fprintf(&sb, " %s=%v", k, v)
		}
	}
	return sb.String()
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// rotate shifts actions.log to actions.log.1, .1 to .2 and so on, dropping
// the file past MaxFiles.
func (j *Journal) rotate() error {
	if j.file != nil {
		j.file.Close()
		j.file = nil
	}

	basePath := j.config.FilePath
	for i := j.config.MaxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", basePath, i)
		if i == j.config.MaxFiles {
			os.Remove(oldPath)
			continue
		}
		os.Rename(oldPath, fmt.Sprintf("%s.%d", basePath, i+1))
	}

	if j.config.MaxFiles > 0 {
		if err := os.Rename(basePath, basePath+".1"); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to rotate journal: %w", err)
		}
	} else if err := os.Remove(basePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to truncate journal: %w", err)
	}

	f, err := os.OpenFile(basePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open new journal: %w", err)
	}
	j.file = f
	j.currentSize = 0
	return nil
}

// ParseLevel converts a string to Level.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
