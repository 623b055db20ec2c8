package daemon

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events an editor save produces.
const reloadDebounce = 150 * time.Millisecond

// configWatcher calls reload after the config file or one of its includes
// changes. Directories are watched rather than files so that editors that
// replace the file on save keep triggering events.
type configWatcher struct {
	watcher *fsnotify.Watcher
	reload  func()
	logger  *slog.Logger

	mu    sync.Mutex
	names map[string]bool
	dirs  map[string]bool

	done chan struct{}
}

func watchConfig(path string, includes []string, reload func(), logger *slog.Logger) (*configWatcher, error) {
	if path == "" {
		return nil, fmt.Errorf("no config path")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	w := &configWatcher{
		watcher: watcher,
		reload:  reload,
		logger:  logger,
		dirs:    make(map[string]bool),
		done:    make(chan struct{}),
	}
	if w.SetFiles(path, includes) == 0 {
		watcher.Close()
		return nil, fmt.Errorf("no config directory to watch")
	}
	go w.loop()
	return w, nil
}

// SetFiles replaces the watched file set, adding watches for directories not
// seen before. It returns the number of directories being watched.
func (w *configWatcher) SetFiles(path string, includes []string) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	names := make(map[string]bool)
	for _, p := range append([]string{path}, includes...) {
		p = filepath.Clean(p)
		names[p] = true
		dir := filepath.Dir(p)
		if w.dirs[dir] {
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Debug("config watch skipped", "dir", dir, "error", err)
			continue
		}
		w.dirs[dir] = true
	}
	w.names = names
	return len(w.dirs)
}

func (w *configWatcher) watching(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.names[filepath.Clean(name)]
}

func (w *configWatcher) loop() {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.watching(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *configWatcher) Close() {
	close(w.done)
	w.watcher.Close()
}
