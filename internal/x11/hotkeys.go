package x11

import (
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/shell"
)

// hotkeys grabs global key sequences on the root window and turns them into
// shell commands.
type hotkeys struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	emit   func(input.Event)
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

func newHotkeys(xu *xgbutil.XUtil, root xproto.Window, emit func(input.Event), logger *slog.Logger) *hotkeys {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &hotkeys{xu: xu, root: root, emit: emit, logger: logger}
}

// hotkeyBindings pairs each configured sequence with its action. Empty
// sequences are skipped.
func hotkeyBindings(cfg config.HotkeyConfig) []hotkeyBinding {
	all := []hotkeyBinding{
		{cfg.StartMenu, shell.ActionToggleStartMenu},
		{cfg.CloseWindow, shell.ActionCloseWindow},
		{cfg.CycleWindows, shell.ActionCycleWindows},
	}
	out := all[:0]
	for _, b := range all {
		if b.keys != "" {
			out = append(out, b)
		}
	}
	return out
}

type hotkeyBinding struct {
	keys   string
	action shell.Action
}

// Register grabs every configured hotkey. A sequence another client already
// holds is logged and skipped.
func (h *hotkeys) Register(cfg config.HotkeyConfig) {
	for _, b := range hotkeyBindings(cfg) {
		action := b.action
		err := h.RegisterFunc(b.keys, func() {
			h.emit(input.Event{Kind: input.Command, Action: action})
		})
		if err != nil {
			h.logger.Warn("failed to register hotkey", "keys", b.keys, "action", action.String(), "error", err)
			continue
		}
		h.logger.Debug("hotkey registered", "keys", b.keys, "action", action.String())
	}
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *hotkeys) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the lock modifiers, including
// none, with duplicates and zero masks folded away.
func ignoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
