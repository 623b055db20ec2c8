package x11

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/shell"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		key  input.Key
		r    rune
		ok   bool
	}{
		{"a", input.KeyRune, 'a', true},
		{"Z", input.KeyRune, 'Z', true},
		{"7", input.KeyRune, '7', true},
		{"space", input.KeyRune, ' ', true},
		{"comma", input.KeyRune, ',', true},
		{"KP_5", input.KeyRune, '5', true},
		{"Return", input.KeyEnter, 0, true},
		{"KP_Enter", input.KeyEnter, 0, true},
		{"BackSpace", input.KeyBackspace, 0, true},
		{"Escape", input.KeyEscape, 0, true},
		{"Left", input.ArrowLeft, 0, true},
		{"Shift_L", input.KeyNone, 0, false},
		{"F5", input.KeyNone, 0, false},
		{"", input.KeyNone, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, r, ok := translateKey(tt.name)
			if key != tt.key || r != tt.r || ok != tt.ok {
				t.Fatalf("translateKey(%q) = %v %q %v, want %v %q %v", tt.name, key, r, ok, tt.key, tt.r, tt.ok)
			}
		})
	}
}

func TestTranslateButton(t *testing.T) {
	want := map[xproto.Button]input.Button{
		1: input.ButtonLeft,
		2: input.ButtonMiddle,
		3: input.ButtonRight,
		4: input.WheelUp,
		5: input.WheelDown,
		8: input.ButtonNone,
	}
	for b, w := range want {
		if got := translateButton(b); got != w {
			t.Errorf("button %d: got %v, want %v", b, got, w)
		}
	}
}

func TestTextItems(t *testing.T) {
	if got := textItems("ok"); !bytes.Equal(got, []byte{2, 0, 'o', 'k'}) {
		t.Fatalf("unexpected items %v", got)
	}
	if got := textItems("π"); !bytes.Equal(got, []byte{1, 0, '?'}) {
		t.Fatalf("expected non Latin-1 rune replaced, got %v", got)
	}

	long := textItems(strings.Repeat("x", 300))
	if len(long) != 300+4 {
		t.Fatalf("expected two items, got %d bytes", len(long))
	}
	if long[0] != 254 || long[256] != 46 {
		t.Fatalf("unexpected chunk lengths %d and %d", long[0], long[256])
	}
	if len(textItems("")) != 0 {
		t.Fatalf("expected no items for empty text")
	}
}

func TestIgnoreMasks(t *testing.T) {
	caps := uint16(xproto.ModMaskLock)
	num := uint16(xproto.ModMask2)

	if got := ignoreMasks(caps, 0, 0); len(got) != 2 {
		t.Fatalf("expected none and caps, got %v", got)
	}
	got := ignoreMasks(caps, num, num)
	if len(got) != 4 {
		t.Fatalf("expected 4 combinations, got %v", got)
	}
	seen := map[uint16]bool{}
	for _, m := range got {
		seen[m] = true
	}
	for _, m := range []uint16{0, caps, num, caps | num} {
		if !seen[m] {
			t.Fatalf("missing mask %d in %v", m, got)
		}
	}
}

func TestHotkeyBindings(t *testing.T) {
	got := hotkeyBindings(config.HotkeyConfig{StartMenu: "Mod4-space", CycleWindows: "Mod1-Tab"})
	if len(got) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(got))
	}
	if got[0].action != shell.ActionToggleStartMenu || got[1].action != shell.ActionCycleWindows {
		t.Fatalf("unexpected bindings %+v", got)
	}
}
