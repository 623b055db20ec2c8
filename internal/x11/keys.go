package x11

import (
	"unicode/utf8"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/deskshell/internal/input"
)

var namedKeys = map[string]input.Key{
	"Return":    input.KeyEnter,
	"KP_Enter":  input.KeyEnter,
	"BackSpace": input.KeyBackspace,
	"Delete":    input.KeyDelete,
	"KP_Delete": input.KeyDelete,
	"Tab":       input.KeyTab,
	"Escape":    input.KeyEscape,
	"Home":      input.KeyHome,
	"KP_Home":   input.KeyHome,
	"End":       input.KeyEnd,
	"KP_End":    input.KeyEnd,
	"Left":      input.ArrowLeft,
	"KP_Left":   input.ArrowLeft,
	"Right":     input.ArrowRight,
	"KP_Right":  input.ArrowRight,
	"Up":        input.ArrowUp,
	"KP_Up":     input.ArrowUp,
	"Down":      input.ArrowDown,
	"KP_Down":   input.ArrowDown,
}

// Printable keysyms whose names are not the character itself.
var symbolKeys = map[string]rune{
	"space":        ' ',
	"exclam":       '!',
	"quotedbl":     '"',
	"numbersign":   '#',
	"dollar":       '$',
	"percent":      '%',
	"ampersand":    '&',
	"apostrophe":   '\'',
	"parenleft":    '(',
	"parenright":   ')',
	"asterisk":     '*',
	"plus":         '+',
	"comma":        ',',
	"minus":        '-',
	"period":       '.',
	"slash":        '/',
	"colon":        ':',
	"semicolon":    ';',
	"less":         '<',
	"equal":        '=',
	"greater":      '>',
	"question":     '?',
	"at":           '@',
	"bracketleft":  '[',
	"backslash":    '\\',
	"bracketright": ']',
	"asciicircum":  '^',
	"underscore":   '_',
	"grave":        '`',
	"braceleft":    '{',
	"bar":          '|',
	"braceright":   '}',
	"asciitilde":   '~',
	"KP_Add":       '+',
	"KP_Subtract":  '-',
	"KP_Multiply":  '*',
	"KP_Divide":    '/',
	"KP_Decimal":   '.',
}

// translateKey maps a keysym name, as returned by keybind.LookupString, to a
// key event. Modifiers and unmapped function keys report false.
func translateKey(name string) (input.Key, rune, bool) {
	if k, ok := namedKeys[name]; ok {
		return k, 0, true
	}
	if r, ok := symbolKeys[name]; ok {
		return input.KeyRune, r, true
	}
	if len(name) == 4 && name[:3] == "KP_" && name[3] >= '0' && name[3] <= '9' {
		return input.KeyRune, rune(name[3]), true
	}
	if r, size := utf8.DecodeRuneInString(name); size == len(name) && r != utf8.RuneError && r >= ' ' {
		return input.KeyRune, r, true
	}
	return input.KeyNone, 0, false
}

// translateButton maps core X pointer buttons; 4 and 5 are the wheel.
func translateButton(b xproto.Button) input.Button {
	switch b {
	case xproto.ButtonIndex1:
		return input.ButtonLeft
	case xproto.ButtonIndex2:
		return input.ButtonMiddle
	case xproto.ButtonIndex3:
		return input.ButtonRight
	case xproto.ButtonIndex4:
		return input.WheelUp
	case xproto.ButtonIndex5:
		return input.WheelDown
	default:
		return input.ButtonNone
	}
}

// textItems encodes s as PolyText8 items, splitting it into chunks of at
// most 254 bytes. Characters outside Latin-1 are drawn as '?'.
func textItems(s string) []byte {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xff {
			r = '?'
		}
		b = append(b, byte(r))
	}

	items := make([]byte, 0, len(b)+2*(len(b)/254+1))
	for len(b) > 0 {
		n := len(b)
		if n > 254 {
			n = 254
		}
		items = append(items, byte(n), 0)
		items = append(items, b[:n]...)
		b = b[n:]
	}
	return items
}
