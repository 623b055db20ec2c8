package termui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/shell"
)

var buttonMasks = []struct {
	mask   tcell.ButtonMask
	button input.Button
}{
	{tcell.Button1, input.ButtonLeft},
	{tcell.Button3, input.ButtonMiddle},
	{tcell.Button2, input.ButtonRight},
}

// mouseState turns tcell's button-state reports into press, release and
// move events.
type mouseState struct {
	pressed tcell.ButtonMask
	pos     geom.Point
	seen    bool
}

func (m *mouseState) translate(p geom.Point, buttons tcell.ButtonMask, ms int64) []input.Event {
	var out []input.Event
	if !m.seen || p != m.pos {
		out = append(out, input.Event{Kind: input.PointerMove, Pos: p, Time: ms})
	}
	m.pos, m.seen = p, true

	for _, b := range buttonMasks {
		was, is := m.pressed&b.mask != 0, buttons&b.mask != 0
		switch {
		case is && !was:
			out = append(out, input.Event{Kind: input.PointerDown, Pos: p, Button: b.button, Time: ms})
		case was && !is:
			out = append(out, input.Event{Kind: input.PointerUp, Pos: p, Button: b.button, Time: ms})
		}
	}
	m.pressed = buttons & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	if buttons&tcell.WheelUp != 0 {
		out = append(out, input.Event{Kind: input.PointerDown, Pos: p, Button: input.WheelUp, Time: ms})
	}
	if buttons&tcell.WheelDown != 0 {
		out = append(out, input.Event{Kind: input.PointerDown, Pos: p, Button: input.WheelDown, Time: ms})
	}
	return out
}

var keys = map[tcell.Key]input.Key{
	tcell.KeyEnter:      input.KeyEnter,
	tcell.KeyBackspace:  input.KeyBackspace,
	tcell.KeyBackspace2: input.KeyBackspace,
	tcell.KeyDelete:     input.KeyDelete,
	tcell.KeyTab:        input.KeyTab,
	tcell.KeyEsc:        input.KeyEscape,
	tcell.KeyHome:       input.KeyHome,
	tcell.KeyEnd:        input.KeyEnd,
	tcell.KeyLeft:       input.ArrowLeft,
	tcell.KeyRight:      input.ArrowRight,
	tcell.KeyUp:         input.ArrowUp,
	tcell.KeyDown:       input.ArrowDown,
}

// Terminals cannot grab global keys, so function keys stand in for the X11
// hotkeys.
var commands = map[tcell.Key]shell.Action{
	tcell.KeyF1:    shell.ActionToggleStartMenu,
	tcell.KeyF2:    shell.ActionCycleWindows,
	tcell.KeyF4:    shell.ActionCloseWindow,
	tcell.KeyCtrlQ: shell.ActionLogOut,
}

func translateKey(k tcell.Key, r rune) (input.Event, bool) {
	if k == tcell.KeyRune {
		return input.Event{Kind: input.KeyDown, Key: input.KeyRune, Rune: r}, true
	}
	if a, ok := commands[k]; ok {
		return input.Event{Kind: input.Command, Action: a}, true
	}
	if key, ok := keys[k]; ok {
		return input.Event{Kind: input.KeyDown, Key: key}, true
	}
	return input.Event{}, false
}
