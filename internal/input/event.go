// Package input turns frontend events into window manager, shell and content
// changes. Every frontend translates its native events into Event and hands
// them to a Router on the desktop loop.
package input

import (
	"fmt"
	"time"

	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/shell"
)

// Kind is the event type.
type Kind int

const (
	PointerDown Kind = iota + 1
	PointerUp
	PointerMove
	KeyDown
	// Command carries a shell action from a global hotkey.
	Command
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointer_down"
	case PointerUp:
		return "pointer_up"
	case PointerMove:
		return "pointer_move"
	case KeyDown:
		return "key_down"
	case Command:
		return "command"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Button is a pointer button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	WheelUp
	WheelDown
)

// Key is a non-printable key, or KeyRune for text.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyEnter
	KeyBackspace
	KeyDelete
	KeyTab
	KeyEscape
	KeyHome
	KeyEnd
	ArrowLeft
	ArrowRight
	ArrowUp
	ArrowDown
)

// Event is one input event in screen coordinates. Time is in milliseconds
// from any fixed origin; only differences are used.
type Event struct {
	Kind   Kind
	Pos    geom.Point
	Button Button
	Key    Key
	Rune   rune
	Time   int64
	Action shell.Action
}

// At returns the event time.
func (e Event) At() time.Time {
	return time.UnixMilli(e.Time)
}

func (e Event) String() string {
	switch e.Kind {
	case KeyDown:
		if e.Key == KeyRune {
			return fmt.Sprintf("%s %q t=%d", e.Kind, e.Rune, e.Time)
		}
		return fmt.Sprintf("%s key=%d t=%d", e.Kind, e.Key, e.Time)
	case Command:
		return fmt.Sprintf("%s %s", e.Kind, e.Action)
	default:
		return fmt.Sprintf("%s %v button=%d t=%d", e.Kind, e.Pos, e.Button, e.Time)
	}
}

// Pointer is a pointer press forwarded to a window's content, in content
// area coordinates.
type Pointer struct {
	Local  geom.Point
	Button Button
	Double bool
	Time   int64
}
