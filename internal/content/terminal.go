package content

import (
	"time"

	"github.com/1broseidon/deskshell/internal/draw"
	"github.com/1broseidon/deskshell/internal/geom"
	"github.com/1broseidon/deskshell/internal/input"
	"github.com/1broseidon/deskshell/internal/wm"
)

const (
	terminalPad       = 6
	terminalScrollMax = 500
	cursorBlink       = 500 * time.Millisecond
)

// Terminal is a line-editing console backed by a CommandProcessor.
type Terminal struct {
	Palette *Palette
	// NewProcessor creates the processor for a new terminal window.
	NewProcessor func() CommandProcessor
}

type terminalState struct {
	proc    CommandProcessor
	lines   []string
	input   []rune
	cursor  int
	history []string
	// histPos indexes history while browsing; len(history) means the
	// current line.
	histPos int
	stash   []rune
}

func (t *Terminal) state(w *wm.Window) *terminalState {
	if st, ok := w.Content.(*terminalState); ok {
		return st
	}
	st := &terminalState{proc: t.NewProcessor()}
	st.lines = []string{"deskshell terminal", "Type 'help' for a list of commands."}
	w.Content = st
	return st
}

func (t *Terminal) AcceptsText(*wm.Window) bool {
	return true
}

// HandleKey edits the input line. Enter runs it.
func (t *Terminal) HandleKey(w *wm.Window, ev input.Event) input.Effect {
	st := t.state(w)
	switch ev.Key {
	case input.KeyRune:
		if ev.Rune < 0x20 || ev.Rune == 0x7f {
			return input.Effect{}
		}
		st.input = insertRune(st.input, st.cursor, ev.Rune)
		st.cursor++
	case input.KeyBackspace:
		if st.cursor > 0 {
			st.input = append(st.input[:st.cursor-1], st.input[st.cursor:]...)
			st.cursor--
		}
	case input.KeyDelete:
		if st.cursor < len(st.input) {
			st.input = append(st.input[:st.cursor], st.input[st.cursor+1:]...)
		}
	case input.ArrowLeft:
		st.cursor = max(0, st.cursor-1)
	case input.ArrowRight:
		st.cursor = min(len(st.input), st.cursor+1)
	case input.KeyHome:
		st.cursor = 0
	case input.KeyEnd:
		st.cursor = len(st.input)
	case input.ArrowUp:
		st.browse(-1)
	case input.ArrowDown:
		st.browse(1)
	case input.KeyEnter:
		return input.Effect{Close: st.submit().Close}
	}
	return input.Effect{}
}

func (st *terminalState) browse(dir int) {
	if st.histPos == len(st.history) {
		st.stash = append([]rune(nil), st.input...)
	}
	next := st.histPos + dir
	if next < 0 || next > len(st.history) {
		return
	}
	st.histPos = next
	if next == len(st.history) {
		st.input = append([]rune(nil), st.stash...)
	} else {
		st.input = []rune(st.history[next])
	}
	st.cursor = len(st.input)
}

func (st *terminalState) submit() Result {
	line := string(st.input)
	st.lines = append(st.lines, st.proc.Prompt()+line)
	if line != "" {
		st.history = append(st.history, line)
	}
	st.input = nil
	st.cursor = 0
	st.histPos = len(st.history)
	st.stash = nil

	res := st.proc.Execute(line)
	if res.Clear {
		st.lines = nil
	}
	st.lines = append(st.lines, res.Output...)
	if extra := len(st.lines) - terminalScrollMax; extra > 0 {
		st.lines = st.lines[extra:]
	}
	return res
}

// Render shows as much scrollback as fits above the input line.
func (t *Terminal) Render(w *wm.Window, area geom.Rect, now time.Time) draw.List {
	st := t.state(w)
	var l draw.List
	l.Fill(area, t.Palette.Background)

	rows := max(1, (area.Height-2*terminalPad)/draw.LineHeight)
	start := max(0, len(st.lines)-(rows-1))
	y := area.Y + terminalPad
	for _, line := range st.lines[start:] {
		l.Text(geom.Point{X: area.X + terminalPad, Y: y}, line, t.Palette.Text)
		y += draw.LineHeight
	}

	prompt := st.proc.Prompt()
	l.Text(geom.Point{X: area.X + terminalPad, Y: y}, prompt+string(st.input), t.Palette.Accent)
	if (now.UnixMilli()/cursorBlink.Milliseconds())%2 == 0 {
		x := area.X + terminalPad + (len([]rune(prompt))+st.cursor)*draw.CharWidth
		l.Fill(geom.Rect{X: x, Y: y, Width: 2, Height: draw.LineHeight}, t.Palette.Text)
	}
	return l
}

// Lines returns the scrollback of a terminal window.
func (t *Terminal) Lines(w *wm.Window) []string {
	return append([]string(nil), t.state(w).lines...)
}

// Run submits line as if typed, for remote callers.
func (t *Terminal) Run(w *wm.Window, line string) Result {
	st := t.state(w)
	st.input = []rune(line)
	st.cursor = len(st.input)
	return st.submit()
}

func insertRune(s []rune, at int, r rune) []rune {
	s = append(s, 0)
	copy(s[at+1:], s[at:])
	s[at] = r
	return s
}
