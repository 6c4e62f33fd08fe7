// Package editor implements the fixed-template GUID input state machine.
//
// The editor holds a 36-cell buffer pre-rendered with '_' placeholders and
// '-' separators. Hex digits fill placeholders left to right, the cursor
// hops over separators on the same keystroke, and Backspace walks back over
// them the same way. Rendering is delegated to an optional CellRenderer so
// the state machine can be driven without a console.
package editor

import (
	"strings"
	"unicode"

	"github.com/danmuck/handlectl/internal/guid"
)

// Sentinel marks a fillable cell that has not been typed yet.
const Sentinel = '_'

// Separator is the literal written at the fixed separator offsets.
const Separator = '-'

// State is the editor lifecycle.
type State int

const (
	Editing State = iota
	Complete
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// CellRenderer receives one in-place update per cell change. The console
// implementation writes a single character or a backspace sequence.
type CellRenderer interface {
	// PutCell writes c at the cursor and moves the cursor right.
	PutCell(c rune)
	// SkipSeparator writes the separator and moves the cursor right.
	SkipSeparator()
	// StepBack moves the cursor left without changing the cell.
	StepBack()
	// RestoreSentinel moves left, redraws the sentinel and stays on it.
	RestoreSentinel()
}

// Editor is one input session. It is not safe for concurrent use.
type Editor struct {
	buf      [guid.TextLen]rune
	cursor   int
	state    State
	renderer CellRenderer
}

// New returns an editor in the Editing state with the cursor at offset 0.
func New(r CellRenderer) *Editor {
	e := &Editor{renderer: r}
	e.Reset()
	return e
}

// Template returns the initial skeleton text.
func Template() string {
	var b strings.Builder
	for i := 0; i < guid.TextLen; i++ {
		if guid.IsSeparator(i) {
			b.WriteRune(Separator)
		} else {
			b.WriteRune(Sentinel)
		}
	}
	return b.String()
}

// Reset restores the skeleton and re-enters Editing. The renderer is not
// notified; callers redraw the whole line themselves.
func (e *Editor) Reset() {
	for i := range e.buf {
		if guid.IsSeparator(i) {
			e.buf[i] = Separator
		} else {
			e.buf[i] = Sentinel
		}
	}
	e.cursor = 0
	e.state = Editing
}

func (e *Editor) Cursor() int  { return e.cursor }
func (e *Editor) State() State { return e.state }

// String returns the current buffer including any sentinels.
func (e *Editor) String() string {
	return string(e.buf[:])
}

// InsertHex writes c at the cursor when c is a hex digit and the buffer has
// room. Landing on a separator advances past it in the same step. Any other
// input is ignored and reported with false.
func (e *Editor) InsertHex(c rune) bool {
	if e.state != Editing || e.cursor >= guid.TextLen || !guid.IsHex(c) {
		return false
	}
	c = unicode.ToUpper(c)
	e.buf[e.cursor] = c
	e.cursor++
	e.put(c)
	if e.cursor < guid.TextLen && guid.IsSeparator(e.cursor) {
		e.buf[e.cursor] = Separator
		e.cursor++
		if e.renderer != nil {
			e.renderer.SkipSeparator()
		}
	}
	return true
}

// Backspace clears the previous fillable cell, stepping over a separator
// when one sits directly behind the cursor. No-op at offset 0.
func (e *Editor) Backspace() bool {
	if e.state != Editing || e.cursor == 0 {
		return false
	}
	e.cursor--
	if guid.IsSeparator(e.cursor) {
		e.cursor--
		if e.renderer != nil {
			e.renderer.StepBack()
		}
	}
	e.buf[e.cursor] = Sentinel
	if e.renderer != nil {
		e.renderer.RestoreSentinel()
	}
	return true
}

// TryCommit finalizes the buffer when no sentinel remains. On an
// incomplete buffer it returns ok=false and leaves everything unchanged.
func (e *Editor) TryCommit() (string, bool) {
	if e.state == Complete {
		return e.String(), true
	}
	for _, c := range e.buf {
		if c == Sentinel {
			return "", false
		}
	}
	e.state = Complete
	return e.String(), true
}

// Fill feeds every rune of s through InsertHex, dropping anything that is
// not a hex digit. It returns the number of digits accepted.
func (e *Editor) Fill(s string) int {
	n := 0
	for _, c := range s {
		if c == Separator {
			continue
		}
		if e.InsertHex(c) {
			n++
		}
	}
	return n
}

func (e *Editor) put(c rune) {
	if e.renderer != nil {
		e.renderer.PutCell(c)
	}
}
