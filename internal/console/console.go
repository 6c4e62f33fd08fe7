package console

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/handlectl/internal/editor"
	"github.com/danmuck/handlectl/internal/guid"
	"github.com/danmuck/handlectl/internal/observability"
	"github.com/rs/zerolog/log"
)

// LineCapacity bounds free-text input; further keystrokes are ignored.
const LineCapacity = 99

const (
	ansiClear      = "\033[H\033[2J"
	ansiHideCursor = "\033[?25l"
	ansiShowCursor = "\033[?25h"
	ansiSelected   = "\033[97;44m"
	ansiReset      = "\033[0m"
	menuHint       = "UP/DOWN to select, ENTER to confirm"
)

var ErrNoMenuItems = errors.New("console: menu has no items")

// Options configures a Console.
type Options struct {
	// Out receives prompts, menus and key echo. It is not the session log.
	Out       io.Writer
	Keys      KeySource
	Clipboard Clipboard
	// Color enables highlighted menu rows.
	Color bool
	// ClearScreen redraws the menu on a cleared screen.
	ClearScreen bool
	// BellOnIncomplete rings BEL when Enter is pressed on an incomplete GUID.
	BellOnIncomplete bool
}

// Console drives the interactive widgets over one key source.
type Console struct {
	out       io.Writer
	keys      KeySource
	clipboard Clipboard
	color     bool
	clear     bool
	bell      bool
}

func New(opts Options) *Console {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	return &Console{
		out:       out,
		keys:      opts.Keys,
		clipboard: opts.Clipboard,
		color:     opts.Color,
		clear:     opts.ClearScreen,
		bell:      opts.BellOnIncomplete,
	}
}

// Menu shows items and returns the index confirmed with Enter. Up and
// Down wrap around; every other key is ignored.
func (c *Console) Menu(title string, items []string) (int, error) {
	if len(items) == 0 {
		return 0, ErrNoMenuItems
	}
	if c.clear {
		c.print(ansiHideCursor)
		defer c.print(ansiShowCursor)
	}
	selection := 0
	for {
		c.drawMenu(title, items, selection)
		k, err := NextKey(c.keys)
		if err != nil {
			return 0, err
		}
		switch {
		case k.Scan == ScanUp:
			if selection > 0 {
				selection--
			} else {
				selection = len(items) - 1
			}
		case k.Scan == ScanDown:
			if selection < len(items)-1 {
				selection++
			} else {
				selection = 0
			}
		case k.IsEnter():
			if c.clear {
				c.print(ansiClear)
			}
			return selection, nil
		}
	}
}

func (c *Console) drawMenu(title string, items []string, selection int) {
	var b strings.Builder
	if c.clear {
		b.WriteString(ansiClear)
	}
	fmt.Fprintf(&b, "%s\n%s\n\n", title, menuHint)
	for i, item := range items {
		if i != selection {
			fmt.Fprintf(&b, "    %s \n", item)
			continue
		}
		if c.color {
			fmt.Fprintf(&b, "%s -> %s %s\n", ansiSelected, item, ansiReset)
		} else {
			fmt.Fprintf(&b, " -> %s \n", item)
		}
	}
	c.print(b.String())
}

// ReadLine collects printable ASCII until Enter. Backspace erases one
// character; input beyond LineCapacity is rejected.
func (c *Console) ReadLine(prompt string) (string, error) {
	c.print(prompt)
	line := NewLineBuffer(LineCapacity)
	for {
		k, err := NextKey(c.keys)
		if err != nil {
			return "", err
		}
		if k.Scan != ScanNone {
			continue
		}
		switch {
		case k.IsEnter():
			c.print("\n")
			return line.String(), nil
		case k.IsBackspace():
			if line.Pop() {
				c.print("\b \b")
			}
		case k.Rune >= 0x20 && k.Rune <= 0x7e:
			if err := line.Append(k.Rune); err != nil {
				log.Debug().Err(err).Msg("keystroke rejected")
				if c.bell {
					c.print("\a")
				}
				continue
			}
			c.print(string(k.Rune))
		}
	}
}

// ReadGUID runs the template field until a complete GUID is confirmed.
// The returned text is uppercase and free of placeholders.
func (c *Console) ReadGUID() (string, error) {
	ed := editor.New(cellWriter{c})
	c.print("GUID: " + editor.Template() + strings.Repeat("\b", guid.TextLen))
	for {
		k, err := NextKey(c.keys)
		if err != nil {
			return "", err
		}
		if k.Scan != ScanNone {
			continue
		}
		switch {
		case k.IsEnter():
			s, ok := ed.TryCommit()
			observability.RecordTemplateCommit(ok)
			if ok {
				c.print("\n")
				return s, nil
			}
			if c.bell {
				c.print("\a")
			}
		case k.IsBackspace():
			ed.Backspace()
		case k.Rune == KeyPaste:
			c.paste(ed)
		default:
			ed.InsertHex(k.Rune)
		}
	}
}

// WaitAnyKey blocks for one keystroke.
func (c *Console) WaitAnyKey() error {
	_, err := NextKey(c.keys)
	return err
}

func (c *Console) paste(ed *editor.Editor) {
	if c.clipboard == nil {
		return
	}
	text, err := c.clipboard.ReadText()
	if err != nil {
		log.Debug().Err(err).Msg("paste ignored")
		return
	}
	n := ed.Fill(text)
	log.Debug().Int("digits", n).Msg("pasted into guid template")
}

func (c *Console) print(s string) {
	_, _ = io.WriteString(c.out, s)
}

// cellWriter renders editor cell updates in place.
type cellWriter struct {
	c *Console
}

func (w cellWriter) PutCell(r rune)   { w.c.print(string(r)) }
func (w cellWriter) SkipSeparator()   { w.c.print(string(editor.Separator)) }
func (w cellWriter) StepBack()        { w.c.print("\b") }
func (w cellWriter) RestoreSentinel() { w.c.print("\b" + string(editor.Sentinel) + "\b") }
