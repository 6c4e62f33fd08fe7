package console

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Terminal is a raw-mode key source over a TTY. Reads are synchronous on
// the caller's goroutine; Close restores the saved terminal state.
type Terminal struct {
	*StreamSource
	fd       int
	oldState *term.State
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// OpenTerminal switches f to raw mode so echo and line buffering are off.
func OpenTerminal(f *os.File) (*Terminal, error) {
	fd := int(f.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("console: set raw mode: %w", err)
	}
	return &Terminal{
		StreamSource: NewStreamSource(f),
		fd:           fd,
		oldState:     oldState,
	}, nil
}

// Close restores the terminal. Safe to call more than once.
func (t *Terminal) Close() error {
	if t.oldState == nil {
		return nil
	}
	err := term.Restore(t.fd, t.oldState)
	t.oldState = nil
	return err
}

// Input is an opened key source plus the output adaptation it needs.
type Input struct {
	Keys KeySource
	// Raw is true when the terminal is in raw mode and output needs CRLF.
	Raw   bool
	close func() error
}

// Close releases the input, restoring the terminal when raw.
func (in *Input) Close() error {
	if in.close == nil {
		return nil
	}
	err := in.close()
	in.close = nil
	return err
}

// OpenInput picks a raw terminal source when f is a TTY and a plain stream
// source otherwise, so piped key scripts drive the same code paths.
func OpenInput(f *os.File) (*Input, error) {
	if !IsTerminal(f) {
		return &Input{Keys: NewStreamSource(f)}, nil
	}
	t, err := OpenTerminal(f)
	if err != nil {
		return nil, err
	}
	return &Input{Keys: t, Raw: true, close: t.Close}, nil
}

// CRLFWriter expands "\n" to "\r\n" for raw-mode terminals.
type CRLFWriter struct {
	w io.Writer
}

func NewCRLFWriter(w io.Writer) *CRLFWriter {
	return &CRLFWriter{w: w}
}

func (c *CRLFWriter) Write(p []byte) (int, error) {
	buf := make([]byte, 0, len(p)+8)
	for _, b := range p {
		if b == '\n' {
			buf = append(buf, '\r')
		}
		buf = append(buf, b)
	}
	if _, err := c.w.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}
