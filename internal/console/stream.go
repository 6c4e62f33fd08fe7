package console

import (
	"bufio"
	"io"
)

// StreamSource decodes keys from a byte stream: raw terminal input or
// piped text. Arrow escape sequences become scan codes, CR, LF and CRLF
// become Enter, DEL becomes Backspace.
type StreamSource struct {
	r *bufio.Reader
}

func NewStreamSource(r io.Reader) *StreamSource {
	return &StreamSource{r: bufio.NewReader(r)}
}

// WaitReady blocks until at least one byte is available.
func (s *StreamSource) WaitReady() error {
	_, err := s.r.Peek(1)
	return err
}

func (s *StreamSource) ReadNext() (Key, error) {
	c, _, err := s.r.ReadRune()
	if err != nil {
		return Key{}, err
	}
	switch c {
	case '\r':
		if next, err := s.r.Peek(1); err == nil && next[0] == '\n' {
			_, _ = s.r.ReadByte()
		}
		return Key{Rune: KeyEnter}, nil
	case '\n':
		return Key{Rune: KeyEnter}, nil
	case 0x7f:
		return Key{Rune: KeyBackspace}, nil
	case 0x03:
		return Key{}, ErrInterrupted
	case KeyEscape:
		return s.readEscape(), nil
	}
	return Key{Rune: c}, nil
}

// readEscape decodes CSI arrow sequences. A lone ESC is returned as is.
func (s *StreamSource) readEscape() Key {
	if s.r.Buffered() == 0 {
		return Key{Rune: KeyEscape}
	}
	next, err := s.r.Peek(1)
	if err != nil || (next[0] != '[' && next[0] != 'O') {
		return Key{Rune: KeyEscape}
	}
	_, _ = s.r.ReadByte()
	final, err := s.r.ReadByte()
	if err != nil {
		return Key{Scan: ScanUnknown}
	}
	switch final {
	case 'A':
		return Key{Scan: ScanUp}
	case 'B':
		return Key{Scan: ScanDown}
	case 'C':
		return Key{Scan: ScanRight}
	case 'D':
		return Key{Scan: ScanLeft}
	}
	// Drain parameterised sequences such as ESC [ 3 ~.
	for final >= '0' && final <= '9' || final == ';' {
		if final, err = s.r.ReadByte(); err != nil {
			break
		}
	}
	return Key{Scan: ScanUnknown}
}
