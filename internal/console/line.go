package console

import (
	"errors"
	"fmt"
)

var ErrLineTooLong = errors.New("console: line too long")

// LineBuffer accumulates printable input up to a fixed capacity.
type LineBuffer struct {
	buf []rune
	max int
}

func NewLineBuffer(capacity int) *LineBuffer {
	if capacity <= 0 {
		capacity = LineCapacity
	}
	return &LineBuffer{buf: make([]rune, 0, capacity), max: capacity}
}

// Append adds r, or fails with ErrLineTooLong once the buffer is full.
func (b *LineBuffer) Append(r rune) error {
	if len(b.buf) >= b.max {
		return fmt.Errorf("%w: capacity %d", ErrLineTooLong, b.max)
	}
	b.buf = append(b.buf, r)
	return nil
}

// Pop removes the last rune. It reports false on an empty buffer.
func (b *LineBuffer) Pop() bool {
	if len(b.buf) == 0 {
		return false
	}
	b.buf = b.buf[:len(b.buf)-1]
	return true
}

func (b *LineBuffer) Len() int       { return len(b.buf) }
func (b *LineBuffer) Cap() int       { return b.max }
func (b *LineBuffer) String() string { return string(b.buf) }
