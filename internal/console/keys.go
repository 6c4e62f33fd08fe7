package console

import (
	"errors"
	"io"
)

// Scan identifies a non-character key.
type Scan int

const (
	ScanNone Scan = iota
	ScanUp
	ScanDown
	ScanRight
	ScanLeft
	ScanUnknown
)

// Control characters delivered as Key.Rune.
const (
	KeyEnter     rune = '\r'
	KeyBackspace rune = 0x08
	KeyEscape    rune = 0x1b
	KeyPaste     rune = 0x16 // Ctrl+V
)

var (
	// ErrNotReady is returned by ReadNext when no key is pending; callers wait and retry.
	ErrNotReady = errors.New("console: no key ready")
	// ErrInterrupted signals Ctrl+C on a raw terminal.
	ErrInterrupted = errors.New("console: interrupted")
)

// Key is one keystroke: either a character or a scan code.
type Key struct {
	Rune rune
	Scan Scan
}

func (k Key) IsEnter() bool     { return k.Scan == ScanNone && k.Rune == KeyEnter }
func (k Key) IsBackspace() bool { return k.Scan == ScanNone && k.Rune == KeyBackspace }

// KeySource is the blocking input boundary. WaitReady blocks until a key
// can be read; ReadNext returns it. Exhausted sources return io.EOF.
type KeySource interface {
	WaitReady() error
	ReadNext() (Key, error)
}

// NextKey waits for and reads one key, retrying reads that report
// ErrNotReady.
func NextKey(src KeySource) (Key, error) {
	for {
		if err := src.WaitReady(); err != nil {
			return Key{}, err
		}
		k, err := src.ReadNext()
		if errors.Is(err, ErrNotReady) {
			continue
		}
		return k, err
	}
}

// ScriptedSource replays a fixed key sequence and then reports io.EOF.
type ScriptedSource struct {
	keys []Key
	pos  int
}

// Script builds a scripted source from key groups, flattened in order.
func Script(groups ...[]Key) *ScriptedSource {
	var keys []Key
	for _, g := range groups {
		keys = append(keys, g...)
	}
	return &ScriptedSource{keys: keys}
}

func (s *ScriptedSource) WaitReady() error {
	if s.pos >= len(s.keys) {
		return io.EOF
	}
	return nil
}

func (s *ScriptedSource) ReadNext() (Key, error) {
	if s.pos >= len(s.keys) {
		return Key{}, io.EOF
	}
	k := s.keys[s.pos]
	s.pos++
	return k, nil
}

// Remaining reports how many scripted keys are left.
func (s *ScriptedSource) Remaining() int {
	return len(s.keys) - s.pos
}

// Text returns one key per rune of s.
func Text(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, Key{Rune: r})
	}
	return keys
}

// Repeat returns k n times.
func Repeat(k Key, n int) []Key {
	keys := make([]Key, n)
	for i := range keys {
		keys[i] = k
	}
	return keys
}

func Up() []Key        { return []Key{{Scan: ScanUp}} }
func Down() []Key      { return []Key{{Scan: ScanDown}} }
func Enter() []Key     { return []Key{{Rune: KeyEnter}} }
func Backspace() []Key { return []Key{{Rune: KeyBackspace}} }
func Paste() []Key     { return []Key{{Rune: KeyPaste}} }
