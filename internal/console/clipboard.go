package console

import (
	"errors"
	"sync"

	"golang.design/x/clipboard"
)

var ErrClipboardUnavailable = errors.New("console: clipboard unavailable")

// Clipboard supplies text pasted into the template field.
type Clipboard interface {
	ReadText() (string, error)
}

// SystemClipboard reads the host clipboard. Initialisation is attempted
// once; headless hosts report ErrClipboardUnavailable on every read.
type SystemClipboard struct {
	once sync.Once
	err  error
}

func (c *SystemClipboard) ReadText() (string, error) {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.err = errors.Join(ErrClipboardUnavailable, err)
		}
	})
	if c.err != nil {
		return "", c.err
	}
	return string(clipboard.Read(clipboard.FmtText)), nil
}

// StaticClipboard returns fixed text; used by tests and non-interactive runs.
type StaticClipboard string

func (c StaticClipboard) ReadText() (string, error) {
	return string(c), nil
}
