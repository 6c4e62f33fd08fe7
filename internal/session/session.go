// Package session owns the per-process operator session: console output,
// the append-only session log and the protocol registry. It is created once
// at startup, passed into every operation and closed at the single exit point.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/danmuck/handlectl/internal/protocols"
	"github.com/rs/zerolog/log"
)

var ErrLogUnavailable = errors.New("session: log unavailable")

// Options configures Open.
type Options struct {
	Console  io.Writer
	LogPath  string
	Registry *protocols.Index
}

// Session tees operator output to the console and the session log. Writes
// never fail because of the log: a log error disables it and is reported
// once through LogErr.
type Session struct {
	console  io.Writer
	file     *os.File
	log      *bufio.Writer
	logPath  string
	logErr   error
	registry *protocols.Index
	closed   bool
}

// Open creates a session. An unusable log path degrades to console-only
// output; the returned session is always usable.
func Open(opts Options) *Session {
	s := &Session{
		console:  opts.Console,
		logPath:  opts.LogPath,
		registry: opts.Registry,
	}
	if s.console == nil {
		s.console = os.Stdout
	}
	if s.registry == nil {
		s.registry = protocols.Default()
	}
	if opts.LogPath == "" {
		return s
	}

	if dir := filepath.Dir(opts.LogPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.disableLog(err)
			return s
		}
	}
	f, err := os.OpenFile(opts.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		s.disableLog(err)
		return s
	}
	s.file = f
	s.log = bufio.NewWriter(f)
	log.Debug().Str("path", opts.LogPath).Msg("session log opened")
	return s
}

// Registry returns the protocol registry for this session.
func (s *Session) Registry() *protocols.Index {
	return s.registry
}

// Console returns the console-only writer for prompts and key echo that
// must not reach the log.
func (s *Session) Console() io.Writer {
	return s.console
}

// LogPath is the configured log destination.
func (s *Session) LogPath() string {
	return s.logPath
}

// LogErr reports why the log is unavailable, wrapping ErrLogUnavailable.
func (s *Session) LogErr() error {
	return s.logErr
}

// Logging reports whether lines currently reach the log.
func (s *Session) Logging() bool {
	return s.log != nil
}

// Write sends p to the console and, when available, the log.
func (s *Session) Write(p []byte) (int, error) {
	n, err := s.console.Write(p)
	if err != nil {
		return n, err
	}
	if s.log != nil {
		if _, lerr := s.log.Write(p); lerr != nil {
			s.disableLog(lerr)
		}
	}
	return n, nil
}

// Flush pushes buffered log lines to disk.
func (s *Session) Flush() error {
	if s.log == nil {
		return nil
	}
	if err := s.log.Flush(); err != nil {
		s.disableLog(err)
		return s.logErr
	}
	return nil
}

// Close flushes and closes the log. Safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.file == nil {
		return nil
	}
	var errs []error
	if s.log != nil {
		if err := s.log.Flush(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.file.Sync(); err != nil {
		errs = append(errs, err)
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}
	s.file = nil
	s.log = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close session log: %w", err)
	}
	return nil
}

func (s *Session) disableLog(err error) {
	s.logErr = fmt.Errorf("%w: %s: %v", ErrLogUnavailable, s.logPath, err)
	log.Warn().Err(err).Str("path", s.logPath).Msg("session log unavailable; console only")
	if s.file != nil {
		_ = s.file.Close()
	}
	s.file = nil
	s.log = nil
}
