package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/handlectl/internal/testutil/testlog"
)

func TestSessionTeesConsoleAndLog(t *testing.T) {
	testlog.Start(t)
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "HandleDump.log")
	s := Open(Options{Console: &console, LogPath: path})
	if !s.Logging() || s.LogErr() != nil {
		t.Fatalf("expected log to open: %v", s.LogErr())
	}

	if _, err := s.Write([]byte("Total Handles: 2\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "Total Handles: 2\n" || console.String() != "Total Handles: 2\n" {
		t.Fatalf("unexpected output console=%q log=%q", console.String(), string(data))
	}
}

func TestSessionLogAppends(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "session.log")
	for _, line := range []string{"first\n", "second\n"} {
		s := Open(Options{Console: &bytes.Buffer{}, LogPath: path})
		_, _ = s.Write([]byte(line))
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}
	data, _ := os.ReadFile(path)
	if string(data) != "first\nsecond\n" {
		t.Fatalf("expected appended log, got %q", string(data))
	}
}

func TestSessionDegradesToConsoleOnly(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	var console bytes.Buffer
	s := Open(Options{Console: &console, LogPath: filepath.Join(blocker, "HandleDump.log")})
	defer s.Close()

	if s.Logging() {
		t.Fatalf("expected log disabled")
	}
	if !errors.Is(s.LogErr(), ErrLogUnavailable) {
		t.Fatalf("expected ErrLogUnavailable, got %v", s.LogErr())
	}
	if _, err := s.Write([]byte("still visible\n")); err != nil {
		t.Fatalf("console write must keep working: %v", err)
	}
	if !strings.Contains(console.String(), "still visible") {
		t.Fatalf("console output missing")
	}
}

func TestSessionWithoutLogPath(t *testing.T) {
	testlog.Start(t)
	var console bytes.Buffer
	s := Open(Options{Console: &console})
	if s.Logging() || s.LogErr() != nil {
		t.Fatalf("no log path must mean no log and no error")
	}
	if s.Registry() == nil || s.Registry().Len() == 0 {
		t.Fatalf("expected default registry")
	}
	if s.Console() != &console {
		t.Fatalf("console writer not preserved")
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
