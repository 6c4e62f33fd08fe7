package app

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/danmuck/handlectl/internal/catalog"
	"github.com/danmuck/handlectl/internal/console"
	"github.com/danmuck/handlectl/internal/observability"
	"github.com/danmuck/handlectl/internal/report"
	"github.com/danmuck/handlectl/internal/search"
	"github.com/danmuck/handlectl/internal/session"
	"github.com/rs/zerolog/log"
)

const Title = "=== UEFI Handle Utility ==="

// Menu positions.
const (
	ItemDumpAll = iota
	ItemSearchGUID
	ItemSearchName
	ItemSearchIndex
	ItemExit
)

var MenuItems = []string{
	"1. Dump All Handles",
	"2. Search by Protocol GUID",
	"3. Search by Protocol Name (Exact Match)",
	"4. Search by Handle Number (Index)",
	"Exit",
}

const (
	namePrompt  = "Input EXACT Name: "
	indexPrompt = "Input Handle Index (e.g. 10 or 0xA): "
	returnHint  = "\nPress any key to return to menu..."
	maxSuggest  = 3
)

var ErrNoSource = errors.New("app: no handle source configured")

// SourceFunc opens the firmware view for one search. It is called once per
// action so every search sees a fresh capture.
type SourceFunc func() (catalog.Source, error)

// Options wires an App. Console may be nil for non-interactive use.
type Options struct {
	Session *session.Session
	Console *console.Console
	Source  SourceFunc
}

// App owns one operator session's dispatch.
type App struct {
	session *session.Session
	console *console.Console
	source  SourceFunc
	engine  *search.Engine
	report  *report.Reporter
}

func New(opts Options) *App {
	sess := opts.Session
	if sess == nil {
		sess = session.Open(session.Options{})
	}
	return &App{
		session: sess,
		console: opts.Console,
		source:  opts.Source,
		engine:  search.New(sess.Registry()),
		report:  report.New(sess, sess.Registry()),
	}
}

// Run shows the menu until Exit is chosen or input ends. End of input and
// Ctrl+C both end the loop without error.
func (a *App) Run() error {
	if a.console == nil {
		return fmt.Errorf("app: interactive run needs a console")
	}
	if err := a.session.LogErr(); err != nil {
		a.report.Linef("Warning: %v", err)
	}
	for {
		choice, err := a.console.Menu(Title, MenuItems)
		if err != nil {
			return endOfInput(err)
		}
		if choice == ItemExit {
			log.Info().Msg("operator exit")
			return nil
		}

		a.report.ResultHeader()
		if err := a.dispatch(choice); err != nil {
			a.flush()
			return endOfInput(err)
		}
		a.report.Raw(returnHint)
		a.flush()
		if err := a.console.WaitAnyKey(); err != nil {
			return endOfInput(err)
		}
	}
}

func (a *App) dispatch(choice int) error {
	switch choice {
	case ItemDumpAll:
		a.DumpAll()
	case ItemSearchGUID:
		text, err := a.console.ReadGUID()
		if err != nil {
			return err
		}
		a.SearchGUID(text, true)
	case ItemSearchName:
		a.report.Linef("Supported: %s", supportedNames(a.engine))
		name, err := a.console.ReadLine(namePrompt)
		if err != nil {
			return err
		}
		a.SearchName(name, false)
	case ItemSearchIndex:
		raw, err := a.console.ReadLine(indexPrompt)
		if err != nil {
			return err
		}
		a.SearchIndex(raw)
	default:
		log.Warn().Int("choice", choice).Msg("unknown menu selection")
	}
	return nil
}

// Oneshot runs action inside one result block and flushes the session.
// It serves the non-interactive subcommands.
func (a *App) Oneshot(action func(*App)) error {
	a.report.ResultHeader()
	action(a)
	if err := a.session.Flush(); err != nil {
		log.Warn().Err(err).Msg("session flush failed")
	}
	return a.report.Err()
}

// Flush pushes buffered session output to the log.
func (a *App) Flush() error {
	return a.session.Flush()
}

// Err reports the first operator output write failure.
func (a *App) Err() error {
	return a.report.Err()
}

func (a *App) flush() {
	if err := a.session.Flush(); err != nil {
		log.Warn().Err(err).Msg("session flush failed")
	}
}

// snapshot opens the source and captures it. The caller releases the
// returned snapshot.
func (a *App) snapshot() (*catalog.Snapshot, error) {
	if a.source == nil {
		observability.RecordSnapshotFailure()
		return nil, fmt.Errorf("%w: %w", catalog.ErrNoHandles, ErrNoSource)
	}
	src, err := a.source()
	if err != nil {
		observability.RecordSnapshotFailure()
		return nil, fmt.Errorf("%w: %v", catalog.ErrNoHandles, err)
	}
	start := time.Now()
	snap, err := catalog.Take(src)
	if err != nil {
		observability.RecordSnapshotFailure()
		return nil, err
	}
	observability.RecordSnapshot(snap.Len(), snap.Partial())
	log.Debug().
		Int("handles", snap.Len()).
		Int("partial", snap.Partial()).
		Dur("took", time.Since(start)).
		Msg("snapshot taken")
	return snap, nil
}

func (a *App) noHandles(mode string, err error, start time.Time) {
	log.Error().Err(err).Str("mode", mode).Msg("handle enumeration failed")
	a.report.Linef("Unable to enumerate handles: %v", err)
	observability.RecordSearch(mode, err, time.Since(start))
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, console.ErrInterrupted) {
		log.Info().Err(err).Msg("input closed")
		return nil
	}
	return err
}
