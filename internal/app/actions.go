package app

import (
	"errors"
	"strings"
	"time"

	"github.com/danmuck/handlectl/internal/guid"
	"github.com/danmuck/handlectl/internal/observability"
	"github.com/danmuck/handlectl/internal/search"
	"github.com/rs/zerolog/log"
)

// DumpAll reports every handle in detail.
func (a *App) DumpAll() {
	start := time.Now()
	snap, err := a.snapshot()
	if err != nil {
		a.noHandles(observability.ModeAll, err, start)
		return
	}
	defer snap.Release()

	a.report.Total(snap.Len())
	a.report.Records(a.engine.All(snap))
	observability.RecordSearch(observability.ModeAll, nil, time.Since(start))
}

// SearchGUID parses text and reports every handle carrying that protocol.
func (a *App) SearchGUID(text string, detail bool) {
	start := time.Now()
	id, err := guid.Parse(strings.TrimSpace(text))
	if err != nil {
		log.Debug().Err(err).Str("input", text).Msg("guid rejected")
		a.report.Linef("Invalid GUID!")
		observability.RecordSearch(observability.ModeGUID, err, time.Since(start))
		return
	}

	snap, err := a.snapshot()
	if err != nil {
		a.noHandles(observability.ModeGUID, err, start)
		return
	}
	defer snap.Release()

	records, err := a.engine.ByCapabilityID(snap, id, detail)
	observability.RecordSearch(observability.ModeGUID, err, time.Since(start))
	if err != nil {
		a.report.Linef("No handles found.")
		return
	}
	a.report.Records(records)
}

// SearchName resolves name through the registry before any snapshot is
// taken; an unknown name never touches the handle source.
func (a *App) SearchName(name string, detail bool) {
	start := time.Now()
	id, err := a.engine.Resolve(name)
	if err != nil {
		a.report.Linef("Name '%s' not found.", name)
		if hints := a.engine.Index().Suggest(name, maxSuggest); len(hints) > 0 {
			a.report.Linef("Did you mean: %s?", strings.Join(hints, ", "))
		}
		observability.RecordSearch(observability.ModeName, err, time.Since(start))
		return
	}
	a.report.Linef("[Debug] Found Protocol: %s (%s)", a.engine.Index().IDToName(id), id)

	snap, err := a.snapshot()
	if err != nil {
		a.noHandles(observability.ModeName, err, start)
		return
	}
	defer snap.Release()

	_, records, err := a.engine.ByName(snap, name, detail)
	observability.RecordSearch(observability.ModeName, err, time.Since(start))
	if err != nil {
		a.report.Linef("No handles found.")
		return
	}
	a.report.Records(records)
}

// SearchIndex parses raw with ParseIndex and reports the handle at that
// ordinal.
func (a *App) SearchIndex(raw string) {
	start := time.Now()
	index := ParseIndex(raw)
	a.report.Linef("[Debug] Parsed Index: %d (0x%X)", index, index)

	snap, err := a.snapshot()
	if err != nil {
		a.noHandles(observability.ModeIndex, err, start)
		return
	}
	defer snap.Release()

	rec, err := a.engine.ByOrdinal(snap, ordinal(index))
	observability.RecordSearch(observability.ModeIndex, err, time.Since(start))
	if errors.Is(err, search.ErrOutOfRange) {
		a.report.Linef("Index %d is out of range (Max: %d)", index, snap.Len()-1)
		return
	}
	if err != nil {
		a.report.Linef("Lookup failed: %v", err)
		return
	}
	a.report.Record(rec)
}

func supportedNames(e *search.Engine) string {
	return strings.Join(e.Index().Names(), ", ")
}
