// Package search matches catalog snapshots against a protocol target.
package search

import (
	"errors"
	"fmt"

	"github.com/danmuck/handlectl/internal/catalog"
	"github.com/danmuck/handlectl/internal/guid"
	"github.com/danmuck/handlectl/internal/protocols"
)

var (
	ErrNotFound    = errors.New("search: not found")
	ErrNoMatches   = fmt.Errorf("%w: no handles found", ErrNotFound)
	ErrUnknownName = fmt.Errorf("%w: unknown protocol name", ErrNotFound)
	ErrOutOfRange  = errors.New("search: index out of range")
)

// Record is one reported handle. Detail records carry the full capability
// list; summary records only identify the handle.
type Record struct {
	Ordinal int
	Entry   catalog.Entry
	Detail  bool
}

// Engine runs searches against snapshots owned by the caller.
type Engine struct {
	index *protocols.Index
}

// New returns an engine that resolves names through idx.
func New(idx *protocols.Index) *Engine {
	if idx == nil {
		idx = protocols.Default()
	}
	return &Engine{index: idx}
}

// Index exposes the registry used for name resolution.
func (e *Engine) Index() *protocols.Index {
	return e.index
}

// ByCapabilityID scans snap in enumeration order and returns one record per
// handle carrying target. Zero hits is reported as ErrNoMatches.
func (e *Engine) ByCapabilityID(snap *catalog.Snapshot, target guid.GUID, detail bool) ([]Record, error) {
	var records []Record
	for _, entry := range snap.Entries() {
		if !entry.Has(target) {
			continue
		}
		records = append(records, Record{Ordinal: entry.Ordinal, Entry: entry, Detail: detail})
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatches, target)
	}
	return records, nil
}

// Resolve maps name to its protocol GUID without touching any snapshot.
func (e *Engine) Resolve(name string) (guid.GUID, error) {
	id, ok := e.index.NameToID(name)
	if !ok {
		return guid.GUID{}, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return id, nil
}

// ByName resolves name and delegates to ByCapabilityID. An unresolved name
// fails with ErrUnknownName before the snapshot is read.
func (e *Engine) ByName(snap *catalog.Snapshot, name string, detail bool) (guid.GUID, []Record, error) {
	id, err := e.Resolve(name)
	if err != nil {
		return guid.GUID{}, nil, err
	}
	records, err := e.ByCapabilityID(snap, id, detail)
	return id, records, err
}

// ByOrdinal returns the detail record at index without scanning.
func (e *Engine) ByOrdinal(snap *catalog.Snapshot, index int) (Record, error) {
	entry, ok := snap.At(index)
	if !ok {
		return Record{}, fmt.Errorf("%w: %d (handles=%d)", ErrOutOfRange, index, snap.Len())
	}
	return Record{Ordinal: index, Entry: entry, Detail: true}, nil
}

// All returns every entry as a detail record.
func (e *Engine) All(snap *catalog.Snapshot) []Record {
	entries := snap.Entries()
	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		records = append(records, Record{Ordinal: entry.Ordinal, Entry: entry, Detail: true})
	}
	return records
}
