package catalog

import (
	"errors"
	"fmt"

	"github.com/danmuck/handlectl/internal/guid"
)

var (
	ErrNoHandles          = errors.New("catalog: no handle data available")
	ErrPartialEnumeration = errors.New("catalog: protocol query failed")
)

// Capability is one protocol installed on a handle.
type Capability struct {
	ID        guid.GUID
	Interface uint64
	// Bound is false when the interface query for ID failed.
	Bound bool
}

// Entry is one handle and its capability set at capture time.
type Entry struct {
	Ordinal       int
	Handle        Handle
	DevicePath    string
	HasDevicePath bool
	Capabilities  []Capability
	// Err is set (wrapping ErrPartialEnumeration) when the protocol list
	// could not be read; Capabilities is then empty.
	Err error
}

// Has reports whether id is installed on the entry.
func (e Entry) Has(id guid.GUID) bool {
	for _, c := range e.Capabilities {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Snapshot is an immutable capture of a Source. It goes stale if the live
// handle set changes after Take; that is accepted, not corrected.
type Snapshot struct {
	entries  []Entry
	partial  int
	released bool
}

// Take captures every handle and its protocols. A failing per-handle query
// is recorded on that entry and enumeration continues. Only a failure to
// enumerate handles at all is returned as an error.
func Take(src Source) (*Snapshot, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrNoHandles)
	}
	handles, err := src.Handles()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoHandles, err)
	}

	snap := &Snapshot{entries: make([]Entry, 0, len(handles))}
	for i, h := range handles {
		entry := Entry{Ordinal: i, Handle: h}
		entry.DevicePath, entry.HasDevicePath = src.DevicePathText(h)

		ids, err := src.ProtocolsPerHandle(h)
		if err != nil {
			entry.Err = fmt.Errorf("%w: handle %s: %v", ErrPartialEnumeration, h, err)
			entry.Capabilities = []Capability{}
			snap.partial++
			snap.entries = append(snap.entries, entry)
			continue
		}
		entry.Capabilities = make([]Capability, 0, len(ids))
		for _, id := range ids {
			iface, err := src.HandleProtocol(h, id)
			entry.Capabilities = append(entry.Capabilities, Capability{
				ID:        id,
				Interface: iface,
				Bound:     err == nil,
			})
		}
		snap.entries = append(snap.entries, entry)
	}
	return snap, nil
}

// Len reports the number of captured handles; zero after Release.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// At returns the entry at ordinal i.
func (s *Snapshot) At(i int) (Entry, bool) {
	if s == nil || i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Entries returns the captured entries in enumeration order. The slice
// is shared; callers must not modify it.
func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Partial reports how many entries failed their protocol query.
func (s *Snapshot) Partial() int {
	if s == nil {
		return 0
	}
	return s.partial
}

// Release drops the backing buffers. Safe to call more than once and on nil.
func (s *Snapshot) Release() {
	if s == nil || s.released {
		return
	}
	for i := range s.entries {
		s.entries[i].Capabilities = nil
	}
	s.entries = nil
	s.released = true
}

// Released reports whether Release has run.
func (s *Snapshot) Released() bool {
	return s != nil && s.released
}
