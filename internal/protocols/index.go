// Package protocols holds the read-only name <-> GUID registry of known
// firmware protocols.
package protocols

import (
	"sort"
	"strings"

	"github.com/danmuck/handlectl/internal/guid"
	"github.com/hbollon/go-edlib"
)

// UnknownName is the label reported for identifiers missing from the registry.
const UnknownName = "Unknown"

// suggestThreshold is the minimum Jaro-Winkler similarity for a suggestion.
const suggestThreshold = 0.75

// Entry binds a display name to a protocol identifier.
type Entry struct {
	Name string
	ID   guid.GUID
}

// Index is an immutable lookup table. Order is significant: lookups
// return the first matching entry.
type Index struct {
	entries []Entry
}

// New builds an index over a private copy of entries.
func New(entries ...Entry) *Index {
	list := make([]Entry, len(entries))
	copy(list, entries)
	return &Index{entries: list}
}

// WithExtra returns a new index with extra appended after the current
// entries, so existing names keep precedence on duplicates.
func (idx *Index) WithExtra(extra []Entry) *Index {
	list := make([]Entry, 0, len(idx.entries)+len(extra))
	list = append(list, idx.entries...)
	list = append(list, extra...)
	return &Index{entries: list}
}

// NameToID resolves name case-insensitively. A miss is a normal outcome
// and is reported with ok=false.
func (idx *Index) NameToID(name string) (guid.GUID, bool) {
	for _, e := range idx.entries {
		if strings.EqualFold(e.Name, name) {
			return e.ID, true
		}
	}
	return guid.GUID{}, false
}

// IDToName returns the first registered name for id, or UnknownName.
func (idx *Index) IDToName(id guid.GUID) string {
	for _, e := range idx.entries {
		if e.ID == id {
			return e.Name
		}
	}
	return UnknownName
}

// Names returns the registered names in table order.
func (idx *Index) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for _, e := range idx.entries {
		names = append(names, e.Name)
	}
	return names
}

// Entries returns a copy of the table.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Len reports the number of entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Suggest returns up to max registered names that look like name, best first.
func (idx *Index) Suggest(name string, max int) []string {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" || max <= 0 {
		return nil
	}

	type scored struct {
		name  string
		score float32
		pos   int
	}
	seen := make(map[string]bool, len(idx.entries))
	candidates := make([]scored, 0, len(idx.entries))
	for i, e := range idx.entries {
		key := strings.ToLower(e.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		score, err := edlib.StringsSimilarity(query, key, edlib.JaroWinkler)
		if err != nil || score < suggestThreshold {
			continue
		}
		candidates = append(candidates, scored{name: e.Name, score: score, pos: i})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].pos < candidates[j].pos
	})
	if len(candidates) > max {
		candidates = candidates[:max]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.name)
	}
	return out
}
