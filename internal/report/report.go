// Package report renders search records in the session log layout.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/handlectl/internal/catalog"
	"github.com/danmuck/handlectl/internal/guid"
	"github.com/danmuck/handlectl/internal/protocols"
	"github.com/danmuck/handlectl/internal/search"
)

// Rule separates handle blocks.
var Rule = strings.Repeat("-", 58)

const ResultHeader = "--- Execution Result ---"

// Reporter writes formatted lines to out, normally a session writer that
// tees console and log.
type Reporter struct {
	out   io.Writer
	index *protocols.Index
	err   error
}

func New(out io.Writer, idx *protocols.Index) *Reporter {
	if idx == nil {
		idx = protocols.Default()
	}
	return &Reporter{out: out, index: idx}
}

// Err returns the first write error, if any.
func (r *Reporter) Err() error {
	return r.err
}

// Linef writes one formatted line terminated by a newline.
func (r *Reporter) Linef(format string, args ...any) {
	r.write(fmt.Sprintf(format, args...) + "\n")
}

// Raw writes s verbatim.
func (r *Reporter) Raw(s string) {
	r.write(s)
}

func (r *Reporter) ResultHeader() {
	r.Linef("%s", ResultHeader)
}

func (r *Reporter) Total(n int) {
	r.Linef("Total Handles: %d", n)
}

// Records writes each record in order.
func (r *Reporter) Records(records []search.Record) {
	for _, rec := range records {
		r.Record(rec)
	}
}

// Record writes a detail block or a one-line summary.
func (r *Reporter) Record(rec search.Record) {
	if !rec.Detail {
		r.Linef("%s", SummaryLine(rec))
		return
	}
	for _, line := range EntryLines(rec.Entry, r.index) {
		r.Linef("%s", line)
	}
}

// SummaryLine is the one-line match report.
func SummaryLine(rec search.Record) string {
	return fmt.Sprintf("Found at Index: %d (Address: %s) -> Match", rec.Ordinal, rec.Entry.Handle)
}

// EntryLines renders the full handle block.
func EntryLines(e catalog.Entry, idx *protocols.Index) []string {
	lines := []string{
		Rule,
		fmt.Sprintf("Handle Index: %d  |  Address: %s", e.Ordinal, e.Handle),
	}
	if e.HasDevicePath {
		lines = append(lines, "  Device Path: "+e.DevicePath)
	} else {
		lines = append(lines, "  Device Path: [None]")
	}
	if e.Err != nil {
		lines = append(lines, fmt.Sprintf("  Protocols: [query failed: %v]", e.Err))
		return lines
	}
	lines = append(lines, fmt.Sprintf("  Protocols (%d):", len(e.Capabilities)))
	for _, c := range e.Capabilities {
		lines = append(lines, "    - "+CapabilityLine(c, idx))
	}
	return lines
}

// CapabilityLine renders "<GUID> (<name>) -> Interface: <token>", without
// the interface suffix when the query failed.
func CapabilityLine(c catalog.Capability, idx *protocols.Index) string {
	name := idx.IDToName(c.ID)
	if !c.Bound {
		return fmt.Sprintf("%s (%s)", guid.Format(c.ID), name)
	}
	return fmt.Sprintf("%s (%s) -> Interface: %s", guid.Format(c.ID), name, catalog.FormatAddress(c.Interface))
}

func (r *Reporter) write(s string) {
	if r.err != nil || r.out == nil {
		return
	}
	if _, err := io.WriteString(r.out, s); err != nil {
		r.err = err
	}
}
