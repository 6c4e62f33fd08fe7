// Package catalog owns point-in-time captures of the firmware handle table.
//
// Ownership boundary:
// - firmware Source contract (handle enumeration, per-handle protocol lists)
// - Snapshot capture and release
// - in-memory and TOML dump sources
package catalog
