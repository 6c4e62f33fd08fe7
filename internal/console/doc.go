// Package console owns operator input and in-place rendering.
//
// Ownership boundary:
// - KeySource contract (WaitReady/ReadNext) and its scripted, stream and raw terminal implementations
// - arrow-key menu with wrap-around
// - free-text line input
// - GUID template field driving internal/editor
package console
