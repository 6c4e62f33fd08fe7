// Package app runs the handle utility: the interactive menu loop and the
// one-shot operations behind the CLI subcommands.
//
// Ownership boundary:
// - menu dispatch and the per-action result block
// - snapshot lifetime for every search (taken per action, released on exit)
// - mapping search failures to operator messages
// - metric recording for searches and snapshots
package app
