// Package logging assembles the slog loggers used across postit.
//
// It owns the console and JSON handlers, level parsing, and output routing.
// The terminal UI owns stdout while it runs, so callers pick the outputs:
// the CLI logs to stderr plus the log file, the TUI to the file alone.
// NewNop returns a logger that discards everything, for tests.
package logging
