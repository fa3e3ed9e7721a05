// Package logging assembles structured slog loggers and formatting helpers used
// across steamsyncer.
//
// It owns the console and JSON handlers, the tee that mirrors console output
// into the persistent log file, and context helpers that tag lines with the
// sync run ID, phase, and game. WarnWithContext and ErrorWithContext enforce
// event_type, error_hint, and impact fields so operator-facing warnings always
// explain cause and consequence. A no-op logger is provided for tests.
package logging
