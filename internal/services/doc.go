// Package services defines shared utilities consumed by the sync phases and
// external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp sync run IDs, phase names, and game names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that separate fatal run
//     failures (Steam or profile missing, store write) from per-item ones.
//
// Use these helpers when wiring new sync logic so error handling and
// observability stay uniform across the run.
package services
