// Package state persists steamsyncer's own settings in SQLite.
//
// The Store owns three tables: flags (one-time markers such as the artwork
// repair flag), launch_overrides (user edits keyed like shortcuts), and
// sync_runs (a history of every sync with its outcome and counters). Schema
// changes ship as numbered files under migrations/ and are applied in order
// on Open.
package state
