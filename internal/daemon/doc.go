// Package daemon runs the background Steam watcher.
//
// The watcher holds a flock-based lock so only one instance runs, polls the
// Steam process on a fixed interval, and triggers a sync when Steam goes from
// closed to running, no sync is active, and the cooldown since the last handled launch has
// elapsed. Sync work itself lives in the syncer package; the daemon only owns
// startup, shutdown, and scheduling.
package daemon
