// Package syncer runs one Steam shortcut sync end to end.
//
// The Orchestrator walks a fixed sequence: locate Steam, close the client if
// it is running (remembering whether Big Picture was active), scan the game
// folders, apply launch overrides, resolve the user profile, dedupe and repair
// shortcuts.vdf, append new shortcuts, fetch missing artwork one game at a
// time, save, and relaunch Steam in its original mode. Progress is streamed
// to a StatusFunc; failures to locate Steam or its user profile end the run
// before shortcuts.vdf is touched.
//
// Only one run executes at a time. A second Run while one is active returns
// ErrSyncInProgress without side effects.
package syncer
