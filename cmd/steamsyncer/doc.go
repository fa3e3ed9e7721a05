// Package main hosts the steamsyncer CLI entrypoint and command graph.
//
// The Cobra command tree exposes one-shot syncs, the background watcher,
// inspection commands for scans, shortcuts, and artwork, launch override
// management, run history, and configuration scaffolding. Sync logic lives in
// the internal packages; commands here only resolve configuration and render
// results.
package main
