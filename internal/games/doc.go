// Package games defines the candidate and launch-override records shared by
// the scanner, the shortcut store, and the sync orchestrator.
package games
