// Package syncrun wires configuration, logging, the state database, Steam
// host access, and the artwork pipeline into a runnable orchestrator.
//
// RunOnce backs the CLI "sync" command and Watch backs "watch". Both take the
// same single-writer lock so shortcuts.vdf never has two writers.
package syncrun
