// Package config loads steamsyncer's TOML configuration.
//
// Load fills defaults, expands ~ in paths, deduplicates scan folders and
// extensions, applies the STEAMGRIDDB_API_KEY environment override and
// validates the result. Duration knobs are stored as integers and exposed
// through typed accessors such as WatchCooldown.
package config
