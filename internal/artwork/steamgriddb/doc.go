// Package steamgriddb is a small client for the SteamGridDB v2 API.
//
// It covers the calls needed to attach artwork to a shortcut: autocomplete
// search by title, the per-game grid/hero/logo/icon listings, and raw image
// downloads. Every response arrives in a {success, data} envelope; a non-200
// status or success=false is reported as an error.
package steamgriddb
