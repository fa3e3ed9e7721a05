// Package shortcuts reads and rewrites Steam's shortcuts.vdf.
//
// A Store holds one in-memory copy of the file for the duration of a sync.
// Callers apply Dedupe, Repair, and Add in that order and finish with Save, so
// a crash before Save leaves the previous file untouched. Save keeps a copy of
// the prior file as shortcuts.vdf.bak and replaces the original atomically.
//
// Entries are identified by the pair (appname, exe); the stored appid is a
// cache of appid.Compute over that pair and is corrected by Repair whenever it
// drifts.
package shortcuts
