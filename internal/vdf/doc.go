// Package vdf reads and writes Steam's binary KeyValues format, the encoding
// used by userdata/<id>/config/shortcuts.vdf.
//
// Only the node types that appear in shortcut records are supported: nested
// maps, strings, 32-bit integers, 32-bit floats, and 64-bit integers. Maps keep
// insertion order so a rewritten file lists records in the order Steam wrote
// them.
package vdf
