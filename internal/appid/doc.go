// Package appid computes the 32-bit identifiers Steam assigns to non-Steam
// shortcuts.
//
// Steam derives the identifier from the quoted executable path and the display
// name using its legacy CRC-32 scheme. Artwork files and launch metadata are
// keyed on this value, so any drift from Steam's own computation silently
// orphans existing artwork. The tests pin literal vectors for that reason.
package appid
