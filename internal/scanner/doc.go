// Package scanner discovers installed games below configured folders.
//
// Every immediate subfolder of a root is treated as one game. The scanner walks
// it to a bounded depth with an explicit work stack, keeps files that look like
// executables and do not carry a denylisted marker (installers, redistributables,
// uninstallers, crash handlers, anti-cheat helpers), and picks the largest one
// as the main binary. Missing or unreadable folders are skipped silently.
package scanner
