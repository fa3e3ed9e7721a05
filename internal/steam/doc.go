// Package steam locates the local Steam installation and controls the Steam
// client process.
//
// Locator resolves the install directory (config override, Windows registry,
// platform defaults) and the active user profile under userdata/ (pinned id,
// the MostRecent login in config/loginusers.vdf, the profile with the newest
// shortcuts.vdf, or the first profile). Controller detects, closes, and
// relaunches the client, preserving Big Picture mode across a sync.
package steam
