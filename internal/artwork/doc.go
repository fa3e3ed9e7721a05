// Package artwork keeps the per-shortcut image set in Steam's grid directory
// complete.
//
// Five kinds are tracked (portrait grid, wide grid, hero, logo, icon), each
// stored as {appid}{suffix}.{ext}. MissingKinds decides which are absent or
// malformed, Pipeline fetches replacements from SteamGridDB through a shared
// Throttle and normalizes them to the sizes Steam expects, and Rename moves a
// set when a shortcut's identifier changes.
package artwork
