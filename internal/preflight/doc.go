// Package preflight provides readiness checks for the Steam installation,
// filesystem paths, and the artwork catalog that steamsyncer depends on.
//
// The CLI "doctor" command runs RunAll and renders each Result. Individual
// checks (CheckDirectoryAccess, CheckCatalog) are exported so other commands
// can reuse them.
package preflight
