//go:build !windows

package steam

func registryInstallDirs() []string { return nil }
