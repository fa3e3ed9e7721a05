//go:build windows

package steam

import "golang.org/x/sys/windows/registry"

// registryInstallDirs reads HKCU SteamPath, then HKLM InstallPath (both
// native and WOW6432Node views).
func registryInstallDirs() []string {
	lookups := []struct {
		root  registry.Key
		path  string
		value string
	}{
		{registry.CURRENT_USER, `Software\Valve\Steam`, "SteamPath"},
		{registry.LOCAL_MACHINE, `Software\Valve\Steam`, "InstallPath"},
		{registry.LOCAL_MACHINE, `Software\WOW6432Node\Valve\Steam`, "InstallPath"},
	}
	var out []string
	for _, lookup := range lookups {
		key, err := registry.OpenKey(lookup.root, lookup.path, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		value, _, err := key.GetStringValue(lookup.value)
		key.Close()
		if err != nil {
			continue
		}
		if normalized := normalizeRegistryPath(value); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}
