package testsupport

import (
	"path/filepath"
	"testing"

	"steamsyncer/internal/config"
)

// ConfigOption adjusts a config built by NewConfig.
type ConfigOption func(*config.Config)

// NewConfig returns defaults rooted in a fresh temp dir. Known store roots are
// off and artwork throttling is zero so tests never touch the real machine or
// sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(root, "state")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	cfg.Scan.IncludeKnownStores = false
	cfg.Artwork.MinIntervalMS = 0
	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithAPIKey sets the SteamGridDB key and, when non-empty, the base URL.
func WithAPIKey(key, baseURL string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Artwork.APIKey = key
		if baseURL != "" {
			cfg.Artwork.BaseURL = baseURL
		}
	}
}

func WithScanFolders(folders ...string) ConfigOption {
	return func(cfg *config.Config) { cfg.Scan.Folders = append([]string(nil), folders...) }
}

// WithSteamInstall pins the Steam install directory and profile id.
func WithSteamInstall(dir, userID string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Steam.InstallDir = dir
		cfg.Steam.UserID = userID
	}
}
