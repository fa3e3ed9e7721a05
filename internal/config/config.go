package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths are directories owned by steamsyncer itself.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Scan controls game discovery. An empty Ignore list disables the
// installer denylist.
type Scan struct {
	Folders            []string `toml:"folders"`
	IncludeKnownStores bool     `toml:"include_known_stores"`
	MaxDepth           int      `toml:"max_depth"`
	Extensions         []string `toml:"extensions"`
	Ignore             []string `toml:"ignore"`
}

type Steam struct {
	InstallDir   string `toml:"install_dir"`
	UserID       string `toml:"user_id"`
	CloseTimeout int    `toml:"close_timeout"`
}

// Artwork configures the SteamGridDB catalog. STEAMGRIDDB_API_KEY overrides
// APIKey.
type Artwork struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	MinIntervalMS  int    `toml:"min_interval_ms"`
	RequestTimeout int    `toml:"request_timeout"`
}

type Watch struct {
	PollInterval int `toml:"poll_interval"`
	Cooldown     int `toml:"cooldown"`
}

// Notifications are ntfy pushes sent after syncs and on failures.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Sync           bool   `toml:"sync"`
	Errors         bool   `toml:"errors"`
}

type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config is the full steamsyncer configuration. Load returns it with paths
// expanded, lists deduplicated and defaults filled in.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Scan          Scan          `toml:"scan"`
	Steam         Steam         `toml:"steam"`
	Artwork       Artwork       `toml:"artwork"`
	Watch         Watch         `toml:"watch"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the config at path, or the first of the default location and
// ./steamsyncer.toml when path is empty. A missing file is not an error: the
// defaults are returned and exists reports false.
func Load(path string) (cfg *Config, resolved string, exists bool, err error) {
	resolved, exists, err = locate(path)
	if err != nil {
		return nil, "", false, err
	}
	loaded := Default()
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &loaded); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", filepath.Base(resolved), err)
		}
	}
	if err := loaded.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := loaded.Validate(); err != nil {
		return nil, "", false, err
	}
	return &loaded, resolved, exists, nil
}

func locate(path string) (string, bool, error) {
	candidates := []string{path}
	if path == "" {
		candidates = []string{defaultConfigPath, "steamsyncer.toml"}
	}
	var first string
	for _, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if first == "" {
			first = expanded
		}
		info, err := os.Stat(expanded)
		switch {
		case err == nil && !info.IsDir():
			return expanded, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return first, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StatePath returns the location of the SQLite state database.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.StateDir, "state.db")
}

// LockPath returns the location of the single-writer lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "steamsyncer.lock")
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// ArtworkMinInterval is the minimum spacing between catalog API calls.
func (c *Config) ArtworkMinInterval() time.Duration {
	return time.Duration(c.Artwork.MinIntervalMS) * time.Millisecond
}

func (c *Config) ArtworkRequestTimeout() time.Duration { return seconds(c.Artwork.RequestTimeout) }

// SteamCloseTimeout bounds the wait for Steam to exit after a close request.
func (c *Config) SteamCloseTimeout() time.Duration { return seconds(c.Steam.CloseTimeout) }

func (c *Config) WatchPollInterval() time.Duration { return seconds(c.Watch.PollInterval) }

// WatchCooldown is the minimum gap between the end of one watcher-triggered
// sync and the start of the next.
func (c *Config) WatchCooldown() time.Duration { return seconds(c.Watch.Cooldown) }

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
// Empty input stays empty.
func ExpandPath(value string) (string, error) { return expandPath(value) }

func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") || strings.HasPrefix(value, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, value[1:])
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", value, err)
	}
	return abs, nil
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
