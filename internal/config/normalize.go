package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeScan(); err != nil {
		return err
	}
	if err := c.normalizeSteam(); err != nil {
		return err
	}
	c.normalizeArtwork()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() error {
	folders := make([]string, 0, len(c.Scan.Folders))
	seen := make(map[string]struct{}, len(c.Scan.Folders))
	for _, folder := range c.Scan.Folders {
		folder = strings.TrimSpace(folder)
		if folder == "" {
			continue
		}
		expanded, err := expandPath(folder)
		if err != nil {
			return fmt.Errorf("scan.folders: %w", err)
		}
		if _, exists := seen[expanded]; exists {
			continue
		}
		seen[expanded] = struct{}{}
		folders = append(folders, expanded)
	}
	c.Scan.Folders = folders

	if c.Scan.MaxDepth <= 0 {
		c.Scan.MaxDepth = DefaultScanMaxDepth
	}

	exts := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	if len(exts) == 0 {
		exts = append(exts, defaultScanExtensions...)
	}
	c.Scan.Extensions = exts

	ignore := make([]string, 0, len(c.Scan.Ignore))
	for _, marker := range c.Scan.Ignore {
		marker = strings.ToLower(strings.TrimSpace(marker))
		if marker != "" {
			ignore = append(ignore, marker)
		}
	}
	c.Scan.Ignore = ignore
	return nil
}

func (c *Config) normalizeSteam() error {
	var err error
	c.Steam.InstallDir = strings.TrimSpace(c.Steam.InstallDir)
	if c.Steam.InstallDir != "" {
		if c.Steam.InstallDir, err = expandPath(c.Steam.InstallDir); err != nil {
			return fmt.Errorf("steam.install_dir: %w", err)
		}
	}
	c.Steam.UserID = strings.TrimSpace(c.Steam.UserID)
	if c.Steam.CloseTimeout <= 0 {
		c.Steam.CloseTimeout = defaultSteamCloseTimeout
	}
	return nil
}

func (c *Config) normalizeArtwork() {
	c.Artwork.APIKey = strings.TrimSpace(c.Artwork.APIKey)
	if c.Artwork.APIKey == sampleAPIKeyPlaceholder {
		c.Artwork.APIKey = ""
	}
	if value, ok := os.LookupEnv("STEAMGRIDDB_API_KEY"); ok && strings.TrimSpace(value) != "" {
		c.Artwork.APIKey = strings.TrimSpace(value)
	}
	c.Artwork.BaseURL = strings.TrimRight(strings.TrimSpace(c.Artwork.BaseURL), "/")
	if c.Artwork.BaseURL == "" {
		c.Artwork.BaseURL = defaultArtworkBaseURL
	}
	if c.Artwork.MinIntervalMS < 0 {
		c.Artwork.MinIntervalMS = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
