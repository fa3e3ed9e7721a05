package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateTimings(); err != nil {
		return err
	}
	if err := c.validateArtwork(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.MaxDepth < 1 {
		return errors.New("scan.max_depth must be at least 1")
	}
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must include at least one extension")
	}
	return nil
}

func (c *Config) validateTimings() error {
	return ensurePositiveMap(map[string]int{
		"steam.close_timeout":           c.Steam.CloseTimeout,
		"artwork.request_timeout":       c.Artwork.RequestTimeout,
		"watch.poll_interval":           c.Watch.PollInterval,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validateArtwork() error {
	if c.Artwork.MinIntervalMS < 0 {
		return errors.New("artwork.min_interval_ms must be >= 0")
	}
	if c.Watch.Cooldown < 0 {
		return errors.New("watch.cooldown must be >= 0")
	}
	base := strings.ToLower(c.Artwork.BaseURL)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("artwork.base_url must be an http(s) URL, got %q", c.Artwork.BaseURL)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not recognized", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
