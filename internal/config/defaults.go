package config

// DefaultScanMaxDepth is the number of directory levels walked below a game
// folder.
const DefaultScanMaxDepth = 2

const (
	defaultConfigPath            = "~/.config/steamsyncer/config.toml"
	defaultStateDir              = "~/.local/share/steamsyncer"
	defaultLogDir                = "~/.local/share/steamsyncer/logs"
	defaultLogRetentionDays      = 30
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultSteamCloseTimeout     = 10
	defaultArtworkBaseURL        = "https://www.steamgriddb.com/api/v2"
	defaultArtworkMinIntervalMS  = 350
	defaultArtworkRequestTimeout = 30
	defaultWatchPollInterval     = 15
	defaultWatchCooldown         = 300
	defaultNotifyRequestTimeout  = 10

	sampleAPIKeyPlaceholder = "your_steamgriddb_api_key_here"
)

var (
	defaultScanExtensions = []string{".exe"}
	defaultScanIgnore     = []string{
		"unins",
		"uninstall",
		"dxsetup",
		"vc_redist",
		"vcredist",
		"dotnet",
		"setup",
		"installer",
		"redist",
		"launcher",
		"crashreporter",
		"crashhandler",
		"easyanticheat",
		"battleye",
		"ue4prereq",
		"unitycrashhandler",
	}
)

// DefaultExtensions returns a copy of the built-in executable extensions.
func DefaultExtensions() []string {
	return append([]string(nil), defaultScanExtensions...)
}

// DefaultIgnore returns a copy of the built-in executable denylist. The
// scanner falls back to the same list when it has no configured one.
func DefaultIgnore() []string {
	return append([]string(nil), defaultScanIgnore...)
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Scan: Scan{
			IncludeKnownStores: true,
			MaxDepth:           DefaultScanMaxDepth,
			Extensions:         DefaultExtensions(),
			Ignore:             DefaultIgnore(),
		},
		Steam: Steam{
			CloseTimeout: defaultSteamCloseTimeout,
		},
		Artwork: Artwork{
			BaseURL:        defaultArtworkBaseURL,
			MinIntervalMS:  defaultArtworkMinIntervalMS,
			RequestTimeout: defaultArtworkRequestTimeout,
		},
		Watch: Watch{
			PollInterval: defaultWatchPollInterval,
			Cooldown:     defaultWatchCooldown,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Sync:           true,
			Errors:         true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
