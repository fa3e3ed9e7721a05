package preflight

import (
	"context"
	"log/slog"

	"steamsyncer/internal/config"
	"steamsyncer/internal/steam"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional results do not make the overall report fail.
	Optional bool
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

// RunAll executes every check for the given config. Profile and userdata
// checks only run once the Steam directory has been found.
func RunAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	locator := steam.NewLocator(cfg.Steam.InstallDir, cfg.Steam.UserID, logger)
	installDir, steamResult := CheckSteamInstall(ctx, locator)
	results = append(results, steamResult)
	if steamResult.Passed {
		profile, profileResult := CheckProfile(ctx, locator, installDir)
		results = append(results, profileResult)
		if profileResult.Passed {
			results = append(results, CheckDirectoryAccess("Steam userdata", profile.UserdataDir()))
		}
	}

	results = append(results, CheckAPIKey(cfg))
	if cfg.Artwork.APIKey != "" {
		results = append(results, CheckCatalog(ctx, cfg.Artwork.APIKey, cfg.Artwork.BaseURL))
	}

	results = append(results, CheckScanFolders(cfg.Scan.Folders)...)
	return results
}
