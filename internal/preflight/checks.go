package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"steamsyncer/internal/artwork/steamgriddb"
	"steamsyncer/internal/config"
	"steamsyncer/internal/steam"
)

const catalogCheckTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, true)
}

// CheckScanFolders verifies that each configured scan folder can be listed.
// An empty list passes since known store roots may still be scanned.
func CheckScanFolders(folders []string) []Result {
	if len(folders) == 0 {
		return []Result{{Name: "Scan folders", Passed: true, Optional: true, Detail: "none configured"}}
	}
	results := make([]Result, 0, len(folders))
	for _, folder := range folders {
		r := checkDirectory("Scan folder", folder, false)
		r.Optional = true
		results = append(results, r)
	}
	return results
}

func checkDirectory(name, path string, write bool) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := accessible(path, write); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	if write {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckSteamInstall resolves the Steam directory and returns it with the result.
func CheckSteamInstall(ctx context.Context, locator *steam.Locator) (string, Result) {
	const name = "Steam directory"
	dir, err := locator.FindInstallDir(ctx)
	if err != nil {
		return "", Result{Name: name, Detail: fmt.Sprintf("not found (%v); set steam.install_dir", err)}
	}
	return dir, Result{Name: name, Passed: true, Detail: dir}
}

// CheckProfile resolves the active Steam profile under installDir.
func CheckProfile(ctx context.Context, locator *steam.Locator, installDir string) (steam.Profile, Result) {
	const name = "Steam profile"
	profile, err := locator.FindProfile(ctx, installDir)
	if err != nil {
		return steam.Profile{}, Result{Name: name, Detail: fmt.Sprintf("not found (%v); log into Steam or set steam.user_id", err)}
	}
	detail := fmt.Sprintf("user %s", profile.UserID)
	if _, err := os.Stat(profile.ShortcutsPath()); err == nil {
		detail += " (shortcuts.vdf present)"
	} else {
		detail += " (no shortcuts.vdf yet)"
	}
	return profile, Result{Name: name, Passed: true, Detail: detail}
}

// CheckAPIKey reports whether a SteamGridDB key is configured. Artwork is
// optional, so a missing key is not a failure.
func CheckAPIKey(cfg *config.Config) Result {
	const name = "SteamGridDB API key"
	if cfg == nil {
		return Result{Name: name, Optional: true, Detail: "Unknown"}
	}
	if strings.TrimSpace(cfg.Artwork.APIKey) == "" {
		return Result{Name: name, Optional: true, Detail: "Missing (artwork disabled); set artwork.api_key or STEAMGRIDDB_API_KEY"}
	}
	return Result{Name: name, Passed: true, Detail: "Configured"}
}

// CheckCatalog verifies that the catalog is reachable and accepts the key.
// It makes a single search request.
func CheckCatalog(ctx context.Context, apiKey, baseURL string) Result {
	const name = "SteamGridDB"
	client, err := steamgriddb.New(apiKey, baseURL, steamgriddb.WithTimeout(catalogCheckTimeout))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}

	checkCtx, cancel := context.WithTimeout(ctx, catalogCheckTimeout)
	defer cancel()
	if _, err := client.SearchAutocomplete(checkCtx, "steam"); err != nil {
		return Result{Name: name, Detail: summarizeCatalogError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

func summarizeCatalogError(err error) string {
	var statusErr *steamgriddb.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Unauthorized() {
			return "auth failed (invalid api key)"
		}
		return fmt.Sprintf("check failed (%d)", statusErr.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (catalog unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (catalog unreachable)"
	}
	return err.Error()
}
