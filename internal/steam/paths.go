package steam

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"steamsyncer/internal/logging"
	"steamsyncer/internal/services"
)

// Profile identifies one Steam user directory.
type Profile struct {
	InstallDir string
	UserID     string
}

// UserdataDir returns {install}/userdata/{user}.
func (p Profile) UserdataDir() string {
	return filepath.Join(p.InstallDir, "userdata", p.UserID)
}

// ConfigDir returns {install}/userdata/{user}/config.
func (p Profile) ConfigDir() string {
	return filepath.Join(p.UserdataDir(), "config")
}

// ShortcutsPath returns the profile's shortcuts.vdf.
func (p Profile) ShortcutsPath() string {
	return filepath.Join(p.ConfigDir(), "shortcuts.vdf")
}

// GridDir returns the profile's artwork directory.
func (p Profile) GridDir() string {
	return filepath.Join(p.ConfigDir(), "grid")
}

// Locator finds Steam on disk.
type Locator struct {
	// InstallDir pins the installation and skips discovery when set.
	InstallDir string
	// UserID pins the profile; a SteamID64 or 32-bit account id.
	UserID string
	GOOS   string
	Logger *slog.Logger

	home     func() (string, error)
	getenv   func(string) string
	registry func() []string
}

// NewLocator builds a locator for the running platform.
func NewLocator(installDir, userID string, logger *slog.Logger) *Locator {
	return &Locator{
		InstallDir: strings.TrimSpace(installDir),
		UserID:     strings.TrimSpace(userID),
		GOOS:       runtime.GOOS,
		Logger:     logging.NewComponentLogger(logger, "steam"),
		home:       os.UserHomeDir,
		getenv:     os.Getenv,
		registry:   registryInstallDirs,
	}
}

// FindInstallDir returns the first existing Steam installation directory.
func (l *Locator) FindInstallDir(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.InstallDir != "" {
		if isDir(l.InstallDir) {
			return l.InstallDir, nil
		}
		return "", services.Wrap(services.ErrHostNotFound, "steam", "locate", "configured install_dir does not exist: "+l.InstallDir, nil)
	}
	for _, candidate := range l.candidates() {
		if isDir(candidate) {
			l.logger().Debug("steam install resolved", logging.String("path", candidate))
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrHostNotFound, "steam", "locate", "no steam installation found", nil)
}

func (l *Locator) candidates() []string {
	var out []string
	if l.GOOS == "windows" && l.registry != nil {
		out = append(out, l.registry()...)
	}
	return append(out, DefaultInstallDirs(l.GOOS, l.homeDir(), l.env)...)
}

// DefaultInstallDirs lists the stock install locations for goos.
func DefaultInstallDirs(goos, home string, getenv func(string) string) []string {
	if getenv == nil {
		getenv = os.Getenv
	}
	switch goos {
	case "windows":
		x86 := getenv("ProgramFiles(x86)")
		if x86 == "" {
			x86 = `C:\Program Files (x86)`
		}
		pf := getenv("ProgramFiles")
		if pf == "" {
			pf = `C:\Program Files`
		}
		return []string{filepath.Join(x86, "Steam"), filepath.Join(pf, "Steam")}
	case "darwin":
		if home == "" {
			return nil
		}
		return []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		if home == "" {
			return nil
		}
		return []string{
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
		}
	}
}

// normalizeRegistryPath cleans a SteamPath/InstallPath registry value.
// SteamPath is stored with forward slashes and sometimes lower-cased.
func normalizeRegistryPath(value string) string {
	cleaned := strings.Trim(strings.TrimSpace(value), `"`)
	if cleaned == "" {
		return ""
	}
	cleaned = strings.ReplaceAll(cleaned, "/", `\`)
	if strings.Contains(cleaned, ":") {
		return cleaned
	}
	if strings.HasSuffix(strings.ToLower(cleaned), `\steam`) {
		return `C:\Program Files (x86)\Steam`
	}
	return ""
}

// FindProfile resolves the active user profile inside installDir.
func (l *Locator) FindProfile(ctx context.Context, installDir string) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	userdata := filepath.Join(installDir, "userdata")
	entries, err := os.ReadDir(userdata)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Profile{}, services.Wrap(services.ErrProfileNotFound, "steam", "profile", "userdata directory missing", nil)
		}
		return Profile{}, services.Wrap(services.ErrProfileNotFound, "steam", "profile", "read userdata", err)
	}
	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	logger := l.logger()
	if l.UserID != "" {
		if id, ok := matchUserDir(userdata, l.UserID); ok {
			return Profile{InstallDir: installDir, UserID: id}, nil
		}
		return Profile{}, services.Wrap(services.ErrProfileNotFound, "steam", "profile", "configured user_id has no userdata directory: "+l.UserID, nil)
	}

	loginUsers := filepath.Join(installDir, "config", "loginusers.vdf")
	if recent, err := MostRecentUser(loginUsers); err == nil && recent != "" {
		if id, ok := matchUserDir(userdata, recent); ok {
			logger.Info("using most recent steam user", logging.String("user_id", id))
			return Profile{InstallDir: installDir, UserID: id}, nil
		}
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.WarnWithContext(logger, "could not read loginusers.vdf", "loginusers_unreadable",
			logging.String("path", loginUsers),
			logging.Error(err),
			logging.String(logging.FieldImpact, "falling back to userdata heuristics"),
		)
	}

	if id := newestShortcuts(userdata, dirs); id != "" {
		return Profile{InstallDir: installDir, UserID: id}, nil
	}
	if len(dirs) > 0 {
		logging.WarnWithContext(logger, "falling back to first steam user directory", "profile_fallback",
			logging.String("user_id", dirs[0]),
			logging.String(logging.FieldErrorHint, "set steam.user_id to pin the profile"),
		)
		return Profile{InstallDir: installDir, UserID: dirs[0]}, nil
	}
	return Profile{}, services.Wrap(services.ErrProfileNotFound, "steam", "profile", "no user directories", nil)
}

// matchUserDir accepts either id form and returns the directory name present
// under userdata.
func matchUserDir(userdata, id string) (string, bool) {
	for _, candidate := range []string{AccountID(id), strings.TrimSpace(id)} {
		if candidate != "" && isDir(filepath.Join(userdata, candidate)) {
			return candidate, true
		}
	}
	return "", false
}

func newestShortcuts(userdata string, dirs []string) string {
	var (
		best    string
		bestMod int64
	)
	for _, id := range dirs {
		info, err := os.Stat(filepath.Join(userdata, id, "config", "shortcuts.vdf"))
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); best == "" || mod > bestMod {
			best, bestMod = id, mod
		}
	}
	return best
}

func (l *Locator) logger() *slog.Logger {
	if l.Logger == nil {
		return logging.NewNop()
	}
	return l.Logger
}

func (l *Locator) homeDir() string {
	if l.home == nil {
		return ""
	}
	home, err := l.home()
	if err != nil {
		return ""
	}
	return home
}

func (l *Locator) env(key string) string {
	if l.getenv == nil {
		return os.Getenv(key)
	}
	return l.getenv(key)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// String renders the profile for logs.
func (p Profile) String() string {
	return fmt.Sprintf("%s (user %s)", p.InstallDir, p.UserID)
}
