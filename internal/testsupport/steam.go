package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// SteamInstall describes a synthetic Steam installation on disk.
type SteamInstall struct {
	Root   string
	UserID string
}

// NewSteamInstall creates {root}/userdata/{userID}/config and a loginusers.vdf
// marking the matching SteamID64 as the most recent login.
func NewSteamInstall(t testing.TB, userID uint32) SteamInstall {
	t.Helper()

	root := filepath.Join(t.TempDir(), "Steam")
	id := fmt.Sprintf("%d", userID)
	if err := os.MkdirAll(filepath.Join(root, "userdata", id, "config"), 0o755); err != nil {
		t.Fatalf("mkdir userdata: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, "config"), 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	steamID64 := uint64(userID) + 76561197960265728
	login := fmt.Sprintf("\"users\"\n{\n\t\"%d\"\n\t{\n\t\t\"AccountName\"\t\t\"tester\"\n\t\t\"MostRecent\"\t\t\"1\"\n\t}\n}\n", steamID64)
	if err := os.WriteFile(filepath.Join(root, "config", "loginusers.vdf"), []byte(login), 0o644); err != nil {
		t.Fatalf("write loginusers.vdf: %v", err)
	}
	return SteamInstall{Root: root, UserID: id}
}

// ConfigDir returns {root}/userdata/{user}/config.
func (s SteamInstall) ConfigDir() string {
	return filepath.Join(s.Root, "userdata", s.UserID, "config")
}

// ShortcutsPath returns the shortcuts.vdf location for the profile.
func (s SteamInstall) ShortcutsPath() string {
	return filepath.Join(s.ConfigDir(), "shortcuts.vdf")
}

// GridDir returns the artwork directory for the profile.
func (s SteamInstall) GridDir() string {
	return filepath.Join(s.ConfigDir(), "grid")
}
