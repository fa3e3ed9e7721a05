package syncrun_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"steamsyncer/internal/games"
	"steamsyncer/internal/shortcuts"
	"steamsyncer/internal/syncer"
	"steamsyncer/internal/syncrun"
	"steamsyncer/internal/testsupport"
)

func TestSettingsProviderMergesStore(t *testing.T) {
	folder := t.TempDir()
	cfg := testsupport.NewConfig(t,
		testsupport.WithScanFolders(folder),
		testsupport.WithAPIKey("key", ""),
	)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	override := games.LaunchOverride{Key: games.Key("Game", `C:\Game\game.exe`), DisplayName: "Renamed"}
	if err := store.UpsertOverride(ctx, override); err != nil {
		t.Fatalf("UpsertOverride: %v", err)
	}
	if err := store.SetRepairDone(ctx, true); err != nil {
		t.Fatalf("SetRepairDone: %v", err)
	}

	settings, err := syncrun.NewSettingsProvider(cfg, store).Settings(ctx)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if len(settings.ScanFolders) != 1 || settings.ScanFolders[0].Path != folder || settings.ScanFolders[0].Source != games.SourceCustom {
		t.Fatalf("unexpected scan folders %+v", settings.ScanFolders)
	}
	if settings.APIKey != "key" || !settings.RepairDone || settings.IncludeKnownStores {
		t.Fatalf("unexpected settings %+v", settings)
	}
	if got := settings.Overrides[override.Key]; got.DisplayName != "Renamed" {
		t.Fatalf("expected override loaded, got %+v", settings.Overrides)
	}
}

func TestNewScannerHonorsEmptyIgnoreList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Scan.Ignore = []string{}
	sc := syncrun.NewScanner(cfg, nil)
	if !sc.Accept("Setup.exe") {
		t.Fatal("expected empty ignore list to disable the denylist")
	}

	cfg.Scan.Ignore = []string{"setup"}
	if syncrun.NewScanner(cfg, nil).Accept("Setup.exe") {
		t.Fatal("expected configured denylist to apply")
	}
}

func TestRunOnceRefusesWhenLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	held := flock.New(cfg.LockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	t.Cleanup(func() { _ = held.Unlock() })

	if _, err := syncrun.RunOnce(context.Background(), cfg, syncrun.Options{}); !errors.Is(err, syncrun.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRunOnceSyncsPinnedInstall(t *testing.T) {
	install := testsupport.NewSteamInstall(t, 4242)
	library := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(library, "Gamma", "Gamma.exe"), 1024)
	cfg := testsupport.NewConfig(t,
		testsupport.WithSteamInstall(install.Root, install.UserID),
		testsupport.WithScanFolders(library),
	)
	cfg.Artwork.APIKey = ""

	var states []syncer.State
	result, err := syncrun.RunOnce(context.Background(), cfg, syncrun.Options{
		OnStatus: func(s syncer.Status) { states = append(states, s.State) },
	})
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if result.Status.State != syncer.StateSynced || result.Status.Added != 1 {
		t.Fatalf("unexpected status %+v", result.Status)
	}
	if len(states) == 0 || states[0] != syncer.StateScanning {
		t.Fatalf("unexpected status sequence %v", states)
	}

	saved, err := shortcuts.Load(install.ShortcutsPath())
	if err != nil {
		t.Fatalf("load shortcuts: %v", err)
	}
	if saved.Len() != 1 {
		t.Fatalf("expected one shortcut, got %d", saved.Len())
	}

	store := testsupport.MustOpenStore(t, cfg)
	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Trigger != "manual" || runs[0].Added != 1 {
		t.Fatalf("unexpected run history %+v", runs)
	}
	done, err := store.RepairDone(context.Background())
	if err != nil || !done {
		t.Fatalf("expected repair flag persisted, done=%v err=%v", done, err)
	}
}
