package state_test

import (
	"context"
	"path/filepath"
	"testing"

	"steamsyncer/internal/games"
	"steamsyncer/internal/state"
	"steamsyncer/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	version, err := store.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 1 {
		t.Fatalf("unexpected schema version %d", version)
	}
	if store.Path() != cfg.StatePath() {
		t.Fatalf("unexpected path %q", store.Path())
	}
}

func TestReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := state.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	if err := store.SetRepairDone(ctx, true); err != nil {
		t.Fatalf("SetRepairDone: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := state.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	done, err := reopened.RepairDone(ctx)
	if err != nil || !done {
		t.Fatalf("expected repair flag persisted, got %v (%v)", done, err)
	}
}

func TestRepairFlagDefaultsFalse(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	done, err := store.RepairDone(ctx)
	if err != nil || done {
		t.Fatalf("expected false, got %v (%v)", done, err)
	}
	if err := store.SetRepairDone(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := store.SetRepairDone(ctx, false); err != nil {
		t.Fatal(err)
	}
	if done, _ := store.RepairDone(ctx); done {
		t.Fatal("expected flag cleared")
	}
}

func TestOverrideCRUD(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	key := games.Key("Alpha", "/games/alpha.exe")
	override := games.LaunchOverride{Key: key, DisplayName: "Alpha GOTY", ExePath: "/games/alpha64.exe", LaunchOptions: "-dx11"}
	if err := store.UpsertOverride(ctx, override); err != nil {
		t.Fatalf("UpsertOverride: %v", err)
	}
	override.LaunchOptions = "-vulkan"
	if err := store.UpsertOverride(ctx, override); err != nil {
		t.Fatalf("second UpsertOverride: %v", err)
	}
	if err := store.UpsertOverride(ctx, games.LaunchOverride{Key: games.Key("Beta", "/b.exe")}); err != nil {
		t.Fatalf("UpsertOverride beta: %v", err)
	}

	list, err := store.ListOverrides(ctx)
	if err != nil {
		t.Fatalf("ListOverrides: %v", err)
	}
	if len(list) != 2 || list[0].Key != key {
		t.Fatalf("unexpected overrides %#v", list)
	}
	if list[0] != override {
		t.Fatalf("expected %#v, got %#v", override, list[0])
	}

	byKey, err := store.Overrides(ctx)
	if err != nil {
		t.Fatalf("Overrides: %v", err)
	}
	if byKey[key].LaunchOptions != "-vulkan" {
		t.Fatalf("unexpected override map %#v", byKey)
	}

	removed, err := store.RemoveOverride(ctx, key)
	if err != nil || !removed {
		t.Fatalf("expected removal, got %v (%v)", removed, err)
	}
	removed, err = store.RemoveOverride(ctx, key)
	if err != nil || removed {
		t.Fatalf("expected second removal to report false, got %v (%v)", removed, err)
	}
	if err := store.UpsertOverride(ctx, games.LaunchOverride{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestRunHistory(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	first, err := store.BeginRun(ctx, "run-1", "manual")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	first.State = "synced"
	first.Found = 3
	first.Added = 2
	first.PendingArtwork = 1
	first.Message = "Sync complete."
	if err := store.FinishRun(ctx, first); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if _, err := store.BeginRun(ctx, "run-2", "watch"); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-2" || runs[0].Finished() {
		t.Fatalf("expected newest unfinished run first, got %#v", runs[0])
	}
	got := runs[1]
	if got.State != "synced" || got.Found != 3 || got.Added != 2 || got.PendingArtwork != 1 || !got.Finished() {
		t.Fatalf("unexpected finished run %#v", got)
	}

	limited, err := store.RecentRuns(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected 1 run with limit, got %d (%v)", len(limited), err)
	}
	if err := store.FinishRun(ctx, state.Run{ID: "missing", State: "error"}); err == nil {
		t.Fatal("expected error for unknown run")
	}
}
