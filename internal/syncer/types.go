package syncer

import (
	"context"
	"errors"
	"time"

	"steamsyncer/internal/artwork"
	"steamsyncer/internal/games"
	"steamsyncer/internal/scanner"
	"steamsyncer/internal/shortcuts"
	"steamsyncer/internal/state"
	"steamsyncer/internal/steam"
)

// ErrSyncInProgress is returned when Run is called while another run is active.
var ErrSyncInProgress = errors.New("sync already in progress")

// State is the orchestrator phase reported in a Status.
type State string

const (
	StateIdle     State = "idle"
	StateScanning State = "scanning"
	StateSyncing  State = "syncing"
	StateSynced   State = "synced"
	StateError    State = "error"
)

// Status is one progress snapshot.
type Status struct {
	State          State
	Message        string
	LastSyncAt     time.Time
	Found          int
	Added          int
	PendingArtwork int
}

// StatusFunc receives progress snapshots in order.
type StatusFunc func(Status)

// Settings are the user inputs of one run.
type Settings struct {
	ScanFolders        []scanner.Folder
	IncludeKnownStores bool
	Overrides          map[string]games.LaunchOverride
	APIKey             string
	RepairDone         bool
	// Trigger labels the run in history ("manual", "watch", ...).
	Trigger string
}

// Result describes a finished run.
type Result struct {
	RunID       string
	Status      Status
	AddedAppIDs []uint32
	Removed     int
	Repair      shortcuts.RepairReport
	Profile     steam.Profile
}

// PathProvider locates the Steam installation and active profile.
type PathProvider interface {
	FindInstallDir(ctx context.Context) (string, error)
	FindProfile(ctx context.Context, installDir string) (steam.Profile, error)
}

// HostController controls the Steam client process.
type HostController interface {
	IsRunning(ctx context.Context) (bool, error)
	DetectMode(ctx context.Context) steam.LaunchMode
	Close(ctx context.Context) error
	Launch(ctx context.Context, installDir string) error
	LaunchAlternateMode(ctx context.Context, installDir string) error
}

// ArtworkFetcher fills in missing artwork for one shortcut.
type ArtworkFetcher interface {
	FetchSet(ctx context.Context, apiKey, gameName, artDir string, appID uint32) (artwork.Result, error)
}

// SettingsStore persists the repair flag and run history.
type SettingsStore interface {
	RepairDone(ctx context.Context) (bool, error)
	SetRepairDone(ctx context.Context, done bool) error
	BeginRun(ctx context.Context, id, trigger string) (state.Run, error)
	FinishRun(ctx context.Context, run state.Run) error
}

// SettingsProvider loads Settings for Trigger.
type SettingsProvider interface {
	Settings(ctx context.Context) (Settings, error)
}

// Notifier reports run outcomes.
type Notifier interface {
	NotifySyncCompleted(ctx context.Context, found, added, pendingArtwork int) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
}
