package syncer

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"steamsyncer/internal/artwork"
	"steamsyncer/internal/logging"
	"steamsyncer/internal/scanner"
)

// Dependencies are the collaborators of an Orchestrator. Paths and Host are
// required; the rest fall back to no-op or default implementations.
type Dependencies struct {
	Paths    PathProvider
	Host     HostController
	Artwork  ArtworkFetcher
	Store    SettingsStore
	Settings SettingsProvider
	Notifier Notifier
	Scanner  *scanner.Scanner
	Logger   *slog.Logger
}

// Orchestrator runs syncs one at a time.
type Orchestrator struct {
	paths    PathProvider
	host     HostController
	artwork  ArtworkFetcher
	store    SettingsStore
	settings SettingsProvider
	notifier Notifier
	scanner  *scanner.Scanner
	logger   *slog.Logger

	now         func() time.Time
	newRunID    func() string
	knownStores func() []scanner.Folder
	rename      func(dir string, oldID, newID uint32, logger *slog.Logger) int

	mu      sync.Mutex
	running bool
	last    Status
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock used for LastSyncAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithRunIDs replaces the run id generator.
func WithRunIDs(next func() string) Option {
	return func(o *Orchestrator) {
		if next != nil {
			o.newRunID = next
		}
	}
}

// WithKnownStores replaces the known store roots merged into scans.
func WithKnownStores(folders func() []scanner.Folder) Option {
	return func(o *Orchestrator) {
		if folders != nil {
			o.knownStores = folders
		}
	}
}

// New constructs an Orchestrator.
func New(deps Dependencies, opts ...Option) *Orchestrator {
	logger := logging.NewComponentLogger(deps.Logger, "syncer")
	sc := deps.Scanner
	if sc == nil {
		sc = scanner.New(deps.Logger)
	}
	o := &Orchestrator{
		paths:    deps.Paths,
		host:     deps.Host,
		artwork:  deps.Artwork,
		store:    deps.Store,
		settings: deps.Settings,
		notifier: deps.Notifier,
		scanner:  sc,
		logger:   logger,
		now:      time.Now,
		newRunID: newRunID,
		knownStores: func() []scanner.Folder {
			return scanner.KnownStoreFolders(runtime.GOOS)
		},
		rename: artwork.Rename,
		last:   Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// InProgress reports whether a run is active.
func (o *Orchestrator) InProgress() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// LastStatus returns the most recent status emitted by any run.
func (o *Orchestrator) LastStatus() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Trigger loads settings from the SettingsProvider and runs a sync.
func (o *Orchestrator) Trigger(ctx context.Context, trigger string, onStatus StatusFunc) (Result, error) {
	if o.InProgress() {
		return Result{}, ErrSyncInProgress
	}
	if o.settings == nil {
		return o.Run(ctx, Settings{Trigger: trigger}, onStatus)
	}
	settings, err := o.settings.Settings(ctx)
	if err != nil {
		return Result{}, err
	}
	if trigger != "" {
		settings.Trigger = trigger
	}
	return o.Run(ctx, settings, onStatus)
}

func (o *Orchestrator) begin() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return false
	}
	o.running = true
	return true
}

func (o *Orchestrator) end() {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
}

func (o *Orchestrator) emitter(onStatus StatusFunc) func(Status) {
	return func(status Status) {
		o.mu.Lock()
		o.last = status
		o.mu.Unlock()
		if onStatus != nil {
			onStatus(status)
		}
	}
}
