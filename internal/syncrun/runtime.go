package syncrun

import (
	"context"
	"fmt"
	"log/slog"

	"steamsyncer/internal/artwork"
	"steamsyncer/internal/config"
	"steamsyncer/internal/logging"
	"steamsyncer/internal/notifications"
	"steamsyncer/internal/scanner"
	"steamsyncer/internal/state"
	"steamsyncer/internal/steam"
	"steamsyncer/internal/syncer"
)

// Runtime bundles the collaborators of one steamsyncer process.
type Runtime struct {
	Config       *config.Config
	Logger       *slog.Logger
	Store        *state.Store
	Locator      *steam.Locator
	Controller   *steam.Controller
	Artwork      *artwork.Pipeline
	Notifier     notifications.Service
	Orchestrator *syncer.Orchestrator
}

// Open builds a Runtime. Callers must Close it.
func Open(cfg *config.Config, logger *slog.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	store, err := state.Open(cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	rt := &Runtime{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Locator:    steam.NewLocator(cfg.Steam.InstallDir, cfg.Steam.UserID, logger),
		Controller: steam.NewController(cfg.SteamCloseTimeout(), logger),
		Artwork:    NewPipeline(cfg, logger),
		Notifier:   notifications.NewService(cfg),
	}
	rt.Orchestrator = syncer.New(syncer.Dependencies{
		Paths:    rt.Locator,
		Host:     rt.Controller,
		Artwork:  rt.Artwork,
		Store:    store,
		Settings: NewSettingsProvider(cfg, store),
		Notifier: rt.Notifier,
		Scanner:  NewScanner(cfg, logger),
		Logger:   logger,
	})
	return rt, nil
}

// Close releases the state database.
func (r *Runtime) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// NewScanner builds a scanner from the [scan] section.
func NewScanner(cfg *config.Config, logger *slog.Logger) *scanner.Scanner {
	sc := scanner.New(logger)
	if cfg == nil {
		return sc
	}
	if cfg.Scan.MaxDepth > 0 {
		sc.MaxDepth = cfg.Scan.MaxDepth
	}
	if len(cfg.Scan.Extensions) > 0 {
		sc.Extensions = append([]string(nil), cfg.Scan.Extensions...)
	}
	if cfg.Scan.Ignore != nil {
		sc.Denylist = append([]string{}, cfg.Scan.Ignore...)
	}
	return sc
}

// NewPipeline builds the artwork pipeline from the [artwork] section.
func NewPipeline(cfg *config.Config, logger *slog.Logger) *artwork.Pipeline {
	return artwork.NewPipeline(
		artwork.WithThrottle(artwork.NewThrottle(cfg.ArtworkMinInterval(), nil)),
		artwork.WithLogger(logger),
		artwork.WithBaseURL(cfg.Artwork.BaseURL),
		artwork.WithRequestTimeout(cfg.ArtworkRequestTimeout()),
	)
}

// SettingsProvider assembles per-run settings from config and the state store.
type SettingsProvider struct {
	cfg   *config.Config
	store *state.Store
}

// NewSettingsProvider returns a provider reading cfg and store.
func NewSettingsProvider(cfg *config.Config, store *state.Store) *SettingsProvider {
	return &SettingsProvider{cfg: cfg, store: store}
}

// Settings implements syncer.SettingsProvider.
func (p *SettingsProvider) Settings(ctx context.Context) (syncer.Settings, error) {
	settings := syncer.Settings{
		ScanFolders:        syncer.FoldersFromPaths(p.cfg.Scan.Folders),
		IncludeKnownStores: p.cfg.Scan.IncludeKnownStores,
		APIKey:             p.cfg.Artwork.APIKey,
	}
	if p.store == nil {
		return settings, nil
	}
	overrides, err := p.store.Overrides(ctx)
	if err != nil {
		return syncer.Settings{}, fmt.Errorf("load launch overrides: %w", err)
	}
	settings.Overrides = overrides
	done, err := p.store.RepairDone(ctx)
	if err != nil {
		return syncer.Settings{}, fmt.Errorf("load repair flag: %w", err)
	}
	settings.RepairDone = done
	return settings, nil
}
