package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"steamsyncer/internal/artwork"
	"steamsyncer/internal/games"
	"steamsyncer/internal/logging"
	"steamsyncer/internal/scanner"
	"steamsyncer/internal/services"
	"steamsyncer/internal/shortcuts"
	"steamsyncer/internal/state"
	"steamsyncer/internal/steam"
)

// Run executes one sync. Fatal failures (Steam or profile not found, save
// failure) return the terminal error Status in Result together with the error.
func (o *Orchestrator) Run(ctx context.Context, settings Settings, onStatus StatusFunc) (Result, error) {
	if !o.begin() {
		return Result{}, ErrSyncInProgress
	}
	defer o.end()

	runID := o.newRunID()
	ctx = services.WithRequestID(ctx, runID)
	logger := o.logger.With(logging.String(logging.FieldCorrelationID, runID))
	emit := o.emitter(onStatus)
	record := o.beginRecord(ctx, logger, runID, settings.Trigger)

	result := Result{RunID: runID}
	status := Status{State: StateScanning, Message: "Scanning folders..."}
	emit(status)
	logger.Info("sync started",
		logging.Int("scan_folders", len(settings.ScanFolders)),
		logging.Bool("include_known_stores", settings.IncludeKnownStores),
		logging.String(logging.FieldEventType, "sync_started"),
	)

	ctx = services.WithPhase(ctx, "locate")
	installDir, err := o.paths.FindInstallDir(ctx)
	if err != nil {
		return o.fail(ctx, logger, emit, record, result, status, err)
	}
	logger.Info("steam path resolved", logging.String("steam_path", installDir))

	running, err := o.host.IsRunning(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "could not check whether steam is running", "host_probe_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "steam will not be closed or relaunched"),
		)
		running = false
	}
	mode := steam.ModeNormal
	if running {
		mode = o.host.DetectMode(ctx)
		status.Message = "Closing Steam for sync..."
		emit(status)
		logger.Info("closing steam for sync", logging.String("launch_mode", string(mode)))
		if err := o.host.Close(ctx); err != nil {
			logging.WarnWithContext(logger, "steam did not close cleanly", "host_close_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "close Steam manually if shortcuts do not appear"),
				logging.String(logging.FieldImpact, "steam may overwrite shortcuts on exit"),
			)
		}
	}

	ctx = services.WithPhase(ctx, "scan")
	folders := slices.Clone(settings.ScanFolders)
	if settings.IncludeKnownStores && o.knownStores != nil {
		folders = append(folders, o.knownStores()...)
	}
	candidates := o.scanner.Scan(ctx, folders)
	effective := games.ApplyOverrides(candidates, settings.Overrides)
	status.State = StateSyncing
	status.Message = fmt.Sprintf("Syncing %d detected games...", len(effective))
	status.Found = len(effective)
	emit(status)
	logger.Info("scan complete", logging.Int("found", len(effective)))

	ctx = services.WithPhase(ctx, "profile")
	profile, err := o.paths.FindProfile(ctx, installDir)
	if err != nil {
		return o.fail(ctx, logger, emit, record, result, status, err)
	}
	result.Profile = profile
	logger.Info("steam user resolved", logging.String("user_id", profile.UserID))

	ctx = services.WithPhase(ctx, "shortcuts")
	store, err := shortcuts.Load(profile.ShortcutsPath())
	if err != nil {
		return o.fail(ctx, logger, emit, record, result, status,
			services.Wrap(services.ErrValidation, "shortcuts", "load", "read shortcuts.vdf", err))
	}
	if removed := store.Dedupe(); removed > 0 {
		result.Removed = removed
		logger.Info("removed duplicate shortcuts", logging.Int("removed", removed))
	}

	gridDir := profile.GridDir()
	runRepair := !settings.RepairDone
	result.Repair = store.Repair(shortcuts.RepairOptions{
		RunRepair: runRepair,
		Overrides: settings.Overrides,
		Rename: func(oldID, newID uint32) {
			o.rename(gridDir, oldID, newID, logger)
		},
		Logger: logger,
	})
	result.Removed += result.Repair.Merged

	added := store.Add(effective)
	result.AddedAppIDs = added.AppIDs
	status.Added = len(added.Added)
	status.PendingArtwork = len(added.Added)
	if settings.APIKey != "" && o.artwork != nil {
		status.PendingArtwork = len(effective)
	}
	status.Message = fmt.Sprintf("Added %d new games. Fetching artwork...", status.Added)
	emit(status)

	if settings.APIKey != "" && o.artwork != nil {
		ctx = services.WithPhase(ctx, "artwork")
		status.PendingArtwork = o.fetchArtwork(ctx, logger, emit, status, store, effective, settings.APIKey, gridDir)
	}

	ctx = services.WithPhase(ctx, "save")
	if err := store.Save(profile.ShortcutsPath()); err != nil {
		return o.fail(ctx, logger, emit, record, result, status,
			services.Wrap(services.ErrStoreWrite, "shortcuts", "save", "write shortcuts.vdf", err))
	}
	logger.Info("shortcuts updated",
		logging.Int("added", status.Added),
		logging.Int("entries", store.Len()),
		logging.String(logging.FieldEventType, "shortcuts_saved"),
	)
	if runRepair {
		o.persistRepairDone(ctx, logger)
	}

	done := Status{
		State:          StateSynced,
		Message:        "Sync complete.",
		LastSyncAt:     o.now(),
		Found:          status.Found,
		Added:          status.Added,
		PendingArtwork: status.PendingArtwork,
	}
	result.Status = done
	emit(done)
	o.notifyCompleted(ctx, logger, done)

	if running {
		ctx = services.WithPhase(ctx, "relaunch")
		relaunching := done
		relaunching.Message = "Sync complete. Relaunching Steam..."
		emit(relaunching)
		if err := o.relaunch(ctx, installDir, mode); err != nil {
			logging.WarnWithContext(logger, "steam relaunch failed", "host_launch_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "start Steam manually"),
			)
		} else {
			relaunched := done
			relaunched.Message = "Sync complete. Steam relaunched."
			emit(relaunched)
			result.Status = relaunched
			logger.Info("steam relaunched", logging.String("launch_mode", string(mode)))
		}
	}

	o.finishRecord(ctx, logger, record, result.Status)
	return result, nil
}

func (o *Orchestrator) relaunch(ctx context.Context, installDir string, mode steam.LaunchMode) error {
	if mode == steam.ModeBigPicture {
		return o.host.LaunchAlternateMode(ctx, installDir)
	}
	return o.host.Launch(ctx, installDir)
}

// fetchArtwork runs the pipeline for every effective game, sequentially, and
// returns the number of games still lacking artwork.
func (o *Orchestrator) fetchArtwork(
	ctx context.Context,
	logger *slog.Logger,
	emit func(Status),
	status Status,
	store *shortcuts.Store,
	targets []games.Candidate,
	apiKey, gridDir string,
) int {
	remaining := len(targets)
	for _, target := range targets {
		entry, hasEntry := store.Lookup(target.Key())
		appID := target.AppID()
		if hasEntry {
			if stored, ok := entry.StoredAppID(); ok {
				appID = stored
			} else {
				appID = entry.ComputedAppID()
			}
		}

		gameCtx := services.WithGame(ctx, target.Name)
		art, err := o.artwork.FetchSet(gameCtx, apiKey, target.Name, gridDir, appID)
		if err != nil {
			logging.WarnWithContext(logger, "artwork fetch failed", "artwork_failed",
				logging.Game(target.Name),
				logging.AppID(appID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "game keeps its current artwork"),
			)
		}
		if art.Downloaded > 0 || art.Skipped {
			remaining--
		}
		if hasEntry {
			if icon := art.Files[artwork.KindIcon]; icon != "" && entry.Icon() != icon {
				entry.SetIcon(icon)
			}
		}
		status.PendingArtwork = remaining
		status.Message = fmt.Sprintf("Artwork remaining: %d", remaining)
		emit(status)
		logger.Debug("artwork processed",
			logging.Game(target.Name),
			logging.AppID(appID),
			logging.Int("downloaded", art.Downloaded),
			logging.Int("attempted", art.Attempted),
			logging.Bool("skipped", art.Skipped),
		)
	}
	return remaining
}

func (o *Orchestrator) fail(
	ctx context.Context,
	logger *slog.Logger,
	emit func(Status),
	record *state.Run,
	result Result,
	last Status,
	err error,
) (Result, error) {
	phase, _ := services.PhaseFromContext(ctx)
	failed := Status{
		State:   StateError,
		Message: services.FailureMessage(err),
		Found:   last.Found,
		Added:   last.Added,
	}
	result.Status = failed
	emit(failed)
	logging.ErrorWithContext(logger, "sync failed", "sync_failed",
		logging.String(logging.FieldPhase, phase),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, failureHint(err)),
	)
	if o.notifier != nil {
		if notifyErr := o.notifier.NotifyError(ctx, err, phase); notifyErr != nil {
			logger.Debug("error notification failed", logging.Error(notifyErr))
		}
	}
	o.finishRecord(ctx, logger, record, failed)
	return result, err
}

func failureHint(err error) string {
	switch services.FailureMessage(err) {
	case "Steam not found.":
		return "set steam.install_dir in the config file"
	case "Steam user not found.":
		return "log into Steam once or set steam.user_id"
	default:
		return "check logs for details"
	}
}

func (o *Orchestrator) persistRepairDone(ctx context.Context, logger *slog.Logger) {
	if o.store == nil {
		return
	}
	if err := o.store.SetRepairDone(ctx, true); err != nil {
		logging.WarnWithContext(logger, "could not persist repair flag", "repair_flag_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "identifier repair will run again next sync"),
		)
	}
}

func (o *Orchestrator) notifyCompleted(ctx context.Context, logger *slog.Logger, done Status) {
	if o.notifier == nil {
		return
	}
	if err := o.notifier.NotifySyncCompleted(ctx, done.Found, done.Added, done.PendingArtwork); err != nil {
		logger.Debug("sync notification failed", logging.Error(err))
	}
}

func (o *Orchestrator) beginRecord(ctx context.Context, logger *slog.Logger, runID, trigger string) *state.Run {
	if o.store == nil {
		return nil
	}
	if trigger == "" {
		trigger = "manual"
	}
	run, err := o.store.BeginRun(ctx, runID, trigger)
	if err != nil {
		logger.Warn("could not record sync run", logging.Error(err))
		return nil
	}
	return &run
}

func (o *Orchestrator) finishRecord(ctx context.Context, logger *slog.Logger, record *state.Run, final Status) {
	if o.store == nil || record == nil {
		return
	}
	record.State = string(final.State)
	record.Message = final.Message
	record.Found = final.Found
	record.Added = final.Added
	record.PendingArtwork = final.PendingArtwork
	if !final.LastSyncAt.IsZero() {
		record.FinishedAt = final.LastSyncAt
	}
	if err := o.store.FinishRun(ctx, *record); err != nil {
		logger.Warn("could not finish sync run record", logging.Error(err))
	}
}

// FoldersFromPaths converts configured paths into custom-source scan roots.
func FoldersFromPaths(paths []string) []scanner.Folder {
	out := make([]scanner.Folder, 0, len(paths))
	for _, path := range paths {
		out = append(out, scanner.Folder{Path: path, Source: games.SourceCustom})
	}
	return out
}
