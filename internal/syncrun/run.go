package syncrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"steamsyncer/internal/config"
	"steamsyncer/internal/daemon"
	"steamsyncer/internal/logging"
	"steamsyncer/internal/syncer"
)

// ErrLocked is returned when another steamsyncer process holds the lock.
var ErrLocked = errors.New("another steamsyncer process is syncing or watching; stop it first")

// Options configures a sync or watch invocation.
type Options struct {
	LogLevel string
	Trigger  string
	OnStatus syncer.StatusFunc
}

// RunOnce performs a single sync under the single-writer lock.
func RunOnce(ctx context.Context, cfg *config.Config, opts Options) (syncer.Result, error) {
	if cfg == nil {
		return syncer.Result{}, fmt.Errorf("config is required")
	}
	logger, err := newLogger(cfg, opts.LogLevel)
	if err != nil {
		return syncer.Result{}, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LockPath()), 0o755); err != nil {
		return syncer.Result{}, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return syncer.Result{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return syncer.Result{}, ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release sync lock", logging.Error(err))
		}
	}()

	rt, err := Open(cfg, logger)
	if err != nil {
		return syncer.Result{}, err
	}
	defer rt.Close()

	trigger := opts.Trigger
	if trigger == "" {
		trigger = "manual"
	}
	return rt.Orchestrator.Trigger(ctx, trigger, opts.OnStatus)
}

// Watch runs the background watcher until ctx is cancelled or the process
// receives SIGINT/SIGTERM.
func Watch(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	sessionID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("steamsyncer-watch-%s.log", sessionID))
	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "steamsyncer-watch-*.log", Exclude: []string{logPath}},
	)

	rt, err := Open(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	d, err := daemon.New(cfg, rt.Controller, rt.Orchestrator, logger)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		if errors.Is(err, daemon.ErrAlreadyRunning) {
			return ErrLocked
		}
		return err
	}
	defer d.Stop()

	<-signalCtx.Done()
	logger.Info("steam watcher shutting down")
	return nil
}

func newLogger(cfg *config.Config, level string) (*slog.Logger, error) {
	if level != "" {
		cfg.Logging.Level = level
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}
