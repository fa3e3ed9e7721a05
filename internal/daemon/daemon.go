package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"steamsyncer/internal/config"
	"steamsyncer/internal/logging"
	"steamsyncer/internal/syncer"
)

// ErrAlreadyRunning is returned by Start when another process holds the lock.
var ErrAlreadyRunning = errors.New("another steamsyncer instance is already running")

// HostProbe reports whether Steam is running.
type HostProbe interface {
	IsRunning(ctx context.Context) (bool, error)
}

// Syncer is the subset of the orchestrator the watcher drives.
type Syncer interface {
	InProgress() bool
	LastStatus() syncer.Status
	Trigger(ctx context.Context, trigger string, onStatus syncer.StatusFunc) (syncer.Result, error)
}

// Daemon polls the Steam process and triggers syncs.
type Daemon struct {
	host     HostProbe
	syncer   Syncer
	logger   *slog.Logger
	interval time.Duration
	cooldown time.Duration
	now      func() time.Time

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}

	mu sync.Mutex
	// steamUp is the running state seen by the previous poll. Only a
	// closed-to-running transition triggers a sync.
	steamUp     bool
	lastHandled time.Time
	lastErr     error
	triggers    int
}

// Status represents watcher runtime information.
type Status struct {
	Running       bool
	LockFilePath  string
	LastTriggerAt time.Time
	LastError     string
	Triggers      int
	Sync          syncer.Status
}

// New constructs a watcher from configuration.
func New(cfg *config.Config, host HostProbe, sync Syncer, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || host == nil || sync == nil {
		return nil, errors.New("daemon requires config, host probe, and syncer")
	}
	interval := cfg.WatchPollInterval()
	if interval <= 0 {
		return nil, fmt.Errorf("watch poll interval must be positive, got %s", interval)
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		host:     host,
		syncer:   sync,
		logger:   logging.NewComponentLogger(logger, "watcher"),
		interval: interval,
		cooldown: cfg.WatchCooldown(),
		now:      time.Now,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// SetClock replaces the clock used for cooldown checks.
func (d *Daemon) SetClock(now func() time.Time) {
	if now != nil {
		d.now = now
	}
}

// Start acquires the lock and launches the polling loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running.Store(true)
	go d.loop(loopCtx, d.done)

	d.logger.Info("steam watcher started",
		logging.String("lock", d.lockPath),
		logging.Duration("poll_interval", d.interval),
		logging.Duration("cooldown", d.cooldown),
	)
	return nil
}

// Stop stops polling, waits for an in-flight poll, and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.done != nil {
		<-d.done
		d.done = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release watcher lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("steam watcher stopped")
}

// Wait blocks until the polling loop exits.
func (d *Daemon) Wait() {
	if done := d.done; done != nil {
		<-done
	}
}

func (d *Daemon) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	d.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.Poll(ctx)
		}
	}
}

// Poll performs one watcher tick and reports whether a sync was triggered.
// Steam already running when the watcher starts counts as a launch.
func (d *Daemon) Poll(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	running, err := d.host.IsRunning(ctx)
	if err != nil {
		d.logger.Debug("steam process probe failed", logging.Error(err))
		return false
	}
	now := d.now()
	d.mu.Lock()
	launched := running && !d.steamUp
	d.steamUp = running
	last := d.lastHandled
	d.mu.Unlock()
	if !launched {
		return false
	}
	// A sync closes and relaunches Steam; that launch is its own.
	if d.syncer.InProgress() {
		return false
	}
	if !last.IsZero() && now.Sub(last) < d.cooldown {
		d.logger.Debug("steam launch within cooldown, skipping sync",
			logging.Duration("since_last", now.Sub(last)),
		)
		return false
	}

	d.logger.Info("steam launch detected, starting sync",
		logging.String(logging.FieldEventType, "watch_triggered"),
	)
	_, err = d.syncer.Trigger(ctx, "watch", nil)

	d.mu.Lock()
	d.lastHandled = d.now()
	d.steamUp = true
	d.lastErr = err
	d.triggers++
	d.mu.Unlock()

	switch {
	case errors.Is(err, syncer.ErrSyncInProgress):
		d.logger.Debug("sync already in progress")
	case err != nil:
		logging.WarnWithContext(d.logger, "watch-triggered sync failed", "watch_sync_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "retried on the next steam launch"),
		)
	}
	return true
}

// LockPath returns the path of the watcher lock file.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Status returns the current watcher status.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	status := Status{
		Running:       d.running.Load(),
		LockFilePath:  d.lockPath,
		LastTriggerAt: d.lastHandled,
		Triggers:      d.triggers,
		Sync:          d.syncer.LastStatus(),
	}
	if d.lastErr != nil {
		status.LastError = d.lastErr.Error()
	}
	return status
}
