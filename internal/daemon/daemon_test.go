package daemon_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"steamsyncer/internal/daemon"
	"steamsyncer/internal/syncer"
	"steamsyncer/internal/testsupport"
)

type stubHost struct {
	mu      sync.Mutex
	running bool
	err     error
}

func (h *stubHost) IsRunning(context.Context) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running, h.err
}

func (h *stubHost) set(running bool) {
	h.mu.Lock()
	h.running = running
	h.mu.Unlock()
}

type stubSyncer struct {
	mu         sync.Mutex
	inProgress bool
	triggers   []string
	err        error
}

func (s *stubSyncer) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress
}

func (s *stubSyncer) LastStatus() syncer.Status { return syncer.Status{State: syncer.StateIdle} }

func (s *stubSyncer) Trigger(_ context.Context, trigger string, _ syncer.StatusFunc) (syncer.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = append(s.triggers, trigger)
	return syncer.Result{}, s.err
}

func (s *stubSyncer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

func newDaemon(t *testing.T, host *stubHost, sync *stubSyncer) *daemon.Daemon {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Watch.PollInterval = 1
	cfg.Watch.Cooldown = 300
	d, err := daemon.New(cfg, host, sync, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	return d
}

func TestPollTriggersOnSteamLaunch(t *testing.T) {
	host := &stubHost{}
	sync := &stubSyncer{}
	d := newDaemon(t, host, sync)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	if d.Poll(context.Background()) {
		t.Fatal("expected no trigger while steam is closed")
	}
	host.set(true)
	if !d.Poll(context.Background()) {
		t.Fatal("expected trigger once steam runs")
	}
	if sync.count() != 1 || sync.triggers[0] != "watch" {
		t.Fatalf("unexpected triggers %v", sync.triggers)
	}

	now = now.Add(2 * time.Minute)
	if d.Poll(context.Background()) {
		t.Fatal("expected no trigger while steam stays open")
	}

	host.set(false)
	now = now.Add(4 * time.Minute)
	if d.Poll(context.Background()) {
		t.Fatal("expected no trigger once steam closes")
	}
	host.set(true)
	if !d.Poll(context.Background()) {
		t.Fatal("expected trigger on relaunch after cooldown")
	}
	if status := d.Status(); status.Triggers != 2 || status.LastTriggerAt != now {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestPollDoesNotRetriggerWhileSteamStaysOpen(t *testing.T) {
	host := &stubHost{running: true}
	sync := &stubSyncer{}
	d := newDaemon(t, host, sync)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	if !d.Poll(context.Background()) {
		t.Fatal("expected steam already running at start to trigger once")
	}
	for i := 0; i < 5; i++ {
		now = now.Add(10 * time.Minute)
		if d.Poll(context.Background()) {
			t.Fatalf("unexpected trigger on poll %d while steam stayed open", i)
		}
	}
	if sync.count() != 1 {
		t.Fatalf("expected a single sync, got %v", sync.triggers)
	}
}

func TestPollRelaunchWithinCooldownIsSkipped(t *testing.T) {
	host := &stubHost{running: true}
	sync := &stubSyncer{}
	d := newDaemon(t, host, sync)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	d.SetClock(func() time.Time { return now })

	if !d.Poll(context.Background()) {
		t.Fatal("expected initial trigger")
	}
	host.set(false)
	now = now.Add(time.Minute)
	d.Poll(context.Background())
	host.set(true)
	if d.Poll(context.Background()) {
		t.Fatal("expected relaunch within cooldown to be skipped")
	}
	now = now.Add(10 * time.Minute)
	if d.Poll(context.Background()) {
		t.Fatal("expected skipped launch not to fire once the cooldown expires")
	}
	if sync.count() != 1 {
		t.Fatalf("unexpected triggers %v", sync.triggers)
	}
}

func TestPollSkipsWhileSyncInProgress(t *testing.T) {
	host := &stubHost{running: true}
	sync := &stubSyncer{inProgress: true}
	d := newDaemon(t, host, sync)
	if d.Poll(context.Background()) {
		t.Fatal("expected no trigger while a sync is running")
	}
	if sync.count() != 0 {
		t.Fatalf("unexpected triggers %v", sync.triggers)
	}

	sync.mu.Lock()
	sync.inProgress = false
	sync.mu.Unlock()
	if d.Poll(context.Background()) {
		t.Fatal("expected a launch seen during a sync not to trigger afterwards")
	}
	host.set(false)
	d.Poll(context.Background())
	host.set(true)
	if !d.Poll(context.Background()) {
		t.Fatal("expected a later launch to trigger")
	}
}

func TestPollIgnoresProbeErrors(t *testing.T) {
	host := &stubHost{running: true, err: errors.New("ps failed")}
	sync := &stubSyncer{}
	d := newDaemon(t, host, sync)
	if d.Poll(context.Background()) {
		t.Fatal("expected no trigger when the probe fails")
	}
}

func TestPollRecordsSyncFailure(t *testing.T) {
	host := &stubHost{running: true}
	sync := &stubSyncer{err: errors.New("boom")}
	d := newDaemon(t, host, sync)
	if !d.Poll(context.Background()) {
		t.Fatal("expected trigger")
	}
	if status := d.Status(); status.LastError != "boom" {
		t.Fatalf("expected last error recorded, got %+v", status)
	}
}

func TestStartHoldsSingleInstanceLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, &stubHost{}, &stubSyncer{}, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	second, err := daemon.New(cfg, &stubHost{}, &stubSyncer{}, nil)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !first.Status().Running {
		t.Fatal("expected running status")
	}
	if err := second.Start(ctx); !errors.Is(err, daemon.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	first.Stop()
	if first.Status().Running {
		t.Fatal("expected stopped status")
	}
	if err := second.Start(ctx); err != nil {
		t.Fatalf("expected lock to be free after Stop: %v", err)
	}
	second.Stop()
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, err := daemon.New(cfg, nil, &stubSyncer{}, nil); err == nil {
		t.Fatal("expected error without host probe")
	}
	cfg.Watch.PollInterval = 0
	if _, err := daemon.New(cfg, &stubHost{}, &stubSyncer{}, nil); err == nil {
		t.Fatal("expected error for zero poll interval")
	}
}
