package steam

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"
)

type fakeProcess struct {
	pid int
	exe string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.exe }

type fakeHost struct {
	procs      []ps.Process
	cmdlines   map[int]string
	terminated []int
	started    [][]string
	exitAfter  int
}

func (h *fakeHost) controller() *Controller {
	return &Controller{
		GOOS:         "linux",
		CloseTimeout: time.Second,
		processes: func() ([]ps.Process, error) {
			return h.procs, nil
		},
		commandLine: func(pid int) (string, error) {
			line, ok := h.cmdlines[pid]
			if !ok {
				return "", errors.New("no such process")
			}
			return line, nil
		},
		terminate: func(_ context.Context, pids []int) error {
			h.terminated = append(h.terminated, pids...)
			return nil
		},
		start: func(name string, args ...string) error {
			h.started = append(h.started, append([]string{name}, args...))
			return nil
		},
		sleep: func(context.Context, time.Duration) error {
			h.exitAfter--
			if h.exitAfter <= 0 {
				h.procs = nil
			}
			return nil
		},
	}
}

func TestIsRunningMatchesClientName(t *testing.T) {
	host := &fakeHost{procs: []ps.Process{fakeProcess{10, "bash"}, fakeProcess{11, "steamwebhelper"}}}
	c := host.controller()
	running, err := c.IsRunning(context.Background())
	if err != nil || running {
		t.Fatalf("expected not running, got %v (%v)", running, err)
	}
	host.procs = append(host.procs, fakeProcess{12, "steam"})
	running, err = c.IsRunning(context.Background())
	if err != nil || !running {
		t.Fatalf("expected running, got %v (%v)", running, err)
	}
}

func TestDetectMode(t *testing.T) {
	host := &fakeHost{
		procs:    []ps.Process{fakeProcess{12, "steam"}},
		cmdlines: map[int]string{12: "/usr/bin/steam -silent"},
	}
	c := host.controller()
	if mode := c.DetectMode(context.Background()); mode != ModeNormal {
		t.Fatalf("expected normal, got %s", mode)
	}
	host.cmdlines[12] = "/usr/bin/steam -gamepadui -steamos3"
	if mode := c.DetectMode(context.Background()); mode != ModeBigPicture {
		t.Fatalf("expected bigpicture, got %s", mode)
	}
	delete(host.cmdlines, 12)
	if mode := c.DetectMode(context.Background()); mode != ModeNormal {
		t.Fatalf("expected normal when command line unreadable, got %s", mode)
	}
}

func TestCloseWaitsForExit(t *testing.T) {
	host := &fakeHost{procs: []ps.Process{fakeProcess{12, "steam"}, fakeProcess{13, "steam"}}, exitAfter: 2}
	c := host.controller()
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !slices.Equal(host.terminated, []int{12, 13}) {
		t.Fatalf("unexpected terminated pids %v", host.terminated)
	}
}

func TestCloseTimesOut(t *testing.T) {
	host := &fakeHost{procs: []ps.Process{fakeProcess{12, "steam"}}, exitAfter: 1 << 30}
	c := host.controller()
	c.CloseTimeout = 0
	if err := c.Close(context.Background()); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestCloseNotRunningIsNoop(t *testing.T) {
	host := &fakeHost{}
	if err := host.controller().Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(host.terminated) != 0 {
		t.Fatal("expected nothing terminated")
	}
}

func TestLaunchCommand(t *testing.T) {
	name, args, err := launchCommand("darwin", "/Applications/Steam.app", ModeBigPicture)
	if err != nil {
		t.Fatalf("launchCommand: %v", err)
	}
	if name != "open" || !slices.Equal(args, []string{"-a", "Steam", "--args", "-bigpicture"}) {
		t.Fatalf("unexpected command %s %v", name, args)
	}
	if _, _, err := launchCommand("windows", t.TempDir(), ModeNormal); err == nil {
		t.Fatal("expected error when steam.exe is missing")
	}
}

func TestIsBigPictureCommandLine(t *testing.T) {
	if !IsBigPictureCommandLine(`"C:\Steam\steam.exe" -BigPicture`) {
		t.Fatal("expected case-insensitive match")
	}
	if IsBigPictureCommandLine("steam -silent -nobigpicture") {
		t.Fatal("expected exact flag match")
	}
}

func TestLaunchAlternateModeWithoutLogger(t *testing.T) {
	host := &fakeHost{}
	c := host.controller()
	c.GOOS = "darwin"
	if err := c.LaunchAlternateMode(context.Background(), "/Applications/Steam.app"); err != nil {
		t.Fatalf("LaunchAlternateMode: %v", err)
	}
	if len(host.started) != 1 || !slices.Contains(host.started[0], "-bigpicture") {
		t.Fatalf("unexpected launches %v", host.started)
	}
}
