package steam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"steamsyncer/internal/logging"
)

// LaunchMode is the UI the Steam client was started in.
type LaunchMode string

const (
	ModeNormal     LaunchMode = "normal"
	ModeBigPicture LaunchMode = "bigpicture"
)

// bigPictureFlags mark a Big Picture / gamepad UI session on the command line.
var bigPictureFlags = []string{"-bigpicture", "-gamepadui", "-tenfoot"}

// DefaultCloseTimeout bounds the wait for Steam to exit.
const DefaultCloseTimeout = 10 * time.Second

const closePollInterval = 250 * time.Millisecond

// Controller detects, stops and starts the Steam client.
type Controller struct {
	GOOS         string
	CloseTimeout time.Duration
	Logger       *slog.Logger

	processes   func() ([]ps.Process, error)
	commandLine func(pid int) (string, error)
	terminate   func(ctx context.Context, pids []int) error
	start       func(name string, args ...string) error
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewController returns a controller for the running platform.
func NewController(closeTimeout time.Duration, logger *slog.Logger) *Controller {
	if closeTimeout <= 0 {
		closeTimeout = DefaultCloseTimeout
	}
	return &Controller{
		GOOS:         runtime.GOOS,
		CloseTimeout: closeTimeout,
		Logger:       logging.NewComponentLogger(logger, "steam"),
		processes:    ps.Processes,
		commandLine:  processCommandLine,
		terminate:    terminateProcesses,
		start:        startDetached,
		sleep:        sleepContext,
	}
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger == nil {
		return logging.NewNop()
	}
	return c.Logger
}

// ProcessNames returns the client executable names for goos.
func ProcessNames(goos string) []string {
	switch goos {
	case "windows":
		return []string{"steam.exe"}
	case "darwin":
		return []string{"steam_osx"}
	default:
		return []string{"steam"}
	}
}

func (c *Controller) steamPIDs() ([]int, error) {
	procs, err := c.processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	names := ProcessNames(c.GOOS)
	var pids []int
	for _, proc := range procs {
		exe := strings.ToLower(proc.Executable())
		for _, name := range names {
			if exe == name {
				pids = append(pids, proc.Pid())
				break
			}
		}
	}
	return pids, nil
}

// IsRunning reports whether a Steam client process exists.
func (c *Controller) IsRunning(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	pids, err := c.steamPIDs()
	if err != nil {
		return false, err
	}
	return len(pids) > 0, nil
}

// DetectMode inspects the running client's command line. Anything it cannot
// read is reported as ModeNormal.
func (c *Controller) DetectMode(ctx context.Context) LaunchMode {
	if ctx.Err() != nil {
		return ModeNormal
	}
	pids, err := c.steamPIDs()
	if err != nil {
		return ModeNormal
	}
	for _, pid := range pids {
		line, err := c.commandLine(pid)
		if err != nil {
			continue
		}
		if IsBigPictureCommandLine(line) {
			return ModeBigPicture
		}
	}
	return ModeNormal
}

// IsBigPictureCommandLine reports whether line carries a Big Picture flag.
func IsBigPictureCommandLine(line string) bool {
	for _, field := range strings.Fields(strings.ToLower(line)) {
		for _, flag := range bigPictureFlags {
			if field == flag {
				return true
			}
		}
	}
	return false
}

// Close asks Steam to exit and waits up to CloseTimeout for every client
// process to disappear. It makes a single attempt.
func (c *Controller) Close(ctx context.Context) error {
	pids, err := c.steamPIDs()
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		return nil
	}
	c.logger().Info("closing steam", logging.Int("processes", len(pids)))
	if err := c.terminate(ctx, pids); err != nil {
		return fmt.Errorf("terminate steam: %w", err)
	}

	deadline := time.Now().Add(c.CloseTimeout)
	for {
		running, err := c.IsRunning(ctx)
		if err != nil {
			return err
		}
		if !running {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("steam still running after %s", c.CloseTimeout)
		}
		if err := c.sleep(ctx, closePollInterval); err != nil {
			return err
		}
	}
}

// Launch starts Steam in the normal desktop UI.
func (c *Controller) Launch(ctx context.Context, installDir string) error {
	return c.launch(ctx, installDir, ModeNormal)
}

// LaunchAlternateMode starts Steam directly in Big Picture.
func (c *Controller) LaunchAlternateMode(ctx context.Context, installDir string) error {
	return c.launch(ctx, installDir, ModeBigPicture)
}

func (c *Controller) launch(ctx context.Context, installDir string, mode LaunchMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, args, err := launchCommand(c.GOOS, installDir, mode)
	if err != nil {
		return err
	}
	c.logger().Info("launching steam",
		logging.String("command", name),
		logging.String("mode", string(mode)),
	)
	if err := c.start(name, args...); err != nil {
		return fmt.Errorf("launch steam: %w", err)
	}
	return nil
}

func launchCommand(goos, installDir string, mode LaunchMode) (string, []string, error) {
	var args []string
	if mode == ModeBigPicture {
		args = append(args, "-bigpicture")
	}
	switch goos {
	case "windows":
		exe := filepath.Join(installDir, "steam.exe")
		if _, err := os.Stat(exe); err != nil {
			return "", nil, fmt.Errorf("steam executable: %w", err)
		}
		return exe, args, nil
	case "darwin":
		return "open", append([]string{"-a", "Steam", "--args"}, args...), nil
	default:
		if path, err := exec.LookPath("steam"); err == nil {
			return path, args, nil
		}
		script := filepath.Join(installDir, "steam.sh")
		if _, err := os.Stat(script); err == nil {
			return script, args, nil
		}
		return "", nil, errors.New("steam executable not found on PATH or in install directory")
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
