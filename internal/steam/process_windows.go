//go:build windows

package steam

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
)

func processCommandLine(pid int) (string, error) {
	query := fmt.Sprintf("(Get-CimInstance Win32_Process -Filter \"ProcessId=%d\").CommandLine", pid)
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", query)
	detach(cmd)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func terminateProcesses(ctx context.Context, _ []int) error {
	cmd := exec.CommandContext(ctx, "taskkill", "/IM", "steam.exe", "/F")
	detach(cmd)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("taskkill: %w (%s)", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
}
