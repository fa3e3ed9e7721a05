package preflight

import (
	"context"
	"fmt"

	"steamsyncer/internal/steam"
)

// HostProbe reports the Steam client process state.
type HostProbe interface {
	IsRunning(ctx context.Context) (bool, error)
	DetectMode(ctx context.Context) steam.LaunchMode
}

// SteamProbe is a snapshot of the Steam client process.
type SteamProbe struct {
	Running bool
	Mode    steam.LaunchMode
	Err     error
}

// ProbeSteam inspects the running Steam client.
func ProbeSteam(ctx context.Context, host HostProbe) SteamProbe {
	if host == nil {
		return SteamProbe{}
	}
	running, err := host.IsRunning(ctx)
	if err != nil {
		return SteamProbe{Err: err}
	}
	if !running {
		return SteamProbe{}
	}
	return SteamProbe{Running: true, Mode: host.DetectMode(ctx)}
}

// Detail renders a display-friendly summary for status output.
func (p SteamProbe) Detail() string {
	switch {
	case p.Err != nil:
		return fmt.Sprintf("Unknown (%v)", p.Err)
	case !p.Running:
		return "Not running"
	case p.Mode == steam.ModeBigPicture:
		return "Running (Big Picture)"
	default:
		return "Running"
	}
}

// Result converts the probe into an informational check result. Steam being
// closed is fine; syncs close and relaunch it as needed.
func (p SteamProbe) Result() Result {
	return Result{Name: "Steam client", Passed: p.Err == nil, Optional: true, Detail: p.Detail()}
}
