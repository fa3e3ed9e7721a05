package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// RetentionTarget names a directory and a glob of log files to prune.
// Files listed in Exclude are never removed, typically the active session log.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
}

// CleanupOldLogs removes matching files whose mtime is older than
// retentionDays. Zero or negative keeps everything.
func CleanupOldLogs(logger *slog.Logger, retentionDays int, targets ...RetentionTarget) {
	if retentionDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, target := range targets {
		for _, path := range expiredLogs(target, cutoff) {
			if err := os.Remove(path); err != nil {
				WarnWithContext(logger, "could not prune old log", "log_retention_failed",
					String("path", path),
					Error(err),
					String(FieldErrorHint, "check permissions on paths.log_dir"),
					String(FieldImpact, "old log file stays on disk"),
				)
				continue
			}
			if logger != nil {
				logger.Debug("pruned old log", String("path", path))
			}
		}
	}
}

func expiredLogs(target RetentionTarget, cutoff time.Time) []string {
	if target.Dir == "" {
		return nil
	}
	pattern := target.Pattern
	if pattern == "" {
		pattern = "*"
	}
	matches, err := filepath.Glob(filepath.Join(target.Dir, pattern))
	if err != nil {
		return nil
	}
	excluded := make([]string, 0, len(target.Exclude))
	for _, path := range target.Exclude {
		excluded = append(excluded, filepath.Clean(path))
	}
	var expired []string
	for _, path := range matches {
		if slices.Contains(excluded, filepath.Clean(path)) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		expired = append(expired, path)
	}
	return expired
}
