package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"steamsyncer/internal/config"
)

// LogFileName is the persistent log kept under paths.log_dir.
const LogFileName = "steamsyncer.log"

// Options configures New. OutputPaths accepts "stdout", "stderr" or file paths
// and defaults to stdout.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
}

func New(opts Options) (*slog.Logger, error) {
	level := new(slog.LevelVar)
	level.Set(parseLevel(opts.Level))

	w, err := openOutputs(opts.OutputPaths)
	if err != nil {
		return nil, err
	}
	h, err := newHandler(opts.Format, w, level)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// NewFromConfig logs to stderr in the configured format and, when a log
// directory is set, mirrors every record to LogFileName as JSON.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{OutputPaths: []string{"stderr"}})
	}
	level := new(slog.LevelVar)
	level.Set(parseLevel(cfg.Logging.Level))

	console, err := newHandler(cfg.Logging.Format, os.Stderr, level)
	if err != nil {
		return nil, err
	}
	dir := strings.TrimSpace(cfg.Paths.LogDir)
	if dir == "" {
		return slog.New(console), nil
	}
	file, err := openOutputs([]string{filepath.Join(dir, LogFileName)})
	if err != nil {
		return nil, err
	}
	return slog.New(TeeHandler(console, newJSONHandler(file, level, withSource(level)))), nil
}

// Source locations are only worth their noise at debug level.
func withSource(level *slog.LevelVar) bool { return level.Level() <= slog.LevelDebug }

func newHandler(format string, w io.Writer, level *slog.LevelVar) (slog.Handler, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return newPrettyHandler(w, level, withSource(level)), nil
	case "json":
		return newJSONHandler(w, level, withSource(level)), nil
	}
	return nil, fmt.Errorf("log format: unsupported value %q", format)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	switch s := strings.ToLower(strings.TrimSpace(level)); s {
	case "warning":
		l = slog.LevelWarn
	default:
		if err := l.UnmarshalText([]byte(s)); err != nil {
			l = slog.LevelInfo
		}
	}
	return l
}

func openOutputs(paths []string) (io.Writer, error) {
	var (
		targets []string
		writers []io.Writer
	)
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" && !slices.Contains(targets, p) {
			targets = append(targets, p)
		}
	}
	for _, target := range targets {
		switch target {
		case "stdout":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		default:
			f, err := openLogFile(target)
			if err != nil {
				return nil, err
			}
			writers = append(writers, f)
		}
	}
	switch len(writers) {
	case 0:
		return os.Stdout, nil
	case 1:
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}
