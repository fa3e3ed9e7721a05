package logging

import (
	"context"
	"log/slog"

	"steamsyncer/internal/services"
)

// Structured keys shared by every component.
const (
	FieldComponent     = "component"
	FieldPhase         = "phase"
	FieldGame          = "game"
	FieldAppID         = "appid"
	FieldCorrelationID = "correlation_id"
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint"
	FieldImpact        = "impact"
)

// WithContext tags logger with the phase, game and run id stored on ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if ctx == nil {
		return logger
	}
	var args []any
	add := func(key string, value string, ok bool) {
		if ok {
			args = append(args, slog.String(key, value))
		}
	}
	phase, ok := services.PhaseFromContext(ctx)
	add(FieldPhase, phase, ok)
	game, ok := services.GameFromContext(ctx)
	add(FieldGame, game, ok)
	runID, ok := services.RequestIDFromContext(ctx)
	add(FieldCorrelationID, runID, ok)
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
