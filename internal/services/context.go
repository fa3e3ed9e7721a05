package services

import "context"

// ctxKey is typed by name so phase, game and run id never collide.
type ctxKey struct{ name string }

var (
	phaseKey     = ctxKey{"phase"}
	gameKey      = ctxKey{"game"}
	requestIDKey = ctxKey{"request_id"}
)

func withString(ctx context.Context, key ctxKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	value, _ := ctx.Value(key).(string)
	return value, value != ""
}

// WithPhase records the sync phase (scan, shortcuts, artwork) on ctx.
func WithPhase(ctx context.Context, phase string) context.Context {
	return withString(ctx, phaseKey, phase)
}

func PhaseFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, phaseKey) }

// WithGame records the game whose shortcut or artwork is being handled.
func WithGame(ctx context.Context, name string) context.Context {
	return withString(ctx, gameKey, name)
}

func GameFromContext(ctx context.Context) (string, bool) { return stringFrom(ctx, gameKey) }

// WithRequestID records the sync run id used to correlate log lines.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, requestIDKey)
}
