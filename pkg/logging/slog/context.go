package slog

import (
	"context"
	"log/slog"
)

type levelOverrideKey struct{}

// WithLogLevel makes every record logged with ctx use level instead of the
// package levels, e.g. to trace a single rebuild in watch mode.
func WithLogLevel(ctx context.Context, level slog.Level) context.Context {
	return context.WithValue(ctx, levelOverrideKey{}, level)
}

// LogLevelFromContext returns the override set by WithLogLevel.
func LogLevelFromContext(ctx context.Context) (slog.Level, bool) {
	level, ok := ctx.Value(levelOverrideKey{}).(slog.Level)
	return level, ok
}
