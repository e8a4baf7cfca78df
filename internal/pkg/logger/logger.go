// Package logger builds the application's slog logger in the ECS JSON shape used for
// request logs, and carries request-scoped loggers through context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/go-chi/httplog/v3"
)

const (
	AppName    = "control-fichajes"
	AppVersion = "v1.0.0"
)

// New returns a JSON logger writing to w. An empty level picks debug in development
// and info everywhere else.
func New(w io.Writer, env, level string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(env, level),
		ReplaceAttr: logFormat.ReplaceAttr,
	})

	return slog.New(handler).With(
		slog.String("app", AppName),
		slog.String("version", AppVersion),
		slog.String("env", env),
	)
}

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(env, level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if env == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

type ctxKey struct{}

// With stores a logger enriched with args in ctx.
func With(ctx context.Context, args ...any) context.Context {
	return context.WithValue(ctx, ctxKey{}, From(ctx).With(args...))
}

// From returns the logger carried by ctx, or slog.Default.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
