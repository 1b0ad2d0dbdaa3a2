// Package logging provides structured logging for rigid2d. It wraps Go's
// standard slog package so every component logs JSON with the same level
// handling and carries the simulation run ID from the context.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
)

// LevelEnvVar names the environment variable holding the log level
const LevelEnvVar = "RIGID2D_LOG_LEVEL"

// Logger wraps slog.Logger with context-first helpers
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger writing JSON to stdout. The level is read from
// RIGID2D_LOG_LEVEL (DEBUG, INFO, WARN, ERROR) and defaults to INFO.
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout, getLogLevelFromEnv())
}

// NewLoggerWithWriter creates a Logger writing JSON to w at the given level
func NewLoggerWithWriter(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: roundFloats,
	})
	return &Logger{slog.New(handler)}
}

// NewDiscardLogger returns a Logger that drops everything
func NewDiscardLogger() *Logger {
	return NewLoggerWithWriter(io.Discard, slog.LevelError+1)
}

// LogWithContext logs a message, adding the run ID from ctx when present
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if runID := GetRunID(ctx); runID != "" {
		args = append(args, "run_id", runID)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs at info level
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs at warn level
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs at error level, recording err under the "error" key
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs at debug level
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type runIDKey struct{}

// WithRunID stores a run ID in the context, generating one when id is empty.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = GenerateRunID()
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// GetRunID extracts the run ID from the context, or "" if none is set.
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateRunID creates a new random run ID.
func GenerateRunID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// ParseLevel converts a level name to a slog.Level, defaulting to INFO
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getLogLevelFromEnv() slog.Level {
	return ParseLevel(os.Getenv(LevelEnvVar))
}

// roundFloats trims float attributes to three decimals so per-tick position
// and velocity logs stay readable.
func roundFloats(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindFloat64 {
		return a
	}
	f := a.Value.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return a
	}
	return slog.Attr{Key: a.Key, Value: slog.Float64Value(math.Round(f*1000) / 1000)}
}

// WrapError prefixes err with a formatted context message. The result
// unwraps to err; a nil err stays nil.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
