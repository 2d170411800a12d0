// Package log configures slog for the skit tools. Console output goes
// to stderr; an optional rotated file sink can be layered on top.
//
// Environment variables:
//   - SKIT_LOG_LEVEL=debug|info|warn|error
//   - SKIT_LOG_FORMAT=text|json
//   - SKIT_LOG_FILE=<path> (enables rotated file logging)
package log

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
type Options struct {
	Level  string
	Format string // "text" or "json"
	File   string // optional path for rotated file logging
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// L returns the process logger, initializing from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	l = logger
	mu.RUnlock()
	return l
}

// Init configures the process logger and slog's default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)
	ho := &slog.HandlerOptions{Level: lvl}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(os.Stderr, ho)
	} else {
		console = slog.NewTextHandler(os.Stderr, ho)
	}

	h := console
	if strings.TrimSpace(opts.File) != "" {
		w := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		h = fanout{console, slog.NewJSONHandler(w, ho)}
	}

	l := slog.New(h)
	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
}

// FromEnv builds Options from SKIT_LOG_* environment variables.
func FromEnv() Options {
	return Options{
		Level:  getenv("SKIT_LOG_LEVEL", "info"),
		Format: getenv("SKIT_LOG_FORMAT", "text"),
		File:   os.Getenv("SKIT_LOG_FILE"),
	}
}

// WithComponent returns a logger with the component attribute set.
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout duplicates records to every handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f {
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}
