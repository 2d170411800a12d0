package log

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		be.Equal(t, parseLevel(tt.input), tt.want)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SKIT_LOG_LEVEL", "debug")
	t.Setenv("SKIT_LOG_FORMAT", "json")
	t.Setenv("SKIT_LOG_FILE", "")

	opts := FromEnv()
	be.Equal(t, opts.Level, "debug")
	be.Equal(t, opts.Format, "json")
	be.Equal(t, opts.File, "")
}

func TestInitAndL(t *testing.T) {
	Init(Options{Level: "warn", Format: "json"})
	l := L()
	be.True(t, l != nil)
	ctx := context.Background()
	be.True(t, !l.Enabled(ctx, slog.LevelInfo))
	be.True(t, l.Enabled(ctx, slog.LevelError))
}

func TestInitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skit.log")
	Init(Options{Level: "info", File: path})
	L().Info("checking file sink", slog.String("path", path))
}

func TestWithComponent(t *testing.T) {
	Init(Options{Level: "info"})
	be.True(t, WithComponent("parser") != nil)
}
