package config

import (
	"log/slog"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.Queue.Name != "long-running" {
		t.Errorf("unexpected default queue name %q", cfg.Queue.Name)
	}
	if cfg.Queue.Concurrency <= 0 {
		t.Errorf("default concurrency must be positive, got %d", cfg.Queue.Concurrency)
	}
	if cfg.ObjectStore.Bucket == "" {
		t.Error("default bucket must be set")
	}
	if cfg.Database.DBName != "inlet" {
		t.Errorf("unexpected default database %q", cfg.Database.DBName)
	}
}

func TestSlogLevel(t *testing.T) {
	cases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, c := range cases {
		cfg := Config{LogLevel: c.level}
		if got := cfg.SlogLevel(); got != c.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", c.level, got, c.want)
		}
	}
}
