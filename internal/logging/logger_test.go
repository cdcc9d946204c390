package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLogger(t *testing.T) {
	logger, shutdown, err := NewLogger()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger == nil || shutdown == nil {
		t.Fatal("expected a logger and a shutdown func")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("production logger must log at info level")
	}
	logger.Info("logger constructed", "check", "startup")
	// Sync on a terminal stderr can fail on some platforms; the call
	// itself must not panic.
	_ = shutdown()
}

func TestFallbackLogger(t *testing.T) {
	logger := FallbackLogger()
	if logger == nil {
		t.Fatal("expected a logger")
	}
	if !logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("fallback logger must log at info level")
	}
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger()
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("discard logger must not report any level enabled")
	}
}
