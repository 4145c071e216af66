package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"searchgraph/internal/logging"
)

func TestDiscardDropsEverything(t *testing.T) {
	logger := logging.Discard()

	// Must not panic and must report all levels disabled.
	logger.Info("hello")
	logger.Error("boom")

	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should report all levels disabled")
	}
}

func TestDefaultNil(t *testing.T) {
	logger := logging.Default(nil)
	if logger == nil {
		t.Fatal("Default(nil) returned nil")
	}
	logger.Info("should not panic")
}

func TestDefaultPassesThrough(t *testing.T) {
	var buf bytes.Buffer
	in := slog.New(slog.NewTextHandler(&buf, nil))

	out := logging.Default(in)
	out.Info("marker")

	if !strings.Contains(buf.String(), "marker") {
		t.Errorf("expected pass-through logger to write marker, got %q", buf.String())
	}
}

func TestComponentScopesAttribute(t *testing.T) {
	var buf bytes.Buffer
	in := slog.New(slog.NewTextHandler(&buf, nil))

	logger := logging.Component(in, "planner")
	logger.Info("plan built")

	got := buf.String()
	if !strings.Contains(got, "component=planner") {
		t.Errorf("expected component attribute, got %q", got)
	}
}

func TestComponentNilLogger(t *testing.T) {
	logger := logging.Component(nil, "planner")
	logger.Info("should not panic")
}
