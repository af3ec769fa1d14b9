package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing("", "test")
	if err != nil {
		t.Fatalf("InitTracing failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
}

func TestInitTracingWritesSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	path := filepath.Join(t.TempDir(), "trace.json")
	shutdown, err := InitTracing(path, "test")
	if err != nil {
		t.Fatalf("InitTracing failed: %v", err)
	}

	_, span := otel.Tracer("telemetry_test").Start(context.Background(), "minimax.best_move")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "minimax.best_move") {
		t.Fatalf("trace file missing span: %q", data)
	}
	if !strings.Contains(string(data), serviceName) {
		t.Fatalf("trace file missing service name: %q", data)
	}
}

func TestInitTracingBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "trace.json")
	if _, err := InitTracing(path, "test"); err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}
