package tracer

import (
	"context"
	"testing"
)

func TestInitTracerDisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")

	shutdown := InitTracer()
	if shutdown == nil {
		t.Fatal("InitTracer() returned nil shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v, want nil", err)
	}
}
