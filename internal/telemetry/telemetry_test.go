package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInitInstallsGlobalProvider(t *testing.T) {
	tp, err := Init(context.Background(), Config{ServiceName: "ipsearch-test"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if tp == nil {
		t.Fatal("expected a tracer provider")
	}
	defer tp.Shutdown(context.Background()) //nolint:errcheck // best-effort flush

	if got := otel.GetTracerProvider(); got != tp {
		t.Fatal("global tracer provider was not installed")
	}
	if otel.GetTextMapPropagator() == nil {
		t.Fatal("expected propagators to be installed")
	}
}
