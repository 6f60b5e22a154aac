package tracer

import (
	"context"
	"testing"

	"connector-selector/internal/config"
	"connector-selector/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestDisabledTracerIsNoop(t *testing.T) {
	before := otel.GetTracerProvider()
	shutdown := InitTracer(config.TelemetryConfig{ServiceName: "test"}, logger.NewNopLogger())

	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestEnabledTracerInstallsProvider(t *testing.T) {
	before := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(before) })

	shutdown := InitTracer(config.TelemetryConfig{
		Enabled:     true,
		Endpoint:    "localhost:4318",
		ServiceName: "connector-selector-test",
		SampleRatio: 1,
	}, logger.NewNopLogger())

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	assert.NoError(t, shutdown(context.Background()))
}
