package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Urlyss/comic-database-mcp/internal/telemetry"
)

func TestSetupNoopWhenDisabled(t *testing.T) {
	for _, cfg := range []telemetry.Config{
		{},
		{Endpoint: "http://localhost:4318"},
		{Enabled: true},
	} {
		tp, shutdown, err := telemetry.Setup(context.Background(), "test-service", "0.0.1", cfg)
		require.NoError(t, err)
		_, isSDK := tp.(*sdktrace.TracerProvider)
		assert.False(t, isSDK)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, shutdown(ctx))
	}
}

func TestSetupCreatesProviderWhenEnabled(t *testing.T) {
	// Non-routable address so nothing is exported.
	tp, shutdown, err := telemetry.Setup(context.Background(), "test-service", "0.0.1", telemetry.Config{
		Enabled:  true,
		Endpoint: "http://192.0.2.1:4318",
	})
	require.NoError(t, err)
	_, isSDK := tp.(*sdktrace.TracerProvider)
	assert.True(t, isSDK)
	assert.NoError(t, shutdown(context.Background()))
}
