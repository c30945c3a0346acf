package traces

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestSetupOTelSDK(t *testing.T) {
	ctx := context.Background()
	shutdown, err := SetupOTelSDK(ctx, "tally-test", "127.0.0.1:4318")
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	_, ok = global.GetLoggerProvider().(*sdklog.LoggerProvider)
	assert.True(t, ok)

	_, span := otel.Tracer("test").Start(ctx, "noop")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// no collector is listening, so only check that shutdown returns
	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = shutdown(stopCtx)
}
