package tracing_test

import (
	"context"
	"testing"

	"catalog/pkg/tracing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestNewProvider_RecordsServiceName(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp, err := tracing.NewProvider("catalog-test", sdktrace.WithSpanProcessor(recorder))
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "op", spans[0].Name())

	var service attribute.Value
	for _, kv := range spans[0].Resource().Attributes() {
		if kv.Key == semconv.ServiceNameKey {
			service = kv.Value
		}
	}
	assert.Equal(t, "catalog-test", service.AsString())

	assert.NoError(t, tracing.Shutdown(context.Background(), tp))
}

func TestShutdown_NilProvider(t *testing.T) {
	assert.NoError(t, tracing.Shutdown(context.Background(), nil))
}
