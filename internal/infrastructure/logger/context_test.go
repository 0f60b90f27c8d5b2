package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func jsonLogger(buf *bytes.Buffer) *zap.Logger {
	encoder := zapcore.NewJSONEncoder(zapcore.EncoderConfig{MessageKey: "msg", LevelKey: "level", EncodeLevel: zapcore.LowercaseLevelEncoder})
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(buf), zapcore.DebugLevel))
}

func sampleSpanContext(t *testing.T) context.Context {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		l := zap.NewExample()
		assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
	})

	t.Run("falls back to nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		assert.NotPanics(t, func() { FromContext(ctx).Info("ignored") })
	})
}

func TestWithRequestIDAndOwnerID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, enriched := WithOwnerID(ctx, FromContext(ctx), "owner-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "owner-1", GetOwnerID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	enriched.Info("job created")
	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "owner-1", fields["owner_id"])
}

func TestGetters_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetOwnerID(ctx))
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestTraceCorrelation(t *testing.T) {
	ctx := sampleSpanContext(t)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
	assert.Equal(t, "00f067aa0ba902b7", GetSpanID(ctx))

	var buf bytes.Buffer
	WithTraceContext(ctx, jsonLogger(&buf)).Info("traced")

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", out["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", out["span_id"])

	l := zap.NewNop()
	assert.Same(t, l, WithTraceContext(context.Background(), l))
}

func TestContextLogger(t *testing.T) {
	t.Run("enriches with context fields", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := sampleSpanContext(t)
		ctx = context.WithValue(ctx, RequestIDKey, "req-9")
		ctx = context.WithValue(ctx, OwnerIDKey, "owner-9")

		WithLogger(ctx, jsonLogger(&buf)).With(zap.String("invoice_id", "inv-1")).Warn("invoice overdue")

		var out map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "invoice overdue", out["msg"])
		assert.Equal(t, "warn", out["level"])
		assert.Equal(t, "req-9", out["request_id"])
		assert.Equal(t, "owner-9", out["owner_id"])
		assert.Equal(t, "inv-1", out["invoice_id"])
		assert.Contains(t, out, "trace_id")
	})

	t.Run("omits empty fields", func(t *testing.T) {
		var buf bytes.Buffer
		WithLogger(context.Background(), jsonLogger(&buf)).Info("plain")
		assert.NotContains(t, buf.String(), "owner_id")
		assert.NotContains(t, buf.String(), "trace_id")
	})

	t.Run("uses the logger stored in context", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		ctx := WithContext(context.Background(), zap.New(core))
		cl := L(ctx)
		cl.Debug("d")
		cl.Info("i")
		cl.Error("e")
		assert.Len(t, recorded.All(), 3)
		assert.NotNil(t, cl.Zap())
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		cl := &ContextLogger{ctx: context.Background()}
		assert.NotPanics(t, func() {
			cl.Info("nothing")
			cl.With(zap.Int("n", 1)).Warn("still nothing")
		})
	})
}
