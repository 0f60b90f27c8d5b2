package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory recorder as the global tracer provider
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[string(a.Key)] = a.Value
	}
	return out
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)
	ownerID := uuid.New()

	_, span := StartServiceSpan(context.Background(), "invoice", "generate",
		WithAttribute(SpanAttrOwnerID, ownerID),
		WithAttribute(SpanAttrJobCount, 3),
		WithSpanKind(trace.SpanKindServer),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "invoice.generate", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, ownerID.String(), attrs[SpanAttrOwnerID].AsString())
	assert.EqualValues(t, 3, attrs[SpanAttrJobCount].AsInt64())
}

func TestEnd(t *testing.T) {
	sr := setupTestTracer(t)

	_, ok := StartSpan(context.Background(), "outsourcing.confirm_delivery")
	End(ok, nil)
	_, failed := StartSpan(context.Background(), "outsourcing.confirm_delivery")
	End(failed, errors.New("expense insert failed"))
	End(nil, nil)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "expense insert failed", spans[1].Status().Description)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "exception", spans[1].Events()[0].Name)
}

func TestSetAttributesAndEvents(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "job.bulk_status")
	SetAttributes(span,
		SpanAttrSucceeded, 4,
		SpanAttrFailed, int64(1),
		42, "non-string key is skipped",
		SpanAttrCurrency, "EUR",
		"dangling",
	)
	AddEvent(span, "job_locked", SpanAttrJobID, "j-1", "invoiced", true)
	RecordError(span, nil)
	span.End()

	s := sr.Ended()[0]
	attrs := attrMap(s.Attributes())
	assert.Len(t, attrs, 3)
	assert.EqualValues(t, 4, attrs[SpanAttrSucceeded].AsInt64())
	assert.EqualValues(t, 1, attrs[SpanAttrFailed].AsInt64())
	assert.Equal(t, "EUR", attrs[SpanAttrCurrency].AsString())
	assert.Equal(t, codes.Unset, s.Status().Code)

	require.Len(t, s.Events(), 1)
	eventAttrs := attrMap(s.Events()[0].Attributes)
	assert.True(t, eventAttrs["invoiced"].AsBool())
}

func TestToAttribute(t *testing.T) {
	id := uuid.MustParse("7b0c3c1e-2f49-4d2b-9a51-0d5c8f6e1a11")
	assert.Equal(t, attribute.STRING, toAttribute("s", "x").Value.Type())
	assert.Equal(t, attribute.INT64, toAttribute("i", 1).Value.Type())
	assert.Equal(t, attribute.FLOAT64, toAttribute("f", 1.5).Value.Type())
	assert.Equal(t, attribute.BOOL, toAttribute("b", true).Value.Type())
	assert.Equal(t, attribute.STRINGSLICE, toAttribute("ss", []string{"a"}).Value.Type())
	assert.Equal(t, id.String(), toAttribute("id", id).Value.AsString())
	assert.Equal(t, "[1 2]", toAttribute("other", []int{1, 2}).Value.AsString())
}

func TestNilSpanHelpers(t *testing.T) {
	assert.NotPanics(t, func() {
		SetAttributes(nil, "k", "v")
		AddEvent(nil, "e")
		RecordError(nil, errors.New("x"))
	})
}
