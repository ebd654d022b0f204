package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const InstrumentationName = "mfek"

// Tracer returns provider's tracer, or the global one when provider is nil.
func Tracer(provider trace.TracerProvider) trace.Tracer {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return provider.Tracer(InstrumentationName)
}

func RecordSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	if ctx == nil || name == "" {
		return
	}
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// SetSpanStatus marks the span in ctx as failed with message, or ok when
// message is empty.
func SetSpanStatus(ctx context.Context, message string) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	if message == "" {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.SetStatus(codes.Error, message)
}
