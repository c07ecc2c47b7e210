// Package tracing is a thin wrapper over OpenTelemetry so callers never
// touch the global tracer directly. When no tracer has been configured all
// helpers degrade to no-ops, which keeps the matching engine usable as a
// plain library.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer

// SetTracer sets the tracer to be used for tracing.
func SetTracer(t trace.Tracer) {
	tracer = t
}

// StartSpan starts a new span with the given name and returns the context and span.
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, spanName)
}

// GetActiveSpan returns the active span from the context, or nil when no
// real span is recording.
func GetActiveSpan(ctx context.Context) trace.Span {
	if tracer == nil {
		return nil
	}
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}
	return span
}

// GetTraceID returns the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	span := GetActiveSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// GetSpanID returns the span ID from the context.
func GetSpanID(ctx context.Context) string {
	span := GetActiveSpan(ctx)
	if span == nil {
		return ""
	}
	return span.SpanContext().SpanID().String()
}

// GetTraceParent returns the W3C traceparent header value for the context,
// used to propagate trace context over Kafka headers.
func GetTraceParent(ctx context.Context) string {
	return injectedField(ctx, "traceparent")
}

// GetTraceState returns the W3C tracestate header value for the context.
func GetTraceState(ctx context.Context) string {
	return injectedField(ctx, "tracestate")
}

func injectedField(ctx context.Context, field string) string {
	if GetActiveSpan(ctx) == nil {
		return ""
	}
	tp := propagation.TraceContext{}
	carrier := propagation.MapCarrier{}
	tp.Inject(ctx, carrier)
	return carrier.Get(field)
}

// ExtractTraceContext rebuilds a context from propagated traceparent and
// tracestate values (e.g. read off an incoming Kafka message).
func ExtractTraceContext(ctx context.Context, traceParent, traceState string) context.Context {
	if traceParent == "" {
		return ctx
	}
	tp := propagation.TraceContext{}
	carrier := propagation.MapCarrier{
		"traceparent": traceParent,
	}
	if traceState != "" {
		carrier.Set("tracestate", traceState)
	}
	return tp.Extract(ctx, carrier)
}
