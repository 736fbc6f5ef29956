package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// OpMeta describes one menu operation for telemetry purposes.
type OpMeta struct {
	Name    string // Operation name: query, resolve, render, status, clear_cache, rebuild (required)
	Surface string // Caller surface: cli, http, mcp (optional)
	Topic   string // Resolved topic ID (optional)
	Format  string // Renderer format (optional)
}

// SpanName returns the deterministic span name for this operation.
// Format: picmenu.<name>
func (m OpMeta) SpanName() string {
	return "picmenu." + m.Name
}

// Validate reports ErrMissingOpName when Name is empty.
func (m OpMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingOpName
	}
	return nil
}

// attributes returns the span attributes for m. Topic IDs are unbounded, so
// metric series are built with withTopic false.
func (m OpMeta) attributes(withTopic bool) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("picmenu.op", m.Name)}
	if m.Surface != "" {
		attrs = append(attrs, attribute.String("picmenu.surface", m.Surface))
	}
	if m.Format != "" {
		attrs = append(attrs, attribute.String("picmenu.format", m.Format))
	}
	if withTopic && m.Topic != "" {
		attrs = append(attrs, attribute.String("picmenu.topic", m.Topic))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with operation-specific span management.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an operation.
	StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		return newNoopTracer()
	}
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with operation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	attrs := append(meta.attributes(true), attribute.Bool("picmenu.error", false))
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("picmenu.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OpMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ error) {
	span.End()
}
