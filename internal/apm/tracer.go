package apm

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer opens operation spans for a component.
type Tracer interface {
	Start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, Span)
}

// Span is the subset of a span the services record on.
type Span interface {
	SetAttributes(attrs ...attribute.KeyValue)
	// Count records a result size under key.
	Count(key string, n int)
	// Fail records err, marks the span failed and returns err unchanged.
	// A nil err is a no-op.
	Fail(err error) error
	End()
}

type otelTracer struct {
	component string
	tracer    trace.Tracer
}

// NewTracer returns a tracer bound to the global provider at call time.
// Every span carries the component name.
func NewTracer(component string) Tracer {
	return &otelTracer{
		component: component,
		tracer:    otel.Tracer(component),
	}
}

func (t *otelTracer) Start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, Span) {
	attrs = append(attrs, attribute.String("component", t.component))
	ctx, span := t.tracer.Start(ctx, op, trace.WithAttributes(attrs...))
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) SetAttributes(attrs ...attribute.KeyValue) {
	s.span.SetAttributes(attrs...)
}

func (s *otelSpan) Count(key string, n int) {
	s.span.SetAttributes(attribute.Int(key, n))
}

func (s *otelSpan) Fail(err error) error {
	if err == nil {
		return nil
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *otelSpan) End() {
	s.span.End()
}
