// Package apm configures OpenTelemetry tracing.
package apm

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"

	"github.com/fd1az/seller-scout/internal/logger"
)

type Provider string

const (
	ZipkinProvider   Provider = "zipkin"
	OTLPGRPCProvider Provider = "otlp-grpc"
	OTLPHTTPProvider Provider = "otlp-http"
	ConsoleProvider  Provider = "console"
	EmptyProvider    Provider = "none"
)

type TraceProvider interface {
	Stop() error
}

type traceProvider struct {
	tp *sdktrace.TracerProvider
}

type emptyTraceProvider struct{}

func (emptyTraceProvider) Stop() error { return nil }

type TracerOptions struct {
	serviceName string
	endpoint    string
	headers     map[string]string
	provider    Provider
}

type TracerOption func(*TracerOptions)

// WithProvider selects the span exporter.
func WithProvider(provider Provider) TracerOption {
	return func(o *TracerOptions) {
		o.provider = provider
	}
}

// WithEndpoint sets the collector endpoint URL.
func WithEndpoint(endpoint string) TracerOption {
	return func(o *TracerOptions) {
		o.endpoint = endpoint
	}
}

// WithHeaders sets exporter headers from a "k1=v1,k2=v2" string.
func WithHeaders(raw string) TracerOption {
	return func(o *TracerOptions) {
		o.headers = ParseHeaders(raw)
	}
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) TracerOption {
	return func(o *TracerOptions) {
		o.serviceName = name
	}
}

// ParseHeaders parses "k1=v1,k2=v2". Malformed pairs are skipped.
func ParseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || k == "" {
			continue
		}
		headers[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return headers
}

func newExporter(ctx context.Context, o *TracerOptions) (sdktrace.SpanExporter, error) {
	switch o.provider {
	case ZipkinProvider:
		return zipkin.New(o.endpoint)
	case OTLPGRPCProvider:
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpointURL(o.endpoint),
			otlptracegrpc.WithHeaders(o.headers),
		)
	case OTLPHTTPProvider:
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(o.endpoint),
			otlptracehttp.WithHeaders(o.headers),
		)
	case ConsoleProvider:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, nil
	}
}

// NewTraceProvider installs a global tracer provider. Unknown or empty providers
// leave the no-op global provider in place.
func NewTraceProvider(log logger.LoggerInterface, options ...TracerOption) TraceProvider {
	ctx := context.Background()
	opts := &TracerOptions{provider: EmptyProvider}
	for _, opt := range options {
		opt(opts)
	}

	exp, err := newExporter(ctx, opts)
	if err != nil {
		log.Error(ctx, "trace exporter init failed, tracing disabled", "provider", opts.provider, "error", err)
		return emptyTraceProvider{}
	}
	if exp == nil {
		if opts.provider != EmptyProvider {
			log.Warn(ctx, "unknown trace provider, tracing disabled", "provider", opts.provider)
		}
		return emptyTraceProvider{}
	}

	rsrc, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(opts.serviceName),
			attribute.String("otel.provider", string(opts.provider)),
		))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(rsrc),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))

	return &traceProvider{tp}
}

func (o *traceProvider) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5) //nolint:gomnd
	defer cancel()

	return o.tp.Shutdown(ctx)
}
