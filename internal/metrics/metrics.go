// Package metrics configures OpenTelemetry metrics export.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// MetricProvider is the installed meter provider.
type MetricProvider interface {
	Meter(name string, options ...metric.MeterOption) metric.Meter
	Shutdown(ctx context.Context) error
}

func newReader(ctx context.Context, rc ReaderConfig) (sdkmetric.Reader, error) {
	switch rc.Exporter {
	case ExporterPrometheus:
		exp, err := prometheus.New()
		if err != nil {
			return nil, fmt.Errorf("prometheus exporter: %w", err)
		}
		return exp, nil
	case ExporterOTLP:
		if rc.Endpoint == "" {
			return nil, fmt.Errorf("otlp metric exporter: endpoint required")
		}
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpointURL(rc.Endpoint),
			otlpmetricgrpc.WithHeaders(rc.Headers),
		}
		if rc.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlp metric exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	default:
		return nil, fmt.Errorf("unknown metric exporter %q", rc.Exporter)
	}
}

// NewMetricProvider builds a meter provider and installs it globally.
// At least one reader is required.
func NewMetricProvider(options ...OptionFn) (MetricProvider, error) {
	var cfg Config
	for _, opt := range options {
		opt(&cfg)
	}
	if len(cfg.Readers) == 0 {
		return nil, fmt.Errorf("no metric readers configured")
	}

	attrs := []attribute.KeyValue{semconv.ServiceNameKey.String(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersionKey.String(cfg.ServiceVersion))
	}
	opts := []sdkmetric.Option{sdkmetric.WithResource(resource.NewSchemaless(attrs...))}

	ctx := context.Background()
	for _, rc := range cfg.Readers {
		reader, err := newReader(ctx, rc)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdkmetric.WithReader(reader))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// NewPrometheusServer returns a server exposing /metrics on port. The caller runs ListenAndServe.
func NewPrometheusServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
