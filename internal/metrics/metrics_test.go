package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewMetricProviderPrometheus(t *testing.T) {
	mp, err := NewMetricProvider(
		WithServiceName("seller-scout-test"),
		WithServiceVersion("v0.0.0-test"),
		WithPrometheus(),
	)
	if err != nil {
		t.Fatalf("NewMetricProvider: %v", err)
	}
	defer mp.Shutdown(context.Background())

	counter, err := mp.Meter("test").Int64Counter("scout_test_total")
	if err != nil {
		t.Fatal(err)
	}
	counter.Add(context.Background(), 1)

	srv := NewPrometheusServer(0)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", rec.Code)
	}
}

func TestNewMetricProviderRejectsBadReaders(t *testing.T) {
	tests := []struct {
		name string
		opts []OptionFn
	}{
		{"none", nil},
		{"unknown exporter", []OptionFn{WithReader(ReaderConfig{Exporter: "statsd"})}},
		{"otlp without endpoint", []OptionFn{WithOTLP("", nil, true)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMetricProvider(tt.opts...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
