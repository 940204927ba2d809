package apm

import (
	"context"
	"errors"
	"io"
	"testing"

	"go.opentelemetry.io/otel/attribute"

	"github.com/fd1az/seller-scout/internal/logger"
)

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders("x-team=abc, dataset = scout ,broken,=novalue")
	if len(got) != 2 || got["x-team"] != "abc" || got["dataset"] != "scout" {
		t.Errorf("ParseHeaders = %v", got)
	}
}

func TestNewTraceProviderEmpty(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)

	for _, p := range []Provider{EmptyProvider, Provider("bogus")} {
		tp := NewTraceProvider(log, WithProvider(p))
		if _, ok := tp.(emptyTraceProvider); !ok {
			t.Errorf("provider %q: got %T, want emptyTraceProvider", p, tp)
		}
		if err := tp.Stop(); err != nil {
			t.Errorf("Stop: %v", err)
		}
	}
}

func TestTracerSpanFail(t *testing.T) {
	_, span := NewTracer("test").Start(context.Background(), "op", attribute.String("k", "v"))
	defer span.End()

	if err := span.Fail(nil); err != nil {
		t.Errorf("Fail(nil) = %v", err)
	}
	boom := errors.New("boom")
	if err := span.Fail(boom); err != boom {
		t.Errorf("Fail returned %v, want the input error", err)
	}
	span.Count("items", 3)
}
