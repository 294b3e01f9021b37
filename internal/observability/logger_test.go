package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/geocoder89/pawhub/internal/actorctx"
	"github.com/geocoder89/pawhub/internal/auth"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLogger_AddsTraceIDsFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	log.InfoContext(ctx, "gate_denied", "reason", "expired")
	span.End()

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v body=%s", err, buf.String())
	}

	if rec["trace_id"] != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id = %v, want %s", rec["trace_id"], span.SpanContext().TraceID())
	}
	if rec["span_id"] == nil {
		t.Fatalf("expected span_id in %v", rec)
	}
}

func TestLogger_NoTraceIDsWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	log.InfoContext(context.Background(), "plain")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := rec["trace_id"]; ok {
		t.Fatalf("unexpected trace_id in %v", rec)
	}
}

func TestLogger_DebugOnlyInDev(t *testing.T) {
	var prod, dev bytes.Buffer

	newLogger("prod", &prod).Debug("hidden")
	newLogger("dev", &dev).Debug("shown")

	if prod.Len() != 0 {
		t.Fatalf("expected no debug output in prod, got %s", prod.String())
	}
	if dev.Len() == 0 {
		t.Fatalf("expected debug output in dev")
	}
}

func TestObserveDB_NilReceiverRunsFn(t *testing.T) {
	var p *Prom
	called := false

	err := p.ObserveDB("users.get", func() error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("called=%v err=%v", called, err)
	}
}

func TestLogger_AddsActorFromIdentity(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("prod", &buf)

	ctx := actorctx.WithIdentity(context.Background(), auth.Identity{Email: "alice@example.com"})
	log.InfoContext(ctx, "http_request")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if rec["actor"] != "alice@example.com" {
		t.Fatalf("actor = %v, want alice@example.com", rec["actor"])
	}
}
