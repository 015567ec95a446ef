package logger_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/watchparty/sync-service/pkg/logger"
)

func TestAttrsFromCtx_PropagatesTraceIDs(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	otel.SetTracerProvider(tp)

	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	out := captureStdOut(func() {
		logger.Init(logger.Config{
			Service:          "sync-service",
			Env:              logger.EnvProd,
			Backend:          logger.BackendZap,
			Level:            slog.LevelInfo,
			SampleInitial:    100000,
			SampleThereafter: 100000,
		})

		attrs := logger.AttrsFromCtx(ctx)
		args := make([]any, 0, len(attrs))
		for _, a := range attrs {
			args = append(args, a)
		}
		slog.InfoContext(ctx, "with trace", args...)
	})

	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("expected JSON line, got %s, err=%v", out, err)
	}

	if m["msg"] != "with trace" {
		t.Fatalf("msg mismatch: %v", m["msg"])
	}
	tid, _ := m["trace_id"].(string)
	sid, _ := m["span_id"].(string)
	if tid != span.SpanContext().TraceID().String() {
		t.Fatalf("trace_id mismatch: %q", tid)
	}
	if sid != span.SpanContext().SpanID().String() {
		t.Fatalf("span_id mismatch: %q", sid)
	}
}

func TestAttrsFromCtx_NoActiveSpan(t *testing.T) {
	if got := logger.AttrsFromCtx(context.Background()); got != nil {
		t.Fatalf("expected no attrs without a span, got %v", got)
	}
}
