package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/careerclimb/careerclimb/pkg/config"
)

func TestSetup_TracingDisabled(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{
		ServiceName:    "careerclimb-gateway",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		TracingEnabled: false,
		LogLevel:       "info",
		LogFormat:      "json",
		Output:         &buf,
	}

	provider, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer provider.Shutdown(context.Background())

	if provider.tracerProvider != nil {
		t.Error("tracerProvider should be nil when tracing is disabled")
	}

	provider.Logger().Info("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["service"] != "careerclimb-gateway" {
		t.Errorf("service = %v, want careerclimb-gateway", line["service"])
	}
	if line["env"] != "test" {
		t.Errorf("env = %v, want test", line["env"])
	}
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	provider, err := Setup(context.Background(), Config{ServiceName: "svc", LogFormat: "text", Output: &buf})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	provider.Logger().Info("hello")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text output = %q, want msg=hello", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromBase(t *testing.T) {
	base := &config.Base{
		ServiceName:     "careerclimb-gateway",
		Environment:     "staging",
		Version:         "1.2.3",
		ObserveEndpoint: "otel:4317",
		LogLevel:        "debug",
		LogFormat:       "text",
		TracingEnabled:  true,
		TracingSampling: 0.25,
	}

	cfg := FromBase(base)

	if cfg.ServiceName != "careerclimb-gateway" || cfg.ServiceVersion != "1.2.3" || cfg.Environment != "staging" {
		t.Errorf("identity = %q %q %q", cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	}
	if cfg.OTLPEndpoint != "otel:4317" {
		t.Errorf("OTLPEndpoint = %v, want otel:4317", cfg.OTLPEndpoint)
	}
	if !cfg.TracingEnabled || cfg.TracingSampling != 0.25 {
		t.Errorf("tracing = %v %v, want true 0.25", cfg.TracingEnabled, cfg.TracingSampling)
	}
}

func TestProvider_Shutdown_NilTracerProvider(t *testing.T) {
	provider := &Provider{}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTraceIDFromContext(t *testing.T) {
	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Errorf("TraceIDFromContext() = %v, want empty string", got)
	}

	span := trace.SpanFromContext(context.Background())
	if span.IsRecording() {
		t.Error("expected non-recording span from empty context")
	}
}

// ===== HTTPMiddleware =====

func TestHTTPMiddleware_RecordsServerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var traceID string
	handler := HTTPMiddleware("test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		w.WriteHeader(http.StatusBadGateway)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/complete", nil))

	if traceID == "" {
		t.Error("handler context carries no trace ID")
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "POST /v1/complete" {
		t.Errorf("span name = %q, want %q", span.Name(), "POST /v1/complete")
	}
	if span.SpanKind() != trace.SpanKindServer {
		t.Errorf("span kind = %v, want server", span.SpanKind())
	}
	if span.Status().Code.String() != "Error" {
		t.Errorf("span status = %v, want Error", span.Status().Code)
	}

	var status int64
	for _, kv := range span.Attributes() {
		if kv.Key == "http.response.status_code" {
			status = kv.Value.AsInt64()
		}
	}
	if status != http.StatusBadGateway {
		t.Errorf("http.response.status_code = %d, want %d", status, http.StatusBadGateway)
	}
}
