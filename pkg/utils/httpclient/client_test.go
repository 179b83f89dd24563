package httpclient

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestDoRequestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 3)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := client.DoRequest(req)
	if err != nil {
		t.Fatalf("DoRequest: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestDoRequestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 3)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)

	resp, err := client.DoRequest(req)
	if err != nil {
		t.Fatalf("DoRequest: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got := calls.Load(); got != 1 {
		t.Errorf("4xx must not be retried, server called %d times", got)
	}
}

func TestDoRequestReplaysBodyOnRetry(t *testing.T) {
	var calls atomic.Int32
	bodies := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(r.Body)
		bodies <- buf.String()
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 2)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL,
		bytes.NewReader([]byte(`{"question":"what do you build?"}`)))

	resp, err := client.DoRequest(req)
	if err != nil {
		t.Fatalf("DoRequest: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	first, second := <-bodies, <-bodies
	if first != second || second != `{"question":"what do you build?"}` {
		t.Errorf("retry body mismatch: %q vs %q", first, second)
	}
}

func TestDoJSONDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"Go and Flutter","sources":[]}`))
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 0)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)

	var out struct {
		Answer  string        `json:"answer"`
		Sources []interface{} `json:"sources"`
	}
	if err := client.DoJSON(req, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Answer != "Go and Flutter" {
		t.Errorf("answer = %q", out.Answer)
	}
}

func TestDoJSONStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(5*time.Second, 0)
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL, nil)

	if err := client.DoJSON(req, nil); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestInjectTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	client := NewClient(time.Second, 0)

	// with an active span, the traceparent header is injected
	ctx, span := tp.Tracer("test").Start(context.Background(), "fetch-records")
	defer span.End()
	req := httptest.NewRequest(http.MethodGet, "http://example.com/records.json", nil).WithContext(ctx)
	client.injectTraceContext(req)
	if req.Header.Get("traceparent") == "" {
		t.Error("traceparent header not injected")
	}

	// without a span, nothing is injected
	bare := httptest.NewRequest(http.MethodGet, "http://example.com/records.json", nil)
	client.injectTraceContext(bare)
	if got := bare.Header.Get("traceparent"); got != "" {
		t.Errorf("unexpected traceparent: %s", got)
	}
}
