package adapthttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := &Server{log: zap.New(core)}

	var seenID string
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = requestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})
	handler := s.loggingMiddleware(nextHandler)

	req := httptest.NewRequest(http.MethodGet, "/test-path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}
	id := w.Header().Get(requestIDHeader)
	if id == "" || id != seenID {
		t.Errorf("expected generated request id in header and context, got %q and %q", id, seenID)
	}

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "GET" || fields["path"] != "/test-path" || fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("log entry missing expected fields: %v", fields)
	}
	if fields["request_id"] != id {
		t.Errorf("expected request_id %q, got %v", id, fields["request_id"])
	}
}

func TestLoggingMiddlewareKeepsRequestID(t *testing.T) {
	s := &Server{log: zap.NewNop()}
	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}
}
