package utils

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestIDMintsAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Fatalf("expected minted id in header and context, got %q / %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Fatalf("expected incoming id to be reused, got %q", seen)
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/performance", nil))

	out := buf.String()
	if !strings.Contains(out, `"status":418`) || !strings.Contains(out, `"path":"/performance"`) {
		t.Fatalf("unexpected log line: %s", out)
	}
}

func TestStatusWriterIsShared(t *testing.T) {
	rec := httptest.NewRecorder()
	outer := NewStatusWriter(rec)
	inner := NewStatusWriter(outer)
	if inner != outer {
		t.Fatal("wrapping a StatusWriter should reuse it")
	}
	inner.WriteHeader(http.StatusNotFound)
	if outer.Status != http.StatusNotFound || rec.Code != http.StatusNotFound {
		t.Fatalf("status not recorded: %d / %d", outer.Status, rec.Code)
	}
	if NewStatusWriter(httptest.NewRecorder()).Status != http.StatusOK {
		t.Fatal("default status should be 200")
	}
}
