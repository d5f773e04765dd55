package security

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBodyLimitAllowsSmallPayload(t *testing.T) {
	var seen []byte
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		seen = body
		w.WriteHeader(http.StatusOK)
	})

	payload := []byte(`{"id":"evt_1"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	BodyLimit{Max: 1024}.Middleware(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !bytes.Equal(seen, payload) {
		t.Fatalf("body changed in transit: %q", seen)
	}
}

func TestBodyLimitRejectsOversizedPayload(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(strings.Repeat("a", 64)))
	rr := httptest.NewRecorder()
	BodyLimit{Max: 16}.Middleware(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestBodyLimitRejectsByContentLength(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("short"))
	req.ContentLength = 1 << 30
	rr := httptest.NewRecorder()
	BodyLimit{Max: 1024}.Middleware(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestBodyLimitDisabledPassesThrough(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(strings.Repeat("a", 4096)))
	rr := httptest.NewRecorder()
	BodyLimit{}.Middleware(next).ServeHTTP(rr, req)

	if !called {
		t.Fatal("handler should run when limit is disabled")
	}
}
