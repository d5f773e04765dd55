package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeChecker struct {
	webhook bool
	mail    bool
}

func (f fakeChecker) WebhookConfigured() bool { return f.webhook }
func (f fakeChecker) MailConfigured() bool    { return f.mail }

func TestLive(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler{}.Live(rr, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Fatalf("expected body ok, got %q", rr.Body.String())
	}
}

func TestUp(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler{}.Up(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Body.String() != "up" {
		t.Fatalf("expected body up, got %q", rr.Body.String())
	}
}

func TestReadyWithFullConfig(t *testing.T) {
	SetReady(true)
	rr := httptest.NewRecorder()
	Handler{Checker: fakeChecker{webhook: true, mail: true}}.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var status map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status["webhook"] != "ok" || status["mail"] != "ok" {
		t.Fatalf("unexpected status: %v", status)
	}
}

func TestReadyDegradedWithoutMail(t *testing.T) {
	SetReady(true)
	rr := httptest.NewRecorder()
	Handler{Checker: fakeChecker{webhook: true, mail: false}}.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("missing mail config should stay ready, got %d", rr.Code)
	}
	var status map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if status["mail"] != "not configured" {
		t.Fatalf("unexpected mail status: %q", status["mail"])
	}
}

func TestReadyFailsWithoutSigningSecret(t *testing.T) {
	SetReady(true)
	rr := httptest.NewRecorder()
	Handler{Checker: fakeChecker{webhook: false, mail: true}}.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestReadyGateFlipsDuringShutdown(t *testing.T) {
	SetReady(false)
	defer SetReady(true)

	rr := httptest.NewRecorder()
	Handler{Checker: fakeChecker{webhook: true, mail: true}}.Ready(rr, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while shutting down, got %d", rr.Code)
	}
}
