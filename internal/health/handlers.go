package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

var ready atomic.Bool

func init() { ready.Store(true) }

// SetReady flips the readiness gate. Shutdown flips it off before draining so
// the platform stops routing new deliveries here.
func SetReady(v bool) { ready.Store(v) }

// Checker reports the configuration state of the service's two duties.
type Checker interface {
	WebhookConfigured() bool
	MailConfigured() bool
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker Checker
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Up answers the root diagnostic route.
func (h Handler) Up(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("up"))
}

// Ready reports readiness. Missing mail config is degraded but serviceable
// (webhooks still answer 200); a missing signing secret means every delivery
// fails, so that one flips readiness.
func (h Handler) Ready(w http.ResponseWriter, _ *http.Request) {
	if !ready.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	webhookStatus := "ok"
	if !h.Checker.WebhookConfigured() {
		webhookStatus = "missing signing secret"
	}
	mailStatus := "ok"
	if !h.Checker.MailConfigured() {
		mailStatus = "not configured"
	}
	status := map[string]string{
		"webhook": webhookStatus,
		"mail":    mailStatus,
	}
	w.Header().Set("Content-Type", "application/json")
	if webhookStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}
