package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/stripe-notify/internal/mail"
	"github.com/noah-isme/stripe-notify/internal/obs"
)

// Notifier delivers an operator notification. Implementations must not
// propagate delivery failures: a broken mail integration must never change
// the webhook's HTTP response.
type Notifier interface {
	Notify(ctx context.Context, subject, body string)
}

// EmailNotifier sends each notification as a single plaintext email to a
// fixed operator address. All failures terminate here: they are logged with
// enough detail to diagnose and then dropped.
type EmailNotifier struct {
	Mail     mail.Sender
	To       string
	Provider string
	Logger   zerolog.Logger
}

// Notify implements Notifier.
func (n EmailNotifier) Notify(ctx context.Context, subject, body string) {
	if n.Mail == nil || strings.TrimSpace(n.To) == "" {
		n.Logger.Warn().Str("subject", subject).Msg("notification not configured")
		n.count("skipped", 0)
		return
	}

	attemptID := uuid.NewString()
	start := time.Now()
	if err := n.Mail.Send(ctx, n.To, subject, body); err != nil {
		n.Logger.Error().
			Err(err).
			Str("attempt_id", attemptID).
			Str("provider", n.provider()).
			Str("subject", subject).
			Msg("send notification")
		n.count("error", time.Since(start))
		return
	}
	n.Logger.Info().
		Str("attempt_id", attemptID).
		Str("provider", n.provider()).
		Str("subject", subject).
		Msg("notification sent")
	n.count("ok", time.Since(start))
}

func (n EmailNotifier) provider() string {
	if n.Provider == "" {
		return "unknown"
	}
	return n.Provider
}

func (n EmailNotifier) count(result string, took time.Duration) {
	if obs.NotificationTotal != nil {
		obs.NotificationTotal.WithLabelValues(n.provider(), result).Inc()
	}
	if obs.NotificationLatency != nil && result != "skipped" {
		obs.NotificationLatency.WithLabelValues(n.provider(), result).Observe(obs.DurationMillis(took))
	}
}
