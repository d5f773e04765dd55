package webhook

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v82"
	stripewh "github.com/stripe/stripe-go/v82/webhook"

	"github.com/noah-isme/stripe-notify/internal/common"
	"github.com/noah-isme/stripe-notify/internal/obs"
)

// Dispatcher processes a verified event. A non-nil error signals the provider
// to redeliver via a 500 response.
type Dispatcher interface {
	Dispatch(ctx context.Context, evt stripe.Event) error
}

// Handler receives Stripe event deliveries, verifies the Stripe-Signature
// header against the raw request bytes and forwards verified events to the
// dispatcher. The body must reach the verifier exactly as received: this
// route carries no JSON middleware and nothing re-encodes the payload before
// verification.
type Handler struct {
	Secret     string
	Dispatcher Dispatcher
	Logger     zerolog.Logger
}

// Handle implements the webhook route.
func (h Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(h.Secret) == "" {
		h.Logger.Error().Msg("missing webhook signing secret")
		h.count("not_configured")
		common.Text(w, http.StatusInternalServerError, "server not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.Logger.Error().Err(err).Msg("read webhook payload")
		h.count("read_error")
		common.Text(w, http.StatusBadRequest, "unable to read payload")
		return
	}

	evt, err := stripewh.ConstructEventWithOptions(body, r.Header.Get("Stripe-Signature"), h.Secret,
		stripewh.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		h.Logger.Warn().Err(err).Msg("webhook signature verification failed")
		h.count("invalid_signature")
		common.Text(w, http.StatusBadRequest, fmt.Sprintf("webhook error: %v", err))
		return
	}

	h.Logger.Info().Str("event_id", evt.ID).Str("type", string(evt.Type)).Msg("received event")

	if err := h.dispatch(r.Context(), evt); err != nil {
		h.Logger.Error().Err(err).Str("event_id", evt.ID).Str("type", string(evt.Type)).Msg("process webhook event")
		h.count("process_error")
		common.Text(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.count("ok")
	common.Text(w, http.StatusOK, "[OK]")
}

// dispatch wraps the dispatcher in a failure boundary so a panic over a
// verified-but-surprising payload becomes a 500, never a crashed connection.
func (h Handler) dispatch(ctx context.Context, evt stripe.Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("dispatch panic: %v", rec)
		}
	}()
	if h.Dispatcher == nil {
		return fmt.Errorf("no dispatcher configured")
	}
	return h.Dispatcher.Dispatch(ctx, evt)
}

func (h Handler) count(result string) {
	if obs.StripeWebhookTotal != nil {
		obs.StripeWebhookTotal.WithLabelValues(result).Inc()
	}
}
