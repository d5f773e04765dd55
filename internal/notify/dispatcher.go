package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	stripe "github.com/stripe/stripe-go/v82"

	"github.com/noah-isme/stripe-notify/internal/event"
	"github.com/noah-isme/stripe-notify/internal/obs"
)

// Dispatcher turns a verified Stripe event into at most one operator
// notification. Unrecognized event types are accepted silently; Stripe sends
// plenty the operator does not care about and none of them are errors.
type Dispatcher struct {
	Notifier Notifier
	Logger   zerolog.Logger
}

// Dispatch maps the event's kind onto a subject/body pair and hands it to the
// notifier. A non-nil error means the payload of an authenticated event could
// not be interpreted; callers answer 500 so the provider redelivers.
func (d Dispatcher) Dispatch(ctx context.Context, evt stripe.Event) error {
	kind := event.KindOf(string(evt.Type))
	if obs.StripeEventTotal != nil {
		obs.StripeEventTotal.WithLabelValues(kind.String()).Inc()
	}

	var raw []byte
	if evt.Data != nil {
		raw = evt.Data.Raw
	}

	switch kind {
	case event.KindPaymentIntentProcessing:
		var pi event.PaymentIntent
		if err := event.Decode(raw, &pi); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		amount := orUnknownAmount(pi.RequestedAmount())
		d.notify(ctx, "Stripe: payment in progress",
			fmt.Sprintf("PaymentIntent %s is processing for %s.", pi.ID, amount))

	case event.KindPaymentIntentSucceeded:
		var pi event.PaymentIntent
		if err := event.Decode(raw, &pi); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		amount := orUnknownAmount(pi.SettledAmount())
		d.notify(ctx, "Stripe: payment succeeded",
			fmt.Sprintf("PaymentIntent %s succeeded for %s.", pi.ID, amount))

	case event.KindPaymentIntentFailed:
		var pi event.PaymentIntent
		if err := event.Decode(raw, &pi); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		d.notify(ctx, "Stripe: payment failed",
			fmt.Sprintf("PaymentIntent %s failed. Reason: %s.", pi.ID, pi.FailureReason()))

	case event.KindPaymentIntentCanceled:
		var pi event.PaymentIntent
		if err := event.Decode(raw, &pi); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		d.notify(ctx, "Stripe: payment canceled",
			fmt.Sprintf("PaymentIntent %s was canceled.", pi.ID))

	case event.KindCheckoutSessionCompleted:
		var s event.CheckoutSession
		if err := event.Decode(raw, &s); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		d.notify(ctx, "Stripe: checkout completed",
			fmt.Sprintf("Checkout %s completed. Mode: %s. Total: %s.", s.ID, s.Mode, s.Total()))

	case event.KindInvoicePaid:
		var inv event.Invoice
		if err := event.Decode(raw, &inv); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		amount := orUnknownAmount(inv.PaidAmount())
		d.notify(ctx, "Stripe: invoice paid",
			fmt.Sprintf("Invoice %s paid for %s.", inv.ID, amount))

	case event.KindChargeSucceeded:
		var ch event.Charge
		if err := event.Decode(raw, &ch); err != nil {
			return fmt.Errorf("%s: %w", kind, err)
		}
		amount := orUnknownAmount(ch.ChargedAmount())
		d.notify(ctx, "Stripe: charge succeeded",
			fmt.Sprintf("Charge %s succeeded for %s.", ch.ID, amount))

	case event.KindUnhandled:
		d.Logger.Info().Str("type", string(evt.Type)).Msg("event not handled")
	}

	return nil
}

func (d Dispatcher) notify(ctx context.Context, subject, body string) {
	if d.Notifier == nil {
		d.Logger.Warn().Str("subject", subject).Msg("no notifier configured")
		return
	}
	d.Notifier.Notify(ctx, subject, body)
}

func orUnknownAmount(formatted string, ok bool) string {
	if !ok {
		return "?"
	}
	return formatted
}
