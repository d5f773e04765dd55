package event

import "strings"

// Kind identifies the Stripe event types this service reacts to. Everything
// else maps to KindUnhandled, which is accepted without a notification.
type Kind int

const (
	KindUnhandled Kind = iota
	KindPaymentIntentProcessing
	KindPaymentIntentSucceeded
	KindPaymentIntentFailed
	KindPaymentIntentCanceled
	KindCheckoutSessionCompleted
	KindInvoicePaid
	KindChargeSucceeded
)

// KindOf maps a raw Stripe event type tag onto the recognized set.
func KindOf(eventType string) Kind {
	switch strings.TrimSpace(eventType) {
	case "payment_intent.processing":
		return KindPaymentIntentProcessing
	case "payment_intent.succeeded":
		return KindPaymentIntentSucceeded
	case "payment_intent.payment_failed":
		return KindPaymentIntentFailed
	case "payment_intent.canceled":
		return KindPaymentIntentCanceled
	case "checkout.session.completed":
		return KindCheckoutSessionCompleted
	case "invoice.paid":
		return KindInvoicePaid
	case "charge.succeeded":
		return KindChargeSucceeded
	default:
		return KindUnhandled
	}
}

func (k Kind) String() string {
	switch k {
	case KindPaymentIntentProcessing:
		return "payment_intent.processing"
	case KindPaymentIntentSucceeded:
		return "payment_intent.succeeded"
	case KindPaymentIntentFailed:
		return "payment_intent.payment_failed"
	case KindPaymentIntentCanceled:
		return "payment_intent.canceled"
	case KindCheckoutSessionCompleted:
		return "checkout.session.completed"
	case KindInvoicePaid:
		return "invoice.paid"
	case KindChargeSucceeded:
		return "charge.succeeded"
	default:
		return "unhandled"
	}
}
