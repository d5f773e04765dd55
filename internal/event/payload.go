package event

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/stripe-notify/internal/money"
)

// The view types below decode just the fields the dispatcher renders. Stripe
// payloads carry far more; everything not listed is ignored, and every listed
// optional field tolerates absence.

// PaymentIntent is the payload view for payment_intent.* events.
type PaymentIntent struct {
	ID               string `json:"id"`
	Amount           *int64 `json:"amount"`
	AmountReceived   *int64 `json:"amount_received"`
	Currency         string `json:"currency"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

// SettledAmount prefers amount_received over amount, mirroring what Stripe
// reports once funds are captured.
func (p PaymentIntent) SettledAmount() (string, bool) {
	if p.AmountReceived != nil && *p.AmountReceived > 0 {
		return money.Format(*p.AmountReceived, p.Currency), true
	}
	return p.RequestedAmount()
}

// RequestedAmount formats the intent's requested amount when present.
func (p PaymentIntent) RequestedAmount() (string, bool) {
	if p.Amount == nil {
		return "", false
	}
	return money.Format(*p.Amount, p.Currency), true
}

// FailureReason surfaces the provider's error message, falling back to
// "unknown" when the nested field is absent.
func (p PaymentIntent) FailureReason() string {
	if p.LastPaymentError == nil || p.LastPaymentError.Message == "" {
		return "unknown"
	}
	return p.LastPaymentError.Message
}

// CheckoutSession is the payload view for checkout.session.completed.
type CheckoutSession struct {
	ID          string `json:"id"`
	Mode        string `json:"mode"`
	AmountTotal *int64 `json:"amount_total"`
	Currency    string `json:"currency"`
}

// Total renders the session total, substituting "?" when Stripe omitted it.
func (s CheckoutSession) Total() string {
	if s.AmountTotal == nil {
		return "?"
	}
	return money.Format(*s.AmountTotal, s.Currency)
}

// Invoice is the payload view for invoice.paid.
type Invoice struct {
	ID         string `json:"id"`
	AmountPaid *int64 `json:"amount_paid"`
	Currency   string `json:"currency"`
}

// PaidAmount formats amount_paid when present.
func (i Invoice) PaidAmount() (string, bool) {
	if i.AmountPaid == nil {
		return "", false
	}
	return money.Format(*i.AmountPaid, i.Currency), true
}

// Charge is the payload view for charge.succeeded.
type Charge struct {
	ID       string `json:"id"`
	Amount   *int64 `json:"amount"`
	Currency string `json:"currency"`
}

// ChargedAmount formats the charge amount when present.
func (c Charge) ChargedAmount() (string, bool) {
	if c.Amount == nil {
		return "", false
	}
	return money.Format(*c.Amount, c.Currency), true
}

// Decode unmarshals a verified event's raw object payload into the provided
// view. A failure here means Stripe authenticated the delivery but the body
// shape is not what we expect, which callers treat as a processing error.
func Decode(raw json.RawMessage, view any) error {
	if len(raw) == 0 {
		return fmt.Errorf("event payload: empty object")
	}
	if err := json.Unmarshal(raw, view); err != nil {
		return fmt.Errorf("event payload: decode object: %w", err)
	}
	return nil
}
