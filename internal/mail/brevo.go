package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/noah-isme/stripe-notify/internal/resilience"
)

const brevoDefaultBaseURL = "https://api.brevo.com"

// Brevo submits plaintext mail through the Brevo transactional email API.
// The call goes through the resilience client so transient provider errors
// are retried and repeated failures trip the breaker instead of piling up.
type Brevo struct {
	APIKey   string
	BaseURL  string
	From     string
	FromName string
	Client   resilience.HTTPClient
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoSendRequest struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
}

// Send implements Sender.
func (b Brevo) Send(ctx context.Context, to, subject, text string) error {
	if strings.TrimSpace(b.APIKey) == "" {
		return fmt.Errorf("brevo: missing api key")
	}
	payload, err := json.Marshal(brevoSendRequest{
		Sender:      brevoAddress{Email: b.From, Name: b.FromName},
		To:          []brevoAddress{{Email: to}},
		Subject:     subject,
		TextContent: text,
	})
	if err != nil {
		return fmt.Errorf("brevo: encode request: %w", err)
	}

	url := strings.TrimRight(b.BaseURL, "/")
	if url == "" {
		url = brevoDefaultBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url+"/v3/smtp/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("brevo: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", b.APIKey)

	resp, err := b.Client.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("brevo: submit: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("brevo: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
