package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGrid submits plaintext mail through the SendGrid v3 API.
type SendGrid struct {
	APIKey   string
	From     string
	FromName string
}

// Send implements Sender.
func (s SendGrid) Send(ctx context.Context, to, subject, text string) error {
	if strings.TrimSpace(s.APIKey) == "" {
		return fmt.Errorf("sendgrid: missing api key")
	}
	from := sgmail.NewEmail(s.FromName, s.From)
	recipient := sgmail.NewEmail("", to)
	message := sgmail.NewSingleEmailPlainText(from, subject, recipient, text)

	client := sendgrid.NewSendClient(s.APIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: submit: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}
