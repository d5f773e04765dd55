package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":                    "",
		"PORT":                       "",
		"STRIPE_WEBHOOK_SECRET":      "",
		"MAIL_PROVIDER":              "",
		"SENDGRID_API_KEY":           "",
		"BREVO_API_KEY":              "",
		"MAIL_TO":                    "",
		"MAIL_FROM":                  "",
		"MAIL_FROM_NAME":             "",
		"MAIL_TIMEOUT":               "",
		"WEBHOOK_BODY_LIMIT_BYTES":   "",
		"WEBHOOK_RATE_LIMIT_ENABLED": "",
		"WEBHOOK_RATE_LIMIT_MAX":     "",
		"WEBHOOK_RATE_LIMIT_WINDOW":  "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "sendgrid", cfg.MailProvider)
	require.Equal(t, "Stripe Webhooks", cfg.MailFromName)
	require.Equal(t, 10*time.Second, cfg.MailTimeout)
	require.Equal(t, int64(1<<20), cfg.WebhookBodyLimit)
	require.True(t, cfg.RateLimitEnabled)
	require.Equal(t, int64(120), cfg.RateLimitMax)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.False(t, cfg.WebhookConfigured())
	require.False(t, cfg.MailConfigured())
}

func TestLoadRejectsInvalidRecipient(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"MAIL_TO": "not-an-address",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "validate config")
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"MAIL_PROVIDER": "pigeon",
	})
	require.Error(t, err)
}

func TestMailKeyFollowsProvider(t *testing.T) {
	cfg := &Config{MailProvider: "brevo", BrevoKey: "bk", SendGridKey: "sk"}
	require.Equal(t, "bk", cfg.MailKey())

	cfg.MailProvider = "sendgrid"
	require.Equal(t, "sk", cfg.MailKey())
}

func TestMailConfiguredNeedsAllThree(t *testing.T) {
	cfg := &Config{MailProvider: "sendgrid", SendGridKey: "sk", MailTo: "ops@example.com", MailFrom: "noreply@example.com"}
	require.True(t, cfg.MailConfigured())

	cfg.MailTo = ""
	require.False(t, cfg.MailConfigured())
}

func TestHTTPAddrKeepsExplicitColon(t *testing.T) {
	cfg := &Config{Port: ":9090"}
	require.Equal(t, ":9090", cfg.HTTPAddr())

	cfg.Port = "3000"
	require.Equal(t, ":3000", cfg.HTTPAddr())
}

func TestMissingSecretIsNotFatal(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"STRIPE_WEBHOOK_SECRET": "",
		"MAIL_TO":               "",
		"MAIL_PROVIDER":         "",
	})
	require.NoError(t, err)
	require.False(t, cfg.WebhookConfigured())
}
