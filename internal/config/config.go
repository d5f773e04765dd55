package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment. It is
// built once at startup and handed to constructors; nothing reads the process
// environment after Load returns.
type Config struct {
	AppEnv string
	Port   string

	// StripeWebhookSecret may be empty: the webhook handler then answers 500
	// on every delivery instead of failing startup.
	StripeWebhookSecret string

	MailProvider string `validate:"omitempty,oneof=sendgrid brevo"`
	SendGridKey  string
	BrevoKey     string
	BrevoBaseURL string
	MailTo       string `validate:"omitempty,email"`
	MailFrom     string `validate:"omitempty,email"`
	MailFromName string
	MailTimeout  time.Duration

	CORSAllowedOrigins []string
	WebhookBodyLimit   int64
	RateLimitEnabled   bool
	RateLimitMax       int64
	RateLimitWindow    time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:              valueOrDefault(k.String("APP_ENV"), "development"),
		Port:                valueOrDefault(k.String("PORT"), "8080"),
		StripeWebhookSecret: strings.TrimSpace(k.String("STRIPE_WEBHOOK_SECRET")),
		MailProvider:        strings.ToLower(valueOrDefault(k.String("MAIL_PROVIDER"), "sendgrid")),
		SendGridKey:         strings.TrimSpace(k.String("SENDGRID_API_KEY")),
		BrevoKey:            strings.TrimSpace(k.String("BREVO_API_KEY")),
		BrevoBaseURL:        strings.TrimSpace(k.String("BREVO_BASE_URL")),
		MailTo:              strings.TrimSpace(k.String("MAIL_TO")),
		MailFrom:            strings.TrimSpace(k.String("MAIL_FROM")),
		MailFromName:        valueOrDefault(k.String("MAIL_FROM_NAME"), "Stripe Webhooks"),
		MailTimeout:         parseDuration(k.String("MAIL_TIMEOUT"), "10s"),
		CORSAllowedOrigins:  splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		WebhookBodyLimit:    parseInt64(k.String("WEBHOOK_BODY_LIMIT_BYTES"), 1<<20),
		RateLimitEnabled:    parseBool(valueOrDefault(k.String("WEBHOOK_RATE_LIMIT_ENABLED"), "true")),
		RateLimitMax:        parseInt64(k.String("WEBHOOK_RATE_LIMIT_MAX"), 120),
		RateLimitWindow:     parseDuration(k.String("WEBHOOK_RATE_LIMIT_WINDOW"), "1m"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// WebhookConfigured reports whether the signing secret is present.
func (c *Config) WebhookConfigured() bool {
	return c.StripeWebhookSecret != ""
}

// MailKey returns the credential for the selected mail provider.
func (c *Config) MailKey() string {
	switch c.MailProvider {
	case "brevo":
		return c.BrevoKey
	default:
		return c.SendGridKey
	}
}

// MailConfigured reports whether notifications can actually be sent: a
// provider credential plus both addresses. Anything less degrades to
// logged-only notifications.
func (c *Config) MailConfigured() bool {
	return c.MailKey() != "" && c.MailTo != "" && c.MailFrom != ""
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt64(value string, fallback int64) int64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
