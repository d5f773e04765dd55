package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/stripe-notify/internal/common"
	"github.com/noah-isme/stripe-notify/internal/config"
	"github.com/noah-isme/stripe-notify/internal/health"
	"github.com/noah-isme/stripe-notify/internal/mail"
	"github.com/noah-isme/stripe-notify/internal/notify"
	"github.com/noah-isme/stripe-notify/internal/obs"
	"github.com/noah-isme/stripe-notify/internal/ratelimit"
	"github.com/noah-isme/stripe-notify/internal/resilience"
	"github.com/noah-isme/stripe-notify/internal/security"
	"github.com/noah-isme/stripe-notify/internal/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "stripe_notify")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "stripe-notify",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			Exporter:      envOrDefault("OBS_TRACING_EXPORTER", "otlp"),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				ctx := context.Background()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	if !cfg.WebhookConfigured() {
		logger.Warn().Msg("STRIPE_WEBHOOK_SECRET unset; webhook deliveries will be rejected with 500")
	}

	senders := map[string]mail.Sender{
		"sendgrid": mail.SendGrid{
			APIKey:   cfg.SendGridKey,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
		},
		"brevo": mail.Brevo{
			APIKey:   cfg.BrevoKey,
			BaseURL:  cfg.BrevoBaseURL,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
			Client: resilience.HTTPClient{
				Client:      &http.Client{Timeout: cfg.MailTimeout},
				Breaker:     resilience.NewBreaker(5, 0.5, 30*time.Second).WithTarget("brevo").WithLogger(logger),
				MaxAttempts: 2,
				BaseBackoff: 250 * time.Millisecond,
				Jitter:      0.2,
				Timeout:     cfg.MailTimeout,
			},
		},
	}
	var sender mail.Sender
	if cfg.MailConfigured() {
		sender = senders[cfg.MailProvider]
		if sender == nil {
			sender = senders["sendgrid"]
		}
	} else {
		logger.Warn().Msg("mail credentials incomplete; notifications will be skipped")
	}

	notifier := notify.EmailNotifier{
		Mail:     sender,
		To:       cfg.MailTo,
		Provider: cfg.MailProvider,
		Logger:   logger.With().Str("component", "notify").Logger(),
	}
	dispatcher := notify.Dispatcher{
		Notifier: notifier,
		Logger:   logger.With().Str("component", "dispatch").Logger(),
	}
	webhookHandler := webhook.Handler{
		Secret:     cfg.StripeWebhookSecret,
		Dispatcher: dispatcher,
		Logger:     logger.With().Str("component", "webhook").Logger(),
	}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Stripe-Signature"},
		MaxAge:         300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{Checker: cfg}
	r.Get("/", healthHandler.Up)
	r.Get("/healthz", healthHandler.Live)
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	// Webhook routes stay free of any JSON parsing middleware; the signature
	// is computed over the exact bytes Stripe sent.
	r.Group(func(wh chi.Router) {
		wh.Use(security.BodyLimit{Max: cfg.WebhookBodyLimit}.Middleware)
		if cfg.RateLimitEnabled {
			wh.Use(ratelimit.Handler{
				Limiter: ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow),
				Key:     common.ClientIP,
				OnError: func(err error) {
					logger.Error().Err(err).Msg("rate limiter")
				},
			}.Middleware)
		}
		wh.Post("/webhook", webhookHandler.Handle)
		wh.Post("/stripe/webhook", webhookHandler.Handle)
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	logger.Info().Msg("server stopped")
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}
