// cmd/plana-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"plana-backend/internal/bookings"
	"plana-backend/internal/common/camunda"
	"plana-backend/internal/common/config"
	"plana-backend/internal/common/database"
	commonhttp "plana-backend/internal/common/http"
	"plana-backend/internal/common/logger"
	"plana-backend/internal/common/observability"
	"plana-backend/internal/email"
	"plana-backend/internal/server"
	emailsend "plana-backend/internal/workers/communication/email-send"
)

// retryWithBackoff runs operation until it succeeds or maxRetries is reached,
// doubling the delay after each failure.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewForEnvironment(cfg.IsProduction(), cfg.Logging.Level)
	defer func() { _ = zapLog.Sync() }()
	log := logger.NewZapAdapter(zapLog)

	log.Info(cfg.Mode().Tag()+" starting PLAN A backend", map[string]interface{}{
		"environment":     string(cfg.Mode()),
		"emailSimulated":  cfg.ShouldSimulateEmails(),
		"emailCredential": cfg.HasEmailCredential(),
		"emailTestMode":   cfg.EmailTestModeActive(),
		"downgradePolicy": cfg.Email.DowngradeProviderErrors,
		"bookingLookups":  cfg.Database.Postgres.Enabled(),
		"camundaEnabled":  cfg.Camunda.Enabled,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("observability init failed, request metrics disabled", map[string]interface{}{"error": err.Error()})
	}
	defer func() { _ = obs.Shutdown(context.Background()) }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Email chain ---
	settings := email.NewSettings(cfg)
	timeout := config.GetDuration(cfg.Email.Timeout)

	var sdk email.SDKClient
	if cfg.HasEmailCredential() {
		resendSDK, err := email.NewResendSDK(cfg.Email.Resend.APIKey, cfg.Email.Resend.Endpoint, timeout)
		if err != nil {
			log.Warn("resend SDK unavailable, using HTTP API only", map[string]interface{}{"error": err.Error()})
		} else {
			sdk = resendSDK
		}
	}

	mailer := email.NewService(email.ServiceDependencies{
		Logger:     log,
		SDK:        sdk,
		HTTPClient: commonhttp.NewClient(timeout),
	}, settings)

	// --- Booking lookups (optional) ---
	healthChecks := map[string]server.Pinger{}
	var lookup bookings.Lookup

	if cfg.Database.Postgres.Enabled() {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			log.Error("postgres unavailable, booking lookups disabled", map[string]interface{}{"error": err.Error()})
		} else {
			defer pg.Close()
			healthChecks["postgres"] = pg
			lookup = bookings.NewRepository(pg.DB)
		}
	}

	if lookup != nil && cfg.Database.Redis.Address != "" {
		redis := database.NewRedis(cfg.Database.Redis)
		err := retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 3, time.Second, log, "Redis connection")
		if err != nil {
			log.Warn("redis unavailable, booking cache disabled", map[string]interface{}{"error": err.Error()})
			_ = redis.Close()
		} else {
			defer redis.Close()
			healthChecks["redis"] = redis
			lookup = bookings.NewCachedRepository(lookup, redis.Client, time.Duration(cfg.Bookings.CacheTTL)*time.Second, log)
		}
	}

	renderer, err := bookings.NewRenderer(cfg.Bookings.DefaultLanguage)
	if err != nil {
		zapLog.Fatal("confirmation templates failed to load", zap.Error(err))
	}
	notifier := bookings.NewNotifier(lookup, renderer, mailer, log)

	// --- Email job worker (optional) ---
	if cfg.Camunda.Enabled {
		var zeebe *camunda.Client
		err := retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClient(ctx, cfg.Camunda)
			return err
		}, 5, 2*time.Second, log, "Zeebe client initialization")
		if err != nil {
			log.Error("zeebe unavailable, email job worker disabled", map[string]interface{}{"error": err.Error()})
		} else {
			defer zeebe.Close()
			healthChecks["zeebe"] = zeebe

			handler, err := emailsend.NewHandler(emailsend.HandlerOptions{
				AppConfig: cfg,
				Mailer:    mailer,
				Logger:    log,
			})
			if err != nil {
				zapLog.Fatal("email job worker config invalid", zap.Error(err))
			}
			handler.Register(zeebe)
			defer handler.Close()
		}
	}

	// --- HTTP API ---
	srv := server.New(server.Dependencies{
		Config:        cfg.Server,
		Environment:   cfg.Mode(),
		Logger:        log,
		Mailer:        mailer,
		Notifier:      notifier,
		Observability: obs,
		HealthChecks:  healthChecks,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-errCh:
		if err != nil {
			log.Error("http server stopped", map[string]interface{}{"error": err.Error()})
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("http server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	log.Info("PLAN A backend stopped", nil)
}
