// cmd/intake-relay/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"loan-intake/internal/common/aws"
	"loan-intake/internal/common/config"
	"loan-intake/internal/common/logger"
	"loan-intake/internal/common/observability"
	"loan-intake/internal/mailer"
	"loan-intake/internal/relay"
	"loan-intake/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake relay...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("transport", cfg.Mail.Transport),
	)

	if missing := config.MissingMailSettings(cfg.Mail); len(missing) > 0 {
		zapLog.Warn("mail settings incomplete; /apply will answer 500 until they are set",
			zap.Strings("missing", missing))
	}

	obs := observability.New("intake-relay")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Mail transport ---
	var transport mailer.Transport
	err = retryWithBackoff(func() error {
		var err error
		transport, err = mailer.NewTransport(ctx, cfg.Mail, log)
		return err
	}, 3, time.Second, zapLog, "Mail transport initialization")
	if err != nil {
		zapLog.Fatal("mail transport failed after retries", zap.Error(err))
	}
	zapLog.Info("Mail transport ready", zap.String("transport", transport.Name()))

	// --- Document registry ---
	docs := registry.DefaultRegistry()
	if cfg.Documents.RegistryPath != "" {
		docs, err = registry.LoadRegistry(cfg.Documents.RegistryPath)
		if err != nil {
			zapLog.Fatal("document registry load failed",
				zap.String("path", cfg.Documents.RegistryPath), zap.Error(err))
		}
	}

	// --- Operator SMS alert ---
	var alerter relay.Alerter
	if cfg.Alerts.SMS.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, cfg.Alerts.SMS.Region)
		if err != nil {
			zapLog.Fatal("SNS client init failed", zap.Error(err))
		}
		alerter = relay.NewSMSAlerter(snsClient, cfg.Alerts.SMS.PhoneNumber, cfg.Alerts.SMS.SenderID, log)
		zapLog.Info("SMS alerts enabled", zap.String("region", cfg.Alerts.SMS.Region))
	}

	handler, err := relay.NewHandler(relay.HandlerOptions{
		AppConfig:     cfg,
		Logger:        log,
		Transport:     transport,
		Alerter:       alerter,
		Observability: obs,
		Documents:     docs,
	})
	if err != nil {
		zapLog.Fatal("relay handler init failed", zap.Error(err))
	}

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	router := relay.NewRouter(relay.RouterOptions{
		Handler:        handler,
		Logger:         log,
		Observability:  obs,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Server.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Intake relay listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during server shutdown", zap.Error(err))
	}

	zapLog.Info("Intake relay stopped gracefully")
}
