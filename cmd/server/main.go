package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sheikh-saqib/funds-transfer-core/internal/config"
	"github.com/sheikh-saqib/funds-transfer-core/internal/events/kafka"
	"github.com/sheikh-saqib/funds-transfer-core/internal/httpapi"
	"github.com/sheikh-saqib/funds-transfer-core/internal/ledger"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage"
	"github.com/sheikh-saqib/funds-transfer-core/internal/telemetry"
)

const serviceName = "funds-transfer-core"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    serviceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Environment,
		StoreDriver:    cfg.StoreDriver,
		Endpoint:       cfg.OTelEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("flush traces", "error", err)
		}
	}()

	store, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.StoreDriver,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("store opened", "driver", cfg.StoreDriver)
	if !cfg.Durable() {
		logger.Warn("memory store in use, balances are lost on restart")
	}

	if cfg.SeedDemo {
		if err := storage.SeedDemo(ctx, store); err != nil {
			return err
		}
		logger.Info("demo accounts seeded", "user_id", storage.DemoUserID)
	}

	opts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithMaxAttempts(cfg.MaxAttempts),
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		opts = append(opts, ledger.WithPublisher(publisher))
		logger.Info("publishing transfer events", "brokers", cfg.KafkaBrokers)
	}
	ledgerService := ledger.NewLedger(store, store, store, opts...)

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           httpapi.NewRouter(ledgerService, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
