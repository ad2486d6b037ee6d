package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/option"

	"github.com/bjarke-xyz/startup-dashboard/internal/config"
	"github.com/bjarke-xyz/startup-dashboard/internal/format"
	serverPkg "github.com/bjarke-xyz/startup-dashboard/internal/server"
	"github.com/bjarke-xyz/startup-dashboard/internal/service"
)

func ServerCmd(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger := newLogger(cfg, "dashboard")

	repo, closeRepo, err := newApplicationRepository(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("error opening %v store: %w", cfg.StoreDriver, err)
	}
	defer closeRepo()

	funding, err := format.NewFundingFormatter(cfg.FundingFormat, cfg.CurrencySymbol, cfg.FundingLocale)
	if err != nil {
		return err
	}

	opts := serverPkg.Options{
		Startups:   service.NewStartupService(repo, logger, cfg.StoreDriver),
		Funding:    funding,
		Dates:      format.NewDates(cfg.DisplayTimezone),
		ApiKeyHash: cfg.ApiKeyHash,
	}
	if cfg.AuthEnabled() {
		opt := option.WithCredentialsJSON([]byte(cfg.GoogleCredentialsJSON))
		app, err := firebase.NewApp(ctx, nil, opt)
		if err != nil {
			return fmt.Errorf("error initializing app: %w", err)
		}
		authClient, err := app.Auth(ctx)
		if err != nil {
			return fmt.Errorf("error getting firebase auth: %w", err)
		}
		opts.Verifier = authClient
		opts.AuthClient = service.NewFirebaseAuthRestClient(cfg.FirebaseWebApiKey, cfg.FirebaseProjectId)
	} else {
		logger.Warn("firebase credentials not configured, dashboard login is disabled")
	}

	server, err := serverPkg.NewServer(ctx, logger, opts)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	srv := server.Server(cfg.Port)

	// metrics
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.MetricsPort), mux)
		if err != nil {
			logger.Error("metrics server stopped", "error", err)
		}
	}()

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
		}
	}()
	logger.Info("started server", slog.Int("port", cfg.Port), slog.String("store", cfg.StoreDriver))
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	return nil
}
