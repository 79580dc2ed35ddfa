package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/maintain_ai/backend/internal/config"
	"github.com/maintain_ai/backend/internal/db"
	"github.com/maintain_ai/backend/internal/geocode"
	httpapi "github.com/maintain_ai/backend/internal/http"
	"github.com/maintain_ai/backend/internal/metrics"
	"github.com/maintain_ai/backend/internal/ratelimit"
	"github.com/maintain_ai/backend/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	var opts []db.Option
	if cfg.SeedDemoData {
		seed, err := db.LoadSeed()
		if err != nil {
			return err
		}
		opts = append(opts, db.WithSeed(seed))
	}
	store, err := db.New(opts...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialise store")
		return err
	}
	defer store.Close()

	m := metrics.New(prometheus.DefaultRegisterer)

	limiter, closeLimiter := newLimiter(cfg, logger)
	defer closeLimiter()

	deps := httpapi.Deps{
		Store: store,
		Issues: &service.IssueService{
			Store:      store,
			Classifier: newClassifier(cfg, logger, m),
			Metrics:    m,
			Logger:     logger,
		},
		Geocoder: geocode.NewNominatim(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, time.Second),
		Limiter:  limiter,
		Metrics:  m,
		Logger:   logger,
	}
	router := httpapi.Router(cfg, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
	return nil
}

// newLimiter uses Redis when an address is configured and reachable, and an
// in-process limiter otherwise.
func newLimiter(cfg config.Config, logger zerolog.Logger) (ratelimit.Limiter, func()) {
	if cfg.ReportLimitPerDay <= 0 {
		return ratelimit.Unlimited{}, func() {}
	}
	if cfg.RedisAddress == "" {
		return ratelimit.NewMemory(cfg.ReportLimitPerDay, ratelimit.DefaultWindow), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddress).Msg("redis unavailable; using in-memory rate limit")
		_ = client.Close()
		return ratelimit.NewMemory(cfg.ReportLimitPerDay, ratelimit.DefaultWindow), func() {}
	}
	logger.Info().Str("addr", cfg.RedisAddress).Msg("connected to redis")
	return ratelimit.NewRedis(client, cfg.ReportLimitPerDay, ratelimit.DefaultWindow), func() { _ = client.Close() }
}
