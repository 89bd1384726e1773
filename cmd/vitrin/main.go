package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	v1 "github.com/vitrinhq/vitrin/internal/api/v1"
	"github.com/vitrinhq/vitrin/internal/cache"
	"github.com/vitrinhq/vitrin/internal/config"
	"github.com/vitrinhq/vitrin/internal/entitlement"
	"github.com/vitrinhq/vitrin/internal/realtime"
	"github.com/vitrinhq/vitrin/internal/server"
	"github.com/vitrinhq/vitrin/internal/store/postgres"
	redisstore "github.com/vitrinhq/vitrin/internal/store/redis"
	"github.com/vitrinhq/vitrin/internal/tenant"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("VITRIN_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("VITRIN_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis.
	feed, err := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer feed.Close()

	// Tenant resolution by hostname, memoized per host.
	resolver := tenant.NewResolver(store.Tenants(), store.DomainBindings(), cfg.Platform.Domain, cfg.Platform.ResolverMemoTTL)
	defer resolver.Close()

	// Query cache and entitlements.
	queryCache := cache.New()
	entitlements := entitlement.NewResolver(store.TenantLimits())
	gate := entitlement.NewGate(entitlements)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Change-feed subscriptions keep the query cache coherent with writes.
	invalidations := realtime.NewManager(ctx, queryCache, feed)
	defer invalidations.StopAll()

	svc := &v1.Services{
		Store:         store,
		Cache:         queryCache,
		Entitlements:  entitlements,
		Gate:          gate,
		Publisher:     feed,
		ContentPolicy: cache.Policy{StaleTime: cfg.Cache.ContentStaleTime},
		NavPolicy:     cache.Policy{StaleTime: cfg.Cache.ContentStaleTime, DropOnInvalidate: true},
		FeaturePolicy: cache.Policy{StaleTime: cfg.Cache.FeatureStaleTime},
	}

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, feed, resolver, invalidations, svc)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("platform_domain", cfg.Platform.Domain).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
