package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/rs/zerolog/log"

	v1 "github.com/vitrinhq/vitrin/internal/api/v1"
	"github.com/vitrinhq/vitrin/internal/api/ws"
	"github.com/vitrinhq/vitrin/internal/config"
	"github.com/vitrinhq/vitrin/internal/realtime"
	"github.com/vitrinhq/vitrin/internal/server/middleware"
	"github.com/vitrinhq/vitrin/internal/store/postgres"
	redisstore "github.com/vitrinhq/vitrin/internal/store/redis"
	"github.com/vitrinhq/vitrin/internal/tenant"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	feed       *redisstore.ChangeFeed
	resolver   *tenant.Resolver
	wsHub      *ws.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired.
//
// Every route group below the tenant middleware sees requests scoped to the
// shop resolved from the Host header; admin groups additionally require a
// bearer token whose tenant claim matches that resolution.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, feed *redisstore.ChangeFeed, resolver *tenant.Resolver, invalidations *realtime.Manager, svc *v1.Services) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	hub := ws.NewHub(feed)

	s := &Server{
		router:   router,
		store:    store,
		feed:     feed,
		resolver: resolver,
		wsHub:    hub,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1 with two sub-groups:
	// 1. Public storefront routes, scoped by hostname resolution alone.
	// 2. Admin routes, additionally behind JWT auth and a tenant requirement.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ResolveTenant(resolver))
		r.Use(ensureInvalidation(invalidations))

		// Public storefront reads.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitByIP(ctx, 50, 100))

			storefrontConfig := huma.DefaultConfig("Vitrin Storefront API", "1.0.0")
			storefrontConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			storefrontAPI := humachi.New(r, storefrontConfig)
			registerStorefrontRoutes(storefrontAPI, svc)
		})

		// Admin routes (dashboard and platform operators).
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT.Secret))
			r.Use(middleware.RequireTenant())
			r.Use(middleware.RateLimit(ctx, 25, 50))

			adminConfig := huma.DefaultConfig("Vitrin Admin API", "1.0.0")
			adminConfig.Servers = []*huma.Server{
				{URL: "/api/v1"},
			}
			adminAPI := humachi.New(r, adminConfig)
			registerAdminRoutes(adminAPI, svc)
		})
	})

	// WebSocket routes: the storefront event stream is public and scoped by
	// hostname resolution, same as the storefront reads.
	router.Route("/ws", func(r chi.Router) {
		r.Use(middleware.ResolveTenant(resolver))
		registerWSRoutes(r, hub)
	})

	// Health check (unauthenticated).
	router.Get("/healthz", s.handleHealthz)

	return s
}

// ensureInvalidation lazily starts the change-feed subscription for the
// resolved tenant so cached reads stay coherent with writes. Failure to
// subscribe is logged, not fatal: reads still refetch per their policy.
func ensureInvalidation(mgr *realtime.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if res, ok := middleware.ResolutionFromContext(r.Context()); ok && res.Kind == tenant.KindTenant {
				if err := mgr.Ensure(res.TenantID()); err != nil {
					log.Warn().Err(err).Msg("change feed subscription unavailable")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// handleHealthz reports component reachability. Degraded components flip the
// status but the endpoint still answers 200 so probes can tell "slow" from
// "down".
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	db := "ok"
	feed := "ok"

	if err := s.store.Ping(r.Context()); err != nil {
		status, db = "degraded", "unreachable"
	}
	if err := s.feed.Ping(r.Context()); err != nil {
		status, feed = "degraded", "unreachable"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status":%q,"database":%q,"change_feed":%q}`, status, db, feed)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
