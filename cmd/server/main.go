package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/cache"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/gateway"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/handlers"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/middleware"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/order"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/relay"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/repository"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/service"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/session"
	"github.com/Lixing-Zhang/kart-challenge/pos-order/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", os.Getenv("POS_CONFIG"), "path to an optional YAML config file")
	flag.Parse()

	// Load configuration: defaults, file, environment
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.NewWithFile(cfg.Log.Level, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	slog.SetDefault(log)

	log.Info("starting pos order server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.Log.Level,
		"token_store", cfg.Session.TokenStore,
		"submission_guard", cfg.Submission.Guard,
		"relay_enabled", cfg.Relay.Enabled,
	)

	ctx := context.Background()
	healthHandler := handlers.NewHealthHandler(log)

	// Redis backs the token store and the in-flight guard when selected
	var rdb *redis.Client
	if cfg.UsesRedis() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("failed to connect to redis", "addr", cfg.Redis.Addr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		healthHandler.AddCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	var tokenStore session.TokenStore
	switch cfg.Session.TokenStore {
	case "redis":
		tokenStore = cache.NewRedisTokenStore(rdb)
	case "file":
		tokenStore = session.NewFileTokenStore(cfg.Session.TokenFile)
	default:
		tokenStore = session.NewMemoryTokenStore()
	}

	var guard service.InFlightGuard
	if cfg.Submission.Guard == "redis" {
		guard = cache.NewRedisSubmissionGuard(rdb, cfg.Submission.GuardTTL)
	} else {
		guard = service.NewMemoryGuard()
	}

	sess, err := session.New(ctx, tokenStore, cfg.Session.Token)
	if err != nil {
		log.Error("failed to restore session", "error", err)
		os.Exit(1)
	}
	log.Info("session restored", "token_set", sess.Token() != "")

	// Remote API client, through the relay when one is configured
	var endpoint gateway.Endpoint = gateway.DirectEndpoint{BaseURL: cfg.Gateway.BaseURL}
	if cfg.Gateway.RelayURL != "" {
		endpoint = gateway.RelayEndpoint{RelayURL: cfg.Gateway.RelayURL}
	}
	client := gateway.NewClient(endpoint, cfg.Gateway.Timeout, log)

	// Initialize repositories
	directoryRepo := repository.NewInMemoryDirectoryRepository()

	// Initialize services
	catalogService := service.NewCatalogService(directoryRepo, client, sess, log)
	coordinator := service.NewCoordinator(client, guard, order.NewPayloadBuilder(nil), log)
	orderService := service.NewOrderService(sess, catalogService, coordinator, log)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(sess, log)
	catalogHandler := handlers.NewCatalogHandler(catalogService, log)
	draftHandler := handlers.NewDraftHandler(orderService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(time.Duration(cfg.Server.WriteTimeout) * time.Second))

	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// The relay sets its own permissive CORS headers and answers preflight itself
	if cfg.Relay.Enabled {
		proxy := relay.New(cfg.Relay.Upstream, cfg.Relay.Timeout, log)
		r.With(middleware.RateLimit(cfg.Relay.RateLimit, cfg.Relay.Burst)).Handle("/api/proxy", proxy)
	}

	// Operator API
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", middleware.APIKeyHeader},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Use(middleware.APIKeyAuth(cfg.Auth))

		handlers.RegisterOperatorRoutes(r, sessionHandler, catalogHandler, draftHandler)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
