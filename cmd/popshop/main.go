// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the popshop server. It loads
// configuration, connects to services, wires the generation pipeline,
// and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"popshop/internal/ai"
	"popshop/internal/cache"
	"popshop/internal/config"
	"popshop/internal/database"
	"popshop/internal/generator"
	"popshop/internal/handlers"
	"popshop/internal/imagesynth"
	"popshop/internal/metrics"
	"popshop/internal/middleware"
	"popshop/internal/moderation"
	"popshop/internal/orchestrator"
	"popshop/internal/payment"
	"popshop/internal/router"
	"popshop/internal/storage"
	"popshop/internal/store"
	"popshop/internal/storefront"
)

// generateRateLimit bounds how many generation runs one IP may start
// per window. Each run fans out into several paid model calls.
const (
	generateRateLimit  = 5
	generateRateWindow = time.Minute
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the full-page storefront cache. The service
	// runs without it; every page render just hits the database.
	var pageCache *cache.PageCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey not available, page caching disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	}

	// Connect to S3-compatible object storage (optional). Without it,
	// generated images are served straight from the model provider's
	// hosted URLs, which expire.
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		}
	} else {
		slog.Warn("s3 storage not configured, serving provider-hosted image urls")
	}

	// Initialize data stores.
	storeStore := store.NewStoreStore(db)
	productStore := store.NewProductStore(db)
	orderStore := store.NewOrderStore(db)
	generationStore := store.NewGenerationStore(db)

	// AI client shared by moderation, spec generation and image synthesis.
	aiClient := ai.NewClient(ai.Config{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		TextModel:  cfg.OpenAITextModel,
		ImageModel: cfg.OpenAIImageModel,
	})

	var synthesizer *imagesynth.Synthesizer
	if storageClient != nil {
		synthesizer = imagesynth.New(aiClient, storageClient)
	} else {
		synthesizer = imagesynth.New(aiClient, nil)
	}

	pipelineMetrics := metrics.NewPipeline()

	assembler := orchestrator.New(
		moderation.NewGate(aiClient),
		generator.New(aiClient),
		synthesizer,
		storeStore,
		productStore,
		generationStore,
		pipelineMetrics,
	)

	// Stripe client (nil when no secret key is configured; checkout and
	// webhook endpoints answer 503 in that case).
	stripeClient := payment.New(payment.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		SiteURL:       cfg.SiteURL,
	})
	if stripeClient == nil {
		slog.Warn("stripe not configured, checkout disabled")
	}

	renderer, err := storefront.New()
	if err != nil {
		slog.Error("failed to initialize storefront renderer", "error", err)
		os.Exit(1)
	}

	// Create handler groups with their dependencies.
	var apiHandlers *handlers.API
	if stripeClient != nil {
		apiHandlers = handlers.NewAPI(assembler, storeStore, productStore, orderStore, stripeClient, pageCache, pipelineMetrics)
	} else {
		apiHandlers = handlers.NewAPI(assembler, storeStore, productStore, orderStore, nil, pageCache, pipelineMetrics)
	}
	publicHandlers := handlers.NewPublic(storeStore, productStore, renderer, pageCache, cfg.SiteURL)

	generateLimiter := middleware.NewRateLimiter(generateRateLimit, generateRateWindow)
	defer generateLimiter.Stop()

	r := router.New(apiHandlers, publicHandlers, generateLimiter)

	// WriteTimeout must accommodate the generation endpoint, which waits
	// on a chain of model calls bounded by a 5-minute request context.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
