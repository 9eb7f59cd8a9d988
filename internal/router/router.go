// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains: the JSON
// API under /api, the public storefront under /s, and the operational
// endpoints.
package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"popshop/internal/handlers"
	"popshop/internal/middleware"
)

// New creates the configured chi router. generateLimiter guards the
// generation endpoint only; the rest of the API is unthrottled.
func New(api *handlers.API, public *handlers.Public, generateLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware. Applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", api.Health)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		// Generation is the expensive path: one run fans out into
		// several model calls, so it gets per-IP throttling.
		r.Group(func(r chi.Router) {
			r.Use(generateLimiter.Middleware)
			r.Post("/generate", api.Generate)
		})

		r.Post("/checkout", api.Checkout)
		r.Post("/stripe/webhook", api.Webhook)
		r.Post("/publish", api.Publish)
		r.Get("/stores/{slug}", api.StoreJSON)
	})

	// Public storefront pages.
	r.Route("/s/{slug}", func(r chi.Router) {
		r.Get("/", public.Storefront)
		r.Get("/qr", public.ShareQR)
	})

	return r
}
