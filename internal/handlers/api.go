// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers provides the HTTP surface: the JSON API for generation,
// checkout, webhooks and publishing, plus the public storefront pages.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"popshop/internal/cache"
	"popshop/internal/metrics"
	"popshop/internal/middleware"
	"popshop/internal/models"
	"popshop/internal/moderation"
	"popshop/internal/orchestrator"
	"popshop/internal/payment"
	"popshop/internal/slug"
)

// generateTimeout bounds one generation request end to end. Individual
// model calls carry their own shorter timeouts.
const generateTimeout = 5 * time.Minute

// Assembler runs the generation pipeline.
type Assembler interface {
	Assemble(ctx context.Context, prompt string, allowBypass bool, requesterIP string) (*orchestrator.Result, error)
}

// StoreReader is the store access the API needs.
type StoreReader interface {
	FindByID(id uuid.UUID) (*models.Store, error)
	FindPublishedBySlug(slug string) (*models.Store, error)
	UpdateStatus(id uuid.UUID, status models.StoreStatus) error
}

// ProductReader is the product access the API needs.
type ProductReader interface {
	FindByID(id uuid.UUID) (*models.Product, error)
	ListByStore(storeID uuid.UUID) ([]models.Product, error)
}

// OrderWriter is the order access the API needs.
type OrderWriter interface {
	Create(o *models.Order) (*models.Order, error)
	MarkPaidBySession(sessionID string, customerEmail *string) error
}

// CheckoutClient opens payment sessions and verifies webhook signatures.
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, st *models.Store, p *models.Product, quantity int) (*payment.CheckoutSession, error)
	VerifySignature(payload []byte, header string, now time.Time) error
}

// API groups the JSON endpoints.
type API struct {
	assembler Assembler
	stores    StoreReader
	products  ProductReader
	orders    OrderWriter
	payments  CheckoutClient
	pageCache *cache.PageCache
	metrics   *metrics.Pipeline
}

// NewAPI creates the API handler group. payments may be nil when Stripe
// is not configured; pageCache and metrics may be nil.
func NewAPI(assembler Assembler, stores StoreReader, products ProductReader, orders OrderWriter, payments CheckoutClient, pageCache *cache.PageCache, m *metrics.Pipeline) *API {
	return &API{
		assembler: assembler,
		stores:    stores,
		products:  products,
		orders:    orders,
		payments:  payments,
		pageCache: pageCache,
		metrics:   m,
	}
}

// Generate handles POST /api/generate: one prompt in, one published store
// out. Moderation blocks map to 400 with rephrasing suggestions; every
// other failure maps to a generic 500 carrying a correlation id.
func (a *API) Generate(w http.ResponseWriter, r *http.Request) {
	requestID := slug.New()
	start := time.Now()

	var req struct {
		Prompt  string `json:"prompt"`
		AllowIP bool   `json:"allowIp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid prompt"})
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid prompt"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	ip := middleware.ClientIP(r)
	slog.Info("generation started", "request_id", requestID, "ip", ip, "allow_ip", req.AllowIP)

	result, err := a.assembler.Assemble(ctx, req.Prompt, req.AllowIP, ip)
	if err != nil {
		var blocked *moderation.BlockedError
		if errors.As(err, &blocked) {
			slog.Info("generation blocked", "request_id", requestID, "reason", blocked.Reason)
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":       err.Error(),
				"type":        "moderation",
				"suggestions": blocked.Suggestions,
			})
			return
		}
		slog.Error("generation failed", "request_id", requestID, "duration", time.Since(start), "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":     "Generation failed",
			"details":   err.Error(),
			"requestId": requestID,
		})
		return
	}

	slog.Info("generation finished", "request_id", requestID, "slug", result.Slug, "duration", time.Since(start))
	writeJSON(w, http.StatusOK, result)
}

// Checkout handles POST /api/checkout: opens a Stripe session for one
// product and records a pending order. The charged amount always comes
// from the stored product row.
func (a *API) Checkout(w http.ResponseWriter, r *http.Request) {
	if a.payments == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Payments not configured"})
		return
	}

	var req struct {
		ProductID string `json:"productId"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Product ID required"})
		return
	}
	if req.Qty < 1 {
		req.Qty = 1
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Product ID required"})
		return
	}

	product, err := a.products.FindByID(productID)
	if err != nil {
		slog.Error("checkout product lookup failed", "product_id", productID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Checkout failed"})
		return
	}
	if product == nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Product not found"})
		return
	}

	st, err := a.stores.FindByID(product.StoreID)
	if err != nil || st == nil {
		slog.Error("checkout store lookup failed", "store_id", product.StoreID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Checkout failed"})
		return
	}

	session, err := a.payments.CreateCheckoutSession(r.Context(), st, product, req.Qty)
	if err != nil {
		slog.Error("checkout session failed", "product_id", productID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Checkout failed"})
		return
	}

	if _, err := a.orders.Create(&models.Order{
		StoreID:         st.ID,
		ProductID:       product.ID,
		StripeSessionID: session.ID,
		Amount:          product.Price * req.Qty,
	}); err != nil {
		slog.Error("order insert failed", "session_id", session.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Checkout failed"})
		return
	}
	a.metrics.RecordOrderCreated()

	writeJSON(w, http.StatusOK, map[string]string{"url": session.URL})
}

// Webhook handles POST /api/stripe/webhook. A completed checkout session
// flips its order to paid and records the customer email.
func (a *API) Webhook(w http.ResponseWriter, r *http.Request) {
	if a.payments == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "Payments not configured"})
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Unreadable payload"})
		return
	}

	if err := a.payments.VerifySignature(payload, r.Header.Get("Stripe-Signature"), time.Now()); err != nil {
		slog.Warn("webhook signature rejected", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid signature"})
		return
	}

	event, err := payment.ParseEvent(payload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Malformed event"})
		return
	}

	if event.Type == payment.EventCheckoutCompleted {
		if err := a.orders.MarkPaidBySession(event.SessionID, event.CustomerEmail); err != nil {
			slog.Error("marking order paid failed", "session_id", event.SessionID, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Order update failed"})
			return
		}
		a.metrics.RecordOrderPaid()
		slog.Info("order marked paid", "session_id", event.SessionID)
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// Publish handles POST /api/publish: flips a store to published and
// drops its cached page.
func (a *API) Publish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StoreID string `json:"storeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StoreID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Store ID required"})
		return
	}
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Store ID required"})
		return
	}

	st, err := a.stores.FindByID(storeID)
	if err != nil || st == nil {
		slog.Error("publish store lookup failed", "store_id", storeID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Publish failed"})
		return
	}

	if err := a.stores.UpdateStatus(storeID, models.StoreStatusPublished); err != nil {
		slog.Error("publish failed", "store_id", storeID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Publish failed"})
		return
	}
	a.pageCache.Invalidate(r.Context(), st.Slug)

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// StoreJSON handles GET /api/stores/{slug}: the published store record
// with its products, for API consumers.
func (a *API) StoreJSON(w http.ResponseWriter, r *http.Request) {
	storeSlug := chi.URLParam(r, "slug")
	st, err := a.stores.FindPublishedBySlug(storeSlug)
	if err != nil {
		slog.Error("store lookup failed", "slug", storeSlug, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Lookup failed"})
		return
	}
	if st == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Store not found"})
		return
	}

	products, err := a.products.ListByStore(st.ID)
	if err != nil {
		slog.Error("product list failed", "store_id", st.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Lookup failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"store":    st,
		"products": products,
	})
}

// Health handles GET /health.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
