// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"popshop/internal/handlers"
	"popshop/internal/middleware"
	"popshop/internal/models"
	"popshop/internal/orchestrator"
	"popshop/internal/storefront"

	"github.com/google/uuid"
)

type stubAssembler struct{}

func (stubAssembler) Assemble(context.Context, string, bool, string) (*orchestrator.Result, error) {
	return &orchestrator.Result{StoreID: uuid.New(), Slug: "ab12cd34"}, nil
}

type stubStores struct{}

func (stubStores) FindByID(uuid.UUID) (*models.Store, error)         { return nil, nil }
func (stubStores) FindPublishedBySlug(string) (*models.Store, error) { return nil, nil }
func (stubStores) UpdateStatus(uuid.UUID, models.StoreStatus) error  { return nil }

type stubProducts struct{}

func (stubProducts) FindByID(uuid.UUID) (*models.Product, error)     { return nil, nil }
func (stubProducts) ListByStore(uuid.UUID) ([]models.Product, error) { return nil, nil }

type stubOrders struct{}

func (stubOrders) Create(o *models.Order) (*models.Order, error) { return o, nil }
func (stubOrders) MarkPaidBySession(string, *string) error       { return nil }

func testRouter(t *testing.T, limit int) http.Handler {
	t.Helper()
	renderer, err := storefront.New()
	if err != nil {
		t.Fatalf("storefront.New: %v", err)
	}
	api := handlers.NewAPI(stubAssembler{}, stubStores{}, stubProducts{}, stubOrders{}, nil, nil, nil)
	public := handlers.NewPublic(stubStores{}, stubProducts{}, renderer, nil, "http://localhost:8080")
	limiter := middleware.NewRateLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)
	return New(api, public, limiter)
}

func TestRoutesExist(t *testing.T) {
	router := testRouter(t, 100)

	cases := []struct {
		method, path string
		wantStatus   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodPost, "/api/generate", http.StatusOK},
		{http.MethodPost, "/api/checkout", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/stripe/webhook", http.StatusServiceUnavailable},
		{http.MethodPost, "/api/publish", http.StatusBadRequest},
		{http.MethodGet, "/api/stores/ab12cd34", http.StatusNotFound},
		{http.MethodGet, "/s/ab12cd34", http.StatusNotFound},
		{http.MethodGet, "/s/ab12cd34/qr", http.StatusNotFound},
	}
	for _, tc := range cases {
		var body *strings.Reader
		if tc.method == http.MethodPost {
			body = strings.NewReader(`{"prompt":"a coffee shop"}`)
		} else {
			body = strings.NewReader("")
		}
		req := httptest.NewRequest(tc.method, tc.path, body)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != tc.wantStatus {
			t.Errorf("%s %s: status = %d, want %d", tc.method, tc.path, rec.Code, tc.wantStatus)
		}
	}
}

func TestGenerateIsRateLimited(t *testing.T) {
	router := testRouter(t, 2)

	var last int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(`{"prompt":"a coffee shop"}`))
		req.RemoteAddr = "203.0.113.7:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}

	// Other API routes stay unthrottled.
	req := httptest.NewRequest(http.MethodPost, "/api/publish", strings.NewReader(`{}`))
	req.RemoteAddr = "203.0.113.7:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code == http.StatusTooManyRequests {
		t.Error("publish was rate limited")
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	router := testRouter(t, 100)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
}
