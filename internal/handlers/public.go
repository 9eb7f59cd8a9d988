// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"popshop/internal/cache"
	"popshop/internal/storefront"
)

// qrSize is the pixel edge length of generated share codes.
const qrSize = 256

// Public serves the rendered storefront pages. It checks the Valkey page
// cache before hitting the database, and stores rendered HTML on miss.
type Public struct {
	stores    StoreReader
	products  ProductReader
	renderer  *storefront.Renderer
	pageCache *cache.PageCache
	siteURL   string
}

// NewPublic creates the public handler group. pageCache may be nil.
func NewPublic(stores StoreReader, products ProductReader, renderer *storefront.Renderer, pageCache *cache.PageCache, siteURL string) *Public {
	return &Public{
		stores:    stores,
		products:  products,
		renderer:  renderer,
		pageCache: pageCache,
		siteURL:   strings.TrimRight(siteURL, "/"),
	}
}

// Storefront handles GET /s/{slug}. Unpublished or unknown slugs are
// indistinguishable from the outside: both 404.
func (p *Public) Storefront(w http.ResponseWriter, r *http.Request) {
	storeSlug := chi.URLParam(r, "slug")
	ctx := r.Context()

	if cached, ok := p.pageCache.Get(ctx, storeSlug); ok {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	st, err := p.stores.FindPublishedBySlug(storeSlug)
	if err != nil {
		slog.Error("storefront lookup failed", "slug", storeSlug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if st == nil {
		http.NotFound(w, r)
		return
	}

	products, err := p.products.ListByStore(st.ID)
	if err != nil {
		slog.Error("storefront product list failed", "store_id", st.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, st, products); err != nil {
		slog.Error("storefront render failed", "slug", storeSlug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.pageCache.Set(ctx, storeSlug, buf.Bytes())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// ShareQR handles GET /s/{slug}/qr with a PNG QR code pointing at the
// store's public URL.
func (p *Public) ShareQR(w http.ResponseWriter, r *http.Request) {
	storeSlug := chi.URLParam(r, "slug")

	st, err := p.stores.FindPublishedBySlug(storeSlug)
	if err != nil {
		slog.Error("qr store lookup failed", "slug", storeSlug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if st == nil {
		http.NotFound(w, r)
		return
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/s/%s", p.siteURL, st.Slug), qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("qr encode failed", "slug", storeSlug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
