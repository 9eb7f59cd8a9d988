// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package orchestrator runs the prompt-to-storefront pipeline: moderate
// the prompt, generate a store spec, synthesize images, and persist the
// store with its products in a fixed stage order.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"popshop/internal/metrics"
	"popshop/internal/models"
	"popshop/internal/moderation"
	"popshop/internal/slug"
)

// Default copy for layout blocks the generator does not control.
const (
	heroCTAText      = "Shop Now"
	productGridTitle = "Featured Products"
	faqTitle         = "Frequently Asked Questions"
)

// ModerationGate screens a prompt before any model call or write happens.
type ModerationGate interface {
	Check(ctx context.Context, prompt string, allowBypass bool) (*moderation.Verdict, error)
}

// SpecGenerator turns a prompt into a validated store spec.
type SpecGenerator interface {
	Generate(ctx context.Context, prompt string) (*models.StoreSpec, error)
}

// ImageSynthesizer produces a hosted image URL for a descriptive prompt.
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, descriptivePrompt string) (string, error)
}

// StoreWriter persists stores and patches their layout.
type StoreWriter interface {
	Create(st *models.Store) (*models.Store, error)
	UpdateLayout(id uuid.UUID, layout models.Layout) error
}

// ProductWriter persists products.
type ProductWriter interface {
	Create(p *models.Product) (*models.Product, error)
}

// GenerationWriter records the audit trail of generation requests.
type GenerationWriter interface {
	Create(g *models.Generation) (*models.Generation, error)
}

// Result identifies the store a successful pipeline run produced.
type Result struct {
	StoreID uuid.UUID `json:"storeId"`
	Slug    string    `json:"slug"`
}

// Assembler drives the generation pipeline end to end.
type Assembler struct {
	gate        ModerationGate
	generator   SpecGenerator
	synthesizer ImageSynthesizer
	stores      StoreWriter
	products    ProductWriter
	generations GenerationWriter
	metrics     *metrics.Pipeline
}

// New wires an Assembler. metrics may be nil.
func New(
	gate ModerationGate,
	generator SpecGenerator,
	synthesizer ImageSynthesizer,
	stores StoreWriter,
	products ProductWriter,
	generations GenerationWriter,
	m *metrics.Pipeline,
) *Assembler {
	return &Assembler{
		gate:        gate,
		generator:   generator,
		synthesizer: synthesizer,
		stores:      stores,
		products:    products,
		generations: generations,
		metrics:     m,
	}
}

// Assemble runs the full pipeline for one prompt. On a moderation block
// it returns a *moderation.BlockedError with nothing persisted. Product
// creation runs concurrently and fails fast; a failure after the store
// row exists leaves the store with whatever products committed, and the
// caller receives the first error.
func (a *Assembler) Assemble(ctx context.Context, prompt string, allowBypass bool, requesterIP string) (*Result, error) {
	start := time.Now()

	verdict, err := a.gate.Check(ctx, prompt, allowBypass)
	if err != nil {
		a.metrics.RecordGeneration(metrics.OutcomeError)
		return nil, fmt.Errorf("moderating prompt: %w", err)
	}
	a.metrics.ObserveStage("moderation", start)
	if !verdict.Allowed {
		a.metrics.RecordGeneration(metrics.OutcomeBlocked)
		return nil, &moderation.BlockedError{Reason: verdict.Reason, Suggestions: verdict.Suggestions}
	}

	specStart := time.Now()
	spec, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		a.metrics.RecordGeneration(metrics.OutcomeError)
		return nil, err
	}
	a.metrics.ObserveStage("spec", specStart)

	heroStart := time.Now()
	heroURL, err := a.synthesizer.Synthesize(ctx, fmt.Sprintf("%s hero image, lifestyle shot", prompt))
	if err != nil {
		a.metrics.RecordGeneration(metrics.OutcomeError)
		return nil, fmt.Errorf("synthesizing hero image: %w", err)
	}
	a.metrics.ObserveStage("hero_image", heroStart)

	layout := models.Layout{Blocks: []models.LayoutBlock{
		models.NewHeroBlock(models.HeroProps{
			Title:    spec.Hero.Title,
			Subtitle: spec.Hero.Subtitle,
			ImageURL: heroURL,
			CTAText:  heroCTAText,
		}),
		models.NewProductGridBlock(productGridTitle, nil),
		models.NewFAQBlock(faqTitle, spec.FAQ),
	}}

	st, err := a.stores.Create(&models.Store{
		Slug:        slug.New(),
		Name:        spec.Name,
		Description: spec.Description,
		Status:      models.StoreStatusPublished,
		Layout:      layout,
		Theme:       spec.Theme,
	})
	if err != nil {
		a.metrics.RecordGeneration(metrics.OutcomeError)
		return nil, fmt.Errorf("creating store: %w", err)
	}

	productsStart := time.Now()
	productIDs := make([]string, len(spec.Products))
	g, gctx := errgroup.WithContext(ctx)
	for i, ps := range spec.Products {
		g.Go(func() error {
			imageURL, err := a.synthesizer.Synthesize(gctx, ps.ImagePrompt)
			if err != nil {
				return fmt.Errorf("synthesizing image for %q: %w", ps.Name, err)
			}
			p, err := a.products.Create(&models.Product{
				StoreID:     st.ID,
				Name:        ps.Name,
				Description: ps.Description,
				Price:       ps.Price,
				ImageURL:    imageURL,
			})
			if err != nil {
				return fmt.Errorf("creating product %q: %w", ps.Name, err)
			}
			productIDs[i] = p.ID.String()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.metrics.RecordGeneration(metrics.OutcomeError)
		return nil, err
	}
	a.metrics.ObserveStage("products", productsStart)
	a.metrics.RecordProducts(len(spec.Products))

	if err := a.stores.UpdateLayout(st.ID, st.Layout.WithProductIDs(productIDs)); err != nil {
		a.metrics.RecordGeneration(metrics.OutcomeError)
		return nil, fmt.Errorf("patching layout: %w", err)
	}

	if requesterIP != "" {
		if _, err := a.generations.Create(&models.Generation{
			StoreID:   st.ID,
			Prompt:    prompt,
			IPAddress: requesterIP,
		}); err != nil {
			slog.Warn("failed to record generation", "store_id", st.ID, "error", err)
		}
	}

	a.metrics.RecordGeneration(metrics.OutcomeOK)
	a.metrics.ObserveStage("total", start)
	slog.Info("store generated", "store_id", st.ID, "slug", st.Slug, "products", len(spec.Products), "duration", time.Since(start))

	return &Result{StoreID: st.ID, Slug: st.Slug}, nil
}
