// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package generator turns a free-text prompt into a validated StoreSpec
// by prompting a text model for JSON and checking the result against the
// schema bounds. A spec is accepted whole or rejected whole.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"popshop/internal/models"
)

// systemPrompt instructs the model to emit JSON matching the StoreSpec
// schema, enumerating every limit and enumeration explicitly.
const systemPrompt = `You are a store generator that creates JSON specifications for e-commerce pop-up stores.

IMPORTANT: Return ONLY valid JSON that matches this exact schema:

{
  "name": "string (max 48 chars)",
  "description": "string (max 155 chars)",
  "hero": {
    "title": "string (max 60 chars)",
    "subtitle": "string (max 120 chars)",
    "imageUrl": "https://placeholder.com/image.jpg (use this exact placeholder)"
  },
  "products": [
    {
      "name": "string (max 40 chars)",
      "description": "string (max 200 chars)",
      "price": number (1500-8900 cents, $15-$89),
      "imagePrompt": "string"
    }
  ],
  "theme": {
    "primaryColor": "string (hex color like #FF6B6B)",
    "fontFamily": "string (must be exactly 'inter', 'playfair', or 'poppins')",
    "style": "string (must be exactly 'minimal', 'bold', or 'organic')"
  },
  "faq": [
    {
      "question": "string (max 100 chars)",
      "answer": "string (max 300 chars)"
    }
  ]
}

Requirements:
- Create 3-5 products
- Create 3-5 FAQ items
- Use trendy, giftable products
- Price products between $15-$89 (1500-8900 cents)
- Use hex colors (e.g., #FF6B6B)
- Font family must be exactly 'inter', 'playfair', or 'poppins'
- Style must be exactly 'minimal', 'bold', or 'organic'
- Keep all strings within their character limits
- Always use "https://placeholder.com/image.jpg" for hero.imageUrl`

// TextClient is the slice of the AI client the generator needs.
type TextClient interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ValidationError reports model output that could not be parsed as JSON
// or did not satisfy the StoreSpec schema.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid store spec: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Generator produces validated StoreSpecs from prompts.
type Generator struct {
	client TextClient
}

// New creates a Generator backed by the given text client.
func New(client TextClient) *Generator {
	return &Generator{client: client}
}

// Generate asks the model for a store spec and validates it. Transport
// failures propagate unchanged; parse and schema failures are wrapped in
// *ValidationError.
func (g *Generator) Generate(ctx context.Context, prompt string) (*models.StoreSpec, error) {
	userPrompt := fmt.Sprintf("Create a pop-up store for: %q", prompt)

	raw, err := g.client.GenerateJSON(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("spec generation: %w", err)
	}

	spec := &models.StoreSpec{}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), spec); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("parse model output: %w", err)}
	}

	if err := spec.Validate(); err != nil {
		return nil, &ValidationError{Err: err}
	}

	slog.Info("store spec generated",
		"name", spec.Name,
		"products", len(spec.Products),
		"faq", len(spec.FAQ),
	)
	return spec, nil
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON despite the instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
