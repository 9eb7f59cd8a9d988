// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the domain types shared across the application:
// stores, products, orders, generation logs, and the generator's StoreSpec.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StoreStatus represents the publishing state of a store.
type StoreStatus string

const (
	StoreStatusDraft     StoreStatus = "draft"
	StoreStatusPublished StoreStatus = "published"
)

// Store is a generated pop-up storefront. Layout and Theme are persisted
// as JSONB columns and exclusively owned by the store row.
type Store struct {
	ID          uuid.UUID   `json:"id"`
	Slug        string      `json:"slug"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Status      StoreStatus `json:"status"`
	Layout      Layout      `json:"layout"`
	Theme       Theme       `json:"theme"`
	CreatedAt   time.Time   `json:"created_at"`
}

// IsPublished returns true if the store is publicly reachable.
func (s *Store) IsPublished() bool {
	return s.Status == StoreStatusPublished
}

// Theme holds the visual identity of a store.
type Theme struct {
	PrimaryColor string `json:"primaryColor"`
	FontFamily   string `json:"fontFamily"`
	Style        string `json:"style"`
}

// FAQItem is a single question/answer pair.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BlockType discriminates the layout block union.
type BlockType string

const (
	BlockHero        BlockType = "hero"
	BlockProductGrid BlockType = "product-grid"
	BlockFAQ         BlockType = "faq"
)

// Layout is the ordered sequence of display blocks composing a store page.
type Layout struct {
	Blocks []LayoutBlock `json:"blocks"`
}

// HeroProps are the properties of a hero block.
type HeroProps struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
	CTAText  string `json:"ctaText"`
}

// ProductGridProps are the properties of a product-grid block. Products
// holds product row IDs; it is empty between store creation and the
// layout patch that follows product creation.
type ProductGridProps struct {
	Title    string   `json:"title"`
	Products []string `json:"products"`
}

// FAQProps are the properties of a faq block.
type FAQProps struct {
	Title string    `json:"title"`
	Items []FAQItem `json:"items"`
}

// LayoutBlock is a tagged union over the block prop types. Exactly one of
// Hero, ProductGrid, or FAQ is non-nil, matching Type. Unknown block types
// survive unmarshalling with all prop pointers nil so renderers can skip them.
type LayoutBlock struct {
	Type        BlockType
	Hero        *HeroProps
	ProductGrid *ProductGridProps
	FAQ         *FAQProps
}

// NewHeroBlock builds a hero layout block.
func NewHeroBlock(p HeroProps) LayoutBlock {
	return LayoutBlock{Type: BlockHero, Hero: &p}
}

// NewProductGridBlock builds a product-grid layout block. A nil id list is
// normalised to an empty one so it serialises as [] rather than null.
func NewProductGridBlock(title string, productIDs []string) LayoutBlock {
	if productIDs == nil {
		productIDs = []string{}
	}
	return LayoutBlock{Type: BlockProductGrid, ProductGrid: &ProductGridProps{Title: title, Products: productIDs}}
}

// NewFAQBlock builds a faq layout block.
func NewFAQBlock(title string, items []FAQItem) LayoutBlock {
	if items == nil {
		items = []FAQItem{}
	}
	return LayoutBlock{Type: BlockFAQ, FAQ: &FAQProps{Title: title, Items: items}}
}

// layoutBlockJSON is the wire shape of a block: {"type": ..., "props": {...}}.
type layoutBlockJSON struct {
	Type  BlockType       `json:"type"`
	Props json.RawMessage `json:"props"`
}

// MarshalJSON encodes the block with its type-dependent props object.
func (b LayoutBlock) MarshalJSON() ([]byte, error) {
	var props any
	switch b.Type {
	case BlockHero:
		props = b.Hero
	case BlockProductGrid:
		props = b.ProductGrid
	case BlockFAQ:
		props = b.FAQ
	default:
		return nil, fmt.Errorf("layout: unknown block type %q", b.Type)
	}

	raw, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("layout: marshal %s props: %w", b.Type, err)
	}
	return json.Marshal(layoutBlockJSON{Type: b.Type, Props: raw})
}

// UnmarshalJSON decodes the props object into the struct matching the tag.
func (b *LayoutBlock) UnmarshalJSON(data []byte) error {
	var raw layoutBlockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("layout: decode block: %w", err)
	}

	*b = LayoutBlock{Type: raw.Type}
	switch raw.Type {
	case BlockHero:
		b.Hero = &HeroProps{}
		return json.Unmarshal(raw.Props, b.Hero)
	case BlockProductGrid:
		b.ProductGrid = &ProductGridProps{}
		return json.Unmarshal(raw.Props, b.ProductGrid)
	case BlockFAQ:
		b.FAQ = &FAQProps{}
		return json.Unmarshal(raw.Props, b.FAQ)
	}
	return nil
}

// WithProductIDs returns a copy of the layout where every product-grid
// block carries the given product id list. Hero and faq blocks are unchanged.
func (l Layout) WithProductIDs(ids []string) Layout {
	if ids == nil {
		ids = []string{}
	}
	blocks := make([]LayoutBlock, len(l.Blocks))
	for i, b := range l.Blocks {
		if b.Type == BlockProductGrid && b.ProductGrid != nil {
			grid := *b.ProductGrid
			grid.Products = ids
			b.ProductGrid = &grid
		}
		blocks[i] = b
	}
	return Layout{Blocks: blocks}
}
