// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storefront renders the public store page from a store's layout
// and its product rows.
package storefront

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"popshop/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// fontStacks maps a theme font family to its CSS stack. Unknown families
// fall back to inter.
var fontStacks = map[string]string{
	"inter":    `"Inter", system-ui, sans-serif`,
	"playfair": `"Playfair Display", Georgia, serif`,
	"poppins":  `"Poppins", system-ui, sans-serif`,
}

var fontImports = map[string]string{
	"inter":    "https://fonts.googleapis.com/css2?family=Inter:wght@400;600;700&display=swap",
	"playfair": "https://fonts.googleapis.com/css2?family=Playfair+Display:wght@400;600;700&display=swap",
	"poppins":  "https://fonts.googleapis.com/css2?family=Poppins:wght@400;600;700&display=swap",
}

// Renderer turns a store and its products into a complete HTML page.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded storefront template.
func New() (*Renderer, error) {
	tmpl, err := template.New("store.html").Funcs(template.FuncMap{
		"cents": formatCents,
	}).ParseFS(templateFS, "templates/store.html")
	if err != nil {
		return nil, fmt.Errorf("parse storefront template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// pageData is the view model handed to the template. Blocks keep the
// layout's order; exactly one pointer per block is non-nil.
type pageData struct {
	Store        *models.Store
	PrimaryColor string
	FontStack    template.CSS
	FontImport   string
	Blocks       []blockView
}

type blockView struct {
	Hero *models.HeroProps
	Grid *gridView
	FAQ  *models.FAQProps
}

type gridView struct {
	Title    string
	Products []models.Product
}

// Render writes the full store page. Product-grid blocks show only the
// products whose ids the block lists, in list order; blocks of unknown
// type are skipped.
func (r *Renderer) Render(w *bytes.Buffer, st *models.Store, products []models.Product) error {
	family := st.Theme.FontFamily
	if _, ok := fontStacks[family]; !ok {
		family = "inter"
	}

	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID.String()] = p
	}

	data := pageData{
		Store:        st,
		PrimaryColor: st.Theme.PrimaryColor,
		FontStack:    template.CSS(fontStacks[family]),
		FontImport:   fontImports[family],
	}
	for _, b := range st.Layout.Blocks {
		switch b.Type {
		case models.BlockHero:
			if b.Hero != nil {
				data.Blocks = append(data.Blocks, blockView{Hero: b.Hero})
			}
		case models.BlockProductGrid:
			if b.ProductGrid == nil {
				continue
			}
			gv := &gridView{Title: b.ProductGrid.Title}
			for _, id := range b.ProductGrid.Products {
				if p, ok := byID[id]; ok {
					gv.Products = append(gv.Products, p)
				}
			}
			data.Blocks = append(data.Blocks, blockView{Grid: gv})
		case models.BlockFAQ:
			if b.FAQ != nil {
				data.Blocks = append(data.Blocks, blockView{FAQ: b.FAQ})
			}
		}
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render store %s: %w", st.Slug, err)
	}
	return nil
}

// formatCents renders an integer cent amount as dollars.
func formatCents(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
