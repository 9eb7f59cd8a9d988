package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"popshop/internal/models"
	"popshop/internal/slug"
)

// Seed populates the database with a sample published store so the public
// storefront can be exercised in development without an OpenAI key.
// It is a no-op if any store already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM stores").Scan(&count); err != nil {
		return fmt.Errorf("seed check stores: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	layout := models.Layout{Blocks: []models.LayoutBlock{
		models.NewHeroBlock(models.HeroProps{
			Title:    "Mushroom Summer",
			Subtitle: "Hand-drawn forest goods for warm days",
			ImageURL: "https://placeholder.com/hero.jpg",
			CTAText:  "Shop Now",
		}),
		models.NewProductGridBlock("Featured Products", nil),
		models.NewFAQBlock("Frequently Asked Questions", []models.FAQItem{
			{Question: "When do you ship?", Answer: "Within two business days."},
			{Question: "Do you ship internationally?", Answer: "Yes, worldwide."},
		}),
	}}
	theme := models.Theme{PrimaryColor: "#4F7942", FontFamily: "inter", Style: "organic"}

	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("seed marshal layout: %w", err)
	}
	themeJSON, err := json.Marshal(theme)
	if err != nil {
		return fmt.Errorf("seed marshal theme: %w", err)
	}

	storeSlug := slug.New()
	var storeID string
	err = db.QueryRow(`
		INSERT INTO stores (slug, name, description, status, layout_json, theme_json)
		VALUES ($1, $2, $3, 'published', $4, $5)
		RETURNING id
	`, storeSlug, "Forest Finds", "Cozy mushroom-themed goods for summer.", layoutJSON, themeJSON).Scan(&storeID)
	if err != nil {
		return fmt.Errorf("seed insert store: %w", err)
	}

	demoProducts := []struct {
		name, desc, img string
		price           int
	}{
		{"Shroom Tee", "Soft cotton tee with a hand-drawn chanterelle print.", "https://placeholder.com/tee.jpg", 2400},
		{"Spore Tote", "Heavy canvas tote for market runs.", "https://placeholder.com/tote.jpg", 3200},
	}

	productIDs := make([]string, 0, len(demoProducts))
	for _, p := range demoProducts {
		var id string
		err := db.QueryRow(`
			INSERT INTO products (store_id, name, description, price, image_url)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, storeID, p.name, p.desc, p.price, p.img).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert product %q: %w", p.name, err)
		}
		productIDs = append(productIDs, id)
	}

	patched, err := json.Marshal(layout.WithProductIDs(productIDs))
	if err != nil {
		return fmt.Errorf("seed marshal patched layout: %w", err)
	}
	if _, err := db.Exec(`UPDATE stores SET layout_json = $1 WHERE id = $2`, patched, storeID); err != nil {
		return fmt.Errorf("seed patch layout: %w", err)
	}

	slog.Info("database seeded with demo store", "slug", storeSlug)
	return nil
}
