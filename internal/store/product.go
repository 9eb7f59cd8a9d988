// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"popshop/internal/models"
)

// ProductStore handles all product-related database operations.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore creates a new ProductStore with the given database connection.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// Create inserts a new product and returns it with the generated ID.
func (s *ProductStore) Create(p *models.Product) (*models.Product, error) {
	result := &models.Product{}
	err := s.db.QueryRow(`
		INSERT INTO products (store_id, name, description, price, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, store_id, name, description, price, image_url, created_at
	`, p.StoreID, p.Name, p.Description, p.Price, p.ImageURL).Scan(
		&result.ID, &result.StoreID, &result.Name, &result.Description,
		&result.Price, &result.ImageURL, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return result, nil
}

// FindByID retrieves a product by its UUID. Returns nil if not found.
func (s *ProductStore) FindByID(id uuid.UUID) (*models.Product, error) {
	p := &models.Product{}
	err := s.db.QueryRow(`
		SELECT id, store_id, name, description, price, image_url, created_at
		FROM products WHERE id = $1
	`, id).Scan(
		&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// ListByStore returns all products of a store, oldest first so grid order
// matches creation order.
func (s *ProductStore) ListByStore(storeID uuid.UUID) ([]models.Product, error) {
	rows, err := s.db.Query(`
		SELECT id, store_id, name, description, price, image_url, created_at
		FROM products
		WHERE store_id = $1
		ORDER BY created_at ASC
	`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list products by store: %w", err)
	}
	defer rows.Close()

	var items []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(
			&p.ID, &p.StoreID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
