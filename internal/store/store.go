// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the persistence gateways: one type per entity,
// each a thin plain-SQL layer over the shared *sql.DB pool.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"popshop/internal/models"
)

// StoreStore handles all store-row database operations.
type StoreStore struct {
	db *sql.DB
}

// NewStoreStore creates a new StoreStore with the given database connection.
func NewStoreStore(db *sql.DB) *StoreStore {
	return &StoreStore{db: db}
}

// Create inserts a new store row and returns it with the generated ID.
func (s *StoreStore) Create(st *models.Store) (*models.Store, error) {
	layoutJSON, themeJSON, err := encodeStoreJSON(st)
	if err != nil {
		return nil, err
	}

	result := &models.Store{}
	var rawLayout, rawTheme []byte
	err = s.db.QueryRow(`
		INSERT INTO stores (slug, name, description, status, layout_json, theme_json)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, slug, name, description, status, layout_json, theme_json, created_at
	`, st.Slug, st.Name, st.Description, st.Status, layoutJSON, themeJSON).Scan(
		&result.ID, &result.Slug, &result.Name, &result.Description,
		&result.Status, &rawLayout, &rawTheme, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	if err := decodeStoreJSON(result, rawLayout, rawTheme); err != nil {
		return nil, err
	}
	return result, nil
}

// FindByID retrieves a store by its UUID. Returns nil if not found.
func (s *StoreStore) FindByID(id uuid.UUID) (*models.Store, error) {
	return s.scanOne(s.db.QueryRow(`
		SELECT id, slug, name, description, status, layout_json, theme_json, created_at
		FROM stores WHERE id = $1
	`, id), "find store by id")
}

// FindPublishedBySlug retrieves a store by slug, restricted to published
// status. Unpublished stores are indistinguishable from missing ones.
func (s *StoreStore) FindPublishedBySlug(slug string) (*models.Store, error) {
	return s.scanOne(s.db.QueryRow(`
		SELECT id, slug, name, description, status, layout_json, theme_json, created_at
		FROM stores WHERE slug = $1 AND status = 'published'
	`, slug), "find store by slug")
}

// UpdateLayout replaces a store's layout column.
func (s *StoreStore) UpdateLayout(id uuid.UUID, layout models.Layout) error {
	layoutJSON, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}

	res, err := s.db.Exec(`UPDATE stores SET layout_json = $1 WHERE id = $2`, layoutJSON, id)
	if err != nil {
		return fmt.Errorf("update store layout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update store layout: store %s not found", id)
	}
	return nil
}

// UpdateStatus sets a store's publishing status.
func (s *StoreStore) UpdateStatus(id uuid.UUID, status models.StoreStatus) error {
	res, err := s.db.Exec(`UPDATE stores SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update store status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update store status: store %s not found", id)
	}
	return nil
}

func (s *StoreStore) scanOne(row *sql.Row, op string) (*models.Store, error) {
	result := &models.Store{}
	var rawLayout, rawTheme []byte
	err := row.Scan(
		&result.ID, &result.Slug, &result.Name, &result.Description,
		&result.Status, &rawLayout, &rawTheme, &result.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := decodeStoreJSON(result, rawLayout, rawTheme); err != nil {
		return nil, err
	}
	return result, nil
}

func encodeStoreJSON(st *models.Store) (layout, theme []byte, err error) {
	layout, err = json.Marshal(st.Layout)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal layout: %w", err)
	}
	theme, err = json.Marshal(st.Theme)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal theme: %w", err)
	}
	return layout, theme, nil
}

func decodeStoreJSON(st *models.Store, rawLayout, rawTheme []byte) error {
	if err := json.Unmarshal(rawLayout, &st.Layout); err != nil {
		return fmt.Errorf("decode layout: %w", err)
	}
	if err := json.Unmarshal(rawTheme, &st.Theme); err != nil {
		return fmt.Errorf("decode theme: %w", err)
	}
	return nil
}
