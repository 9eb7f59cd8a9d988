// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"popshop/internal/models"
)

// OrderStore handles all order-related database operations.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore creates a new OrderStore with the given database connection.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Create inserts a pending order keyed by the payment session id.
func (s *OrderStore) Create(o *models.Order) (*models.Order, error) {
	result := &models.Order{}
	err := s.db.QueryRow(`
		INSERT INTO orders (store_id, product_id, stripe_session_id, amount, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, store_id, product_id, stripe_session_id, amount, status, customer_email, created_at
	`, o.StoreID, o.ProductID, o.StripeSessionID, o.Amount).Scan(
		&result.ID, &result.StoreID, &result.ProductID, &result.StripeSessionID,
		&result.Amount, &result.Status, &result.CustomerEmail, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return result, nil
}

// FindBySessionID retrieves an order by its payment session id.
// Returns nil if not found.
func (s *OrderStore) FindBySessionID(sessionID string) (*models.Order, error) {
	o := &models.Order{}
	err := s.db.QueryRow(`
		SELECT id, store_id, product_id, stripe_session_id, amount, status, customer_email, created_at
		FROM orders WHERE stripe_session_id = $1
	`, sessionID).Scan(
		&o.ID, &o.StoreID, &o.ProductID, &o.StripeSessionID,
		&o.Amount, &o.Status, &o.CustomerEmail, &o.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order by session: %w", err)
	}
	return o, nil
}

// MarkPaidBySession flips the matching order to paid and records the payer
// email when present. A missing order is not an error: webhook delivery can
// race or repeat, so unmatched events are ignored.
func (s *OrderStore) MarkPaidBySession(sessionID string, customerEmail *string) error {
	_, err := s.db.Exec(`
		UPDATE orders SET status = 'paid', customer_email = $1
		WHERE stripe_session_id = $2
	`, customerEmail, sessionID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	return nil
}
