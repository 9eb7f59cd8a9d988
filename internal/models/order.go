// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus tracks payment reconciliation for an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// Order records a started checkout. It is created with status pending when
// a payment session is opened and flipped to paid by the provider webhook,
// correlated through StripeSessionID. Amount is price times quantity in cents.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	StoreID         uuid.UUID   `json:"store_id"`
	ProductID       uuid.UUID   `json:"product_id"`
	StripeSessionID string      `json:"stripe_session_id"`
	Amount          int         `json:"amount"`
	Status          OrderStatus `json:"status"`
	CustomerEmail   *string     `json:"customer_email,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}
