package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation is the best-effort audit record of one generation request.
type Generation struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	Prompt    string    `json:"prompt"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
