package store

import (
	"database/sql"
	"fmt"

	"popshop/internal/models"
)

// GenerationStore handles the best-effort generation audit log.
type GenerationStore struct {
	db *sql.DB
}

// NewGenerationStore creates a new GenerationStore with the given database connection.
func NewGenerationStore(db *sql.DB) *GenerationStore {
	return &GenerationStore{db: db}
}

// Create inserts an audit row for one generation request.
func (s *GenerationStore) Create(g *models.Generation) (*models.Generation, error) {
	result := &models.Generation{}
	err := s.db.QueryRow(`
		INSERT INTO generations (store_id, prompt, ip_address)
		VALUES ($1, $2, $3)
		RETURNING id, store_id, prompt, ip_address, created_at
	`, g.StoreID, g.Prompt, g.IPAddress).Scan(
		&result.ID, &result.StoreID, &result.Prompt, &result.IPAddress, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create generation log: %w", err)
	}
	return result, nil
}
