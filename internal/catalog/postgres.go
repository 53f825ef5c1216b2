package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pos-system/internal/database"
	"pos-system/internal/models"
)

// ErrProductNotFound is returned when a product id has no catalog entry
var ErrProductNotFound = errors.New("product not found")

// Store reads the product catalog. The cart engine only ever consumes
// its output; catalog management happens elsewhere.
type Store struct {
	db *database.DB
}

// NewStore creates a catalog store backed by PostgreSQL
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// ListProducts returns all active products ordered for menu display
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := s.db.Query(ctx, database.ListProductsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.ImageURL, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct fetches a single product by id
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := s.db.QueryRow(ctx, database.GetProductSQL, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Category, &p.ImageURL, &p.Active, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}
