package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"pos-system/internal/database"
	"pos-system/internal/models"
)

// ErrNotFound is returned when a customer or rider id is unknown
var ErrNotFound = errors.New("not found")

// Directory looks up customers and riders for cart association.
// Nothing here affects pricing.
type Directory struct {
	db *database.DB
}

// NewDirectory creates a directory backed by PostgreSQL
func NewDirectory(db *database.DB) *Directory {
	return &Directory{db: db}
}

// ListCustomers returns all known customers
func (d *Directory) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := d.db.Query(ctx, database.ListCustomersSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Visits, &c.LastVisit, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// GetCustomer fetches a single customer by id
func (d *Directory) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var c models.Customer
	err := d.db.QueryRow(ctx, database.GetCustomerSQL, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Visits, &c.LastVisit, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// RecordVisit bumps the customer's visit counter after a checkout
func (d *Directory) RecordVisit(ctx context.Context, id string) error {
	return d.db.Exec(ctx, database.RecordCustomerVisitSQL, id)
}

// GetRider fetches a single rider by id
func (d *Directory) GetRider(ctx context.Context, id string) (*models.Rider, error) {
	var r models.Rider
	err := d.db.QueryRow(ctx, database.GetRiderSQL, id).
		Scan(&r.ID, &r.Name, &r.Phone, &r.Active, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get rider: %w", err)
	}
	return &r, nil
}
