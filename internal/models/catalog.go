package models

import "time"

// Product is a catalog entry. The pricing engine only reads its identity
// and unit price; category and image are for menu grouping in the UI.
type Product struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	Category  string    `json:"category" db:"category"`
	ImageURL  *string   `json:"image_url,omitempty" db:"image_url"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}

// Customer is an optional cart association used for display and CRM.
// It never affects pricing.
type Customer struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Phone     string     `json:"phone" db:"phone"`
	Visits    int        `json:"visits" db:"visits"`
	LastVisit *time.Time `json:"last_visit,omitempty" db:"last_visit"`
	CreatedAt time.Time  `json:"created_at,omitempty" db:"created_at"`
}

// Rider is a delivery courier assignable to delivery orders
type Rider struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at,omitempty" db:"created_at"`
}
