package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID                gocql.UUID  `json:"id" db:"product_id"`
	Name              string      `json:"name" db:"name"`
	Description       string      `json:"description" db:"description"`
	Price             float64     `json:"price" db:"price"`
	Stock             int         `json:"stock" db:"stock"`
	SKU               string      `json:"sku" db:"sku"`
	CollectionID      gocql.UUID  `json:"collection_id" db:"collection_id"`
	VendorID          gocql.UUID  `json:"vendor_id" db:"vendor_id"`
	ImageURLs         []string    `json:"image_urls" db:"image_urls"`
	Tags              []string    `json:"tags" db:"tags"`
	IsActive          bool        `json:"is_active" db:"is_active"`
	CreatedAt         *time.Time  `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt         *time.Time  `json:"updated_at,omitempty" db:"updated_at"`
}

// ProductPricing est le sous-ensemble utilisé pour valider une commande
type ProductPricing struct {
	ID       gocql.UUID
	Name     string
	Price    float64
	Stock    int
	VendorID gocql.UUID
}
