package store

import (
	"context"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

// ProductStore résout les lignes de commande : nom, prix figé et stock
type ProductStore interface {
	Pricing(ctx context.Context, productID gocql.UUID) (*models.ProductPricing, error)
}

type ScyllaProducts struct{}

func NewScyllaProducts() *ScyllaProducts { return &ScyllaProducts{} }

func (s *ScyllaProducts) Pricing(ctx context.Context, productID gocql.UUID) (*models.ProductPricing, error) {
	session, err := database.GetProductsSession()
	if err != nil {
		return nil, err
	}

	p := models.ProductPricing{ID: productID}
	err = session.Query(`SELECT name, price, stock, vendor_id FROM products WHERE product_id = ?`, productID).
		WithContext(ctx).Scan(&p.Name, &p.Price, &p.Stock, &p.VendorID)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}
