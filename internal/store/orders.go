package store

import (
	"context"
	"time"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

// OrderStore expose la persistance des commandes. Les handlers ne voient que
// cette interface, ce qui permet de les tester avec une implémentation mémoire.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id gocql.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListByVendor(ctx context.Context, vendorID gocql.UUID) ([]models.Order, error)
	UpdateFulfillmentStatus(ctx context.Context, id gocql.UUID, status string) error
	Delete(ctx context.Context, id gocql.UUID) error
}

// ScyllaOrders persiste les commandes dans le keyspace orders
type ScyllaOrders struct{}

func NewScyllaOrders() *ScyllaOrders { return &ScyllaOrders{} }

func (s *ScyllaOrders) Create(ctx context.Context, order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	err = session.Query(`INSERT INTO orders (order_id, customer_id, email, shipping_address, payment_status, fulfillment_status, total_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.CustomerID, order.Email, order.ShippingAddress,
		order.PaymentStatus, order.FulfillmentStatus, order.TotalPrice, order.CreatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		return err
	}

	// Lignes de commande + index par vendeur pour les requêtes côté vendeur
	for _, item := range order.Items {
		if err := session.Query(`INSERT INTO order_items (order_id, product_id, name, quantity, unit_price, vendor_id)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Name, item.Quantity, item.UnitPrice, item.VendorID).
			WithContext(ctx).Exec(); err != nil {
			return err
		}

		// Index inverse utilisé par le garde-fou de suppression produit
		if err := session.Query(`INSERT INTO order_items_by_product (product_id, order_id) VALUES (?, ?)`,
			item.ProductID, order.ID).WithContext(ctx).Exec(); err != nil {
			return err
		}

		if item.VendorID != (gocql.UUID{}) {
			if err := session.Query(`INSERT INTO orders_by_vendor (vendor_id, order_id) VALUES (?, ?)`,
				item.VendorID, order.ID).WithContext(ctx).Exec(); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *ScyllaOrders) Get(ctx context.Context, id gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var o models.Order
	o.ID = id

	err = session.Query(`SELECT customer_id, email, shipping_address, payment_status, fulfillment_status, total_price, created_at
		FROM orders WHERE order_id = ?`, id).WithContext(ctx).
		Scan(&o.CustomerID, &o.Email, &o.ShippingAddress, &o.PaymentStatus, &o.FulfillmentStatus, &o.TotalPrice, &o.CreatedAt)
	if err == gocql.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, name, quantity, unit_price, vendor_id
		FROM order_items WHERE order_id = ?`, id).WithContext(ctx).Iter()

	var item models.OrderItem
	for iter.Scan(&item.ProductID, &item.Name, &item.Quantity, &item.UnitPrice, &item.VendorID) {
		o.Items = append(o.Items, item)
		item = models.OrderItem{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (s *ScyllaOrders) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id, email, shipping_address, payment_status, fulfillment_status, total_price, created_at
		FROM orders WHERE customer_id = ? ALLOW FILTERING`, customerID).WithContext(ctx).Iter()

	var orders []models.Order
	var o models.Order
	for iter.Scan(&o.ID, &o.Email, &o.ShippingAddress, &o.PaymentStatus, &o.FulfillmentStatus, &o.TotalPrice, &o.CreatedAt) {
		o.CustomerID = customerID
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (s *ScyllaOrders) ListByVendor(ctx context.Context, vendorID gocql.UUID) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id FROM orders_by_vendor WHERE vendor_id = ?`, vendorID).
		WithContext(ctx).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	var orders []models.Order
	for _, id := range ids {
		order, err := s.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	return orders, nil
}

func (s *ScyllaOrders) UpdateFulfillmentStatus(ctx context.Context, id gocql.UUID, status string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	applied, err := session.Query(`UPDATE orders SET fulfillment_status = ? WHERE order_id = ? IF EXISTS`,
		status, id).WithContext(ctx).ScanCAS()
	if err != nil {
		return err
	}
	if !applied {
		return ErrNotFound
	}
	return nil
}

func (s *ScyllaOrders) Delete(ctx context.Context, id gocql.UUID) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	if err := session.Query(`DELETE FROM order_items WHERE order_id = ?`, id).WithContext(ctx).Exec(); err != nil {
		return err
	}
	return session.Query(`DELETE FROM orders WHERE order_id = ?`, id).WithContext(ctx).Exec()
}
