package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts de paiement d'une commande
const (
	OrderPaymentPending   = "pending"
	OrderPaymentCompleted = "completed"
	OrderPaymentFailed    = "failed"
)

// Statuts de traitement côté vendeur (distinct du statut de paiement)
const (
	FulfillmentProcessing = "processing"
	FulfillmentShipped    = "shipped"
	FulfillmentDelivered  = "delivered"
)

type Order struct {
	ID                gocql.UUID  `json:"id"`
	CustomerID        string      `json:"customer_id,omitempty"` // vide => commande invitée
	Email             string      `json:"email"`
	ShippingAddress   string      `json:"shipping_address,omitempty"`
	PaymentStatus     string      `json:"payment_status"`
	FulfillmentStatus string      `json:"fulfillment_status"`
	TotalPrice        float64     `json:"total_price"`
	CreatedAt         time.Time   `json:"created_at"`
	Items             []OrderItem `json:"items"`
	Payment           *Payment    `json:"payment,omitempty"`
}

// IsGuest indique si la commande a été passée sans compte client
func (o *Order) IsGuest() bool {
	return o.CustomerID == ""
}

type OrderItem struct {
	ProductID gocql.UUID `json:"product_id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	UnitPrice float64    `json:"unit_price"` // prix figé au moment de la commande
	VendorID  gocql.UUID `json:"vendor_id,omitempty"`
}
