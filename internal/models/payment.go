package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Statuts d'un paiement. "completed" est terminal : plus aucune mutation ensuite.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment est lié 1:1 à une commande (order_id est la clé de partition).
type Payment struct {
	ID        gocql.UUID `json:"id"`
	OrderID   gocql.UUID `json:"order_id"`
	IntentID  string     `json:"intent_id"` // identifiant PaymentIntent côté Stripe
	Amount    float64    `json:"amount"`
	Method    string     `json:"method"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
