package payement

import "errors"

var (
	// ErrDuplicatePayment : la commande a déjà un paiement completed.
	// Refusé côté client (400), jamais de nouvelle écriture.
	ErrDuplicatePayment = errors.New("payment already completed for this order")
)
