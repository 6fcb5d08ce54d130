package payement

import (
	"context"
	"errors"
	"log"

	"github.com/gocql/gocql"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// Reconciler décide, pour une commande qui vient d'être soumise, s'il faut
// créer un paiement, réutiliser celui qui existe, ou refuser un doublon.
type Reconciler struct {
	Payments store.PaymentStore
	Intents  IntentClient
}

// Reconcile applique la procédure, dans cet ordre :
//  1. paiement absent → création en pending (montant = total de la commande,
//     méthode "stripe"), via LWT sur la clé order_id ;
//  2. paiement completed → ErrDuplicatePayment, rien n'est écrit ;
//  3. paiement pending ou failed → remise en pending sur la même identité de
//     paiement (nouvelle tentative), jamais de second enregistrement.
//
// Une invocation écrit le paiement exactement une fois. Si la création perd
// une course contre une soumission concurrente, on retombe sur le paiement
// gagnant comme s'il avait existé dès le départ.
func (r *Reconciler) Reconcile(ctx context.Context, order *models.Order) (*models.Payment, error) {
	existing, err := r.Payments.GetByOrder(ctx, order.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if existing == nil {
		intentID, err := r.Intents.CreateIntent(ctx, order.TotalPrice, map[string]string{
			"order_id": order.ID.String(),
			"email":    order.Email,
		})
		if err != nil {
			return nil, err
		}

		p := &models.Payment{
			ID:       gocql.TimeUUID(),
			OrderID:  order.ID,
			IntentID: intentID,
			Amount:   order.TotalPrice,
			Method:   "stripe",
			Status:   models.PaymentPending,
		}

		applied, err := r.Payments.CreatePending(ctx, p)
		if err != nil {
			return nil, err
		}
		if applied {
			return p, nil
		}

		// Course perdue : un autre worker a créé le paiement entre la lecture
		// et l'insertion. On le recharge et on continue comme une réutilisation.
		log.Printf("🔁 Paiement déjà créé pour la commande %s, bascule sur la réutilisation", order.ID)
		existing, err = r.Payments.GetByOrder(ctx, order.ID)
		if err != nil {
			return nil, err
		}
	}

	if existing.Status == models.PaymentCompleted {
		return nil, ErrDuplicatePayment
	}

	// pending ou failed : on réarme le même paiement pour une nouvelle
	// tentative chez le prestataire
	applied, err := r.Payments.ResetPending(ctx, existing.OrderID)
	if err != nil {
		return nil, err
	}
	if !applied {
		// le paiement est passé completed entre-temps
		return nil, ErrDuplicatePayment
	}

	existing.Status = models.PaymentPending
	return existing, nil
}
