package payement

import (
	"context"
	"log"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/client"
)

// IntentClient crée une intention de paiement chez le prestataire et retourne
// son identifiant externe. Interface pour pouvoir brancher un faux en test.
type IntentClient interface {
	CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (string, error)
}

// StripeIntents encapsule l'API Stripe. La clé est injectée au démarrage
// plutôt que lue dans l'environnement à chaque appel.
type StripeIntents struct {
	api      *client.API
	currency string
}

func NewStripeIntents(secretKey string) *StripeIntents {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeIntents{api: api, currency: "eur"}
}

func (s *StripeIntents) CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: metadata,
	}
	params.Context = ctx

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		return "", err
	}

	log.Printf("💳 PaymentIntent créé : %s (%.2f€)", intent.ID, amount)
	return intent.ID, nil
}
