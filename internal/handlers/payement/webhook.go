package payement

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// Mailer envoie la confirmation de commande une fois le paiement validé
type Mailer interface {
	SendOrderConfirmation(order *models.Order) error
}

// WebhookHandler ingère les événements asynchrones Stripe. Le secret webhook
// est injecté au démarrage (pas de singleton d'environnement).
type WebhookHandler struct {
	Secret   string
	Payments store.PaymentStore
	Orders   store.OrderStore
	Mailer   Mailer // optionnel, peut être nil
}

// Handle vérifie la signature contre le corps brut, puis applique la
// transition annoncée. Les relivraisons du même événement sont des no-ops.
func (h *WebhookHandler) Handle(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.Secret)
	if err != nil {
		if isSignatureError(err) {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}
		log.Println("❌ Payload Stripe invalide:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	var target string
	switch event.Type {
	case "payment_intent.succeeded":
		target = models.PaymentCompleted
	case "payment_intent.payment_failed":
		target = models.PaymentFailed
	default:
		// Types inconnus acquittés sans mutation : Stripe peut en ajouter
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		c.JSON(http.StatusOK, gin.H{"status": "success"})
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Println("❌ Erreur décodage PaymentIntent:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	ctx := c.Request.Context()

	orderID, err := h.Payments.OrderIDByIntent(ctx, pi.ID)
	if errors.Is(err, store.ErrNotFound) {
		// Désynchronisation prestataire/réconciliation : jamais avalée en silence
		log.Printf("❌ Webhook pour un paiement inconnu (intent %s) — désynchronisation", pi.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No matching payment for event"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur base de données"})
		return
	}

	payment, err := h.Payments.GetByOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("❌ Paiement absent pour la commande %s (intent %s) — désynchronisation", orderID, pi.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "No matching payment for event"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur base de données"})
		return
	}

	switch {
	case payment.Status == target:
		// Relivraison du même événement : une seule transition effective
		log.Printf("🔁 Événement %s rejoué pour la commande %s, déjà %s", event.Type, orderID, target)
	case payment.Status == models.PaymentCompleted:
		// completed est terminal, on ne le dégrade jamais
		log.Printf("⚠️ Événement %s ignoré : le paiement de la commande %s est déjà completed", event.Type, orderID)
	default:
		if err := h.Payments.ApplyProviderStatus(ctx, orderID, target); err != nil {
			log.Printf("❌ Erreur transition paiement commande %s: %v", orderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur base de données"})
			return
		}
		log.Printf("✅ Paiement commande %s → %s (intent %s)", orderID, target, pi.ID)

		if target == models.PaymentCompleted && h.Mailer != nil {
			h.sendConfirmation(c, orderID)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *WebhookHandler) sendConfirmation(c *gin.Context, orderID gocql.UUID) {
	order, err := h.Orders.Get(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("⚠️ Impossible de charger la commande %s pour l'e-mail: %v", orderID, err)
		return
	}

	go func() {
		if err := h.Mailer.SendOrderConfirmation(order); err != nil {
			log.Println("❌ Erreur envoi e-mail confirmation :", err)
		} else {
			log.Println("📧 E-mail de confirmation envoyé à", order.Email)
		}
	}()
}

// isSignatureError distingue un échec de vérification de signature d'un corps
// mal formé : les deux donnent 400 mais pas le même message
func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}
