package order

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// Handler porte la soumission de commande et sa réconciliation de paiement.
// Toutes les dépendances sont injectées pour pouvoir tester avec des faux.
type Handler struct {
	Orders     store.OrderStore
	Products   store.ProductStore
	Carts      store.CartSource
	Reconciler *payement.Reconciler
}

// corps accepté par POST /api/orders. Tous les champs sont optionnels pour un
// client connecté (le panier vient de sa session) ; un invité doit fournir
// cart_token et email. order_id déclenche une nouvelle tentative de paiement
// sur une commande existante au lieu d'en créer une.
type createOrderRequest struct {
	OrderID         string `json:"order_id"`
	CartToken       string `json:"cart_token"`
	Email           string `json:"email"`
	ShippingAddress string `json:"shipping_address"`
}

// Create traite la soumission, connectée ou invitée. La route reste ouverte à
// tous les appelants : le refus de doublon de la réconciliation est la seule
// garde contre une commande déjà payée, et il doit le rester.
func (h *Handler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("user_id") // renseigné par OptionalAuth si JWT valide

	var req createOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
			return
		}
	}

	var email, cartKey string
	if userID != "" {
		email = c.GetString("email")
		cartKey = store.CartKey(userID)
	} else {
		if req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "L'e-mail de contact est requis pour une commande invitée"})
			return
		}
		if req.OrderID == "" && req.CartToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart_token requis pour une commande invitée"})
			return
		}
		email = req.Email
		cartKey = store.GuestCartKey(req.CartToken)
	}

	// Nouvelle soumission pour une commande existante : on ne recrée rien,
	// on relance uniquement la réconciliation (retry de paiement)
	if req.OrderID != "" {
		h.resubmit(c, req, userID)
		return
	}

	items, err := h.Carts.Items(ctx, cartKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide ou introuvable"})
		return
	}

	var orderItems []models.OrderItem
	var total float64

	for _, item := range items {
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide pour le produit " + item.ProductID})
			return
		}

		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide: " + item.ProductID})
			return
		}

		pricing, err := h.Products.Pricing(ctx, gocql.UUID(pid))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Produit introuvable: " + item.ProductID})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}

		if pricing.Stock < item.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Stock insuffisant",
				"product":   pricing.Name,
				"available": pricing.Stock,
				"requested": item.Quantity,
			})
			return
		}

		// prix figé au moment de la commande, pas celui du panier
		orderItems = append(orderItems, models.OrderItem{
			ProductID: pricing.ID,
			Name:      pricing.Name,
			Quantity:  item.Quantity,
			UnitPrice: pricing.Price,
			VendorID:  pricing.VendorID,
		})
		total += pricing.Price * float64(item.Quantity)
	}

	order := &models.Order{
		ID:                gocql.TimeUUID(),
		CustomerID:        userID,
		Email:             email,
		ShippingAddress:   req.ShippingAddress,
		PaymentStatus:     models.OrderPaymentPending,
		FulfillmentStatus: models.FulfillmentProcessing,
		TotalPrice:        total,
		CreatedAt:         time.Now(),
		Items:             orderItems,
	}

	if err := h.Orders.Create(ctx, order); err != nil {
		log.Printf("❌ Erreur création commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création commande"})
		return
	}

	if !h.reconcile(c, order) {
		return
	}

	// le panier est consommé par la commande
	if err := h.Carts.Clear(ctx, cartKey); err != nil {
		log.Printf("⚠️ Panier %s non supprimé: %v", cartKey, err)
	}

	log.Printf("✅ Commande %s créée (%.2f€) pour %s", order.ID, order.TotalPrice, order.Email)
	c.JSON(http.StatusCreated, order)
}

// resubmit relance le paiement d'une commande existante. L'appartenance est
// vérifiée comme pour la consultation invitée : on ne distingue jamais
// « mauvais e-mail » de « commande inconnue ».
func (h *Handler) resubmit(c *gin.Context, req createOrderRequest, userID string) {
	ctx := c.Request.Context()

	oid, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	order, err := h.Orders.Get(ctx, gocql.UUID(oid))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if userID != "" {
		if order.CustomerID != userID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
			return
		}
	} else if order.Email != req.Email {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if !h.reconcile(c, order) {
		return
	}

	log.Printf("🔁 Nouvelle tentative de paiement pour la commande %s", order.ID)
	c.JSON(http.StatusCreated, order)
}

// reconcile appelle la réconciliation et écrit la réponse d'erreur le cas
// échéant. Retourne false si la requête est terminée.
func (h *Handler) reconcile(c *gin.Context, order *models.Order) bool {
	payment, err := h.Reconciler.Reconcile(c.Request.Context(), order)
	if errors.Is(err, payement.ErrDuplicatePayment) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Payment for Order %s has already been completed.", order.ID),
		})
		return false
	}
	if err != nil {
		log.Printf("❌ Erreur réconciliation paiement commande %s: %v", order.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return false
	}

	order.Payment = payment
	return true
}

// List retourne les commandes du client connecté
func (h *Handler) List(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	orders, err := h.Orders.ListByCustomer(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Erreur récupération commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetByID retourne une commande si elle appartient à l'appelant (ou admin)
func (h *Handler) GetByID(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")

	oid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	order, err := h.Orders.Get(c.Request.Context(), gocql.UUID(oid))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if order.CustomerID != userID && role != "admin" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// Update (admin) modifie le statut de traitement, jamais le statut de
// paiement : celui-ci n'appartient qu'au webhook
func (h *Handler) Update(c *gin.Context) {
	var req struct {
		FulfillmentStatus string `json:"fulfillment_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	oid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	err = h.Orders.UpdateFulfillmentStatus(c.Request.Context(), gocql.UUID(oid), req.FulfillmentStatus)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour commande"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Order status updated"})
}

// Delete (admin)
func (h *Handler) Delete(c *gin.Context) {
	oid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if err := h.Orders.Delete(c.Request.Context(), gocql.UUID(oid)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression commande"})
		return
	}

	c.Status(http.StatusNoContent)
}
