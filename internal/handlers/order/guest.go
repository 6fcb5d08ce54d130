package order

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"storefront_back_end/internal/store"
)

// GuestLookup permet à un invité de consulter sa commande avec order_id +
// e-mail, sans authentification. La réponse 404 est strictement identique
// pour « commande inconnue » et « e-mail incorrect » afin de ne pas permettre
// l'énumération des commandes.
func (h *Handler) GuestLookup(c *gin.Context) {
	var req struct {
		OrderID string `json:"order_id"`
		Email   string `json:"email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID and email are required."})
		return
	}

	oid, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or email does not match."})
		return
	}

	order, err := h.Orders.Get(c.Request.Context(), gocql.UUID(oid))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or email does not match."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if order.Email != req.Email {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found or email does not match."})
		return
	}

	c.JSON(http.StatusOK, order)
}
