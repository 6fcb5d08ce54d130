package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/store"
)

// Carts expose les opérations panier (connecté et invité). Les articles sont
// résolus contre le catalogue : le client n'envoie jamais de prix.
type Carts struct {
	Store    *store.RedisCarts
	Products store.ProductStore
}

func NewCarts(s *store.RedisCarts, products store.ProductStore) *Carts {
	return &Carts{Store: s, Products: products}
}

// cartKeyFromRequest résout la clé Redis du panier : utilisateur connecté,
// sinon token invité passé en header
func (h *Carts) cartKeyFromRequest(c *gin.Context) (string, bool) {
	if userID := c.GetString("user_id"); userID != "" {
		return store.CartKey(userID), true
	}
	if token := c.GetHeader("X-Cart-Token"); token != "" {
		return store.GuestCartKey(token), true
	}
	return "", false
}

// CreateGuestCart génère un token de panier invité (TTL 7 jours)
func (h *Carts) CreateGuestCart(c *gin.Context) {
	token := uuid.NewString()

	if err := h.Store.Save(c.Request.Context(), store.GuestCartKey(token), []models.CartItem{}, store.GuestCartTTL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création panier"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"cart_token": token, "expires_in": int(store.GuestCartTTL.Seconds())})
}

func (h *Carts) GetCart(c *gin.Context) {
	key, ok := h.cartKeyFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun panier identifié (connexion ou header X-Cart-Token requis)"})
		return
	}

	items, err := h.Store.Items(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}

	c.JSON(http.StatusOK, models.Cart{Key: key, Items: items})
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// AddItem ajoute un article, ou cumule la quantité s'il est déjà présent.
// Nom et prix viennent du catalogue, jamais du client.
func (h *Carts) AddItem(c *gin.Context) {
	key, ok := h.cartKeyFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun panier identifié (connexion ou header X-Cart-Token requis)"})
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	pid, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ctx := c.Request.Context()

	pricing, err := h.Products.Pricing(ctx, gocql.UUID(pid))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	items, err := h.Store.Items(ctx, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	quantity := req.Quantity
	found := false
	for i := range items {
		if items[i].ProductID == req.ProductID {
			items[i].Quantity += req.Quantity
			quantity = items[i].Quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, models.CartItem{
			ProductID: req.ProductID,
			Name:      pricing.Name,
			Price:     pricing.Price,
			Quantity:  req.Quantity,
		})
	}

	if pricing.Stock < quantity {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Stock insuffisant",
			"product":   pricing.Name,
			"available": pricing.Stock,
			"requested": quantity,
		})
		return
	}

	if err := h.Store.Save(ctx, key, items, h.ttlFor(key)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, models.Cart{Key: key, Items: items})
}

// RemoveItem retire entièrement un article du panier
func (h *Carts) RemoveItem(c *gin.Context) {
	key, ok := h.cartKeyFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun panier identifié (connexion ou header X-Cart-Token requis)"})
		return
	}

	productID := c.Param("product_id")
	ctx := c.Request.Context()

	items, err := h.Store.Items(ctx, key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture panier"})
		return
	}

	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}

	if err := h.Store.Save(ctx, key, kept, h.ttlFor(key)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, models.Cart{Key: key, Items: kept})
}

func (h *Carts) ClearCart(c *gin.Context) {
	key, ok := h.cartKeyFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun panier identifié (connexion ou header X-Cart-Token requis)"})
		return
	}

	if err := h.Store.Clear(c.Request.Context(), key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vidage panier"})
		return
	}

	c.Status(http.StatusNoContent)
}

// ttlFor : les paniers invités expirent, les paniers clients persistent
func (h *Carts) ttlFor(key string) time.Duration {
	if len(key) > len("cart:guest:") && key[:len("cart:guest:")] == "cart:guest:" {
		return store.GuestCartTTL
	}
	return 0
}
