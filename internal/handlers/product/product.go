package product

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/services"
)

const allProductsCacheKey = "products:all"

func CreateProduct(c *gin.Context) {
	var p models.Product

	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if p.CollectionID == (gocql.UUID{}) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'collection_id' est obligatoire"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ✅ Vérifie que la collection existe
	var collectionTitle string
	if err := session.Query(`SELECT title FROM collections WHERE collection_id = ?`, p.CollectionID).Scan(&collectionTitle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Collection introuvable"})
		return
	}

	p.ID = gocql.TimeUUID()
	p.IsActive = true
	now := time.Now()
	p.CreatedAt = &now
	p.UpdatedAt = &now

	query := `INSERT INTO products (product_id, name, description, price, stock, sku, collection_id, vendor_id, image_urls, tags, is_active, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if err := session.Query(query, p.ID, p.Name, p.Description, p.Price, p.Stock, p.SKU,
		p.CollectionID, p.VendorID, p.ImageURLs, p.Tags, p.IsActive, p.CreatedAt, p.UpdatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	// 🔄 Indexation Elasticsearch + invalidation du cache liste
	go services.IndexProduct(p)
	database.RedisClient.Del(context.Background(), allProductsCacheKey)

	c.JSON(http.StatusCreated, p)
}

func GetAllProducts(c *gin.Context) {
	ctx := context.Background()

	// ✅ Vérifie le cache Redis
	if val, err := database.RedisClient.Get(ctx, allProductsCacheKey).Result(); err == nil && val != "" {
		var cached []models.Product
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, description, price, stock, sku, collection_id, vendor_id, image_urls, tags, is_active, created_at, updated_at FROM products`).Iter()

	var products []models.Product
	var p models.Product

	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.SKU, &p.CollectionID,
		&p.VendorID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{} // Reset pour la prochaine itération
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	// ✅ Met en cache
	if data, err := json.Marshal(products); err == nil {
		database.RedisClient.Set(ctx, allProductsCacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, products)
}

func GetProduct(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT product_id, name, description, price, stock, sku, collection_id, vendor_id, image_urls, tags, is_active, created_at, updated_at
		FROM products WHERE product_id = ?`, gocql.UUID(pid)).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.SKU, &p.CollectionID,
			&p.VendorID, &p.ImageURLs, &p.Tags, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, p)
}

func UpdateProduct(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	p.ID = gocql.UUID(pid)
	now := time.Now()
	p.UpdatedAt = &now

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, stock = ?, sku = ?, collection_id = ?, image_urls = ?, tags = ?, is_active = ?, updated_at = ?
		WHERE product_id = ?`,
		p.Name, p.Description, p.Price, p.Stock, p.SKU, p.CollectionID, p.ImageURLs, p.Tags, p.IsActive, p.UpdatedAt, p.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	go services.IndexProduct(p)
	database.RedisClient.Del(context.Background(), allProductsCacheKey)

	c.JSON(http.StatusOK, p)
}

// DeleteProduct refuse la suppression tant que des lignes de commande
// référencent le produit
func DeleteProduct(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var orderID gocql.UUID
	err = ordersSession.Query(`SELECT order_id FROM order_items_by_product WHERE product_id = ? LIMIT 1`,
		gocql.UUID(pid)).Scan(&orderID)
	if err == nil {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Product cannot be deleted because it is associated with an order item."})
		return
	}
	if err != gocql.ErrNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification commandes"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM products WHERE product_id = ?`, gocql.UUID(pid)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression produit"})
		return
	}

	go services.RemoveProductFromIndex(pid.String())
	database.RedisClient.Del(context.Background(), allProductsCacheKey)

	c.Status(http.StatusNoContent)
}

// SearchProducts interroge Elasticsearch et signe les URLs d'images
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		log.Println("❌ Erreur recherche Elastic:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche"})
		return
	}

	for i := range results {
		if urls, ok := results[i]["image_urls"].([]interface{}); ok {
			signed := []string{}
			for _, u := range urls {
				if str, ok := u.(string); ok && str != "" {
					signedURL, err := services.GenerateSignedURL(context.Background(), str, 24*time.Hour)
					if err == nil {
						signed = append(signed, signedURL)
					}
				}
			}
			results[i]["image_urls"] = signed
		}
	}

	c.JSON(http.StatusOK, results)
}
