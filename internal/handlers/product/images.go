package product

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/services"
)

// UploadProductImage téléverse une image dans MinIO et l'ajoute à la liste
// d'URLs du produit
func UploadProductImage(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
		return
	}

	rawURL, err := services.UploadImage(c.Request.Context(), "products/"+pid.String(), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image: " + err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE products SET image_urls = image_urls + ? WHERE product_id = ?`,
		[]string{rawURL}, gocql.UUID(pid)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	database.RedisClient.Del(context.Background(), allProductsCacheKey)

	c.JSON(http.StatusCreated, gin.H{"url": rawURL})
}

// GetProductImages retourne les URLs signées des images d'un produit
func GetProductImages(c *gin.Context) {
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

	var imageURLs []string
	if err := session.Query(`SELECT image_urls FROM products WHERE product_id = ?`, gocql.UUID(pid)).
		Scan(&imageURLs); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	signed := []string{}
	for _, u := range imageURLs {
		signedURL, err := services.GenerateSignedURL(c.Request.Context(), u, 24*time.Hour)
		if err != nil {
			continue
		}
		signed = append(signed, signedURL)
	}

	c.JSON(http.StatusOK, gin.H{"images": signed})
}
