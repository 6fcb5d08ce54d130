package product

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

func CreateCollection(c *gin.Context) {
	var col models.Collection
	if err := c.ShouldBindJSON(&col); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if col.Title == "" || col.Slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Les champs 'title' et 'slug' sont obligatoires"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	col.ID = gocql.TimeUUID()
	now := time.Now()
	col.CreatedAt = &now

	if err := session.Query(`INSERT INTO collections (collection_id, title, slug, description, image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		col.ID, col.Title, col.Slug, col.Description, col.ImageURL, col.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création collection"})
		return
	}

	c.JSON(http.StatusCreated, col)
}

func GetAllCollections(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT collection_id, title, slug, description, image_url, created_at FROM collections`).Iter()

	var collections []models.Collection
	var col models.Collection
	for iter.Scan(&col.ID, &col.Title, &col.Slug, &col.Description, &col.ImageURL, &col.CreatedAt) {
		collections = append(collections, col)
		col = models.Collection{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture collections"})
		return
	}

	c.JSON(http.StatusOK, collections)
}

func GetCollection(c *gin.Context) {
	cid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID collection invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var col models.Collection
	err = session.Query(`SELECT collection_id, title, slug, description, image_url, created_at
		FROM collections WHERE collection_id = ?`, gocql.UUID(cid)).
		Scan(&col.ID, &col.Title, &col.Slug, &col.Description, &col.ImageURL, &col.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection introuvable"})
		return
	}

	c.JSON(http.StatusOK, col)
}

// DeleteCollection refuse la suppression si des produits appartiennent encore
// à la collection
func DeleteCollection(c *gin.Context) {
	cid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID collection invalide"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var productID gocql.UUID
	err = session.Query(`SELECT product_id FROM products WHERE collection_id = ? LIMIT 1 ALLOW FILTERING`,
		gocql.UUID(cid)).Scan(&productID)
	if err == nil {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Collection cannot be deleted because it includes one or more products."})
		return
	}
	if err != gocql.ErrNotFound {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification produits"})
		return
	}

	if err := session.Query(`DELETE FROM collections WHERE collection_id = ?`, gocql.UUID(cid)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression collection"})
		return
	}

	c.Status(http.StatusNoContent)
}
