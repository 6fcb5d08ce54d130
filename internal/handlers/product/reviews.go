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

type createReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// CreateReview ajoute un avis sur un produit (client authentifié)
func CreateReview(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "La note doit être comprise entre 1 et 5"})
		return
	}

	userID := c.GetString("user_id")
	userName := c.GetString("email")

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	review := models.Review{
		ID:        gocql.TimeUUID(),
		ProductID: gocql.UUID(pid),
		UserID:    userID,
		UserName:  userName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := session.Query(`INSERT INTO reviews (product_id, review_id, user_id, user_name, rating, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		review.ProductID, review.ID, review.UserID, review.UserName, review.Rating, review.Comment, review.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création avis"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// GetProductReviews liste les avis d'un produit, du plus récent au plus ancien
func GetProductReviews(c *gin.Context) {
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

	iter := session.Query(`SELECT review_id, user_id, user_name, rating, comment, created_at
		FROM reviews WHERE product_id = ?`, gocql.UUID(pid)).Iter()

	var reviews []models.Review
	var r models.Review
	r.ProductID = gocql.UUID(pid)
	for iter.Scan(&r.ID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.CreatedAt) {
		reviews = append(reviews, r)
		r = models.Review{ProductID: gocql.UUID(pid)}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture avis"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}
