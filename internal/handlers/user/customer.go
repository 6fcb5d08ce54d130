package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

// Me retourne le profil de l'utilisateur connecté (cache Redis 15 min)
func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	if cached, ok := cache.GetUser(ctx, userID); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	var user models.User
	user.ID = userID
	if err := database.GetPreparedGetUserByID().Bind(userID).
		Scan(&user.Email, &user.Password, &user.Name, &user.Role, &user.Phone, &user.BirthDate); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	cache.SetUser(ctx, user)
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date"`
}

// UpdateMe met à jour les champs modifiables du profil
func UpdateMe(c *gin.Context) {
	userID := c.GetString("user_id")

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.GetPreparedUpdateUser().
		Bind(req.Name, req.Phone, req.BirthDate, time.Now(), userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	cache.InvalidateUser(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListCustomers (admin) liste tous les comptes, sans les mots de passe
func ListCustomers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT user_id, email, name, role, phone, birth_date FROM users`).Iter()

	var users []models.User
	var u models.User
	for iter.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Phone, &u.BirthDate) {
		users = append(users, u)
		u = models.User{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture utilisateurs"})
		return
	}

	c.JSON(http.StatusOK, users)
}
