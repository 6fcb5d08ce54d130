package product

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront_back_end/internal/database"
)

func userLikesKey(userID string) string { return "likes:user:" + userID }

func productLikesKey(productID string) string { return "likes:product:" + productID }

// LikeProduct enregistre un like (ensembles Redis croisés user<->produit)
func LikeProduct(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	pipe := database.RedisClient.Pipeline()
	pipe.SAdd(ctx, userLikesKey(userID), pid.String())
	pipe.SAdd(ctx, productLikesKey(pid.String()), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": true})
}

func UnlikeProduct(c *gin.Context) {
	pid, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	pipe := database.RedisClient.Pipeline()
	pipe.SRem(ctx, userLikesKey(userID), pid.String())
	pipe.SRem(ctx, productLikesKey(pid.String()), userID)
	if _, err := pipe.Exec(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression like"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": false})
}

func GetUserLikes(c *gin.Context) {
	userID := c.GetString("user_id")

	likes, err := database.RedisClient.SMembers(c.Request.Context(), userLikesKey(userID)).Result()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture likes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// GetRecommendations propose des produits likés par les utilisateurs qui
// partagent des likes avec l'utilisateur courant (filtrage collaboratif naïf)
func GetRecommendations(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	mine, err := database.RedisClient.SMembers(ctx, userLikesKey(userID)).Result()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture likes"})
		return
	}

	liked := make(map[string]bool, len(mine))
	for _, p := range mine {
		liked[p] = true
	}

	scores := map[string]int{}
	for _, productID := range mine {
		neighbors, err := database.RedisClient.SMembers(ctx, productLikesKey(productID)).Result()
		if err != nil {
			continue
		}
		for _, neighbor := range neighbors {
			if neighbor == userID {
				continue
			}
			theirs, err := database.RedisClient.SMembers(ctx, userLikesKey(neighbor)).Result()
			if err != nil {
				continue
			}
			for _, p := range theirs {
				if !liked[p] {
					scores[p]++
				}
			}
		}
	}

	type scored struct {
		ProductID string `json:"product_id"`
		Score     int    `json:"score"`
	}
	recommendations := make([]scored, 0, len(scores))
	for p, s := range scores {
		recommendations = append(recommendations, scored{ProductID: p, Score: s})
	}
	sort.Slice(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	if len(recommendations) > 10 {
		recommendations = recommendations[:10]
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recommendations})
}
