package cache

import (
	"context"
	"encoding/json"
	"time"

	"storefront_back_end/internal/database"
	"storefront_back_end/internal/models"
)

const userCacheTTL = 15 * time.Minute

func userKey(userID string) string { return "user:" + userID }

// GetUser lit le profil depuis Redis, ou renvoie false en cas de miss
func GetUser(ctx context.Context, userID string) (*models.User, bool) {
	if database.RedisClient == nil {
		return nil, false
	}

	data, err := database.RedisClient.Get(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, false
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, false
	}
	return &user, true
}

// SetUser met le profil en cache. Le mot de passe n'est jamais stocké.
func SetUser(ctx context.Context, user models.User) {
	if database.RedisClient == nil {
		return
	}

	user.Password = ""
	data, err := json.Marshal(user)
	if err != nil {
		return
	}
	database.RedisClient.Set(ctx, userKey(user.ID), data, userCacheTTL)
}

// InvalidateUser purge le cache après une mise à jour de profil
func InvalidateUser(ctx context.Context, userID string) {
	if database.RedisClient == nil {
		return
	}
	database.RedisClient.Del(ctx, userKey(userID))
}
