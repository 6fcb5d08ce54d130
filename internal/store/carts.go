package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/models"
)

const GuestCartTTL = 7 * 24 * time.Hour

// CartSource fournit le contenu d'un panier au moment de la commande
type CartSource interface {
	Items(ctx context.Context, key string) ([]models.CartItem, error)
	Clear(ctx context.Context, key string) error
}

// RedisCarts stocke les paniers en JSON dans Redis, comme les handlers panier.
// Clés : "cart:<user_id>" pour les clients connectés, "cart:guest:<token>"
// pour les paniers invités.
type RedisCarts struct {
	RDB *redis.Client
}

func NewRedisCarts(rdb *redis.Client) *RedisCarts { return &RedisCarts{RDB: rdb} }

func CartKey(userID string) string { return "cart:" + userID }

func GuestCartKey(token string) string { return "cart:guest:" + token }

func (c *RedisCarts) Items(ctx context.Context, key string) ([]models.CartItem, error) {
	data, err := c.RDB.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // panier vide
	}
	if err != nil {
		return nil, err
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}

	return items, nil
}

func (c *RedisCarts) Save(ctx context.Context, key string, items []models.CartItem, ttl time.Duration) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.RDB.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCarts) Clear(ctx context.Context, key string) error {
	return c.RDB.Del(ctx, key).Err()
}
