package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Vendor struct {
	ID          gocql.UUID `json:"id"`
	UserID      string     `json:"user_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ImageURLs   []string   `json:"image_urls,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
