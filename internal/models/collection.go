package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Collection struct {
	ID          gocql.UUID `json:"id,omitempty"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}
