package models

import "time"

type Game struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	CoverURL  *string   `json:"cover_url,omitempty" db:"cover_url"`
	Platforms []string  `json:"platforms" db:"platforms"`
	CreatedBy *int      `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	CoverKey *string `json:"-" db:"cover_key"`
}
