package models

import (
	"github.com/uptrace/bun"
)

// Movie is immutable catalog data; the core reads it for validation only.
type Movie struct {
	bun.BaseModel `bun:"table:movies"`

	ID             string `bun:"id,pk" json:"id"`
	Title          string `bun:"title,notnull" json:"title"`
	Genre          string `bun:"genre" json:"genre"`
	RuntimeMinutes int    `bun:"runtime_minutes" json:"runtime_minutes"`
	Language       string `bun:"language" json:"language"`
}
