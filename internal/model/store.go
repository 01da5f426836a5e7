package model

import "time"

type Store struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Email        *string   `db:"email" json:"email"`
	LogoURL      *string   `db:"logo_url" json:"logo_url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StoreSummary is the public listing shape used by the login screen.
type StoreSummary struct {
	ID      string  `db:"id" json:"id"`
	Name    string  `db:"name" json:"name"`
	LogoURL *string `db:"logo_url" json:"logo_url"`
}
