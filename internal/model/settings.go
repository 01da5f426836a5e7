package model

import "time"

type GlobalSettings struct {
	LoginLogoURL *string    `db:"login_logo_url" json:"login_logo_url"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
