package dto

import (
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
)

// StorePatch is the column-level update the repository applies.
type StorePatch struct {
	Name         *string
	PasswordHash *string
	LogoURL      model.Optional[string]
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	StoreID   string    `json:"storeId,omitempty"`
	StoreName string    `json:"storeName,omitempty"`
	LogoURL   *string   `json:"logoUrl,omitempty"`
}
