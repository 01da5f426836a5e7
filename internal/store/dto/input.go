package dto

import "github.com/fekuna/omnipos-picklist-service/internal/model"

type CreateStoreInput struct {
	Name     string
	Password string
	Email    *string
	LogoURL  *string
}

// UpdateStoreInput patches a store. An absent or blank password keeps the old one.
type UpdateStoreInput struct {
	ID       string
	Name     model.Optional[string]
	Password model.Optional[string]
	LogoURL  model.Optional[string]
}

// LoginInput identifies the store by id or, failing that, by name.
type LoginInput struct {
	StoreID   string
	StoreName string
	Password  string
}
