package product

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/product/dto"
)

type UseCase interface {
	// EnsureProduct is a pure lookup: (nil, nil) when the EAN is unknown.
	EnsureProduct(ctx context.Context, ean string) (*model.Product, error)
	GetProducts(ctx context.Context, eans []string) ([]model.Product, error)
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, ean string, patch *model.ProductPatch) (*model.Product, error)
	// RefreshProduct re-syncs the cache, search index and subscribers after the
	// product row was changed outside this usecase.
	RefreshProduct(ctx context.Context, ean string) error
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
}
