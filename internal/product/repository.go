package product

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/product/dto"
)

type Repository interface {
	// FindByEAN returns (nil, nil) when the product does not exist.
	FindByEAN(ctx context.Context, ean string) (*model.Product, error)
	FindByEANs(ctx context.Context, eans []string) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)

	// Create fails with a Conflict error when the EAN is taken. Create and
	// Update reject a default category that is not global with Invalid.
	Create(ctx context.Context, product *model.Product) error
	// Update applies only the fields set in patch and returns the stored row.
	Update(ctx context.Context, ean string, patch *model.ProductPatch) (*model.Product, error)
}

// SearchIndex is the full-text side index of the catalog.
type SearchIndex interface {
	IndexProduct(ctx context.Context, p *model.Product) error
	SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
}
