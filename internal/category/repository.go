package category

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/category/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
)

type Repository interface {
	// Create appends the category at the end of its scope and sets SortIndex.
	Create(ctx context.Context, category *model.Category) error
	// FindByID returns (nil, nil) when the category does not exist.
	FindByID(ctx context.Context, id string) (*model.Category, error)
	// FindByScope lists the global categories plus the store's own, by sort index.
	// An empty storeID lists only global ones.
	FindByScope(ctx context.Context, storeID string) ([]model.Category, error)
	Rename(ctx context.Context, scope dto.Scope, id, name string) (*model.Category, error)
	// Delete fails with Conflict while order items still reference the category.
	Delete(ctx context.Context, scope dto.Scope, id string) error
	// Swap exchanges sort indexes with the neighbour in the given direction.
	// At the edge of the list it returns the categories unchanged.
	Swap(ctx context.Context, scope dto.Scope, id string, dir dto.Direction) ([]model.Category, error)
}
