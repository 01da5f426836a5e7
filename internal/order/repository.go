package order

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/order/dto"
)

// Repository owns every write to order_items. Each method is atomic on its own.
type Repository interface {
	// Quantity mutations keyed by (store, ean, category). Both return the
	// resulting quantity; 0 means the row no longer exists.
	Increment(ctx context.Context, storeID, ean, categoryID string, delta int) (int, error)
	SetQty(ctx context.Context, storeID, ean, categoryID string, qty int) (int, error)

	// Pick status is tracked per (store, ean) across categories.
	SetPicked(ctx context.Context, storeID, ean string, isPicked bool, pickedBy string) (int, error)
	ClearPicked(ctx context.Context, storeID string) (int, error)

	// Move relocates a row to another category in one transaction and makes
	// the target the store's preferred category for the product.
	Move(ctx context.Context, storeID, ean, fromCategoryID, toCategoryID string) (*model.OrderItem, error)

	// PreferredCategory returns the store's category for ean, "" when unset.
	PreferredCategory(ctx context.Context, storeID, ean string) (string, error)
	RememberCategory(ctx context.Context, storeID, ean, categoryID string) error

	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.OrderItem, error)
}
