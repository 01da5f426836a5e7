package order

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/order/dto"
)

type UseCase interface {
	Increment(ctx context.Context, input *dto.IncrementInput) (int, error)
	SetQty(ctx context.Context, input *dto.SetQtyInput) (int, error)
	SetPicked(ctx context.Context, input *dto.SetPickedInput) (int, error)
	ClearPicked(ctx context.Context, storeID string) (int, error)
	MoveItem(ctx context.Context, input *dto.MoveItemInput) (*model.OrderItem, error)
	// Scan resolves the product, creating it when new, then increments it.
	Scan(ctx context.Context, input *dto.ScanInput) (*dto.ScanResult, error)

	ListOrder(ctx context.Context, storeID string) ([]model.OrderRow, error)
	PickList(ctx context.Context, storeID string) (*model.PickList, error)
}
