package store

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/store/dto"
)

type Repository interface {
	// Create inserts the store and its starter categories atomically.
	// A taken name or email is a Conflict.
	Create(ctx context.Context, store *model.Store, categories []model.Category) error
	// FindByID and FindByName return (nil, nil) when there is no such store.
	FindByID(ctx context.Context, id string) (*model.Store, error)
	FindByName(ctx context.Context, name string) (*model.Store, error)
	List(ctx context.Context) ([]model.StoreSummary, error)
	Update(ctx context.Context, id string, patch *dto.StorePatch) (*model.Store, error)
}
