package category

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/category/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context, storeID string) ([]model.Category, error)
	RenameCategory(ctx context.Context, input *dto.RenameCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, scope dto.Scope, id string) error
	MoveCategory(ctx context.Context, input *dto.MoveCategoryInput) ([]model.Category, error)
}
