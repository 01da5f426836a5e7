package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/category"
	"github.com/fekuna/omnipos-picklist-service/internal/category/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo     category.Repository
	notifier realtime.Notifier
	logger   logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, notifier realtime.Notifier, log logger.ZapLogger) category.UseCase {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &categoryUseCase{
		repo:     repo,
		notifier: notifier,
		logger:   log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Invalid("category name is required")
	}

	cat := &model.Category{
		ID:      uuid.New().String(),
		StoreID: input.Scope.StoreIDPtr(),
		Name:    name,
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}

	uc.logger.Info("category created",
		zap.String("id", cat.ID),
		zap.String("store_id", input.Scope.StoreID),
		zap.Int("sort_index", cat.SortIndex),
	)
	uc.notify(ctx, input.Scope, realtime.ActionUpsert)
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperr.NotFound("category %s not found", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, storeID string) ([]model.Category, error) {
	return uc.repo.FindByScope(ctx, storeID)
}

func (uc *categoryUseCase) RenameCategory(ctx context.Context, input *dto.RenameCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Invalid("category name is required")
	}

	cat, err := uc.repo.Rename(ctx, input.Scope, input.ID, name)
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, input.Scope, realtime.ActionUpsert)
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, scope dto.Scope, id string) error {
	if err := uc.repo.Delete(ctx, scope, id); err != nil {
		return err
	}
	uc.logger.Info("category deleted", zap.String("id", id), zap.String("store_id", scope.StoreID))
	uc.notify(ctx, scope, realtime.ActionDelete)
	return nil
}

func (uc *categoryUseCase) MoveCategory(ctx context.Context, input *dto.MoveCategoryInput) ([]model.Category, error) {
	if input.Direction != dto.DirectionUp && input.Direction != dto.DirectionDown {
		return nil, apperr.Invalid("direction must be up or down, got %q", input.Direction)
	}

	cats, err := uc.repo.Swap(ctx, input.Scope, input.ID, input.Direction)
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, input.Scope, realtime.ActionMove)
	return cats, nil
}

func (uc *categoryUseCase) notify(ctx context.Context, scope dto.Scope, action realtime.Action) {
	err := uc.notifier.Notify(ctx, realtime.Change{
		Table:   realtime.TableCategories,
		StoreID: scope.StoreID,
		Action:  action,
	})
	if err != nil {
		uc.logger.Warn("failed to publish category change", zap.Error(err))
	}
}
