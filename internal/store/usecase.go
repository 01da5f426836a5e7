package store

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/store/dto"
)

type UseCase interface {
	CreateStore(ctx context.Context, input *dto.CreateStoreInput) (*model.Store, error)
	// Register is self-service store creation; it requires an email and
	// logs the new store in.
	Register(ctx context.Context, input *dto.CreateStoreInput) (*dto.LoginResult, error)
	UpdateStore(ctx context.Context, input *dto.UpdateStoreInput) (*model.Store, error)
	ListStores(ctx context.Context) ([]model.StoreSummary, error)

	Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error)
	AdminLogin(ctx context.Context, password string) (*dto.LoginResult, error)
}
