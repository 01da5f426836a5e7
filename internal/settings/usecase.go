package settings

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
)

type UseCase interface {
	GetSettings(ctx context.Context) (*model.GlobalSettings, error)
	UpdateSettings(ctx context.Context, loginLogoURL *string) (*model.GlobalSettings, error)
}
