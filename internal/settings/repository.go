package settings

import (
	"context"

	"github.com/fekuna/omnipos-picklist-service/internal/model"
)

type Repository interface {
	// Get returns the singleton row, or (nil, nil) before it was first saved.
	Get(ctx context.Context) (*model.GlobalSettings, error)
	Upsert(ctx context.Context, s *model.GlobalSettings) (*model.GlobalSettings, error)
}
