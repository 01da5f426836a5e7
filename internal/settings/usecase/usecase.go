package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/realtime"
	"github.com/fekuna/omnipos-picklist-service/internal/settings"
	"go.uber.org/zap"
)

type settingsUseCase struct {
	repo     settings.Repository
	notifier realtime.Notifier
	logger   logger.ZapLogger
}

func NewSettingsUseCase(repo settings.Repository, notifier realtime.Notifier, log logger.ZapLogger) settings.UseCase {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &settingsUseCase{repo: repo, notifier: notifier, logger: log}
}

func (uc *settingsUseCase) GetSettings(ctx context.Context) (*model.GlobalSettings, error) {
	s, err := uc.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return &model.GlobalSettings{}, nil
	}
	return s, nil
}

// UpdateSettings stores the login logo. Nil or blank clears it.
func (uc *settingsUseCase) UpdateSettings(ctx context.Context, loginLogoURL *string) (*model.GlobalSettings, error) {
	var logo *string
	if loginLogoURL != nil {
		if v := strings.TrimSpace(*loginLogoURL); v != "" {
			logo = &v
		}
	}

	s, err := uc.repo.Upsert(ctx, &model.GlobalSettings{LoginLogoURL: logo})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("global settings updated", zap.Bool("login_logo", logo != nil))
	if err := uc.notifier.Notify(ctx, realtime.Change{Table: realtime.TableSettings, Action: realtime.ActionUpsert}); err != nil {
		uc.logger.Warn("failed to publish settings change", zap.Error(err))
	}
	return s, nil
}
