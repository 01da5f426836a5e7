package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/auth"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/realtime"
	"github.com/fekuna/omnipos-picklist-service/internal/store"
	"github.com/fekuna/omnipos-picklist-service/internal/store/dto"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type storeUseCase struct {
	repo              store.Repository
	tokens            *auth.TokenManager
	adminPasswordHash string
	notifier          realtime.Notifier
	logger            logger.ZapLogger
}

// NewStoreUseCase wires store administration and login. An empty
// adminPasswordHash disables admin login.
func NewStoreUseCase(
	repo store.Repository,
	tokens *auth.TokenManager,
	adminPasswordHash string,
	notifier realtime.Notifier,
	log logger.ZapLogger,
) store.UseCase {
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &storeUseCase{
		repo:              repo,
		tokens:            tokens,
		adminPasswordHash: adminPasswordHash,
		notifier:          notifier,
		logger:            log,
	}
}

func (uc *storeUseCase) CreateStore(ctx context.Context, input *dto.CreateStoreInput) (*model.Store, error) {
	name := strings.TrimSpace(input.Name)
	password := strings.TrimSpace(input.Password)
	if name == "" || password == "" {
		return nil, apperr.Invalid("store name and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "hash password")
	}

	s := &model.Store{
		ID:           uuid.New().String(),
		Name:         name,
		PasswordHash: string(hash),
		Email:        normalizeEmail(input.Email),
		LogoURL:      nonBlank(input.LogoURL),
		CreatedAt:    time.Now(),
	}

	categories := make([]model.Category, len(model.DefaultCategories))
	for i, catName := range model.DefaultCategories {
		categories[i] = model.Category{
			ID:        uuid.New().String(),
			StoreID:   &s.ID,
			Name:      catName,
			SortIndex: i,
		}
	}

	if err := uc.repo.Create(ctx, s, categories); err != nil {
		return nil, err
	}

	uc.logger.Info("store created", zap.String("store_id", s.ID), zap.String("name", s.Name))
	uc.notify(ctx)
	return s, nil
}

func (uc *storeUseCase) Register(ctx context.Context, input *dto.CreateStoreInput) (*dto.LoginResult, error) {
	if normalizeEmail(input.Email) == nil {
		return nil, apperr.Invalid("store name, password and email are required")
	}

	s, err := uc.CreateStore(ctx, input)
	if err != nil {
		return nil, err
	}
	return uc.issue(s)
}

func (uc *storeUseCase) UpdateStore(ctx context.Context, input *dto.UpdateStoreInput) (*model.Store, error) {
	if input.ID == "" {
		return nil, apperr.Invalid("store id is required")
	}

	patch := &dto.StorePatch{LogoURL: input.LogoURL}
	if input.Name.Set {
		name := strings.TrimSpace(input.Name.Value)
		if !input.Name.Valid || name == "" {
			return nil, apperr.Invalid("store name cannot be empty")
		}
		patch.Name = &name
	}
	if input.Password.Valid && strings.TrimSpace(input.Password.Value) != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(input.Password.Value)), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, err, "hash password")
		}
		h := string(hash)
		patch.PasswordHash = &h
	}

	s, err := uc.repo.Update(ctx, input.ID, patch)
	if err != nil {
		return nil, err
	}
	uc.notify(ctx)
	return s, nil
}

func (uc *storeUseCase) ListStores(ctx context.Context) ([]model.StoreSummary, error) {
	return uc.repo.List(ctx)
}

func (uc *storeUseCase) Login(ctx context.Context, input *dto.LoginInput) (*dto.LoginResult, error) {
	// Passwords are trimmed before hashing, so compare the trimmed form.
	password := strings.TrimSpace(input.Password)
	if password == "" || (input.StoreID == "" && strings.TrimSpace(input.StoreName) == "") {
		return nil, apperr.Invalid("store and password are required")
	}

	var s *model.Store
	var err error
	if input.StoreID != "" {
		s, err = uc.repo.FindByID(ctx, input.StoreID)
	} else {
		s, err = uc.repo.FindByName(ctx, input.StoreName)
	}
	if err != nil {
		return nil, err
	}
	if s == nil || bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) != nil {
		uc.logger.Warn("store login rejected", zap.String("store_id", input.StoreID), zap.String("store_name", input.StoreName))
		return nil, apperr.Unauthorized("invalid store or password")
	}

	return uc.issue(s)
}

func (uc *storeUseCase) AdminLogin(_ context.Context, password string) (*dto.LoginResult, error) {
	if password == "" {
		return nil, apperr.Invalid("password is required")
	}
	if uc.adminPasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(uc.adminPasswordHash), []byte(password)) != nil {
		uc.logger.Warn("admin login rejected")
		return nil, apperr.Unauthorized("invalid admin password")
	}

	session := &auth.Session{Role: auth.RoleAdmin}
	token, err := uc.tokens.Issue(session)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "issue token")
	}
	return &dto.LoginResult{Token: token, ExpiresAt: session.ExpiresAt}, nil
}

func (uc *storeUseCase) issue(s *model.Store) (*dto.LoginResult, error) {
	session := &auth.Session{StoreID: s.ID, Role: auth.RoleStore}
	token, err := uc.tokens.Issue(session)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, err, "issue token")
	}
	return &dto.LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		StoreID:   s.ID,
		StoreName: s.Name,
		LogoURL:   s.LogoURL,
	}, nil
}

func (uc *storeUseCase) notify(ctx context.Context) {
	err := uc.notifier.Notify(ctx, realtime.Change{Table: realtime.TableStores, Action: realtime.ActionUpsert})
	if err != nil {
		uc.logger.Warn("failed to publish store change", zap.Error(err))
	}
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
