package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/apperr"
	"github.com/fekuna/omnipos-picklist-service/internal/cache"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"github.com/fekuna/omnipos-picklist-service/internal/model"
	"github.com/fekuna/omnipos-picklist-service/internal/product"
	"github.com/fekuna/omnipos-picklist-service/internal/product/dto"
	"github.com/fekuna/omnipos-picklist-service/internal/realtime"
	"go.uber.org/zap"
)

const productCacheTTL = 10 * time.Minute

type productUseCase struct {
	repo     product.Repository
	index    product.SearchIndex
	cache    cache.Cache
	notifier realtime.Notifier
	logger   logger.ZapLogger
}

// NewProductUseCase wires the catalog. index, c and notifier may be nil.
func NewProductUseCase(
	repo product.Repository,
	index product.SearchIndex,
	c cache.Cache,
	notifier realtime.Notifier,
	log logger.ZapLogger,
) product.UseCase {
	if c == nil {
		c = cache.Nop{}
	}
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &productUseCase{
		repo:     repo,
		index:    index,
		cache:    c,
		notifier: notifier,
		logger:   log,
	}
}

func cacheKey(ean string) string {
	return "product:ean:" + ean
}

func (uc *productUseCase) EnsureProduct(ctx context.Context, ean string) (*model.Product, error) {
	normalized, ok := model.NormalizeEAN(ean)
	if !ok {
		return nil, apperr.Invalid("invalid ean %q", ean)
	}

	var cached model.Product
	hit, err := cache.GetJSON(ctx, uc.cache, cacheKey(normalized), &cached)
	if err != nil {
		uc.logger.Warn("product cache read failed", zap.String("ean", normalized), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	p, err := uc.repo.FindByEAN(ctx, normalized)
	if err != nil {
		return nil, err
	}
	// Only positive lookups are cached; a miss may be followed by a create on another node.
	if p != nil {
		uc.remember(ctx, p)
	}
	return p, nil
}

func (uc *productUseCase) GetProducts(ctx context.Context, eans []string) ([]model.Product, error) {
	return uc.repo.FindByEANs(ctx, eans)
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	ean, ok := model.NormalizeEAN(input.EAN)
	if !ok {
		return nil, apperr.Invalid("invalid ean %q", input.EAN)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperr.Invalid("product name is required")
	}

	now := time.Now()
	p := &model.Product{
		EAN:               ean,
		Name:              name,
		Brand:             trimmed(input.Brand),
		Weight:            trimmed(input.Weight),
		ImageURL:          trimmed(input.ImageURL),
		DefaultCategoryID: trimmed(input.DefaultCategoryID),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Info("product created", zap.String("ean", ean), zap.String("name", name))
	uc.afterWrite(ctx, p)
	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, ean string, patch *model.ProductPatch) (*model.Product, error) {
	normalized, ok := model.NormalizeEAN(ean)
	if !ok {
		return nil, apperr.Invalid("invalid ean %q", ean)
	}
	if patch == nil {
		patch = &model.ProductPatch{}
	}
	if patch.Name.Set {
		if !patch.Name.Valid || strings.TrimSpace(patch.Name.Value) == "" {
			return nil, apperr.Invalid("product name cannot be empty")
		}
		patch.Name.Value = strings.TrimSpace(patch.Name.Value)
	}

	p, err := uc.repo.Update(ctx, normalized, patch)
	if err != nil {
		return nil, err
	}

	if !patch.IsEmpty() {
		uc.afterWrite(ctx, p)
	}
	return p, nil
}

func (uc *productUseCase) RefreshProduct(ctx context.Context, ean string) error {
	if err := uc.cache.Delete(ctx, cacheKey(ean)); err != nil {
		uc.logger.Warn("product cache invalidation failed", zap.String("ean", ean), zap.Error(err))
	}
	p, err := uc.repo.FindByEAN(ctx, ean)
	if err != nil {
		return err
	}
	if p == nil {
		return nil
	}
	uc.afterWrite(ctx, p)
	return nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters == nil {
		filters = &dto.ProductFilters{}
	}
	filters.SearchQuery = strings.TrimSpace(filters.SearchQuery)

	if filters.SearchQuery != "" && uc.index != nil {
		products, count, err := uc.index.SearchProducts(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("product search failed, falling back to database", zap.Error(err))
	}

	return uc.repo.FindAll(ctx, filters)
}

// afterWrite refreshes the derived copies of p: the lookup cache, the search
// index and subscribers.
func (uc *productUseCase) afterWrite(ctx context.Context, p *model.Product) {
	if err := uc.cache.Delete(ctx, cacheKey(p.EAN)); err != nil {
		uc.logger.Warn("product cache invalidation failed", zap.String("ean", p.EAN), zap.Error(err))
	}

	if uc.index != nil {
		snapshot := *p
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := uc.index.IndexProduct(ctx, &snapshot); err != nil {
				uc.logger.Error("failed to index product", zap.String("ean", snapshot.EAN), zap.Error(err))
			}
		}()
	}

	err := uc.notifier.Notify(ctx, realtime.Change{
		Table:  realtime.TableProducts,
		EAN:    p.EAN,
		Action: realtime.ActionUpsert,
	})
	if err != nil {
		uc.logger.Warn("failed to publish product change", zap.String("ean", p.EAN), zap.Error(err))
	}
}

func (uc *productUseCase) remember(ctx context.Context, p *model.Product) {
	if err := cache.SetJSON(ctx, uc.cache, cacheKey(p.EAN), p, productCacheTTL); err != nil {
		uc.logger.Warn("product cache write failed", zap.String("ean", p.EAN), zap.Error(err))
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
