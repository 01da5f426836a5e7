package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-picklist-service/internal/cache"
	"github.com/fekuna/omnipos-picklist-service/internal/image"
	"github.com/fekuna/omnipos-picklist-service/internal/logger"
	"go.uber.org/zap"
)

const defaultCacheTTL = 24 * time.Hour

type imageUseCase struct {
	codec  image.Codec
	origin image.Fetcher
	cache  cache.Cache
	ttl    time.Duration
	logger logger.ZapLogger
}

// NewImageUseCase serves photos from origin, keeping copies in c for ttl.
// A nil cache disables caching.
func NewImageUseCase(codec image.Codec, origin image.Fetcher, c cache.Cache, ttl time.Duration, log logger.ZapLogger) image.UseCase {
	if c == nil {
		c = cache.Nop{}
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &imageUseCase{codec: codec, origin: origin, cache: c, ttl: ttl, logger: log}
}

func cacheKey(ean string) string {
	return "image:ean:" + ean
}

func (uc *imageUseCase) GetImage(ctx context.Context, id string) (*image.Image, error) {
	ean, err := uc.codec.Decode(id)
	if err != nil {
		return nil, err
	}

	var cached image.Image
	hit, err := cache.GetJSON(ctx, uc.cache, cacheKey(ean), &cached)
	if err != nil {
		uc.logger.Warn("image cache read failed", zap.String("ean", ean), zap.Error(err))
	}
	if hit {
		return &cached, nil
	}

	img, err := uc.origin.Fetch(ctx, ean)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, uc.cache, cacheKey(ean), img, uc.ttl); err != nil {
		uc.logger.Warn("image cache write failed", zap.String("ean", ean), zap.Error(err))
	}
	return img, nil
}
