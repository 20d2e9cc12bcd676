package backend

import (
	"context"

	"github.com/vendor-discovery/internal/config"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"go.uber.org/zap"
)

// cachedDirectory кеширует поиск продавцов и списки товаров.
// Отзывы и рейтинги не кешируются: после отправки отзыва их перечитывают.
type cachedDirectory struct {
	repository.DirectoryRepository
	cache  repository.CacheRepository
	cfg    *config.CacheConfig
	logger *zap.Logger
}

func NewCachedDirectory(
	next repository.DirectoryRepository,
	cache repository.CacheRepository,
	cfg *config.CacheConfig,
	logger *zap.Logger,
) repository.DirectoryRepository {
	return &cachedDirectory{
		DirectoryRepository: next,
		cache:               cache,
		cfg:                 cfg,
		logger:              logger,
	}
}

func (c *cachedDirectory) NearbyVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string) ([]domain.Vendor, error) {
	if c.cfg.SearchCacheTTL > 0 {
		cached, err := c.cache.GetVendors(ctx, origin, radiusKm, category)
		if err != nil {
			c.logger.Warn("Vendor cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	vendors, err := c.DirectoryRepository.NearbyVendors(ctx, origin, radiusKm, category)
	if err != nil {
		return nil, err
	}

	if c.cfg.SearchCacheTTL > 0 {
		if err := c.cache.SetVendors(ctx, origin, radiusKm, category, vendors, c.cfg.SearchCacheTTL); err != nil {
			c.logger.Warn("Vendor cache write failed", zap.Error(err))
		}
	}
	return vendors, nil
}

func (c *cachedDirectory) ProductsByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	if c.cfg.ProductsCacheTTL > 0 {
		cached, err := c.cache.GetProducts(ctx, vendorID)
		if err != nil {
			c.logger.Warn("Products cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	products, err := c.DirectoryRepository.ProductsByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	if c.cfg.ProductsCacheTTL > 0 {
		if err := c.cache.SetProducts(ctx, vendorID, products, c.cfg.ProductsCacheTTL); err != nil {
			c.logger.Warn("Products cache write failed", zap.Error(err))
		}
	}
	return products, nil
}
