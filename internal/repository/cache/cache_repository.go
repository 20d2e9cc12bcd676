package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
)

const (
	vendorsKeyPrefix  = "vendors"
	productsKeyPrefix = "products"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// VendorsKey - ключ результата поиска. Координаты округляются до ~1 м,
// категория передаётся как есть (регистр решает бэкенд).
func VendorsKey(origin domain.Coordinate, radiusKm int, category string) string {
	return fmt.Sprintf("%s:%.5f:%.5f:%d:%s",
		vendorsKeyPrefix, origin.Lat, origin.Lon, radiusKm, url.QueryEscape(category))
}

func ProductsKey(vendorID int64) string {
	return fmt.Sprintf("%s:%d", productsKeyPrefix, vendorID)
}

func (r *cacheRepository) GetVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string) ([]domain.Vendor, error) {
	var vendors []domain.Vendor
	ok, err := r.getJSON(ctx, VendorsKey(origin, radiusKm, category), &vendors)
	if err != nil || !ok {
		return nil, err
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	return vendors, nil
}

func (r *cacheRepository) SetVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string, vendors []domain.Vendor, ttl time.Duration) error {
	return r.setJSON(ctx, VendorsKey(origin, radiusKm, category), vendors, ttl)
}

func (r *cacheRepository) GetProducts(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	var products []domain.Product
	ok, err := r.getJSON(ctx, ProductsKey(vendorID), &products)
	if err != nil || !ok {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (r *cacheRepository) SetProducts(ctx context.Context, vendorID int64, products []domain.Product, ttl time.Duration) error {
	return r.setJSON(ctx, ProductsKey(vendorID), products, ttl)
}

func (r *cacheRepository) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// битая запись: считаем промахом и удаляем
		r.logger.Warn("Failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		_ = r.Delete(ctx, key)
		return false, nil
	}
	return true, nil
}

func (r *cacheRepository) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("Failed to marshal cache value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return r.Set(ctx, key, data, ttl)
}
