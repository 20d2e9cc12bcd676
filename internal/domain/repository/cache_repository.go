package repository

import (
	"context"
	"time"

	"github.com/vendor-discovery/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetVendors получает результаты поиска продавцов
	GetVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string) ([]domain.Vendor, error)

	// SetVendors сохраняет результаты поиска продавцов
	SetVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string, vendors []domain.Vendor, ttl time.Duration) error

	// GetProducts получает товары продавца
	GetProducts(ctx context.Context, vendorID int64) ([]domain.Product, error)

	// SetProducts сохраняет товары продавца
	SetProducts(ctx context.Context, vendorID int64, products []domain.Product, ttl time.Duration) error
}
