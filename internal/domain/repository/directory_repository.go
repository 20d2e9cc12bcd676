package repository

import (
	"context"

	"github.com/vendor-discovery/internal/domain"
)

// DirectoryRepository - REST API каталога (vendors, products, reviews)
type DirectoryRepository interface {
	// NearbyVendors ищет продавцов в радиусе; category "" означает без фильтра
	NearbyVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string) ([]domain.Vendor, error)

	// ProductsByVendor возвращает товары продавца
	ProductsByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error)

	// ReviewsByProduct возвращает отзывы по товару
	ReviewsByProduct(ctx context.Context, productID int64) ([]domain.Review, error)

	// CreateReview создаёт (или обновляет) отзыв пользователя
	CreateReview(ctx context.Context, review domain.NewReview) (*domain.Review, error)

	// ProductRating возвращает агрегированный рейтинг товара
	ProductRating(ctx context.Context, productID int64) (*domain.ProductRating, error)
}
