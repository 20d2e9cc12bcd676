package repository

import (
	"context"

	"github.com/vendor-discovery/internal/domain"
)

// MapLibraryRepository загружает картографическую библиотеку (Mapbox style)
type MapLibraryRepository interface {
	// LoadLibrary загружает стиль; без токена возвращает ErrMapCredentialMissing
	LoadLibrary(ctx context.Context) (*domain.MapLibrary, error)

	// StaticImageURL строит URL Mapbox Static Images для вьюпорта и маркеров
	StaticImageURL(viewport domain.Viewport, markers []domain.Marker, width, height int) (string, bool)
}
