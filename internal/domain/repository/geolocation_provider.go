package repository

import (
	"context"

	"github.com/vendor-discovery/internal/domain"
)

// GeolocationProvider - разовый запрос местоположения пользователя.
// Ошибки: errors.ErrPermissionDenied или errors.ErrLocationUnavailable.
type GeolocationProvider interface {
	RequestLocation(ctx context.Context) (domain.Coordinate, error)
	Name() string
}
