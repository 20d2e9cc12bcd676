package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendor-discovery/internal/domain"
)

// SessionRepository хранит токен и identity экранной сессии
type SessionRepository interface {
	Save(ctx context.Context, record *domain.SessionRecord) error

	// Get возвращает nil, nil если сессии нет
	Get(ctx context.Context, screenID uuid.UUID) (*domain.SessionRecord, error)

	Delete(ctx context.Context, screenID uuid.UUID) error

	// DeleteMany удаляет несколько сессий, возвращает число удалённых
	DeleteMany(ctx context.Context, screenIDs []uuid.UUID) (int64, error)
}
