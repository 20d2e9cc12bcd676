package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/session"
	"github.com/vendor-discovery/internal/usecase/dto"
)

// SessionUseCase - логин/логаут экранных сессий и рассылка
// "identity changed". Хранилище и стрим опциональны (nil).
type SessionUseCase struct {
	registry   *ScreenRegistry
	store      repository.SessionRepository
	streams    repository.StreamRepository
	broker     *session.Broker
	instanceID string
	logger     *zap.Logger
}

func NewSessionUseCase(
	registry *ScreenRegistry,
	store repository.SessionRepository,
	streams repository.StreamRepository,
	broker *session.Broker,
	instanceID string,
	logger *zap.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		registry:   registry,
		store:      store,
		streams:    streams,
		broker:     broker,
		instanceID: instanceID,
		logger:     logger,
	}
}

// Screen returns the screen with id, reopening it (and its stored login)
// when this process does not hold it.
func (uc *SessionUseCase) Screen(ctx context.Context, id uuid.UUID) (*SearchScreen, error) {
	if screen, err := uc.registry.Get(id); err == nil {
		return screen, nil
	}

	screen := uc.registry.CreateWithID(ctx, id, dto.CreateScreenRequest{})
	uc.restore(ctx, screen)
	return screen, nil
}

func (uc *SessionUseCase) restore(ctx context.Context, screen *SearchScreen) {
	if uc.store == nil {
		return
	}
	record, err := uc.store.Get(ctx, screen.ID())
	if err != nil {
		uc.logger.Warn("Failed to load stored session",
			zap.String("screen_id", screen.ID().String()),
			zap.Error(err))
		return
	}
	if record == nil {
		return
	}
	identity, err := session.ParseToken(record.Token)
	if err != nil {
		uc.logger.Debug("Stored session token rejected",
			zap.String("screen_id", screen.ID().String()),
			zap.Error(err))
		return
	}
	screen.ApplyIdentity(identity, record.Token)
}

// Login reads the identity from token and attaches it to the screen.
func (uc *SessionUseCase) Login(ctx context.Context, screen *SearchScreen, token string) (*domain.Identity, error) {
	identity, err := session.ParseToken(token)
	if err != nil {
		return nil, err
	}

	if uc.store != nil {
		now := time.Now()
		err := uc.store.Save(ctx, &domain.SessionRecord{
			ScreenID:  screen.ID(),
			Token:     token,
			Identity:  identity,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			uc.logger.Error("Failed to store session", zap.Error(err))
			return nil, errors.ErrSessionStore
		}
	}

	screen.ApplyIdentity(identity, token)
	uc.notify(ctx, screen.ID(), identity, token)

	uc.logger.Info("Screen logged in",
		zap.String("screen_id", screen.ID().String()),
		zap.String("user_id", string(identity.ID)))
	return identity, nil
}

func (uc *SessionUseCase) Logout(ctx context.Context, screen *SearchScreen) error {
	if uc.store != nil {
		if err := uc.store.Delete(ctx, screen.ID()); err != nil {
			uc.logger.Error("Failed to delete session", zap.Error(err))
			return errors.ErrSessionStore
		}
	}

	screen.ApplyIdentity(nil, "")
	uc.notify(ctx, screen.ID(), nil, "")
	return nil
}

// Revoke logs out several screens at once, wherever they are hosted.
func (uc *SessionUseCase) Revoke(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var removed int64
	if uc.store != nil {
		n, err := uc.store.DeleteMany(ctx, ids)
		if err != nil {
			uc.logger.Error("Failed to revoke sessions", zap.Error(err))
			return 0, errors.ErrSessionStore
		}
		removed = n
	}

	for _, id := range ids {
		if screen, err := uc.registry.Get(id); err == nil {
			screen.ApplyIdentity(nil, "")
		}
		uc.notify(ctx, id, nil, "")
	}
	return removed, nil
}

func (uc *SessionUseCase) notify(ctx context.Context, screenID uuid.UUID, identity *domain.Identity, token string) {
	evt := domain.IdentityChanged{
		ScreenID:  screenID.String(),
		Identity:  identity,
		Token:     token,
		ChangedAt: time.Now().UTC(),
		Origin:    uc.instanceID,
	}
	uc.broker.Publish(evt)

	if uc.streams != nil {
		if err := uc.streams.PublishToStream(ctx, domain.StreamSessionIdentity, evt); err != nil {
			uc.logger.Warn("Failed to publish identity change", zap.Error(err))
		}
	}
}

// Watch applies identity changes from the broker to local screens until
// ctx is done.
func (uc *SessionUseCase) Watch(ctx context.Context) {
	events, cancel := uc.broker.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			uc.apply(evt)
		}
	}
}

func (uc *SessionUseCase) apply(evt domain.IdentityChanged) {
	id, err := uuid.Parse(evt.ScreenID)
	if err != nil {
		return
	}
	screen, err := uc.registry.Get(id)
	if err != nil {
		return
	}
	screen.ApplyIdentity(evt.Identity, evt.Token)
}
