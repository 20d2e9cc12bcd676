package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/worker"
)

// Publisher - локальный получатель событий (session.Broker)
type Publisher interface {
	Publish(evt domain.IdentityChanged)
}

// IdentityWorker переносит события логина/логаута из стрима Redis в
// локальный брокер, чтобы экраны этого процесса видели изменения,
// сделанные на других инстансах. Свои события пропускаются.
type IdentityWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	publisher    Publisher
	instanceID   string
	consumerName string
}

// NewIdentityWorker создает воркер. Каждому инстансу нужна своя consumer
// group: группа раздаёт сообщение одному потребителю, а событие должны
// увидеть все инстансы.
func NewIdentityWorker(
	streamRepo repository.StreamRepository,
	publisher Publisher,
	consumerGroup string,
	instanceID string,
	logger *zap.Logger,
) *IdentityWorker {
	hostname, _ := os.Hostname()

	return &IdentityWorker{
		BaseWorker:   worker.NewBaseWorker("session-identity", consumerGroup+":"+instanceID, logger),
		streamRepo:   streamRepo,
		publisher:    publisher,
		instanceID:   instanceID,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
	}
}

func (w *IdentityWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	ctx, cancel := w.RunContext(ctx)
	defer cancel()

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamSessionIdentity, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	messages, err := w.streamRepo.ConsumeStream(ctx, domain.StreamSessionIdentity, w.ConsumerGroup(), w.consumerName)
	if err != nil {
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	logger.Info("Identity worker started",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	for msg := range messages {
		w.handle(ctx, msg)
	}

	logger.Info("Identity worker stopped")
	return nil
}

func (w *IdentityWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger()

	var evt domain.IdentityChanged
	if err := json.Unmarshal([]byte(msg.Data), &evt); err != nil || evt.ScreenID == "" {
		// битое сообщение подтверждаем, чтобы не застревало
		logger.Warn("Skipping malformed identity event",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		w.ack(ctx, msg.ID)
		return
	}

	if evt.Origin != w.instanceID {
		w.publisher.Publish(evt)
		logger.Debug("Identity change applied",
			zap.String("screen_id", evt.ScreenID),
			zap.String("origin", evt.Origin),
			zap.Bool("logged_in", evt.Identity != nil))
	}
	w.ack(ctx, msg.ID)
}

func (w *IdentityWorker) ack(ctx context.Context, id string) {
	if err := w.streamRepo.AckMessage(ctx, domain.StreamSessionIdentity, w.ConsumerGroup(), id); err != nil {
		w.Logger().Warn("Failed to ack identity event",
			zap.String("message_id", id),
			zap.Error(err))
	}
}
