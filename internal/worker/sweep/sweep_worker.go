package sweep

import (
	"context"

	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/worker"
)

// Sweeper - то, что умеет периодически выметать простаивающие экраны
type Sweeper interface {
	Run(ctx context.Context)
}

// ScreenSweepWorker запускает очистку реестра экранов под управлением
// WorkerManager.
type ScreenSweepWorker struct {
	*worker.BaseWorker
	sweeper Sweeper
}

func NewScreenSweepWorker(sweeper Sweeper, logger *zap.Logger) *ScreenSweepWorker {
	return &ScreenSweepWorker{
		BaseWorker: worker.NewBaseWorker("screen-sweep", "", logger),
		sweeper:    sweeper,
	}
}

func (w *ScreenSweepWorker) Start(ctx context.Context) error {
	ctx, cancel := w.RunContext(ctx)
	defer cancel()

	w.sweeper.Run(ctx)
	return nil
}
