package mapsurface

import (
	"context"
	"sync"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LibraryID - фиксированный идентификатор загрузки библиотеки карт.
// Все поверхности процесса делят одну загрузку под этим ключом.
const LibraryID = "mapbox-gl-script"

// Loader загружает библиотеку один раз на процесс. Параллельные
// инициализации ждут одного запроса; неудачная загрузка не запоминается,
// следующая инициализация попробует снова.
type Loader struct {
	repo   repository.MapLibraryRepository
	group  singleflight.Group
	mu     sync.RWMutex
	lib    *domain.MapLibrary
	logger *zap.Logger
}

func NewLoader(repo repository.MapLibraryRepository, logger *zap.Logger) *Loader {
	return &Loader{repo: repo, logger: logger}
}

func (l *Loader) Load(ctx context.Context) (*domain.MapLibrary, error) {
	if lib := l.Loaded(); lib != nil {
		return lib, nil
	}

	v, err, shared := l.group.Do(LibraryID, func() (interface{}, error) {
		if lib := l.Loaded(); lib != nil {
			return lib, nil
		}
		// загрузка общая, поэтому не зависит от отмены одного вызывающего
		lib, err := l.repo.LoadLibrary(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.lib = lib
		l.mu.Unlock()
		l.logger.Info("Map library loaded",
			zap.String("id", LibraryID),
			zap.String("style", lib.StyleID))
		return lib, nil
	})
	if err != nil {
		l.logger.Warn("Map library load failed",
			zap.String("id", LibraryID),
			zap.Bool("shared", shared),
			zap.Error(err))
		return nil, err
	}
	return v.(*domain.MapLibrary), nil
}

// Loaded returns the library when a previous load succeeded.
func (l *Loader) Loaded() *domain.MapLibrary {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lib
}

// StaticImageURL delegates to the library repository.
func (l *Loader) StaticImageURL(viewport domain.Viewport, markers []domain.Marker, width, height int) (string, bool) {
	return l.repo.StaticImageURL(viewport, markers, width, height)
}
