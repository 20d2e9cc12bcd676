package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/usecase/dto"
)

const (
	defaultMapWidth  = 800
	defaultMapHeight = 600
	minSweepInterval = time.Minute
)

// ScreenRegistry - живые экраны процесса по id
type ScreenRegistry struct {
	mu      sync.RWMutex
	screens map[uuid.UUID]*SearchScreen
	deps    ScreenDeps
	idleTTL time.Duration
	logger  *zap.Logger
}

func NewScreenRegistry(deps ScreenDeps, idleTTL time.Duration) *ScreenRegistry {
	return &ScreenRegistry{
		screens: make(map[uuid.UUID]*SearchScreen),
		deps:    deps,
		idleTTL: idleTTL,
		logger:  deps.Logger,
	}
}

// Create opens a new screen and starts its map and implicit geolocation.
func (r *ScreenRegistry) Create(ctx context.Context, req dto.CreateScreenRequest) *SearchScreen {
	return r.CreateWithID(ctx, uuid.New(), req)
}

// CreateWithID is Create for a known id. An existing screen is returned
// unchanged.
func (r *ScreenRegistry) CreateWithID(ctx context.Context, id uuid.UUID, req dto.CreateScreenRequest) *SearchScreen {
	r.mu.Lock()
	if existing, ok := r.screens[id]; ok {
		r.mu.Unlock()
		return existing
	}
	screen := NewSearchScreen(id, r.deps)
	r.screens[id] = screen
	r.mu.Unlock()

	width, height := req.MapWidth, req.MapHeight
	if width == 0 {
		width = defaultMapWidth
	}
	if height == 0 {
		height = defaultMapHeight
	}

	var center *domain.Coordinate
	if req.Latitude != 0 || req.Longitude != 0 {
		c := domain.Coordinate{Lat: req.Latitude, Lon: req.Longitude}
		if c.Valid() {
			center = &c
		}
	}

	locate := req.Locate == nil || *req.Locate
	screen.Start(ctx, domain.MapContainer{ID: "map-" + id.String(), Width: width, Height: height}, center, locate)

	r.logger.Info("Screen created",
		zap.String("screen_id", id.String()),
		zap.Bool("locate", locate))
	return screen
}

func (r *ScreenRegistry) Get(id uuid.UUID) (*SearchScreen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	screen, ok := r.screens[id]
	if !ok {
		return nil, errors.ErrScreenNotFound
	}
	return screen, nil
}

// Remove closes and forgets a screen.
func (r *ScreenRegistry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	screen, ok := r.screens[id]
	delete(r.screens, id)
	r.mu.Unlock()

	if ok {
		screen.Close()
	}
	return ok
}

func (r *ScreenRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.screens)
}

// SweepIdle removes screens idle longer than the TTL.
func (r *ScreenRegistry) SweepIdle(now time.Time) []uuid.UUID {
	if r.idleTTL <= 0 {
		return nil
	}

	r.mu.RLock()
	var stale []uuid.UUID
	for id, screen := range r.screens {
		if now.Sub(screen.LastActive()) > r.idleTTL {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	for _, id := range stale {
		r.Remove(id)
	}
	if len(stale) > 0 {
		r.logger.Info("Idle screens removed", zap.Int("count", len(stale)))
	}
	return stale
}

// Run sweeps idle screens until ctx is done.
func (r *ScreenRegistry) Run(ctx context.Context) {
	if r.idleTTL <= 0 {
		return
	}
	interval := r.idleTTL / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			r.SweepIdle(now)
		}
	}
}

// Close closes every screen.
func (r *ScreenRegistry) Close() {
	r.mu.Lock()
	screens := r.screens
	r.screens = make(map[uuid.UUID]*SearchScreen)
	r.mu.Unlock()

	for _, screen := range screens {
		screen.Close()
	}
}
