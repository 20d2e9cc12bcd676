package mapsurface

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
	"go.uber.org/zap"
)

// Surface - безголовая карта одного экрана: маркеры, вьюпорт, попапы.
// При сбое загрузки библиотеки переходит в degraded, и plot/center
// становятся no-op; паники и фатальных ошибок нет.
type Surface struct {
	mu       sync.Mutex
	loader   *Loader
	logger   *zap.Logger
	status   domain.MapStatus
	reason   error
	handle   *domain.MapHandle
	viewport domain.Viewport
	markers  []domain.Marker
}

func New(loader *Loader, logger *zap.Logger) *Surface {
	return &Surface{
		loader:   loader,
		logger:   logger,
		status:   domain.MapUninitialized,
		viewport: domain.Viewport{Center: domain.DefaultMapCenter, Zoom: domain.DefaultMapZoom},
	}
}

// Initialize returns the existing handle when there is one and does nothing
// for an unmounted container. A load failure leaves the surface degraded
// and is returned as a degraded AppError.
func (s *Surface) Initialize(ctx context.Context, container domain.MapContainer, center *domain.Coordinate) (*domain.MapHandle, error) {
	s.mu.Lock()
	if s.handle != nil {
		h := s.handle
		s.mu.Unlock()
		return h, nil
	}
	s.mu.Unlock()

	if !container.Mounted() {
		return nil, nil
	}

	// загрузка без блокировки: параллельные вызовы делят её через Loader
	lib, err := s.loader.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		return s.handle, nil
	}

	if err != nil {
		s.status = domain.MapDegraded
		s.reason = err
		if errors.KindOf(err) != errors.KindDegraded {
			s.reason = errors.ErrMapLoadFailed
		}
		s.logger.Warn("Map surface degraded", zap.Error(s.reason))
		return nil, s.reason
	}

	s.handle = &domain.MapHandle{
		ID:        uuid.NewString(),
		Container: container,
		Library:   lib.Name,
	}
	s.status = domain.MapReady
	s.reason = nil

	start := domain.DefaultMapCenter
	if center != nil && center.Valid() {
		start = *center
	}
	s.viewport = domain.Viewport{Center: start, Zoom: domain.DefaultMapZoom}
	return s.handle, nil
}

// Plot replaces every marker with one per entity that has a valid location
// and fits the viewport to them. Returns the number of markers placed.
func (s *Surface) Plot(entities []domain.MapEntity) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.MapReady {
		return 0
	}

	s.markers = s.markers[:0]
	points := make([]domain.Coordinate, 0, len(entities))
	for _, e := range entities {
		if e.Location == nil || !e.Location.Valid() {
			continue
		}
		s.markers = append(s.markers, domain.Marker{
			ID:       e.ID,
			Position: *e.Location,
			Label:    e.Label,
			Category: e.Metadata["category"],
			Address:  e.Metadata["address"],
		})
		points = append(points, *e.Location)
	}

	if b, ok := domain.BoundsOf(points); ok {
		s.viewport = domain.Viewport{
			Center: b.Center(),
			Zoom:   fitZoom(b, s.handle.Container.Width, s.handle.Container.Height),
			Bounds: &b,
		}
	}
	return len(s.markers)
}

// CenterOn moves the viewport; zoom and markers stay.
func (s *Surface) CenterOn(c domain.Coordinate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.MapReady || !c.Valid() {
		return
	}
	s.viewport.Center = c
	s.viewport.Bounds = nil
}

// Click returns the info popup of a marker.
func (s *Surface) Click(markerID string) (domain.InfoPopup, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.markers {
		if m.ID == markerID {
			return domain.InfoPopup{
				MarkerID: m.ID,
				Label:    m.Label,
				Category: m.Category,
				Address:  m.Address,
			}, true
		}
	}
	return domain.InfoPopup{}, false
}

func (s *Surface) Status() (domain.MapStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.reason
}

func (s *Surface) Handle() *domain.MapHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Surface) Viewport() domain.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.viewport
	if v.Bounds != nil {
		b := *v.Bounds
		v.Bounds = &b
	}
	return v
}

func (s *Surface) Markers() []domain.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// StaticURL is the Mapbox Static Images URL of the current view. Only a
// ready surface has one.
func (s *Surface) StaticURL() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != domain.MapReady {
		return "", false
	}
	return s.loader.StaticImageURL(s.viewport, s.markers, s.handle.Container.Width, s.handle.Container.Height)
}

// Render rasterises the surface as PNG. Not ready surfaces render a
// placeholder with the reason.
func (s *Surface) Render(width, height int) ([]byte, error) {
	s.mu.Lock()
	status, reason := s.status, s.reason
	viewport := s.viewport
	markers := make([]domain.Marker, len(s.markers))
	copy(markers, s.markers)
	if s.handle != nil && (width <= 0 || height <= 0) {
		width, height = s.handle.Container.Width, s.handle.Container.Height
	}
	s.mu.Unlock()

	if width <= 0 || height <= 0 {
		width, height = defaultCanvasWidth, defaultCanvasHeight
	}

	switch status {
	case domain.MapReady:
		return renderMap(viewport, markers, width, height)
	case domain.MapDegraded:
		return renderPlaceholder(errors.MessageOf(reason, "Map is unavailable"), width, height)
	default:
		return renderPlaceholder("Map is loading", width, height)
	}
}
