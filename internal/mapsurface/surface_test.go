package mapsurface

import (
	"bytes"
	"context"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
)

type fakeLibrary struct {
	calls int32
	delay time.Duration
	err   error
}

func (f *fakeLibrary) LoadLibrary(ctx context.Context) (*domain.MapLibrary, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MapLibrary{Name: "Mapbox Streets", Version: 8, StyleID: "mapbox/streets-v12"}, nil
}

func (f *fakeLibrary) StaticImageURL(v domain.Viewport, markers []domain.Marker, w, h int) (string, bool) {
	return "static://map", true
}

var mounted = domain.MapContainer{ID: "map", Width: 800, Height: 600}

func readySurface(t *testing.T) *Surface {
	t.Helper()
	s := New(NewLoader(&fakeLibrary{}, zap.NewNop()), zap.NewNop())
	h, err := s.Initialize(context.Background(), mounted, nil)
	require.NoError(t, err)
	require.NotNil(t, h)
	return s
}

func coord(lat, lon float64) *domain.Coordinate {
	return &domain.Coordinate{Lat: lat, Lon: lon}
}

func TestSurface_Initialize(t *testing.T) {
	t.Run("unmounted container is a no-op", func(t *testing.T) {
		lib := &fakeLibrary{}
		s := New(NewLoader(lib, zap.NewNop()), zap.NewNop())
		h, err := s.Initialize(context.Background(), domain.MapContainer{ID: "map"}, nil)
		assert.NoError(t, err)
		assert.Nil(t, h)
		assert.Equal(t, int32(0), atomic.LoadInt32(&lib.calls))
		status, _ := s.Status()
		assert.Equal(t, domain.MapUninitialized, status)
	})

	t.Run("second call returns the same handle", func(t *testing.T) {
		lib := &fakeLibrary{}
		s := New(NewLoader(lib, zap.NewNop()), zap.NewNop())
		h1, err := s.Initialize(context.Background(), mounted, coord(40, -74))
		require.NoError(t, err)
		h2, err := s.Initialize(context.Background(), mounted, nil)
		require.NoError(t, err)
		assert.Same(t, h1, h2)
		assert.Equal(t, domain.Coordinate{Lat: 40, Lon: -74}, s.Viewport().Center)
		assert.Equal(t, domain.DefaultMapZoom, s.Viewport().Zoom)
	})

	t.Run("default center", func(t *testing.T) {
		s := readySurface(t)
		assert.Equal(t, domain.DefaultMapCenter, s.Viewport().Center)
	})

	t.Run("missing credential degrades", func(t *testing.T) {
		s := New(NewLoader(&fakeLibrary{err: errors.ErrMapCredentialMissing}, zap.NewNop()), zap.NewNop())
		h, err := s.Initialize(context.Background(), mounted, nil)
		assert.Nil(t, h)
		assert.ErrorIs(t, err, errors.ErrMapCredentialMissing)

		status, reason := s.Status()
		assert.Equal(t, domain.MapDegraded, status)
		assert.ErrorIs(t, reason, errors.ErrMapCredentialMissing)

		assert.Equal(t, 0, s.Plot([]domain.MapEntity{{ID: "1", Location: coord(1, 2)}}))
		before := s.Viewport()
		s.CenterOn(domain.Coordinate{Lat: 10, Lon: 10})
		assert.Equal(t, before, s.Viewport())
		_, ok := s.StaticURL()
		assert.False(t, ok)
	})

	t.Run("foreign load error is reported as load failure", func(t *testing.T) {
		s := New(NewLoader(&fakeLibrary{err: context.DeadlineExceeded}, zap.NewNop()), zap.NewNop())
		_, err := s.Initialize(context.Background(), mounted, nil)
		assert.ErrorIs(t, err, errors.ErrMapLoadFailed)
	})
}

func TestLoader_SharesOneLoad(t *testing.T) {
	lib := &fakeLibrary{delay: 50 * time.Millisecond}
	loader := NewLoader(lib, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := New(loader, zap.NewNop())
			_, err := s.Initialize(context.Background(), mounted, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&lib.calls))
	assert.NotNil(t, loader.Loaded())

	// успешная загрузка переиспользуется
	_, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&lib.calls))
}

func TestLoader_RetriesAfterFailure(t *testing.T) {
	lib := &fakeLibrary{err: errors.ErrMapLoadFailed}
	loader := NewLoader(lib, zap.NewNop())

	_, err := loader.Load(context.Background())
	assert.Error(t, err)

	lib.err = nil
	got, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Mapbox Streets", got.Name)
	assert.Equal(t, int32(2), atomic.LoadInt32(&lib.calls))
}

func TestSurface_Plot(t *testing.T) {
	entities := []domain.MapEntity{
		{ID: "1", Label: "Joe's Deli", Location: coord(37.0, -122.0), Metadata: map[string]string{"category": "Food & Beverage", "address": "1 Main St"}},
		{ID: "2", Label: "No location"},
		{ID: "3", Label: "Bad location", Location: coord(200, 0)},
		{ID: "4", Label: "Bakery", Location: coord(37.01, -122.02)},
	}

	t.Run("marker count equals entities with a location", func(t *testing.T) {
		s := readySurface(t)
		assert.Equal(t, 2, s.Plot(entities))
		assert.Len(t, s.Markers(), 2)
	})

	t.Run("plotting twice does not accumulate markers", func(t *testing.T) {
		s := readySurface(t)
		first := s.Plot(entities)
		second := s.Plot(entities)
		assert.Equal(t, first, second)
		assert.Len(t, s.Markers(), 2)
	})

	t.Run("single vendor fits bounds to it", func(t *testing.T) {
		s := readySurface(t)
		n := s.Plot([]domain.MapEntity{{ID: "1", Label: "Joe's Deli", Location: coord(37.0, -122.0)}})
		assert.Equal(t, 1, n)

		v := s.Viewport()
		require.NotNil(t, v.Bounds)
		assert.Equal(t, domain.BoundingBox{MinLat: 37, MinLon: -122, MaxLat: 37, MaxLon: -122}, *v.Bounds)
		assert.Equal(t, domain.Coordinate{Lat: 37, Lon: -122}, v.Center)
		assert.Equal(t, maxFitZoom, v.Zoom)
	})

	t.Run("empty result keeps the viewport", func(t *testing.T) {
		s := readySurface(t)
		s.Plot(entities)
		before := s.Viewport()
		assert.Equal(t, 0, s.Plot(nil))
		assert.Empty(t, s.Markers())
		assert.Equal(t, before, s.Viewport())
	})

	t.Run("fitted viewport contains every marker", func(t *testing.T) {
		s := readySurface(t)
		s.Plot(entities)
		v := s.Viewport()
		for _, m := range s.Markers() {
			x, y := toPixel(m.Position, v, mounted.Width, mounted.Height)
			assert.True(t, x >= 0 && x <= float64(mounted.Width), "x=%f", x)
			assert.True(t, y >= 0 && y <= float64(mounted.Height), "y=%f", y)
		}
	})
}

func TestSurface_CenterOnAndClick(t *testing.T) {
	s := readySurface(t)
	s.Plot([]domain.MapEntity{{
		ID: "1", Label: "Joe's Deli", Location: coord(37.0, -122.0),
		Metadata: map[string]string{"category": "Food & Beverage", "address": "1 Main St"},
	}})
	zoom := s.Viewport().Zoom

	s.CenterOn(domain.Coordinate{Lat: 38, Lon: -121})
	assert.Equal(t, domain.Coordinate{Lat: 38, Lon: -121}, s.Viewport().Center)
	assert.Equal(t, zoom, s.Viewport().Zoom)
	assert.Len(t, s.Markers(), 1)

	popup, ok := s.Click("1")
	require.True(t, ok)
	assert.Equal(t, domain.InfoPopup{MarkerID: "1", Label: "Joe's Deli", Category: "Food & Beverage", Address: "1 Main St"}, popup)

	_, ok = s.Click("missing")
	assert.False(t, ok)

	u, ok := s.StaticURL()
	assert.True(t, ok)
	assert.Equal(t, "static://map", u)
}

func TestSurface_Render(t *testing.T) {
	t.Run("ready surface", func(t *testing.T) {
		s := readySurface(t)
		s.Plot([]domain.MapEntity{{ID: "1", Label: "Joe's Deli", Location: coord(37.0, -122.0)}})

		data, err := s.Render(0, 0)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, mounted.Width, img.Bounds().Dx())
		assert.Equal(t, mounted.Height, img.Bounds().Dy())

		// пин в центре
		r, g, b, _ := img.At(mounted.Width/2, mounted.Height/2).RGBA()
		assert.Equal(t, [3]uint32{uint32(colorPin.R) * 0x101, uint32(colorPin.G) * 0x101, uint32(colorPin.B) * 0x101}, [3]uint32{r, g, b})
	})

	t.Run("degraded placeholder", func(t *testing.T) {
		s := New(NewLoader(&fakeLibrary{err: errors.ErrMapCredentialMissing}, zap.NewNop()), zap.NewNop())
		s.Initialize(context.Background(), mounted, nil)

		data, err := s.Render(320, 200)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 320, img.Bounds().Dx())
	})

	t.Run("uninitialized uses default size", func(t *testing.T) {
		s := New(NewLoader(&fakeLibrary{}, zap.NewNop()), zap.NewNop())
		data, err := s.Render(0, 0)
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, defaultCanvasWidth, cfg.Width)
	})
}
