package usecase_test

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/mapsurface"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/usecase"
)

// MockDirectoryRepository is a mock of DirectoryRepository
type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) NearbyVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string) ([]domain.Vendor, error) {
	args := m.Called(ctx, origin, radiusKm, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vendor), args.Error(1)
}

func (m *MockDirectoryRepository) ProductsByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockDirectoryRepository) ReviewsByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockDirectoryRepository) CreateReview(ctx context.Context, review domain.NewReview) (*domain.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockDirectoryRepository) ProductRating(ctx context.Context, productID int64) (*domain.ProductRating, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProductRating), args.Error(1)
}

// MockGeolocationProvider is a mock of GeolocationProvider
type MockGeolocationProvider struct {
	mock.Mock
}

func (m *MockGeolocationProvider) Name() string { return "mock" }

func (m *MockGeolocationProvider) RequestLocation(ctx context.Context) (domain.Coordinate, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Coordinate), args.Error(1)
}

type fakeMapLibrary struct {
	calls int32
	err   error
}

func (f *fakeMapLibrary) LoadLibrary(ctx context.Context) (*domain.MapLibrary, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.MapLibrary{Name: "Mapbox Streets", Version: 8, StyleID: "mapbox/streets-v12"}, nil
}

func (f *fakeMapLibrary) StaticImageURL(v domain.Viewport, markers []domain.Marker, w, h int) (string, bool) {
	return "", false
}

func ptr[T any](v T) *T {
	return &v
}

var joesDeli = domain.Vendor{
	ID:       "1",
	Name:     "Joe's Deli",
	Category: "Food & Beverage",
	Location: &domain.Coordinate{Lat: 37.0, Lon: -122.0},
}

// newScreen builds a screen with a ready map and no implicit geolocation.
func newScreen(repo *MockDirectoryRepository, geo *MockGeolocationProvider) *usecase.SearchScreen {
	return newScreenWithMap(repo, geo, &fakeMapLibrary{})
}

func newScreenWithMap(repo *MockDirectoryRepository, geo *MockGeolocationProvider, lib *fakeMapLibrary) *usecase.SearchScreen {
	if geo == nil {
		geo = &MockGeolocationProvider{}
	}
	logger := zap.NewNop()
	screen := usecase.NewSearchScreen(uuid.New(), usecase.ScreenDeps{
		Directory:   repo,
		Geolocation: geo,
		MapLoader:   mapsurface.NewLoader(lib, logger),
		Directions:  usecase.NewDirections(""),
		Logger:      logger,
	})
	screen.Start(context.Background(), domain.MapContainer{ID: "map", Width: 800, Height: 600}, nil, false)
	screen.Wait()
	return screen
}

var errBackendDown = errors.ErrBackend.WithMessage("Failed to load vendor products")
