package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/config"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/session"
)

func newTestClient(url string) *client {
	return NewDirectoryClient(&config.BackendConfig{
		BaseURL:        url,
		RequestTimeout: 5 * time.Second,
	}, zap.NewNop()).(*client)
}

func TestClient_NearbyVendors(t *testing.T) {
	t.Run("unscoped search", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/vendors/nearby", r.URL.Path)
			assert.Equal(t, "37", r.URL.Query().Get("latitude"))
			assert.Equal(t, "-122", r.URL.Query().Get("longitude"))
			assert.Equal(t, "10", r.URL.Query().Get("radiusKm"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"id":1,"name":"Joe's Deli","category":"Food & Beverage","latitude":37.0,"longitude":-122.0}]`))
		}))
		defer server.Close()

		vendors, err := newTestClient(server.URL).NearbyVendors(context.Background(), domain.Coordinate{Lat: 37, Lon: -122}, 10, "")
		require.NoError(t, err)
		require.Len(t, vendors, 1)
		assert.Equal(t, domain.EntityID("1"), vendors[0].ID)
		assert.Equal(t, "Joe's Deli", vendors[0].Name)
		require.NotNil(t, vendors[0].Location)
	})

	t.Run("category scoped search escapes the category", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/vendors/nearby/category/Food%20&%20Beverage", r.URL.EscapedPath())
			w.Write([]byte(`null`))
		}))
		defer server.Close()

		vendors, err := newTestClient(server.URL).NearbyVendors(context.Background(), domain.Coordinate{Lat: 1, Lon: 2}, 5, "Food & Beverage")
		require.NoError(t, err)
		assert.NotNil(t, vendors)
		assert.Empty(t, vendors)
	})

	t.Run("backend error message is surfaced", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Radius too large"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).NearbyVendors(context.Background(), domain.Coordinate{Lat: 1, Lon: 2}, 5, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrBackend)
		assert.Equal(t, "Radius too large", errors.MessageOf(err, ""))
		assert.Equal(t, errors.KindNetwork, errors.KindOf(err))
	})

	t.Run("fallback message without payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`<html>oops</html>`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).NearbyVendors(context.Background(), domain.Coordinate{Lat: 1, Lon: 2}, 5, "")
		assert.Equal(t, "Failed to search vendors", errors.MessageOf(err, ""))
	})

	t.Run("unreachable backend", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := newTestClient(url).NearbyVendors(context.Background(), domain.Coordinate{Lat: 1, Lon: 2}, 5, "")
		assert.ErrorIs(t, err, errors.ErrNetwork)
		assert.Equal(t, "Failed to search vendors", errors.MessageOf(err, ""))
	})
}

func TestClient_ProductsAndReviews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/vendor/3":
			w.Write([]byte(`[{"id":10,"vendorId":3,"name":"Bagel","price":2.50}]`))
		case "/reviews/product/10":
			w.Write([]byte(`[{"id":1,"userId":2,"productId":10,"rating":4,"comment":"Great","createdAt":"2024-01-15T10:30:00"}]`))
		case "/reviews/product/5/rating":
			w.Write([]byte(`{"averageRating":4.2,"reviewCount":7}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	ctx := context.Background()

	products, err := c.ProductsByVendor(ctx, 3)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "2.50", products[0].Price.String())

	reviews, err := c.ReviewsByProduct(ctx, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "15/01/2024", reviews[0].DisplayDate())

	rating, err := c.ProductRating(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, rating.FilledStars())
	assert.Equal(t, "4.2 (7 reviews)", rating.Summary())

	_, err = c.ProductsByVendor(ctx, 99)
	assert.Equal(t, "Failed to load vendor products", errors.MessageOf(err, ""))
}

func TestClient_CreateReview(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reviews", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var in domain.NewReview
		require.NoError(t, json.Unmarshal(body, &in))
		assert.Equal(t, domain.NewReview{UserID: 2, ProductID: 10, Rating: 4, Comment: "Great"}, in)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":77,"userId":2,"productId":10,"rating":4,"comment":"Great"}`))
	}))
	defer server.Close()

	ctx := session.NewContext(context.Background(), session.Context{Token: "tok"})
	review, err := newTestClient(server.URL).CreateReview(ctx, domain.NewReview{UserID: 2, ProductID: 10, Rating: 4, Comment: "Great"})
	require.NoError(t, err)
	assert.Equal(t, domain.EntityID("77"), review.ID)
}

// MockCacheRepository - мок кеша
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) GetVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string) ([]domain.Vendor, error) {
	args := m.Called(ctx, origin, radiusKm, category)
	v, _ := args.Get(0).([]domain.Vendor)
	return v, args.Error(1)
}

func (m *MockCacheRepository) SetVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string, vendors []domain.Vendor, ttl time.Duration) error {
	return m.Called(ctx, origin, radiusKm, category, vendors, ttl).Error(0)
}

func (m *MockCacheRepository) GetProducts(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	args := m.Called(ctx, vendorID)
	p, _ := args.Get(0).([]domain.Product)
	return p, args.Error(1)
}

func (m *MockCacheRepository) SetProducts(ctx context.Context, vendorID int64, products []domain.Product, ttl time.Duration) error {
	return m.Called(ctx, vendorID, products, ttl).Error(0)
}

func TestCachedDirectory(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[{"id":1,"name":"Joe's Deli"}]`))
	}))
	defer server.Close()

	cfg := &config.CacheConfig{SearchCacheTTL: time.Minute, ProductsCacheTTL: time.Minute}
	origin := domain.Coordinate{Lat: 37, Lon: -122}

	t.Run("hit skips the backend", func(t *testing.T) {
		cache := new(MockCacheRepository)
		cache.On("GetVendors", mock.Anything, origin, 10, "").
			Return([]domain.Vendor{{ID: "9", Name: "Cached"}}, nil)

		repo := NewCachedDirectory(newTestClient(server.URL), cache, cfg, zap.NewNop())
		vendors, err := repo.NearbyVendors(context.Background(), origin, 10, "")
		require.NoError(t, err)
		assert.Equal(t, "Cached", vendors[0].Name)
		assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
		cache.AssertExpectations(t)
	})

	t.Run("miss fills the cache", func(t *testing.T) {
		cache := new(MockCacheRepository)
		cache.On("GetVendors", mock.Anything, origin, 10, "").Return(nil, nil)
		cache.On("SetVendors", mock.Anything, origin, 10, "", mock.Anything, time.Minute).Return(nil)

		repo := NewCachedDirectory(newTestClient(server.URL), cache, cfg, zap.NewNop())
		vendors, err := repo.NearbyVendors(context.Background(), origin, 10, "")
		require.NoError(t, err)
		assert.Equal(t, "Joe's Deli", vendors[0].Name)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure falls through", func(t *testing.T) {
		cache := new(MockCacheRepository)
		cache.On("GetProducts", mock.Anything, int64(3)).Return(nil, errors.ErrCacheError)
		cache.On("SetProducts", mock.Anything, int64(3), mock.Anything, time.Minute).Return(errors.ErrCacheError)

		repo := NewCachedDirectory(newTestClient(server.URL), cache, cfg, zap.NewNop())
		_, err := repo.ProductsByVendor(context.Background(), 3)
		assert.NoError(t, err)
	})
}
