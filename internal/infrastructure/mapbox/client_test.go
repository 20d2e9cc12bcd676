package mapbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/config"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
)

func TestClient_LoadLibrary(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/styles/v1/mapbox/streets-v12", r.URL.Path)
			assert.Equal(t, "test_token", r.URL.Query().Get("access_token"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"version":8,"name":"Mapbox Streets"}`))
		}))
		defer server.Close()

		cfg := &config.MapboxConfig{
			AccessToken:    "test_token",
			BaseURL:        server.URL,
			Style:          "mapbox/streets-v12",
			RequestTimeout: 5 * time.Second,
		}

		lib, err := NewMapboxClient(cfg, logger).LoadLibrary(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Mapbox Streets", lib.Name)
		assert.Equal(t, 8, lib.Version)
		assert.Equal(t, "mapbox/streets-v12", lib.StyleID)
	})

	t.Run("missing token makes no request", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		defer server.Close()

		cfg := &config.MapboxConfig{BaseURL: server.URL, Style: "mapbox/streets-v12"}

		lib, err := NewMapboxClient(cfg, logger).LoadLibrary(context.Background())
		assert.Nil(t, lib)
		assert.ErrorIs(t, err, errors.ErrMapCredentialMissing)
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})

	t.Run("rejected token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Not Authorized - Invalid Token"}`))
		}))
		defer server.Close()

		cfg := &config.MapboxConfig{AccessToken: "bad", BaseURL: server.URL, Style: "mapbox/streets-v12"}

		_, err := NewMapboxClient(cfg, logger).LoadLibrary(context.Background())
		assert.ErrorIs(t, err, errors.ErrMapLoadFailed)
		assert.Equal(t, errors.KindDegraded, errors.KindOf(err))
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{invalid`))
		}))
		defer server.Close()

		cfg := &config.MapboxConfig{AccessToken: "t", BaseURL: server.URL, Style: "mapbox/streets-v12"}

		_, err := NewMapboxClient(cfg, logger).LoadLibrary(context.Background())
		assert.ErrorIs(t, err, errors.ErrMapLoadFailed)
	})
}

func TestClient_StaticImageURL(t *testing.T) {
	cfg := &config.MapboxConfig{AccessToken: "tok", BaseURL: "https://api.mapbox.com", Style: "mapbox/streets-v12"}
	c := NewMapboxClient(cfg, zap.NewNop())

	viewport := domain.Viewport{Center: domain.Coordinate{Lat: 37, Lon: -122}, Zoom: 12}
	markers := []domain.Marker{{ID: "1", Position: domain.Coordinate{Lat: 37, Lon: -122}}}

	u, ok := c.StaticImageURL(viewport, markers, 600, 5000)
	require.True(t, ok)
	assert.Equal(t,
		"https://api.mapbox.com/styles/v1/mapbox/streets-v12/static/pin-s+e74c3c(-122.000000,37.000000)/-122.000000,37.000000,12.00/600x1280?access_token=tok",
		u)

	u, ok = c.StaticImageURL(viewport, nil, 600, 400)
	require.True(t, ok)
	assert.Contains(t, u, "/static/-122.000000,37.000000,12.00/600x400")

	noToken := NewMapboxClient(&config.MapboxConfig{BaseURL: "https://api.mapbox.com"}, zap.NewNop())
	_, ok = noToken.StaticImageURL(viewport, markers, 600, 400)
	assert.False(t, ok)
}
