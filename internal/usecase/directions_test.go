package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/usecase"
)

func TestDirections_For(t *testing.T) {
	d := usecase.NewDirections("")

	t.Run("destination only", func(t *testing.T) {
		link, err := d.For(joesDeli, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=37%2C-122", link.URL)
		assert.Equal(t, "_blank", link.Target)
		assert.Equal(t, "noopener,noreferrer", link.Features)
	})

	t.Run("with origin", func(t *testing.T) {
		link, err := d.For(joesDeli, &domain.Coordinate{Lat: 37.5, Lon: -122.25})
		require.NoError(t, err)
		assert.Equal(t, "https://www.google.com/maps/dir/?api=1&origin=37.5%2C-122.25&destination=37%2C-122", link.URL)
	})

	t.Run("vendor without location", func(t *testing.T) {
		_, err := d.For(domain.Vendor{ID: "2", Name: "Nowhere"}, nil)
		assert.ErrorIs(t, err, errors.ErrDirectionsUnavailable)
	})

	t.Run("custom base", func(t *testing.T) {
		link, err := usecase.NewDirections("https://maps.example.com/dir").For(joesDeli, nil)
		require.NoError(t, err)
		assert.Equal(t, "https://maps.example.com/dir?api=1&destination=37%2C-122", link.URL)
	})
}
