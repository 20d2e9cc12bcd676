package mapsurface

import (
	"math"

	"github.com/vendor-discovery/internal/domain"
)

const (
	tileSize   = 256.0
	fitPadding = 40.0
	maxFitZoom = 16.0
	minZoom    = 0.0
)

// mercator projects to the unit square, x and y in [0,1].
func mercator(c domain.Coordinate) (float64, float64) {
	lat := math.Max(math.Min(c.Lat, 85.05112878), -85.05112878)
	x := (c.Lon + 180) / 360
	sin := math.Sin(lat * math.Pi / 180)
	y := 0.5 - math.Log((1+sin)/(1-sin))/(4*math.Pi)
	return x, y
}

// fitZoom is the largest zoom at which the box fits the container with
// padding, capped so a single point does not zoom to street level.
func fitZoom(b domain.BoundingBox, width, height int) float64 {
	x1, y1 := mercator(domain.Coordinate{Lat: b.MaxLat, Lon: b.MinLon})
	x2, y2 := mercator(domain.Coordinate{Lat: b.MinLat, Lon: b.MaxLon})
	dx := math.Abs(x2 - x1)
	dy := math.Abs(y2 - y1)

	w := math.Max(float64(width)-2*fitPadding, 1)
	h := math.Max(float64(height)-2*fitPadding, 1)

	zoom := maxFitZoom
	if dx > 0 {
		zoom = math.Min(zoom, math.Log2(w/(tileSize*dx)))
	}
	if dy > 0 {
		zoom = math.Min(zoom, math.Log2(h/(tileSize*dy)))
	}
	return math.Max(minZoom, math.Floor(zoom))
}

// toPixel places c on a width x height canvas centred on the viewport.
func toPixel(c domain.Coordinate, v domain.Viewport, width, height int) (float64, float64) {
	scale := tileSize * math.Pow(2, v.Zoom)
	cx, cy := mercator(v.Center)
	x, y := mercator(c)
	return (x-cx)*scale + float64(width)/2, (y-cy)*scale + float64(height)/2
}
