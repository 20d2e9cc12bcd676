package usecase

import (
	"net/url"
	"strings"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
)

const defaultDirectionsBaseURL = "https://www.google.com/maps/dir/"

// DirectionsLink - описание открытия маршрута в новом контексте
// без обратной ссылки на экран.
type DirectionsLink struct {
	URL      string `json:"url"`
	Target   string `json:"target"`
	Features string `json:"features"`
}

type Directions struct {
	baseURL string
}

func NewDirections(baseURL string) *Directions {
	if baseURL == "" {
		baseURL = defaultDirectionsBaseURL
	}
	return &Directions{baseURL: baseURL}
}

// For builds the hand-off link to v. The origin is optional.
func (d *Directions) For(v domain.Vendor, origin *domain.Coordinate) (DirectionsLink, error) {
	if v.Location == nil || !v.Location.Valid() {
		return DirectionsLink{}, errors.ErrDirectionsUnavailable
	}

	var b strings.Builder
	b.WriteString(d.baseURL)
	b.WriteString("?api=1")
	if origin != nil && origin.Valid() {
		b.WriteString("&origin=")
		b.WriteString(url.QueryEscape(origin.String()))
	}
	b.WriteString("&destination=")
	b.WriteString(url.QueryEscape(v.Location.String()))

	return DirectionsLink{
		URL:      b.String(),
		Target:   "_blank",
		Features: "noopener,noreferrer",
	}, nil
}
