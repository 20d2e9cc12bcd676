package domain

const DefaultRadiusKm = 10

// Categories offered by the search form.
var Categories = []string{
	"Food & Beverage",
	"Retail",
	"Services",
	"Healthcare",
	"Automotive",
	"Beauty & Wellness",
	"Home & Garden",
	"Technology",
	"Education",
	"Other",
}

// SearchCriteria - параметры поиска; изменяются пользователем, не сохраняются.
// Latitude/Longitude are pointers so an incomplete origin is representable.
type SearchCriteria struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RadiusKm  int      `json:"radiusKm"`
	Category  string   `json:"category"`
}

func NewSearchCriteria() SearchCriteria {
	return SearchCriteria{RadiusKm: DefaultRadiusKm}
}

// Origin returns the search origin when both coordinates are present.
func (c SearchCriteria) Origin() (Coordinate, bool) {
	if c.Latitude == nil || c.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Lat: *c.Latitude, Lon: *c.Longitude}, true
}

// WithOrigin returns a copy with both origin coordinates set.
func (c SearchCriteria) WithOrigin(origin Coordinate) SearchCriteria {
	lat, lon := origin.Lat, origin.Lon
	c.Latitude = &lat
	c.Longitude = &lon
	return c
}
