package domain

// MapStatus - состояние картографической поверхности
type MapStatus string

const (
	MapUninitialized MapStatus = "uninitialized"
	MapReady         MapStatus = "ready"
	MapDegraded      MapStatus = "degraded"
)

const (
	DefaultMapZoom = 12.0
)

// DefaultMapCenter is used when neither an initial center nor a user
// location is known (San Francisco).
var DefaultMapCenter = Coordinate{Lat: 37.7749, Lon: -122.4194}

// MapContainer is the area a surface renders into. It counts as mounted once
// it has an id and a positive size.
type MapContainer struct {
	ID     string `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (c MapContainer) Mounted() bool {
	return c.ID != "" && c.Width > 0 && c.Height > 0
}

// MapEntity - всё, что можно поставить на карту
type MapEntity struct {
	ID       string            `json:"id"`
	Location *Coordinate       `json:"location,omitempty"`
	Label    string            `json:"label"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type Marker struct {
	ID       string     `json:"id"`
	Position Coordinate `json:"position"`
	Label    string     `json:"label"`
	Category string     `json:"category,omitempty"`
	Address  string     `json:"address,omitempty"`
}

// InfoPopup is what clicking a marker shows. Presentation only.
type InfoPopup struct {
	MarkerID string `json:"marker_id"`
	Label    string `json:"label"`
	Category string `json:"category,omitempty"`
	Address  string `json:"address,omitempty"`
}

type Viewport struct {
	Center Coordinate   `json:"center"`
	Zoom   float64      `json:"zoom"`
	Bounds *BoundingBox `json:"bounds,omitempty"`
}

// MapHandle identifies an initialised surface.
type MapHandle struct {
	ID        string       `json:"id"`
	Container MapContainer `json:"container"`
	Library   string       `json:"library"`
}

// MapLibrary describes the loaded mapping library (a Mapbox style).
type MapLibrary struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	StyleID string `json:"style_id"`
}
