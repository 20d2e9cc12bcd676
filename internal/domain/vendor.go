package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Vendor - продавец из каталога. Только чтение.
type Vendor struct {
	ID          EntityID    `json:"id"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Email       string      `json:"email"`
	Phone       *string     `json:"phone,omitempty"`
	Address     *string     `json:"address,omitempty"`
	Description *string     `json:"description,omitempty"`
	Location    *Coordinate `json:"location,omitempty"`
}

type vendorPayload struct {
	ID          EntityID        `json:"id"`
	VendorID    EntityID        `json:"vendorId"`
	VendorIDSn  EntityID        `json:"vendor_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Email       string          `json:"email"`
	Phone       *string         `json:"phone"`
	Address     *string         `json:"address"`
	Description *string         `json:"description"`
	Latitude    json.RawMessage `json:"latitude"`
	Longitude   json.RawMessage `json:"longitude"`
	Location    *Coordinate     `json:"location"`
}

// UnmarshalJSON accepts the backend's flat latitude/longitude fields and the
// id aliases some payloads use. Coordinates that are missing, non-numeric or
// out of range leave Location nil.
func (v *Vendor) UnmarshalJSON(b []byte) error {
	var p vendorPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	id := p.ID
	if id.IsZero() {
		id = p.VendorID
	}
	if id.IsZero() {
		id = p.VendorIDSn
	}

	*v = Vendor{
		ID:          id,
		Name:        p.Name,
		Category:    p.Category,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		Description: p.Description,
	}

	if p.Location != nil && p.Location.Valid() {
		loc := *p.Location
		v.Location = &loc
		return nil
	}

	lat, okLat := parseFlexFloat(p.Latitude)
	lon, okLon := parseFlexFloat(p.Longitude)
	if okLat && okLon {
		c := Coordinate{Lat: lat, Lon: lon}
		if c.Valid() {
			v.Location = &c
		}
	}
	return nil
}

// MapEntity converts the vendor into something a map surface can plot.
func (v Vendor) MapEntity() MapEntity {
	meta := map[string]string{"category": v.Category}
	if v.Address != nil {
		meta["address"] = *v.Address
	}
	return MapEntity{
		ID:       string(v.ID),
		Location: v.Location,
		Label:    v.Name,
		Metadata: meta,
	}
}

func VendorEntities(vendors []Vendor) []MapEntity {
	entities := make([]MapEntity, 0, len(vendors))
	for _, v := range vendors {
		entities = append(entities, v.MapEntity())
	}
	return entities
}

// parseFlexFloat reads a JSON number or a numeric string.
func parseFlexFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
