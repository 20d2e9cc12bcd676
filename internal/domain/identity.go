package domain

import (
	"time"

	"github.com/google/uuid"
)

// Identity - аутентифицированный пользователь из клиентского токена
type Identity struct {
	ID        EntityID `json:"id"`
	Name      string   `json:"name,omitempty"`
	Email     string   `json:"email,omitempty"`
	Role      string   `json:"role,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ProfileLocation returns the location stored on the user's profile.
func (i *Identity) ProfileLocation() (Coordinate, bool) {
	if i == nil || i.Latitude == nil || i.Longitude == nil {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: *i.Latitude, Lon: *i.Longitude}
	return c, c.Valid()
}

// IdentityChanged is published whenever a screen's identity is set or
// cleared. A nil Identity means logged out.
type IdentityChanged struct {
	ScreenID  string    `json:"screen_id"`
	Identity  *Identity `json:"identity,omitempty"`
	Token     string    `json:"token,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
	Origin    string    `json:"origin,omitempty"`
}

// SessionRecord - сохранённое состояние логина экранной сессии
type SessionRecord struct {
	ScreenID  uuid.UUID `db:"screen_id" json:"screen_id"`
	Token     string    `db:"token" json:"-"`
	Identity  *Identity `db:"-" json:"identity,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
