package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
)

type identityClaims struct {
	jwt.RegisteredClaims
	UserID    domain.EntityID `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Email     string          `json:"email,omitempty"`
	Role      string          `json:"role,omitempty"`
	Latitude  *float64        `json:"latitude,omitempty"`
	Longitude *float64        `json:"longitude,omitempty"`
}

// ParseToken reads the identity the client holds. The directory backend is
// the authority on the token, so the signature is not checked here; expiry
// is. Besides JWTs the plain stored-user JSON document is accepted.
func ParseToken(token string) (*domain.Identity, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, errors.ErrInvalidToken
	}

	if strings.HasPrefix(token, "{") {
		return parseStoredUser(token)
	}

	claims := &identityClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, errors.ErrInvalidToken.WithDetails(map[string]interface{}{"reason": err.Error()})
	}

	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return nil, errors.ErrInvalidToken.WithMessage("Session has expired, please login again")
	}

	id := claims.UserID
	if id.IsZero() {
		id = domain.EntityID(claims.Subject)
	}
	if id.IsZero() {
		return nil, errors.ErrInvalidToken
	}

	return &domain.Identity{
		ID:        id,
		Name:      claims.Name,
		Email:     claims.Email,
		Role:      claims.Role,
		Latitude:  claims.Latitude,
		Longitude: claims.Longitude,
	}, nil
}

func parseStoredUser(raw string) (*domain.Identity, error) {
	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		return nil, errors.ErrInvalidToken
	}
	if identity.ID.IsZero() {
		return nil, errors.ErrInvalidToken
	}
	return &identity, nil
}
