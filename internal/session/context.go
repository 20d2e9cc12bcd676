package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
)

// Context - явный контекст сессии экрана: кто смотрит и с каким токеном.
// Передаётся в каждый компонент, которому нужна identity.
type Context struct {
	ScreenID uuid.UUID
	Token    string
	Identity *domain.Identity
}

func (c Context) Authenticated() bool {
	return c.Identity != nil && !c.Identity.ID.IsZero()
}

// UserID returns the numeric backend id of the identity, ErrUnauthenticated
// when nobody is logged in.
func (c Context) UserID() (int64, error) {
	if !c.Authenticated() {
		return 0, errors.ErrUnauthenticated
	}
	id, err := c.Identity.ID.Int64()
	if err != nil {
		return 0, errors.ErrInvalidToken
	}
	return id, nil
}

type ctxKey struct{}

func NewContext(ctx context.Context, sc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

func FromContext(ctx context.Context) (Context, bool) {
	sc, ok := ctx.Value(ctxKey{}).(Context)
	return sc, ok
}

type clientIPKey struct{}

// WithClientIP carries the end user's address for IP based geolocation.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func ClientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
