package geolocation

import (
	"context"
	"strings"

	"github.com/vendor-discovery/internal/config"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/session"
	"go.uber.org/zap"
)

// NewFromConfig собирает цепочку провайдеров в порядке GEOLOCATION_PROVIDERS.
// При GEOLOCATION_ENABLED=false каждый запрос завершается PermissionDenied.
func NewFromConfig(cfg *config.GeolocationConfig, logger *zap.Logger) repository.GeolocationProvider {
	if !cfg.Enabled {
		return denied{}
	}

	providers := make([]repository.GeolocationProvider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		switch strings.ToLower(name) {
		case "profile":
			providers = append(providers, NewProfileProvider())
		case "ipapi":
			providers = append(providers, NewIPAPIProvider(cfg.IPAPIBaseURL, cfg.RequestTimeout, logger))
		case "static":
			providers = append(providers, NewStaticProvider(domain.Coordinate{Lat: cfg.StaticLat, Lon: cfg.StaticLon}))
		default:
			logger.Warn("Unknown geolocation provider", zap.String("provider", name))
		}
	}
	return NewChain(logger, providers...)
}

type denied struct{}

func (denied) Name() string { return "disabled" }

func (denied) RequestLocation(context.Context) (domain.Coordinate, error) {
	return domain.Coordinate{}, errors.ErrPermissionDenied
}

// profileProvider - координаты из профиля пользователя
type profileProvider struct{}

func NewProfileProvider() repository.GeolocationProvider {
	return profileProvider{}
}

func (profileProvider) Name() string { return "profile" }

func (profileProvider) RequestLocation(ctx context.Context) (domain.Coordinate, error) {
	sc, ok := session.FromContext(ctx)
	if !ok || !sc.Authenticated() {
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}
	loc, ok := sc.Identity.ProfileLocation()
	if !ok {
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}
	return loc, nil
}

type staticProvider struct {
	at domain.Coordinate
}

func NewStaticProvider(at domain.Coordinate) repository.GeolocationProvider {
	return staticProvider{at: at}
}

func (staticProvider) Name() string { return "static" }

func (p staticProvider) RequestLocation(context.Context) (domain.Coordinate, error) {
	if !p.at.Valid() {
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}
	return p.at, nil
}

// chain пробует провайдеров по порядку; PermissionDenied прерывает цепочку
type chain struct {
	providers []repository.GeolocationProvider
	logger    *zap.Logger
}

func NewChain(logger *zap.Logger, providers ...repository.GeolocationProvider) repository.GeolocationProvider {
	return &chain{providers: providers, logger: logger}
}

func (c *chain) Name() string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c *chain) RequestLocation(ctx context.Context) (domain.Coordinate, error) {
	for _, p := range c.providers {
		loc, err := p.RequestLocation(ctx)
		if err == nil {
			c.logger.Debug("Location resolved", zap.String("provider", p.Name()))
			return loc, nil
		}
		if errors.Is(err, errors.ErrPermissionDenied) {
			return domain.Coordinate{}, err
		}
		if ctx.Err() != nil {
			return domain.Coordinate{}, errors.ErrLocationUnavailable
		}
		c.logger.Debug("Geolocation provider failed",
			zap.String("provider", p.Name()),
			zap.Error(err))
	}
	return domain.Coordinate{}, errors.ErrLocationUnavailable
}
