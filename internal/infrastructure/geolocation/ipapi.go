package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/session"
	"go.uber.org/zap"
)

type ipapiProvider struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

type ipapiResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewIPAPIProvider(baseURL string, timeout time.Duration, logger *zap.Logger) repository.GeolocationProvider {
	return &ipapiProvider{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (p *ipapiProvider) Name() string { return "ipapi" }

func (p *ipapiProvider) RequestLocation(ctx context.Context) (domain.Coordinate, error) {
	ip := net.ParseIP(session.ClientIPFrom(ctx))
	// без публичного адреса клиента ip-api вернёт координаты сервера
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}

	url := fmt.Sprintf("%s/json/%s?fields=status,message,lat,lon", p.baseURL, ip.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("ip-api request failed", zap.Error(err))
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("ip-api returned error", zap.Int("status_code", resp.StatusCode))
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}

	var body ipapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}
	if body.Status != "success" {
		p.logger.Debug("ip-api lookup failed", zap.String("message", body.Message))
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}

	loc := domain.Coordinate{Lat: body.Lat, Lon: body.Lon}
	if !loc.Valid() {
		return domain.Coordinate{}, errors.ErrLocationUnavailable
	}
	return loc, nil
}
