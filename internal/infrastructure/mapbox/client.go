package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vendor-discovery/internal/config"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Static Images API limits
	maxStaticSize    = 1280
	maxStaticMarkers = 100
)

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	style       string
	logger      *zap.Logger
}

// NewMapboxClient создает новый клиент для Mapbox API
func NewMapboxClient(cfg *config.MapboxConfig, logger *zap.Logger) repository.MapLibraryRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL:     cfg.BaseURL,
		accessToken: cfg.AccessToken,
		style:       cfg.Style,
		logger:      logger,
	}
}

type styleResponse struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

// LoadLibrary загружает style-документ Mapbox. Это и есть "библиотека":
// без него карта не рисуется.
func (c *client) LoadLibrary(ctx context.Context) (*domain.MapLibrary, error) {
	if c.accessToken == "" {
		return nil, errors.ErrMapCredentialMissing
	}

	reqURL := fmt.Sprintf("%s/styles/v1/%s?access_token=%s",
		c.baseURL,
		c.style,
		url.QueryEscape(c.accessToken),
	)

	c.logger.Debug("Loading Mapbox style", zap.String("style", c.style))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, errors.ErrMapLoadFailed
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Failed to execute request", zap.Error(err))
		return nil, errors.ErrMapLoadFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, errors.ErrMapLoadFailed.WithMessage("Map is unavailable: access token was rejected")
		}
		return nil, errors.ErrMapLoadFailed
	}

	var style styleResponse
	if err := json.NewDecoder(resp.Body).Decode(&style); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return nil, errors.ErrMapLoadFailed
	}

	c.logger.Debug("Mapbox style loaded",
		zap.String("name", style.Name),
		zap.Int("version", style.Version))

	return &domain.MapLibrary{
		Name:    style.Name,
		Version: style.Version,
		StyleID: c.style,
	}, nil
}

// StaticImageURL строит URL Static Images API. ok=false без токена.
func (c *client) StaticImageURL(viewport domain.Viewport, markers []domain.Marker, width, height int) (string, bool) {
	if c.accessToken == "" {
		return "", false
	}

	overlays := make([]string, 0, len(markers))
	for i, m := range markers {
		if i >= maxStaticMarkers {
			break
		}
		overlays = append(overlays, fmt.Sprintf("pin-s+e74c3c(%s,%s)",
			formatCoord(m.Position.Lon), formatCoord(m.Position.Lat)))
	}

	overlay := ""
	if len(overlays) > 0 {
		overlay = strings.Join(overlays, ",") + "/"
	}

	return fmt.Sprintf("%s/styles/v1/%s/static/%s%s,%s,%s/%dx%d?access_token=%s",
		c.baseURL,
		c.style,
		overlay,
		formatCoord(viewport.Center.Lon),
		formatCoord(viewport.Center.Lat),
		strconv.FormatFloat(viewport.Zoom, 'f', 2, 64),
		clampSize(width),
		clampSize(height),
		url.QueryEscape(c.accessToken),
	), true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func clampSize(v int) int {
	if v < 1 {
		return 1
	}
	if v > maxStaticSize {
		return maxStaticSize
	}
	return v
}
