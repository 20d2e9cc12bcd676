package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vendor-discovery/internal/config"
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/session"
	"go.uber.org/zap"
)

// Fallback messages when the backend gives no {error} payload.
const (
	msgSearchFailed   = "Failed to search vendors"
	msgProductsFailed = "Failed to load vendor products"
	msgReviewsFailed  = "Failed to load product reviews"
	msgSubmitFailed   = "Failed to submit review"
	msgRatingFailed   = "Failed to load product rating"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

// NewDirectoryClient создает клиент REST API каталога
func NewDirectoryClient(cfg *config.BackendConfig, logger *zap.Logger) repository.DirectoryRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

type errorPayload struct {
	Error string `json:"error"`
}

func (c *client) NearbyVendors(ctx context.Context, origin domain.Coordinate, radiusKm int, category string) ([]domain.Vendor, error) {
	path := "/vendors/nearby"
	if category != "" {
		path = "/vendors/nearby/category/" + url.PathEscape(category)
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(origin.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(origin.Lon, 'f', -1, 64))
	q.Set("radiusKm", strconv.Itoa(radiusKm))

	var vendors []domain.Vendor
	if err := c.do(ctx, http.MethodGet, path+"?"+q.Encode(), nil, &vendors, msgSearchFailed); err != nil {
		return nil, err
	}
	if vendors == nil {
		vendors = []domain.Vendor{}
	}
	return vendors, nil
}

func (c *client) ProductsByVendor(ctx context.Context, vendorID int64) ([]domain.Product, error) {
	var products []domain.Product
	path := fmt.Sprintf("/products/vendor/%d", vendorID)
	if err := c.do(ctx, http.MethodGet, path, nil, &products, msgProductsFailed); err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (c *client) ReviewsByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	var reviews []domain.Review
	path := fmt.Sprintf("/reviews/product/%d", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &reviews, msgReviewsFailed); err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

func (c *client) CreateReview(ctx context.Context, review domain.NewReview) (*domain.Review, error) {
	var created domain.Review
	if err := c.do(ctx, http.MethodPost, "/reviews", review, &created, msgSubmitFailed); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *client) ProductRating(ctx context.Context, productID int64) (*domain.ProductRating, error) {
	var rating domain.ProductRating
	path := fmt.Sprintf("/reviews/product/%d/rating", productID)
	if err := c.do(ctx, http.MethodGet, path, nil, &rating, msgRatingFailed); err != nil {
		return nil, err
	}
	return &rating, nil
}

// do выполняет запрос и декодирует JSON-ответ в out.
// Ошибки HTTP превращаются в ErrBackend с текстом из {error} либо fallback.
func (c *client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	reqURL := c.baseURL + path

	c.logger.Debug("Calling directory backend",
		zap.String("method", method),
		zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return errors.ErrNetwork.WithMessage(fallback)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sc, ok := session.FromContext(ctx); ok && sc.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sc.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("Directory backend unreachable",
			zap.String("url", reqURL),
			zap.Error(err))
		return errors.ErrNetwork.WithMessage(fallback)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("Failed to read response", zap.Error(err))
		return errors.ErrNetwork.WithMessage(fallback)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fallback
		var payload errorPayload
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		c.logger.Warn("Directory backend returned error",
			zap.String("url", reqURL),
			zap.Int("status_code", resp.StatusCode),
			zap.String("message", msg))
		return errors.ErrBackend.WithMessage(msg).WithDetails(map[string]interface{}{
			"status": resp.StatusCode,
		})
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Error("Failed to decode response",
			zap.String("url", reqURL),
			zap.Error(err))
		return errors.ErrBackend.WithMessage(fallback)
	}
	return nil
}
