package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/pkg/utils"
)

// SearchRequest - выданный запрос поиска с поколением
type SearchRequest struct {
	Generation uint64
	Origin     domain.Coordinate
	RadiusKm   int
	Category   string
}

// DiscoveryQuery - поиск продавцов рядом. Побеждает последний выданный
// запрос: ответ более старого отбрасывается как ErrSuperseded.
type DiscoveryQuery struct {
	repo       repository.DirectoryRepository
	logger     *zap.Logger
	generation atomic.Uint64
}

func NewDiscoveryQuery(repo repository.DirectoryRepository, logger *zap.Logger) *DiscoveryQuery {
	return &DiscoveryQuery{repo: repo, logger: logger}
}

// Validate checks criteria without touching the network.
func (q *DiscoveryQuery) Validate(criteria domain.SearchCriteria) (domain.Coordinate, error) {
	origin, ok := criteria.Origin()
	if !ok {
		return domain.Coordinate{}, errors.ErrMissingCoordinates
	}
	if !utils.ValidateCoordinates(origin.Lat, origin.Lon) {
		return domain.Coordinate{}, errors.ErrInvalidCoordinates
	}
	if !utils.ValidateRadius(criteria.RadiusKm) {
		return domain.Coordinate{}, errors.ErrInvalidRadius
	}
	return origin, nil
}

// Begin validates criteria and issues a new generation. Issuing makes every
// earlier request stale.
func (q *DiscoveryQuery) Begin(criteria domain.SearchCriteria) (*SearchRequest, error) {
	origin, err := q.Validate(criteria)
	if err != nil {
		return nil, err
	}
	return &SearchRequest{
		Generation: q.generation.Add(1),
		Origin:     origin,
		RadiusKm:   criteria.RadiusKm,
		Category:   criteria.Category,
	}, nil
}

// Run performs the backend call of an issued request.
func (q *DiscoveryQuery) Run(ctx context.Context, req *SearchRequest) ([]domain.Vendor, error) {
	start := time.Now()

	vendors, err := q.repo.NearbyVendors(ctx, req.Origin, req.RadiusKm, req.Category)
	if !q.IsCurrent(req.Generation) {
		q.logger.Debug("Search response superseded",
			zap.Uint64("generation", req.Generation))
		return nil, errors.ErrSuperseded
	}
	if err != nil {
		q.logger.Warn("Vendor search failed",
			zap.Uint64("generation", req.Generation),
			zap.Error(err))
		return nil, err
	}

	q.logger.Debug("Vendor search completed",
		zap.Uint64("generation", req.Generation),
		zap.Int("vendors", len(vendors)),
		zap.Duration("took", time.Since(start)))
	return vendors, nil
}

// Search is Begin followed by Run.
func (q *DiscoveryQuery) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Vendor, error) {
	req, err := q.Begin(criteria)
	if err != nil {
		return nil, err
	}
	return q.Run(ctx, req)
}

func (q *DiscoveryQuery) IsCurrent(generation uint64) bool {
	return q.generation.Load() == generation
}
