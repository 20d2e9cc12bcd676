package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/domain/repository"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/pkg/validator"
	"github.com/vendor-discovery/internal/session"
)

// ReviewForm - состояние формы отзыва
type ReviewForm struct {
	Open    bool   `json:"open"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func defaultReviewForm() ReviewForm {
	return ReviewForm{Rating: domain.DefaultRating}
}

// ReviewComposer держит форму отзыва и отправляет её.
// Форма не потокобезопасна (экран держит мьютекс), Submit - потокобезопасен.
type ReviewComposer struct {
	repo   repository.DirectoryRepository
	logger *zap.Logger
	form   ReviewForm
}

func NewReviewComposer(repo repository.DirectoryRepository, logger *zap.Logger) *ReviewComposer {
	return &ReviewComposer{
		repo:   repo,
		logger: logger,
		form:   defaultReviewForm(),
	}
}

func (c *ReviewComposer) Form() ReviewForm {
	return c.form
}

// Toggle is the Add Review / Cancel button. Values survive a cancel.
func (c *ReviewComposer) Toggle() bool {
	c.form.Open = !c.form.Open
	return c.form.Open
}

func (c *ReviewComposer) Close() {
	c.form.Open = false
}

// Edit updates the star rating and comment between submissions.
func (c *ReviewComposer) Edit(rating int, comment string) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return errors.ErrInvalidRating
	}
	c.form.Rating = rating
	c.form.Comment = comment
	return nil
}

// Complete resets the form after a successful submission and closes it.
func (c *ReviewComposer) Complete() {
	c.form = defaultReviewForm()
}

// Submit posts the review of sc's identity for product. Without an
// identity it fails with ErrUnauthenticated before any network call.
func (c *ReviewComposer) Submit(ctx context.Context, sc session.Context, product domain.EntityID, form ReviewForm) (*domain.Review, error) {
	userID, err := sc.UserID()
	if err != nil {
		return nil, err
	}

	productID, err := product.Int64()
	if err != nil {
		return nil, errors.ErrInvalidProductID
	}

	review := domain.NewReview{
		UserID:    userID,
		ProductID: productID,
		Rating:    form.Rating,
		Comment:   strings.TrimSpace(form.Comment),
	}
	if err := validator.ValidateRequest(review); err != nil {
		return nil, err
	}

	created, err := c.repo.CreateReview(session.NewContext(ctx, sc), review)
	if err != nil {
		c.logger.Warn("Review submission failed",
			zap.Int64("product_id", productID),
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, err
	}

	c.logger.Info("Review submitted",
		zap.Int64("product_id", productID),
		zap.Int64("user_id", userID),
		zap.Int("rating", review.Rating))
	return created, nil
}
