package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Review - отзыв. Подсистема только добавляет и перечитывает отзывы.
type Review struct {
	ID        EntityID `json:"id"`
	UserID    EntityID `json:"userId"`
	ProductID EntityID `json:"productId"`
	Rating    int      `json:"rating"`
	Comment   *string  `json:"comment,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DisplayDate formats CreatedAt as dd/mm/yyyy; "" when missing or unparsable.
func (r Review) DisplayDate() string {
	s := strings.TrimSpace(r.CreatedAt)
	if s == "" {
		return ""
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return ""
}

// NewReview - тело POST /reviews
type NewReview struct {
	UserID    int64  `json:"userId"`
	ProductID int64  `json:"productId"`
	Rating    int    `json:"rating" validate:"min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// ProductRating - агрегат рейтинга от бэкенда
type ProductRating struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// RatingFromReviews computes the aggregate locally. Used only when the
// backend rating endpoint is unavailable.
func RatingFromReviews(reviews []Review) ProductRating {
	if len(reviews) == 0 {
		return ProductRating{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return ProductRating{
		AverageRating: float64(sum) / float64(len(reviews)),
		ReviewCount:   len(reviews),
	}
}

// FilledStars rounds the average to whole stars, clamped to 0..5.
func (r ProductRating) FilledStars() int {
	n := int(math.Round(r.AverageRating))
	if n < 0 {
		return 0
	}
	if n > MaxRating {
		return MaxRating
	}
	return n
}

// Summary renders e.g. "4.2 (7 reviews)".
func (r ProductRating) Summary() string {
	return fmt.Sprintf("%.1f (%d reviews)", r.AverageRating, r.ReviewCount)
}

// StarRow returns one flag per star position, true when filled.
func StarRow(filled int) [MaxRating]bool {
	var row [MaxRating]bool
	for i := 0; i < MaxRating; i++ {
		row[i] = i < filled
	}
	return row
}
