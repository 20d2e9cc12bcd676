package dto

import (
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/utils"
)

// ScreenView - всё, что нужно тонкому клиенту для отрисовки экрана
type ScreenView struct {
	ID              string             `json:"id"`
	Level           domain.DrillLevel  `json:"level"`
	Criteria        CriteriaView       `json:"criteria"`
	Loading         LoadingView        `json:"loading"`
	Error           *ErrorView         `json:"error,omitempty"`
	Vendors         []VendorView       `json:"vendors"`
	SelectedVendor  *VendorView        `json:"selectedVendor,omitempty"`
	Products        []ProductView      `json:"products"`
	SelectedProduct *ProductView       `json:"selectedProduct,omitempty"`
	Reviews         []ReviewView       `json:"reviews"`
	Rating          *RatingView        `json:"rating,omitempty"`
	ReviewForm      ReviewFormView     `json:"reviewForm"`
	Map             MapView            `json:"map"`
	UserLocation    *domain.Coordinate `json:"userLocation,omitempty"`
	Identity        *IdentityView      `json:"identity,omitempty"`
}

type CriteriaView struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	RadiusKm  int      `json:"radiusKm"`
	Category  string   `json:"category"`
}

type LoadingView struct {
	Search   bool `json:"search"`
	Products bool `json:"products"`
	Reviews  bool `json:"reviews"`
}

type ErrorView struct {
	Code    string `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type VendorView struct {
	Index       int                `json:"index"`
	ID          domain.EntityID    `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Email       string             `json:"email,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	Address     *string            `json:"address,omitempty"`
	Description *string            `json:"description,omitempty"`
	Location    *domain.Coordinate `json:"location,omitempty"`
	DistanceKm  *float64           `json:"distanceKm,omitempty"`
	Directions  bool               `json:"directions"`
}

type ProductView struct {
	Index        int             `json:"index"`
	ID           domain.EntityID `json:"id"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Price        string          `json:"price"`
	Category     *string         `json:"category,omitempty"`
	Availability *string         `json:"availability,omitempty"`
}

type ReviewView struct {
	ID      domain.EntityID        `json:"id"`
	UserID  domain.EntityID        `json:"userId"`
	Rating  int                    `json:"rating"`
	Stars   [domain.MaxRating]bool `json:"stars"`
	Comment *string                `json:"comment,omitempty"`
	Date    string                 `json:"date,omitempty"`
}

type RatingView struct {
	Average     float64                `json:"average"`
	Count       int                    `json:"count"`
	FilledStars int                    `json:"filledStars"`
	Stars       [domain.MaxRating]bool `json:"stars"`
	Summary     string                 `json:"summary"`
}

type ReviewFormView struct {
	Open    bool   `json:"open"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type MapView struct {
	Status    domain.MapStatus `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	Markers   []domain.Marker  `json:"markers"`
	Viewport  domain.Viewport  `json:"viewport"`
	StaticURL string           `json:"staticUrl,omitempty"`
}

type IdentityView struct {
	ID    domain.EntityID `json:"id"`
	Name  string          `json:"name,omitempty"`
	Email string          `json:"email,omitempty"`
	Role  string          `json:"role,omitempty"`
}

// ScreenCreatedResponse - ответ на создание экрана
type ScreenCreatedResponse struct {
	ID string `json:"id"`
}

// CategoriesResponse - список категорий формы поиска
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ConvertVendor builds the list row; origin adds the straight-line distance.
func ConvertVendor(index int, v domain.Vendor, origin *domain.Coordinate) VendorView {
	view := VendorView{
		Index:       index,
		ID:          v.ID,
		Name:        v.Name,
		Category:    v.Category,
		Email:       v.Email,
		Phone:       v.Phone,
		Address:     v.Address,
		Description: v.Description,
		Location:    v.Location,
		Directions:  v.Location != nil,
	}
	if origin != nil && v.Location != nil {
		d := utils.RoundTo(utils.HaversineDistance(origin.Lat, origin.Lon, v.Location.Lat, v.Location.Lon), 2)
		view.DistanceKm = &d
	}
	return view
}

func ConvertProduct(index int, p domain.Product) ProductView {
	return ProductView{
		Index:        index,
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price.String(),
		Category:     p.Category,
		Availability: p.Availability,
	}
}

func ConvertReview(r domain.Review) ReviewView {
	return ReviewView{
		ID:      r.ID,
		UserID:  r.UserID,
		Rating:  r.Rating,
		Stars:   domain.StarRow(r.Rating),
		Comment: r.Comment,
		Date:    r.DisplayDate(),
	}
}

func ConvertRating(r domain.ProductRating) *RatingView {
	return &RatingView{
		Average:     utils.RoundTo(r.AverageRating, 1),
		Count:       r.ReviewCount,
		FilledStars: r.FilledStars(),
		Stars:       domain.StarRow(r.FilledStars()),
		Summary:     r.Summary(),
	}
}

func ConvertIdentity(i *domain.Identity) *IdentityView {
	if i == nil {
		return nil
	}
	return &IdentityView{ID: i.ID, Name: i.Name, Email: i.Email, Role: i.Role}
}
