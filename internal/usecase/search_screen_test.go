package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
	"github.com/vendor-discovery/internal/usecase"
	"github.com/vendor-discovery/internal/usecase/dto"
)

var sfOrigin = domain.Coordinate{Lat: 37.0, Lon: -122.0}

func searchAt(t *testing.T, screen *usecase.SearchScreen, origin domain.Coordinate) {
	t.Helper()
	screen.UpdateCriteria(dto.CriteriaRequest{Latitude: ptr(origin.Lat), Longitude: ptr(origin.Lon)})
	require.NoError(t, screen.Search())
	screen.Wait()
}

// drillToBagel searches, selects Joe's Deli and its bagel.
func drillToBagel(t *testing.T, repo *MockDirectoryRepository, rating *domain.ProductRating, reviews []domain.Review) *usecase.SearchScreen {
	t.Helper()
	repo.On("NearbyVendors", mock.Anything, sfOrigin, 10, "").Return([]domain.Vendor{joesDeli}, nil)
	repo.On("ProductsByVendor", mock.Anything, int64(1)).Return([]domain.Product{bagel, coffee}, nil)
	if rating != nil {
		repo.On("ProductRating", mock.Anything, int64(10)).Return(rating, nil)
	} else {
		repo.On("ProductRating", mock.Anything, int64(10)).Return(nil, errBackendDown)
	}
	repo.On("ReviewsByProduct", mock.Anything, int64(10)).Return(reviews, nil).Once()

	screen := newScreen(repo, nil)
	searchAt(t, screen, sfOrigin)
	require.NoError(t, screen.SelectVendor(0))
	screen.Wait()
	require.NoError(t, screen.SelectProduct(0))
	screen.Wait()
	require.Equal(t, domain.LevelProductSelected, screen.View().Level)
	return screen
}

func TestSearchScreen_SearchPlotsMarkers(t *testing.T) {
	repo := &MockDirectoryRepository{}
	repo.On("NearbyVendors", mock.Anything, sfOrigin, 10, "").Return([]domain.Vendor{joesDeli}, nil)

	screen := newScreen(repo, nil)
	defer screen.Close()
	searchAt(t, screen, sfOrigin)

	view := screen.View()
	require.Len(t, view.Vendors, 1)
	assert.Equal(t, "Joe's Deli", view.Vendors[0].Name)
	assert.True(t, view.Vendors[0].Directions)
	require.NotNil(t, view.Vendors[0].DistanceKm)
	assert.Equal(t, 0.0, *view.Vendors[0].DistanceKm)
	assert.False(t, view.Loading.Search)
	assert.Nil(t, view.Error)

	assert.Equal(t, domain.MapReady, view.Map.Status)
	require.Len(t, view.Map.Markers, 1)
	assert.Equal(t, sfOrigin, view.Map.Markers[0].Position)

	popup, err := screen.ClickMarker(view.Map.Markers[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Joe's Deli", popup.Label)
	assert.Equal(t, "Food & Beverage", popup.Category)

	_, err = screen.ClickMarker("missing")
	assert.ErrorIs(t, err, errors.ErrNoSelection)
}

func TestSearchScreen_ValidationNeverCallsBackend(t *testing.T) {
	repo := &MockDirectoryRepository{}
	screen := newScreen(repo, nil)
	defer screen.Close()

	screen.UpdateCriteria(dto.CriteriaRequest{Latitude: ptr(37.0)})
	err := screen.Search()
	assert.ErrorIs(t, err, errors.ErrMissingCoordinates)
	screen.Wait()

	view := screen.View()
	require.NotNil(t, view.Error)
	assert.Equal(t, "Please enter latitude and longitude", view.Error.Message)
	assert.Empty(t, view.Vendors)
	repo.AssertNotCalled(t, "NearbyVendors", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	screen.UpdateCriteria(dto.CriteriaRequest{Longitude: ptr(-122.0), RadiusKm: ptr(0)})
	assert.ErrorIs(t, screen.Search(), errors.ErrInvalidRadius)
}

func TestSearchScreen_LatestSearchWins(t *testing.T) {
	originA := domain.Coordinate{Lat: 10, Lon: 10}
	originB := domain.Coordinate{Lat: 20, Lon: 20}
	vendorA := domain.Vendor{ID: "1", Name: "A", Location: &originA}
	vendorB := domain.Vendor{ID: "2", Name: "B", Location: &originB}

	release := make(chan struct{})
	repo := &MockDirectoryRepository{}
	repo.On("NearbyVendors", mock.Anything, originA, 10, "").
		Run(func(mock.Arguments) { <-release }).
		Return([]domain.Vendor{vendorA}, nil)
	repo.On("NearbyVendors", mock.Anything, originB, 10, "").
		Return([]domain.Vendor{vendorB}, nil)

	screen := newScreen(repo, nil)
	defer screen.Close()

	screen.UpdateCriteria(dto.CriteriaRequest{Latitude: ptr(originA.Lat), Longitude: ptr(originA.Lon)})
	require.NoError(t, screen.Search())
	screen.UpdateCriteria(dto.CriteriaRequest{Latitude: ptr(originB.Lat), Longitude: ptr(originB.Lon)})
	require.NoError(t, screen.Search())

	assert.Eventually(t, func() bool {
		v := screen.View()
		return len(v.Vendors) == 1 && v.Vendors[0].Name == "B"
	}, time.Second, 5*time.Millisecond)

	// A отвечает последним
	close(release)
	screen.Wait()

	view := screen.View()
	require.Len(t, view.Vendors, 1)
	assert.Equal(t, "B", view.Vendors[0].Name)
	require.Len(t, view.Map.Markers, 1)
	assert.Equal(t, originB, view.Map.Markers[0].Position)
	assert.Nil(t, view.Error)
}

func TestSearchScreen_ImplicitLocationAfterSearch(t *testing.T) {
	located := domain.Coordinate{Lat: 40.7, Lon: -74.0}
	release := make(chan struct{})

	geo := &MockGeolocationProvider{}
	geo.On("RequestLocation", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(located, nil)
	repo := &MockDirectoryRepository{}
	repo.On("NearbyVendors", mock.Anything, sfOrigin, 10, "").Return([]domain.Vendor{joesDeli}, nil)

	screen := newScreen(repo, geo)
	defer screen.Close()

	screen.Locate(context.Background(), false)
	screen.UpdateCriteria(dto.CriteriaRequest{Latitude: ptr(sfOrigin.Lat), Longitude: ptr(sfOrigin.Lon)})
	require.NoError(t, screen.Search())

	close(release)
	screen.Wait()

	view := screen.View()
	assert.Equal(t, sfOrigin.Lat, *view.Criteria.Latitude)
	assert.Equal(t, sfOrigin.Lon, *view.Criteria.Longitude)
	require.NotNil(t, view.UserLocation)
	assert.Equal(t, located, *view.UserLocation)
	assert.Equal(t, sfOrigin, view.Map.Markers[0].Position)

	t.Run("explicit request moves the origin", func(t *testing.T) {
		screen.Locate(context.Background(), true)
		screen.Wait()
		view := screen.View()
		assert.Equal(t, located.Lat, *view.Criteria.Latitude)
		assert.Equal(t, located.Lon, *view.Criteria.Longitude)
	})
}

func TestSearchScreen_LocationBeforeSearchFillsOrigin(t *testing.T) {
	located := domain.Coordinate{Lat: 40.7, Lon: -74.0}
	geo := &MockGeolocationProvider{}
	geo.On("RequestLocation", mock.Anything).Return(located, nil)

	screen := newScreen(&MockDirectoryRepository{}, geo)
	defer screen.Close()

	screen.Locate(context.Background(), false)
	screen.Wait()

	view := screen.View()
	assert.Equal(t, located.Lat, *view.Criteria.Latitude)
	assert.Equal(t, located, view.Map.Viewport.Center)
}

func TestSearchScreen_LocationDenied(t *testing.T) {
	geo := &MockGeolocationProvider{}
	geo.On("RequestLocation", mock.Anything).Return(domain.Coordinate{}, errors.ErrPermissionDenied)

	screen := newScreen(&MockDirectoryRepository{}, geo)
	defer screen.Close()

	screen.Locate(context.Background(), true)
	screen.Wait()

	view := screen.View()
	assert.Nil(t, view.Criteria.Latitude)
	require.NotNil(t, view.Error)
	assert.Equal(t, "Unable to get your location. Please enter coordinates manually.", view.Error.Message)
	assert.Equal(t, "degraded", view.Error.Kind)
}

func TestSearchScreen_DrillDown(t *testing.T) {
	t.Run("vendor then back", func(t *testing.T) {
		repo := &MockDirectoryRepository{}
		repo.On("NearbyVendors", mock.Anything, sfOrigin, 10, "").Return([]domain.Vendor{joesDeli}, nil)
		repo.On("ProductsByVendor", mock.Anything, int64(1)).Return([]domain.Product{bagel}, nil)

		screen := newScreen(repo, nil)
		defer screen.Close()
		searchAt(t, screen, sfOrigin)

		require.NoError(t, screen.SelectVendor(0))
		screen.Wait()
		view := screen.View()
		assert.Equal(t, domain.LevelVendorSelected, view.Level)
		require.NotNil(t, view.SelectedVendor)
		assert.Equal(t, "Joe's Deli", view.SelectedVendor.Name)
		require.Len(t, view.Products, 1)
		assert.Equal(t, "2.50", view.Products[0].Price)

		assert.Equal(t, domain.LevelBrowsing, screen.Back())
		view = screen.View()
		assert.Nil(t, view.SelectedVendor)
		assert.Empty(t, view.Products)
		assert.Len(t, view.Vendors, 1)
	})

	t.Run("non-numeric vendor id", func(t *testing.T) {
		repo := &MockDirectoryRepository{}
		repo.On("NearbyVendors", mock.Anything, sfOrigin, 10, "").
			Return([]domain.Vendor{{ID: "abc", Name: "Odd"}}, nil)

		screen := newScreen(repo, nil)
		defer screen.Close()
		searchAt(t, screen, sfOrigin)

		err := screen.SelectVendor(0)
		assert.ErrorIs(t, err, errors.ErrInvalidVendorID)
		screen.Wait()

		view := screen.View()
		assert.Equal(t, domain.LevelVendorSelected, view.Level)
		assert.Empty(t, view.Products)
		require.NotNil(t, view.Error)
		assert.Equal(t, "Unable to load products: invalid vendor id.", view.Error.Message)
		repo.AssertNotCalled(t, "ProductsByVendor", mock.Anything, mock.Anything)
	})

	t.Run("out of range index", func(t *testing.T) {
		screen := newScreen(&MockDirectoryRepository{}, nil)
		defer screen.Close()
		assert.ErrorIs(t, screen.SelectVendor(0), errors.ErrNoSelection)
		assert.ErrorIs(t, screen.SelectProduct(0), errors.ErrInvalidTransition)
	})

	t.Run("products failure keeps the vendor", func(t *testing.T) {
		repo := &MockDirectoryRepository{}
		repo.On("NearbyVendors", mock.Anything, sfOrigin, 10, "").Return([]domain.Vendor{joesDeli}, nil)
		repo.On("ProductsByVendor", mock.Anything, int64(1)).Return(nil, errBackendDown)

		screen := newScreen(repo, nil)
		defer screen.Close()
		searchAt(t, screen, sfOrigin)
		require.NoError(t, screen.SelectVendor(0))
		screen.Wait()

		view := screen.View()
		assert.Equal(t, domain.LevelVendorSelected, view.Level)
		assert.Empty(t, view.Products)
		require.NotNil(t, view.Error)
		assert.Equal(t, "Failed to load vendor products", view.Error.Message)
	})

	t.Run("new results return to browsing", func(t *testing.T) {
		repo := &MockDirectoryRepository{}
		screen := drillToBagel(t, repo, nil, []domain.Review{})
		defer screen.Close()

		require.NoError(t, screen.Search())
		screen.Wait()
		assert.Equal(t, domain.LevelBrowsing, screen.View().Level)
	})
}

func TestSearchScreen_ProductRating(t *testing.T) {
	repo := &MockDirectoryRepository{}
	reviews := []domain.Review{
		{ID: "1", UserID: "5", ProductID: "10", Rating: 4, Comment: ptr("Tasty"), CreatedAt: "2024-03-05T10:00:00Z"},
	}
	screen := drillToBagel(t, repo, &domain.ProductRating{AverageRating: 4.2, ReviewCount: 7}, reviews)
	defer screen.Close()

	view := screen.View()
	require.NotNil(t, view.SelectedProduct)
	assert.Equal(t, "Bagel", view.SelectedProduct.Name)
	require.NotNil(t, view.Rating)
	assert.Equal(t, 4, view.Rating.FilledStars)
	assert.Equal(t, [5]bool{true, true, true, true, false}, view.Rating.Stars)
	assert.Equal(t, "4.2 (7 reviews)", view.Rating.Summary)

	require.Len(t, view.Reviews, 1)
	assert.Equal(t, "05/03/2024", view.Reviews[0].Date)

	t.Run("back keeps the product list", func(t *testing.T) {
		assert.Equal(t, domain.LevelVendorSelected, screen.Back())
		view := screen.View()
		assert.Len(t, view.Products, 2)
		assert.Nil(t, view.SelectedProduct)
		assert.Empty(t, view.Reviews)
	})
}

func TestSearchScreen_RatingFallsBackToReviews(t *testing.T) {
	repo := &MockDirectoryRepository{}
	reviews := []domain.Review{{ID: "1", Rating: 5}, {ID: "2", Rating: 4}}
	screen := drillToBagel(t, repo, nil, reviews)
	defer screen.Close()

	view := screen.View()
	require.NotNil(t, view.Rating)
	assert.Equal(t, "4.5 (2 reviews)", view.Rating.Summary)
	assert.Nil(t, view.Error)
}

func TestSearchScreen_ReviewSubmission(t *testing.T) {
	t.Run("unauthenticated submit", func(t *testing.T) {
		repo := &MockDirectoryRepository{}
		existing := []domain.Review{{ID: "1", Rating: 3}}
		screen := drillToBagel(t, repo, nil, existing)
		defer screen.Close()

		open, err := screen.ToggleReviewForm()
		require.NoError(t, err)
		assert.True(t, open)
		require.NoError(t, screen.EditReviewForm(4, "Great"))

		_, err = screen.SubmitReview(context.Background())
		assert.ErrorIs(t, err, errors.ErrUnauthenticated)
		screen.Wait()

		view := screen.View()
		assert.Equal(t, "Please login to add a review", view.Error.Message)
		assert.Len(t, view.Reviews, 1)
		assert.True(t, view.ReviewForm.Open)
		assert.Equal(t, 4, view.ReviewForm.Rating)
		assert.Equal(t, "Great", view.ReviewForm.Comment)
		repo.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
	})

	t.Run("success refreshes reviews and resets the form", func(t *testing.T) {
		repo := &MockDirectoryRepository{}
		screen := drillToBagel(t, repo, nil, []domain.Review{})
		defer screen.Close()

		created := &domain.Review{ID: "7", UserID: "42", ProductID: "10", Rating: 4, Comment: ptr("Great")}
		repo.On("CreateReview", mock.Anything, domain.NewReview{UserID: 42, ProductID: 10, Rating: 4, Comment: "Great"}).
			Return(created, nil)
		repo.On("ReviewsByProduct", mock.Anything, int64(10)).Return([]domain.Review{*created}, nil)

		screen.ApplyIdentity(&domain.Identity{ID: "42", Name: "Ann"}, "tok")
		_, _ = screen.ToggleReviewForm()
		require.NoError(t, screen.EditReviewForm(4, "Great"))

		review, err := screen.SubmitReview(context.Background())
		require.NoError(t, err)
		assert.Equal(t, created, review)
		screen.Wait()

		view := screen.View()
		assert.False(t, view.ReviewForm.Open)
		assert.Equal(t, 5, view.ReviewForm.Rating)
		assert.Empty(t, view.ReviewForm.Comment)
		require.Len(t, view.Reviews, 1)
		assert.Equal(t, "4.0 (1 reviews)", view.Rating.Summary)
		repo.AssertNumberOfCalls(t, "ReviewsByProduct", 2)
	})

	t.Run("failure keeps the form", func(t *testing.T) {
		repo := &MockDirectoryRepository{}
		screen := drillToBagel(t, repo, nil, []domain.Review{})
		defer screen.Close()

		repo.On("CreateReview", mock.Anything, mock.Anything).
			Return(nil, errors.ErrBackend.WithMessage("Failed to submit review"))

		screen.ApplyIdentity(&domain.Identity{ID: "42"}, "tok")
		_, _ = screen.ToggleReviewForm()
		require.NoError(t, screen.EditReviewForm(2, "Meh"))

		_, err := screen.SubmitReview(context.Background())
		require.Error(t, err)

		view := screen.View()
		assert.True(t, view.ReviewForm.Open)
		assert.Equal(t, 2, view.ReviewForm.Rating)
		assert.Equal(t, "Failed to submit review", view.Error.Message)
	})

	t.Run("logout closes the form", func(t *testing.T) {
		repo := &MockDirectoryRepository{}
		screen := drillToBagel(t, repo, nil, []domain.Review{})
		defer screen.Close()

		screen.ApplyIdentity(&domain.Identity{ID: "42"}, "tok")
		_, _ = screen.ToggleReviewForm()
		require.True(t, screen.View().ReviewForm.Open)

		screen.ApplyIdentity(nil, "")
		view := screen.View()
		assert.False(t, view.ReviewForm.Open)
		assert.Nil(t, view.Identity)
		assert.False(t, screen.Session().Authenticated())
	})

	t.Run("form needs a product", func(t *testing.T) {
		screen := newScreen(&MockDirectoryRepository{}, nil)
		defer screen.Close()
		_, err := screen.ToggleReviewForm()
		assert.ErrorIs(t, err, errors.ErrInvalidTransition)
		_, err = screen.SubmitReview(context.Background())
		assert.ErrorIs(t, err, errors.ErrInvalidTransition)
	})
}

func TestSearchScreen_Directions(t *testing.T) {
	repo := &MockDirectoryRepository{}
	repo.On("NearbyVendors", mock.Anything, sfOrigin, 10, "").
		Return([]domain.Vendor{joesDeli, {ID: "2", Name: "Nowhere"}}, nil)

	screen := newScreen(repo, nil)
	defer screen.Close()
	searchAt(t, screen, sfOrigin)

	link, err := screen.DirectionsTo(0)
	require.NoError(t, err)
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&destination=37%2C-122", link.URL)

	_, err = screen.DirectionsTo(1)
	assert.ErrorIs(t, err, errors.ErrDirectionsUnavailable)
	assert.False(t, screen.View().Vendors[1].Directions)

	_, err = screen.DirectionsTo(5)
	assert.ErrorIs(t, err, errors.ErrNoSelection)
}

func TestSearchScreen_DegradedMap(t *testing.T) {
	repo := &MockDirectoryRepository{}
	repo.On("NearbyVendors", mock.Anything, sfOrigin, 10, "").Return([]domain.Vendor{joesDeli}, nil)

	screen := newScreenWithMap(repo, nil, &fakeMapLibrary{err: errors.ErrMapCredentialMissing})
	defer screen.Close()
	searchAt(t, screen, sfOrigin)

	view := screen.View()
	assert.Equal(t, domain.MapDegraded, view.Map.Status)
	assert.Equal(t, "Map is unavailable: no access token configured", view.Map.Reason)
	assert.Empty(t, view.Map.Markers)
	assert.Len(t, view.Vendors, 1)

	png, err := screen.RenderMap(320, 240)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
