package usecase

import (
	"github.com/vendor-discovery/internal/domain"
	"github.com/vendor-discovery/internal/pkg/errors"
)

// Fetch - билет на загрузку дочернего списка. Применяется только пока
// его поколение актуально.
type Fetch struct {
	Generation uint64
	ID         int64
}

// DrillNavigator - машина состояний Browsing -> VendorSelected ->
// ProductSelected. Не потокобезопасна: экран вызывает её под своим мьютексом.
// Загрузки двухфазные: Select* выдаёт Fetch, Apply* применяет ответ.
type DrillNavigator struct {
	state       domain.DrillState
	productsGen uint64
	reviewsGen  uint64
}

func NewDrillNavigator() *DrillNavigator {
	return &DrillNavigator{state: domain.Browsing{}}
}

func (n *DrillNavigator) State() domain.DrillState {
	return n.state
}

func (n *DrillNavigator) Level() domain.DrillLevel {
	return n.state.Level()
}

// SelectVendor enters VendorSelected for v from any level. An id that is
// missing or not numeric leaves an empty product list and returns the
// matching validation error; no fetch is issued then.
func (n *DrillNavigator) SelectVendor(v domain.Vendor) (Fetch, error) {
	n.productsGen++
	n.reviewsGen++

	id, err := v.ID.Int64()
	if err != nil {
		n.state = domain.VendorSelected{Vendor: v, Products: []domain.Product{}}
		if errors.Is(err, domain.ErrIDMissing) {
			return Fetch{}, errors.ErrMissingVendorID
		}
		return Fetch{}, errors.ErrInvalidVendorID
	}

	n.state = domain.VendorSelected{Vendor: v, Loading: true}
	return Fetch{Generation: n.productsGen, ID: id}, nil
}

// ApplyProducts stores a products response. A failed fetch keeps the vendor
// selected with an empty list. Reports false for stale responses.
func (n *DrillNavigator) ApplyProducts(f Fetch, products []domain.Product, fetchErr error) bool {
	st, ok := n.state.(domain.VendorSelected)
	if !ok || f.Generation != n.productsGen {
		return false
	}
	st.Loading = false
	if fetchErr != nil || products == nil {
		products = []domain.Product{}
	}
	st.Products = products
	n.state = st
	return true
}

// SelectProduct enters ProductSelected. Allowed from VendorSelected and from
// ProductSelected (switching product under the same vendor).
func (n *DrillNavigator) SelectProduct(p domain.Product) (Fetch, error) {
	var parent domain.VendorSelected
	switch st := n.state.(type) {
	case domain.VendorSelected:
		parent = st
	case domain.ProductSelected:
		parent = st.Parent
	default:
		return Fetch{}, errors.ErrInvalidTransition
	}

	id, err := p.ID.Int64()
	if err != nil {
		return Fetch{}, errors.ErrInvalidProductID
	}

	n.reviewsGen++
	n.state = domain.ProductSelected{Parent: parent, Product: p, Loading: true}
	return Fetch{Generation: n.reviewsGen, ID: id}, nil
}

// RefreshReviews re-issues the reviews fetch of the selected product.
// Reviews already on screen stay until the response is applied.
func (n *DrillNavigator) RefreshReviews() (Fetch, error) {
	st, ok := n.state.(domain.ProductSelected)
	if !ok {
		return Fetch{}, errors.ErrInvalidTransition
	}
	id, err := st.Product.ID.Int64()
	if err != nil {
		return Fetch{}, errors.ErrInvalidProductID
	}
	n.reviewsGen++
	st.Loading = true
	n.state = st
	return Fetch{Generation: n.reviewsGen, ID: id}, nil
}

// ApplyReviews stores a reviews response together with the backend rating
// (nil when the rating call failed).
func (n *DrillNavigator) ApplyReviews(f Fetch, reviews []domain.Review, rating *domain.ProductRating, fetchErr error) bool {
	st, ok := n.state.(domain.ProductSelected)
	if !ok || f.Generation != n.reviewsGen {
		return false
	}
	st.Loading = false
	if fetchErr != nil {
		// при повторной загрузке старый список остаётся
		if st.Reviews == nil {
			st.Reviews = []domain.Review{}
		}
		n.state = st
		return true
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	st.Reviews = reviews
	st.Rating = rating
	n.state = st
	return true
}

// Back goes one level up. The vendor's product list is kept as it was when
// leaving a product. Reports false at Browsing.
func (n *DrillNavigator) Back() bool {
	switch st := n.state.(type) {
	case domain.ProductSelected:
		n.reviewsGen++
		n.state = st.Parent
		return true
	case domain.VendorSelected:
		n.productsGen++
		n.reviewsGen++
		n.state = domain.Browsing{}
		return true
	}
	return false
}

// Reset returns to Browsing and invalidates every pending fetch.
func (n *DrillNavigator) Reset() {
	n.productsGen++
	n.reviewsGen++
	n.state = domain.Browsing{}
}
