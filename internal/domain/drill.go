package domain

// DrillLevel - уровень навигации
type DrillLevel string

const (
	LevelBrowsing        DrillLevel = "browsing"
	LevelVendorSelected  DrillLevel = "vendor_selected"
	LevelProductSelected DrillLevel = "product_selected"
)

// DrillState is one of Browsing, VendorSelected or ProductSelected. The
// set is closed; a product selection always carries its vendor selection.
type DrillState interface {
	Level() DrillLevel
	drillState()
}

type Browsing struct{}

type VendorSelected struct {
	Vendor   Vendor
	Products []Product
	Loading  bool
}

type ProductSelected struct {
	Parent  VendorSelected
	Product Product
	Reviews []Review
	Rating  *ProductRating
	Loading bool
}

func (Browsing) Level() DrillLevel        { return LevelBrowsing }
func (VendorSelected) Level() DrillLevel  { return LevelVendorSelected }
func (ProductSelected) Level() DrillLevel { return LevelProductSelected }

func (Browsing) drillState()        {}
func (VendorSelected) drillState()  {}
func (ProductSelected) drillState() {}

// SelectedVendor returns the vendor of any non-browsing state.
func SelectedVendor(s DrillState) (Vendor, bool) {
	switch st := s.(type) {
	case VendorSelected:
		return st.Vendor, true
	case ProductSelected:
		return st.Parent.Vendor, true
	}
	return Vendor{}, false
}

// EffectiveRating prefers the backend aggregate and falls back to the
// reviews on screen.
func (s ProductSelected) EffectiveRating() ProductRating {
	if s.Rating != nil {
		return *s.Rating
	}
	return RatingFromReviews(s.Reviews)
}
